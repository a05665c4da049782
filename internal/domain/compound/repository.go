package compound

import (
	"context"
)

// Repository is read access to the compound library.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Compound, error)
	// FindBySMILES matches the stored SMILES exactly.
	FindBySMILES(ctx context.Context, smiles string) (*Compound, error)
	List(ctx context.Context, opts ...QueryOption) (*Page, error)
	Count(ctx context.Context) (int, error)
}

// Page is one slice of a filtered, sorted listing.
type Page struct {
	Compounds []*Compound
	Total     int
	Page      int
	Pages     int
	HasNext   bool
	HasPrev   bool
}

//Personal.AI order the ending
