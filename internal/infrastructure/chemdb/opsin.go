package chemdb

import (
	"context"
	"strings"

	"github.com/turtacn/axiomgfx-dili/internal/domain/molecule"
)

type opsinResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	SMILES  string `json:"smiles"`
}

// OPSIN parses systematic IUPAC names.  It is the opsin step of the chain.
type OPSIN struct {
	*baseClient
}

// NewOPSIN builds a client rooted at opts.BaseURL.
func NewOPSIN(opts Options) *OPSIN {
	return &OPSIN{baseClient: newBaseClient(ProviderOPSIN, opts)}
}

// ParseName returns the SMILES OPSIN derives from name, or "" when it
// answered without one.
func (o *OPSIN) ParseName(ctx context.Context, name string) (string, error) {
	resp, err := o.get(ctx, request{
		op:         "parse",
		path:       "/opsin/{name}.json",
		pathParams: map[string]string{"name": name},
		accept:     "application/json",
	})
	if err != nil {
		return "", err
	}
	var out opsinResponse
	if err := o.decodeJSON(resp, "parse", &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.SMILES), nil
}

func (o *OPSIN) Name() string { return string(molecule.SourceOPSIN) }

// Attempt implements molecule.Step.  Only SMILES is taken from OPSIN.
func (o *OPSIN) Attempt(ctx context.Context, q molecule.Query) (molecule.CompoundIdentity, error) {
	smiles, err := o.ParseName(ctx, q.NormalizedName)
	if err != nil {
		return molecule.CompoundIdentity{}, asMiss(ProviderOPSIN, err)
	}
	if smiles == "" {
		return molecule.CompoundIdentity{}, molecule.NoMatch(ProviderOPSIN)
	}
	return molecule.CompoundIdentity{
		Source:    molecule.SourceOPSIN,
		SMILES:    smiles,
		Structure: molecule.RefBySMILES(smiles),
	}, nil
}

var _ molecule.Step = (*OPSIN)(nil)

//Personal.AI order the ending
