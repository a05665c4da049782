package compound

import (
	"context"

	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

// Library is an in-memory, read-only Repository.  It is safe for concurrent
// use because nothing mutates it after construction; callers receive copies.
type Library struct {
	order []string
	byID  map[string]Compound
}

// NewLibrary indexes compounds by ID, keeping the given order as the
// tie-break for sorting.  Later duplicates replace earlier ones.
func NewLibrary(compounds []Compound) *Library {
	l := &Library{byID: make(map[string]Compound, len(compounds))}
	for _, c := range compounds {
		if _, dup := l.byID[c.ID]; !dup {
			l.order = append(l.order, c.ID)
		}
		l.byID[c.ID] = c
	}
	return l
}

// DefaultLibrary is the demo compound set.
func DefaultLibrary() *Library {
	return NewLibrary(demoCompounds)
}

func (l *Library) FindByID(ctx context.Context, id string) (*Compound, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, ok := l.byID[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeCompoundNotFound, "compound not found").WithDetail(id)
	}
	return &c, nil
}

func (l *Library) FindBySMILES(ctx context.Context, smiles string) (*Compound, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if smiles != "" {
		for _, id := range l.order {
			if c := l.byID[id]; c.SMILES == smiles {
				return &c, nil
			}
		}
	}
	return nil, errors.New(errors.ErrCodeCompoundNotFound, "no compound with that SMILES").WithDetail(smiles)
}

func (l *Library) List(ctx context.Context, opts ...QueryOption) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o := ApplyOptions(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	matched := make([]*Compound, 0, len(l.order))
	for _, id := range l.order {
		c := l.byID[id]
		if o.Matches(&c) {
			matched = append(matched, &c)
		}
	}
	o.Sort(matched)
	return o.Paginate(matched), nil
}

func (l *Library) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(l.order), nil
}

var _ Repository = (*Library)(nil)

var demoCompounds = []Compound{
	// Withdrawn or boxed-warning hepatotoxins.
	{ID: "nefazodone", Name: "Nefazodone", TC20: 29.26, TC50: 74.49, EC20: 43.10, EC50: 63.18, RiskScore: 3.94,
		SMILES: "CCC1=NN(C2=CC=CC=C2N1CCCN3CCN(CC3)C4=CC=CC(=C4)OC(=O)C5=CC=CC=C5Cl)C", MolecularWeight: 470.01, LogP: 4.7},
	{ID: "orfanglipron", Name: "Orfanglipron", TC20: 2.10, TC50: 6.00, EC20: 3.10, EC50: 7.20, RiskScore: 6.04,
		SMILES: "CC(C)(C)OC(=O)N1CCC(CC1)C(=O)N2CCC(CC2)C(=O)O", MolecularWeight: 385.45, LogP: 2.8},
	{ID: "troglitazone", Name: "Troglitazone", TC20: 8.5, TC50: 22.3, EC20: 12.1, EC50: 28.7, RiskScore: 7.2,
		SMILES: "CC1=C(C(=O)N(N1C)C2=CC=C(C=C2)C)C3=CC=C(C=C3)OCC4=CC=C(C=C4)CC5C(=O)NC(=O)S5", MolecularWeight: 441.54, LogP: 5.2},

	{ID: "ketoconazole", Name: "Ketoconazole", TC20: 15.8, TC50: 42.1, EC20: 18.9, EC50: 45.3, RiskScore: 4.1,
		SMILES: "CC(=O)N1CCN(CC1)C2=CC=C(C=C2)OCC3=C(C=CC=C3Cl)Cl", MolecularWeight: 531.43, LogP: 4.35},
	{ID: "diclofenac", Name: "Diclofenac", TC20: 25.4, TC50: 58.9, EC20: 22.7, EC50: 52.1, RiskScore: 3.8,
		SMILES: "O=C(O)CC1=CC=CC=C1NC2=C(Cl)C=CC=C2Cl", MolecularWeight: 296.15, LogP: 4.51},
	{ID: "amiodarone", Name: "Amiodarone", TC20: 18.2, TC50: 48.7, EC20: 21.5, EC50: 51.3, RiskScore: 4.3,
		SMILES: "CCCC1=CC(=C(C=C1)I)C(=O)C2=C(C=CC=C2I)OCCN(CC)CC", MolecularWeight: 645.31, LogP: 7.6},

	{ID: "sunitinib", Name: "Sunitinib", TC20: 4.43, TC50: 12.34, EC20: 6.08, EC50: 13.73, RiskScore: 1.22,
		SMILES: `CCN(CC)CCNC(=O)C1=C(NC(=C1C)/C=C/2\C3=C(NC2=O)C=C(C=C3)F)C`, MolecularWeight: 398.47, LogP: 2.9},
	{ID: "lotiglipron", Name: "Lotiglipron", TC20: 90.0, TC50: 120.0, EC20: 85.0, EC50: 115.0, RiskScore: 0.13,
		SMILES: "CC1=CC(=CC=C1)C2=CC=C(C=C2)C(=O)N3CCC(CC3)C(=O)O", MolecularWeight: 352.42, LogP: 2.1},
	{ID: "metformin", Name: "Metformin", TC20: 150.0, TC50: 280.0, EC20: 145.0, EC50: 275.0, RiskScore: 0.08,
		SMILES: "CN(C)C(=N)NC(=N)N", MolecularWeight: 129.16, LogP: -2.64},
	{ID: "aspirin", Name: "Aspirin", TC20: 125.0, TC50: 245.0, EC20: 118.0, EC50: 238.0, RiskScore: 0.25,
		SMILES: "CC(=O)OC1=CC=CC=C1C(=O)O", MolecularWeight: 180.16, LogP: 1.19},

	{ID: "ibuprofen", Name: "Ibuprofen", TC20: 85.3, TC50: 165.7, EC20: 78.9, EC50: 158.2, RiskScore: 0.45,
		SMILES: "CC(C)CC1=CC=C(C=C1)C(C)C(=O)O", MolecularWeight: 206.28, LogP: 3.97},
	{ID: "acetaminophen", Name: "Acetaminophen", TC20: 95.2, TC50: 185.4, EC20: 88.7, EC50: 178.9, RiskScore: 0.35,
		SMILES: "CC(=O)NC1=CC=C(C=C1)O", MolecularWeight: 151.16, LogP: 0.46},
	{ID: "warfarin", Name: "Warfarin", TC20: 45.8, TC50: 89.3, EC20: 42.1, EC50: 85.7, RiskScore: 2.1,
		SMILES: "CC(=O)CC(C1=CC=CC=C1)C2=C(C3=CC=CC=C3OC2=O)O", MolecularWeight: 308.33, LogP: 2.7},
	{ID: "simvastatin", Name: "Simvastatin", TC20: 65.4, TC50: 128.9, EC20: 61.2, EC50: 124.3, RiskScore: 1.8,
		SMILES: "CCC(C)(C)C(=O)OC1CC(C=C2C1C(C(C=C2)C)CCC3CC(CC(=O)O3)O)C", MolecularWeight: 418.57, LogP: 4.68},
	{ID: "atorvastatin", Name: "Atorvastatin", TC20: 72.1, TC50: 142.8, EC20: 68.5, EC50: 138.2, RiskScore: 1.5,
		SMILES: "CC(C)C1=C(C(=C(N1CC(CC(=O)O)O)C2=CC=C(C=C2)F)C3=CC=CC=C3)C(=O)NC4=CC=CC=C4", MolecularWeight: 558.64, LogP: 5.7},
	{ID: "lisinopril", Name: "Lisinopril", TC20: 110.5, TC50: 215.3, EC20: 105.8, EC50: 208.7, RiskScore: 0.18,
		SMILES: "CCCCN1CCCC1C(=O)N2CCCC2C(=O)N3CCC(CC3)C(=O)O", MolecularWeight: 405.49, LogP: -1.22},
	{ID: "omeprazole", Name: "Omeprazole", TC20: 55.7, TC50: 108.4, EC20: 52.3, EC50: 104.9, RiskScore: 2.3,
		SMILES: "COC1=CC2=C(C=C1)N=C(N2)S(=O)CC3=NC=C(C=C3OC)C", MolecularWeight: 345.42, LogP: 2.23},
	{ID: "fluoxetine", Name: "Fluoxetine", TC20: 38.9, TC50: 76.2, EC20: 35.4, EC50: 72.8, RiskScore: 2.8,
		SMILES: "CNCCC(C1=CC=CC=C1)OC2=CC=C(C=C2)C(F)(F)F", MolecularWeight: 309.33, LogP: 4.05},
	{ID: "sertraline", Name: "Sertraline", TC20: 42.3, TC50: 82.7, EC20: 39.1, EC50: 78.5, RiskScore: 2.5,
		SMILES: "CNC1CCC(C2=CC=CC=C12)C3=CC(=C(C=C3)Cl)Cl", MolecularWeight: 306.23, LogP: 5.1},
}

//Personal.AI order the ending
