package molecule

import "sort"

// CatalogEntry is a pre-resolved record keyed by its display name.
type CatalogEntry struct {
	Name             string
	CID              int64
	SMILES           string
	InChI            string
	InChIKey         string
	MolecularFormula string
	MolecularWeight  float64
}

// Catalog is an immutable name → record map consulted before any network
// call.  Lookups are exact and case-sensitive on the trimmed display name.
type Catalog struct {
	entries map[string]CatalogEntry
}

// NewCatalog indexes entries by Name.  Later duplicates replace earlier ones.
func NewCatalog(entries []CatalogEntry) *Catalog {
	m := make(map[string]CatalogEntry, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}
	return &Catalog{entries: m}
}

// Lookup returns the catalog identity for q.DisplayName.
func (c *Catalog) Lookup(q Query) (CompoundIdentity, bool) {
	if c == nil {
		return CompoundIdentity{}, false
	}
	e, ok := c.entries[q.DisplayName]
	if !ok {
		return CompoundIdentity{}, false
	}
	id := CompoundIdentity{
		DisplayName:      q.DisplayName,
		NormalizedName:   q.NormalizedName,
		Source:           SourceCatalog,
		CID:              e.CID,
		SMILES:           e.SMILES,
		InChI:            e.InChI,
		InChIKey:         e.InChIKey,
		MolecularFormula: e.MolecularFormula,
		MolecularWeight:  e.MolecularWeight,
	}
	if e.CID > 0 {
		id.Structure = RefByCID(e.CID)
	} else {
		id.Structure = RefBySMILES(e.SMILES)
	}
	return id, true
}

// Names lists every catalog key, sorted.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len is the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// DefaultCatalog is the built-in set of reference compounds shown on the
// dashboard.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultEntries)
}

var defaultEntries = []CatalogEntry{
	{
		Name: "Metformin", CID: 4091,
		SMILES:           "CN(C)C(=N)N=C(N)N",
		InChI:            "InChI=1S/C4H11N5/c1-9(2)4(7)8-3(5)6/h1-2H3,(H5,5,6,7,8)",
		InChIKey:         "XZWYZXLIPXDOLR-UHFFFAOYSA-N",
		MolecularFormula: "C4H11N5", MolecularWeight: 129.16,
	},
	{
		Name: "Aspirin", CID: 2244,
		SMILES:           "CC(=O)OC1=CC=CC=C1C(=O)O",
		InChI:            "InChI=1S/C9H8O4/c1-6(10)13-8-5-3-2-4-7(8)9(11)12/h2-5H,1H3,(H,11,12)",
		InChIKey:         "BSYNRYMUTXBXSQ-UHFFFAOYSA-N",
		MolecularFormula: "C9H8O4", MolecularWeight: 180.16,
	},
	{
		Name: "Ibuprofen", CID: 3672,
		SMILES:           "CC(C)CC1=CC=C(C=C1)C(C)C(=O)O",
		InChI:            "InChI=1S/C13H18O2/c1-9(2)8-11-4-6-12(7-5-11)10(3)13(14)15/h4-7,9-10H,8H2,1-3H3,(H,14,15)",
		InChIKey:         "HEFNNWSXXWATRW-UHFFFAOYSA-N",
		MolecularFormula: "C13H18O2", MolecularWeight: 206.28,
	},
	{
		Name: "Acetaminophen", CID: 1983,
		SMILES:           "CC(=O)NC1=CC=C(C=C1)O",
		InChI:            "InChI=1S/C8H9NO2/c1-6(10)9-7-2-4-8(11)5-3-7/h2-5,11H,1H3,(H,9,10)",
		InChIKey:         "RZVAJINKPMORJF-UHFFFAOYSA-N",
		MolecularFormula: "C8H9NO2", MolecularWeight: 151.16,
	},
	{
		Name: "Valproic Acid", CID: 3121,
		SMILES:           "CCCC(CCC)C(=O)O",
		InChI:            "InChI=1S/C8H16O2/c1-3-5-7(6-4-2)8(9)10/h7H,3-6H2,1-2H3,(H,9,10)",
		InChIKey:         "NIJJYAXOARWZEE-UHFFFAOYSA-N",
		MolecularFormula: "C8H16O2", MolecularWeight: 144.21,
	},
	{
		Name: "Phenytoin", CID: 1775,
		SMILES:           "C1=CC=C(C=C1)C2(C(=O)NC(=O)N2)C3=CC=CC=C3",
		InChI:            "InChI=1S/C15H12N2O2/c18-13-15(17-14(19)16-13,11-7-3-1-4-8-11)12-9-5-2-6-10-12/h1-10H,(H2,16,17,18,19)",
		InChIKey:         "CXOFVDLJLONNDW-UHFFFAOYSA-N",
		MolecularFormula: "C15H12N2O2", MolecularWeight: 252.27,
	},
	{
		Name: "Carbamazepine", CID: 2554,
		SMILES:           "C1=CC=C2C(=C1)C=CC3=CC=CC=C3N2C(=O)N",
		InChI:            "InChI=1S/C15H12N2O/c16-15(18)17-13-7-3-1-5-11(13)9-10-12-6-2-4-8-14(12)17/h1-10H,(H2,16,18)",
		InChIKey:         "FFGPTBGBLSHEPO-UHFFFAOYSA-N",
		MolecularFormula: "C15H12N2O", MolecularWeight: 236.27,
	},
	{
		Name: "Diclofenac", CID: 3033,
		SMILES:           "C1=CC=C(C(=C1)CC(=O)O)NC2=C(C=CC=C2Cl)Cl",
		InChI:            "InChI=1S/C14H11Cl2NO2/c15-10-5-3-6-11(16)14(10)17-12-7-2-1-4-9(12)8-13(18)19/h1-7,17H,8H2,(H,18,19)",
		InChIKey:         "DCOPUUMXTXDBNB-UHFFFAOYSA-N",
		MolecularFormula: "C14H11Cl2NO2", MolecularWeight: 296.1,
	},
	{
		Name: "Warfarin", CID: 54678486,
		SMILES:           "CC(=O)CC(C1=CC=CC=C1)C2=C(C3=CC=CC=C3OC2=O)O",
		MolecularFormula: "C19H16O4", MolecularWeight: 308.3,
	},
	{
		Name: "Amiodarone", CID: 2157,
		SMILES:           "CCCCC1=C(C2=CC=CC=C2O1)C(=O)C3=CC(=C(C(=C3)I)OCCN(CC)CC)I",
		MolecularFormula: "C25H29I2NO3", MolecularWeight: 645.3,
	},
	{
		Name: "Ketoconazole", CID: 456201,
		SMILES:           "CC(=O)N1CCN(CC1)C2=CC=C(C=C2)OCC3COC(O3)(CN4C=CN=C4)C5=C(C=C(C=C5)Cl)Cl",
		MolecularFormula: "C26H28Cl2N4O4", MolecularWeight: 531.4,
	},
	{
		Name: "Nefazodone", CID: 4449,
		SMILES:           "CCC1=NN(C(=O)N1CCOC2=CC=CC=C2)CCCN3CCN(CC3)C4=CC(=CC=C4)Cl",
		MolecularFormula: "C25H32ClN5O2", MolecularWeight: 470.0,
	},
	{
		Name: "Troglitazone", CID: 5591,
		SMILES:           "CC1=C(C2=C(CCC(O2)(C)COC3=CC=C(C=C3)CC4C(=O)NC(=O)S4)C(=C1O)C)C",
		MolecularFormula: "C24H27NO5S", MolecularWeight: 441.5,
	},
	{
		Name: "Atorvastatin", CID: 60823,
		SMILES:           "CC(C)C1=C(C(=C(N1CCC(CC(CC(=O)O)O)O)C2=CC=C(C=C2)F)C3=CC=CC=C3)C(=O)NC4=CC=CC=C4",
		MolecularFormula: "C33H35FN2O5", MolecularWeight: 558.6,
	},
	{
		Name: "Lisinopril", CID: 5362119,
		SMILES:           "C1CC(N(C1)C(=O)C(CCCCN)NC(CCC2=CC=CC=C2)C(=O)O)C(=O)O",
		MolecularFormula: "C21H31N3O5", MolecularWeight: 405.5,
	},
	{
		Name: "Simvastatin", CID: 54454,
		SMILES:           "CCC(C)(C)C(=O)OC1CC(C=C2C1C(C(C=C2)C)CCC3CC(CC(=O)O3)O)C",
		MolecularFormula: "C25H38O5", MolecularWeight: 418.6,
	},
	{
		Name: "Lovastatin", CID: 53232,
		SMILES:           "CCC(C)C(=O)OC1CC(C=C2C1C(C(C=C2)C)CCC3CC(CC(=O)O3)O)C",
		MolecularFormula: "C24H36O5", MolecularWeight: 404.5,
	},
	{
		Name: "Pravastatin", CID: 54687,
		SMILES:           "CCC(C)C(=O)OC1CC(C=C2C1C(C(C=C2)C)CCC(CC(CC(=O)O)O)O)O",
		MolecularFormula: "C23H36O7", MolecularWeight: 424.5,
	},
	{
		Name: "Rosuvastatin", CID: 446157,
		SMILES:           "CC(C)C1=NC(=NC(=C1C=CC(CC(CC(=O)O)O)O)C2=CC=C(C=C2)F)N(C)S(=O)(=O)C",
		MolecularFormula: "C22H28FN3O6S", MolecularWeight: 481.5,
	},
	{
		Name: "Fluvastatin", CID: 446155,
		SMILES:           "CC(C)N1C2=CC=CC=C2C(=C1C=CC(CC(CC(=O)O)O)O)C3=CC=C(C=C3)F",
		MolecularFormula: "C24H26FNO4", MolecularWeight: 411.5,
	},
}

//Personal.AI order the ending
