// Package molecule holds the resolution domain: the identity a compound name
// resolves to, where that identity came from, how its 3D structure can be
// fetched later, and the ordered fallback chain that produces it.
package molecule

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Source
// ─────────────────────────────────────────────────────────────────────────────

// Source tags which step of the chain produced an identity.
type Source string

const (
	SourceCatalog     Source = "catalog"
	SourcePubChem     Source = "pubchem"
	SourceOPSIN       Source = "opsin"
	SourceCIR         Source = "cir"
	SourcePlaceholder Source = "placeholder"
)

// IsValid reports whether s is one of the known sources.
func (s Source) IsValid() bool {
	switch s {
	case SourceCatalog, SourcePubChem, SourceOPSIN, SourceCIR, SourcePlaceholder:
		return true
	}
	return false
}

func (s Source) String() string { return string(s) }

// ─────────────────────────────────────────────────────────────────────────────
// StructureRef
// ─────────────────────────────────────────────────────────────────────────────

// StructureRefKind selects how the structure proxy locates a 3D file.
type StructureRefKind string

const (
	StructureByCID    StructureRefKind = "cid"
	StructureBySMILES StructureRefKind = "smiles"
)

// StructureRef is a retrieval descriptor handed to the structure-file proxy.
// Exactly one of CID or SMILES is meaningful, selected by Kind.
type StructureRef struct {
	Kind   StructureRefKind `json:"kind"`
	CID    int64            `json:"cid,omitempty"`
	SMILES string           `json:"smiles,omitempty"`
	Get3D  bool             `json:"get3d,omitempty"`
}

// RefByCID points at the PubChem 3D record for cid.
func RefByCID(cid int64) *StructureRef {
	return &StructureRef{Kind: StructureByCID, CID: cid}
}

// RefBySMILES points at a structure generated from smiles.
func RefBySMILES(smiles string) *StructureRef {
	return &StructureRef{Kind: StructureBySMILES, SMILES: smiles, Get3D: true}
}

// Validate checks that the descriptor is usable.
func (r StructureRef) Validate() error {
	switch r.Kind {
	case StructureByCID:
		if r.CID <= 0 {
			return errors.New(errors.ErrCodeMoleculeInvalidIdentifier, "cid must be a positive integer").
				WithDetail(strconv.FormatInt(r.CID, 10))
		}
	case StructureBySMILES:
		if strings.TrimSpace(r.SMILES) == "" {
			return errors.New(errors.ErrCodeMoleculeInvalidSMILES, "smiles must not be empty")
		}
	default:
		return errors.InvalidParam(fmt.Sprintf("unknown structure reference kind %q", r.Kind))
	}
	return nil
}

// ProxyPath renders the relative structure-proxy URL for this reference,
// e.g. "/api/molecule/sdf?cid=2244".
func (r StructureRef) ProxyPath() string {
	q := url.Values{}
	switch r.Kind {
	case StructureByCID:
		q.Set("cid", strconv.FormatInt(r.CID, 10))
	case StructureBySMILES:
		q.Set("smiles", r.SMILES)
		q.Set("get3d", strconv.FormatBool(r.Get3D))
	default:
		return ""
	}
	return "/api/molecule/sdf?" + q.Encode()
}

// ─────────────────────────────────────────────────────────────────────────────
// CompoundIdentity
// ─────────────────────────────────────────────────────────────────────────────

// CompoundIdentity is the resolved identifiers for a compound name together
// with the step that supplied them.  Optional fields are zero when the source
// did not provide them.
type CompoundIdentity struct {
	DisplayName      string
	NormalizedName   string
	Source           Source
	CID              int64
	SMILES           string
	InChI            string
	InChIKey         string
	MolecularFormula string
	MolecularWeight  float64
	Structure        *StructureRef
}

// HasCID reports whether a PubChem compound id is present.
func (c CompoundIdentity) HasCID() bool { return c.CID > 0 }

// IsPlaceholder reports whether the identity is the guaranteed fallback.
func (c CompoundIdentity) IsPlaceholder() bool { return c.Source == SourcePlaceholder }

// HasStructureIdentifier reports whether SMILES or InChI is populated.
func (c CompoundIdentity) HasStructureIdentifier() bool {
	return strings.TrimSpace(c.SMILES) != "" || strings.TrimSpace(c.InChI) != ""
}

// Validate enforces the minimum a step must deliver to end the chain: a known
// source and at least one of SMILES or InChI.
func (c CompoundIdentity) Validate() error {
	if !c.Source.IsValid() {
		return errors.InvalidParam(fmt.Sprintf("unknown source %q", c.Source))
	}
	if !c.HasStructureIdentifier() {
		return errors.New(errors.ErrCodeMoleculeInvalidIdentifier, "identity has neither SMILES nor InChI").
			WithDetail(string(c.Source))
	}
	if c.Structure != nil {
		return c.Structure.Validate()
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Placeholder
// ─────────────────────────────────────────────────────────────────────────────

// Ethanol is the stand-in structure used when every resolver step fails.
const (
	PlaceholderSMILES  = "CCO"
	PlaceholderInChI   = "InChI=1S/C2H6O/c1-2-3/h3H,2H2,1H3"
	PlaceholderFormula = "C2H6O"
	PlaceholderWeight  = 46.07
)

// Placeholder builds the fallback identity for q.  It cannot fail.
func Placeholder(q Query) CompoundIdentity {
	return CompoundIdentity{
		DisplayName:      q.DisplayName,
		NormalizedName:   q.NormalizedName,
		Source:           SourcePlaceholder,
		SMILES:           PlaceholderSMILES,
		InChI:            PlaceholderInChI,
		MolecularFormula: PlaceholderFormula,
		MolecularWeight:  PlaceholderWeight,
		Structure:        RefBySMILES(PlaceholderSMILES),
	}
}

//Personal.AI order the ending
