package chemdb

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/turtacn/axiomgfx-dili/internal/domain/molecule"
	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

const pubchemProperties = "IsomericSMILES,CanonicalSMILES,SMILES,InChI,InChIKey,MolecularFormula,MolecularWeight"

type cidResponse struct {
	IdentifierList struct {
		CID []int64 `json:"CID"`
	} `json:"IdentifierList"`
}

// Properties is one row of a PUG REST property table.
type Properties struct {
	CID              int64       `json:"CID"`
	IsomericSMILES   string      `json:"IsomericSMILES"`
	CanonicalSMILES  string      `json:"CanonicalSMILES"`
	SMILES           string      `json:"SMILES"`
	InChI            string      `json:"InChI"`
	InChIKey         string      `json:"InChIKey"`
	MolecularFormula string      `json:"MolecularFormula"`
	MolecularWeight  FlexFloat64 `json:"MolecularWeight"`
}

// BestSMILES prefers isomeric, then canonical, then plain SMILES.
func (p Properties) BestSMILES() string {
	for _, s := range []string{p.IsomericSMILES, p.CanonicalSMILES, p.SMILES} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

type propertyResponse struct {
	PropertyTable struct {
		Properties []Properties `json:"Properties"`
	} `json:"PropertyTable"`
}

// FlexFloat64 decodes a JSON number or a numeric string.  PubChem has served
// MolecularWeight both ways.
type FlexFloat64 float64

func (f *FlexFloat64) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = FlexFloat64(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = FlexFloat64(v)
	return nil
}

// PubChem is a PUG REST client.  It also serves as the pubchem step of the
// resolution chain.
type PubChem struct {
	*baseClient
}

// NewPubChem builds a client rooted at opts.BaseURL.
func NewPubChem(opts Options) *PubChem {
	return &PubChem{baseClient: newBaseClient(ProviderPubChem, opts)}
}

// LookupCIDs returns the compound ids PubChem associates with name.
func (p *PubChem) LookupCIDs(ctx context.Context, name string) ([]int64, error) {
	resp, err := p.get(ctx, request{
		op:         "cids",
		path:       "/rest/pug/compound/name/{name}/cids/JSON",
		pathParams: map[string]string{"name": name},
		accept:     "application/json",
	})
	if err != nil {
		return nil, err
	}
	var out cidResponse
	if err := p.decodeJSON(resp, "cids", &out); err != nil {
		return nil, err
	}
	return out.IdentifierList.CID, nil
}

// Properties fetches the identifier properties of cid.
func (p *PubChem) Properties(ctx context.Context, cid int64) (*Properties, error) {
	resp, err := p.get(ctx, request{
		op:   "properties",
		path: "/rest/pug/compound/cid/{cid}/property/{props}/JSON",
		pathParams: map[string]string{
			"cid":   strconv.FormatInt(cid, 10),
			"props": pubchemProperties,
		},
		accept: "application/json",
	})
	if err != nil {
		return nil, err
	}
	var out propertyResponse
	if err := p.decodeJSON(resp, "properties", &out); err != nil {
		return nil, err
	}
	if len(out.PropertyTable.Properties) == 0 {
		return nil, p.fail(errors.ErrCodeDataSourceEmpty, "returned an empty property table", "properties", nil)
	}
	props := out.PropertyTable.Properties[0]
	if props.CID == 0 {
		props.CID = cid
	}
	return &props, nil
}

// Fetch3DSDF downloads the 3D conformer record for cid.
func (p *PubChem) Fetch3DSDF(ctx context.Context, cid int64) ([]byte, error) {
	resp, err := p.get(ctx, request{
		op:         "sdf3d",
		path:       "/rest/pug/compound/cid/{cid}/record/SDF",
		pathParams: map[string]string{"cid": strconv.FormatInt(cid, 10)},
		query:      map[string]string{"record_type": "3d"},
	})
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Name implements molecule.Step.
func (p *PubChem) Name() string { return string(molecule.SourcePubChem) }

// Attempt implements molecule.Step: first CID for the normalized name, then
// its properties.
func (p *PubChem) Attempt(ctx context.Context, q molecule.Query) (molecule.CompoundIdentity, error) {
	cids, err := p.LookupCIDs(ctx, q.NormalizedName)
	if err != nil {
		return molecule.CompoundIdentity{}, asMiss(ProviderPubChem, err)
	}
	if len(cids) == 0 || cids[0] <= 0 {
		return molecule.CompoundIdentity{}, molecule.NoMatch(ProviderPubChem)
	}
	cid := cids[0]

	props, err := p.Properties(ctx, cid)
	if err != nil {
		return molecule.CompoundIdentity{}, err
	}
	// A CID with either structure identifier is a hit; the proxy serves the
	// structure by CID, so a missing SMILES is fine.
	smiles := props.BestSMILES()
	if smiles == "" && props.InChI == "" {
		return molecule.CompoundIdentity{}, p.fail(errors.ErrCodeDataSourceEmpty, "returned neither SMILES nor InChI", "properties", nil)
	}
	return molecule.CompoundIdentity{
		Source:           molecule.SourcePubChem,
		CID:              cid,
		SMILES:           smiles,
		InChI:            props.InChI,
		InChIKey:         props.InChIKey,
		MolecularFormula: props.MolecularFormula,
		MolecularWeight:  float64(props.MolecularWeight),
		Structure:        molecule.RefByCID(cid),
	}, nil
}

var _ molecule.Step = (*PubChem)(nil)

// asMiss turns an upstream 404 into a chain miss; other failures pass through.
func asMiss(provider string, err error) error {
	var ae *errors.AppError
	if errors.As(err, &ae) && ae.UpstreamStatus == 404 {
		return molecule.NoMatch(provider).WithCause(err)
	}
	return err
}

//Personal.AI order the ending
