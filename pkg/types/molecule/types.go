// Package molecule defines the wire types of the molecule API: name
// resolution, batch resolution and the compound-name mapping.  They carry no
// behaviour and are safe to import from the SDK.
package molecule

// Source values reported in ResolveResponse.Source.
const (
	SourceCatalog     = "catalog"
	SourcePubChem     = "pubchem"
	SourceOPSIN       = "opsin"
	SourceCIR         = "cir"
	SourcePlaceholder = "placeholder"
)

// SDFContentType is the media type of proxied structure files.
const SDFContentType = "chemical/x-mdl-sdfile"

// ResolveRequest is the body of POST /api/molecule/resolve.
type ResolveRequest struct {
	Name string `json:"name"`
}

// ResolveResponse is a resolved compound identity.  Optional fields are
// omitted when the source did not supply them.  SDF3DURL is relative to the
// API base.
type ResolveResponse struct {
	Source           string  `json:"source"`
	Name             string  `json:"name"`
	NormalizedName   string  `json:"normalized_name"`
	CID              int64   `json:"cid,omitempty"`
	SMILES           string  `json:"smiles,omitempty"`
	InChI            string  `json:"inchi,omitempty"`
	InChIKey         string  `json:"inchi_key,omitempty"`
	SDF3DURL         string  `json:"sdf3d_url,omitempty"`
	MolecularFormula string  `json:"molecular_formula,omitempty"`
	MolecularWeight  float64 `json:"molecular_weight,omitempty"`
}

// IsPlaceholder reports whether every resolver step missed.
func (r ResolveResponse) IsPlaceholder() bool { return r.Source == SourcePlaceholder }

// BatchResolveRequest is the body of POST /api/molecule/resolve/batch.
type BatchResolveRequest struct {
	Names []string `json:"names"`
}

// BatchResolveResponse preserves the order of the request names.
type BatchResolveResponse struct {
	Results []ResolveResponse `json:"results"`
}

// MappingResponse answers GET /api/molecule/compound-mapping/{name}.
type MappingResponse struct {
	OriginalName string `json:"original_name"`
	MappedName   string `json:"mapped_name"`
	Mapped       bool   `json:"mapped"`
}

// HealthResponse answers GET /api/molecule/healthz.
type HealthResponse struct {
	OK bool `json:"ok"`
}

//Personal.AI order the ending
