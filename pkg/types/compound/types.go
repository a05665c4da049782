// Package compound defines the wire types of the compound library and
// dose-response endpoints.
package compound

// Risk categories.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Assay types accepted by the dose-response endpoint.
const (
	AssayCellViability = "cell_viability"
	AssayCytoplasmArea = "cytoplasm_area"
	AssayCellDeath     = "cell_death"
	AssayNecrosis      = "necrosis"
	AssayApoptosis     = "apoptosis"
	AssayMitochondrial = "mitochondrial_toxicity"
)

// Compound is one library entry.  Concentrations are in µM.
type Compound struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	TC20            float64 `json:"tc20"`
	TC50            float64 `json:"tc50"`
	EC20            float64 `json:"ec20"`
	EC50            float64 `json:"ec50"`
	RiskScore       float64 `json:"riskScore"`
	SMILES          string  `json:"smiles,omitempty"`
	MolecularWeight float64 `json:"molecular_weight,omitempty"`
	LogP            float64 `json:"logp"`
}

// CompoundDetail adds the derived grading, risk profile and per-assay
// endpoints to a compound.
type CompoundDetail struct {
	Compound
	RiskCategory string        `json:"risk_category"`
	SafetyMargin float64       `json:"safety_margin"`
	RiskProfile  RiskProfile   `json:"dili_risk_profile"`
	AssayResults []AssayResult `json:"assay_results"`
}

// Endpoints are potency readouts in µM.
type Endpoints struct {
	TC20 float64 `json:"tc20"`
	TC50 float64 `json:"tc50"`
	EC20 float64 `json:"ec20"`
	EC50 float64 `json:"ec50"`
}

// RiskProfile is an assessed DILI risk.  RiskCategory is graded on the lower
// safety window bound: above 100x Cmax is Low, above 10x Medium.
type RiskProfile struct {
	CompoundID       string             `json:"compound_id"`
	CompoundName     string             `json:"compound_name"`
	RiskScore        float64            `json:"risk_score"`
	RiskCategory     string             `json:"risk_category"`
	SafetyWindow     [2]float64         `json:"safety_window"`
	TherapeuticIndex float64            `json:"therapeutic_index"`
	EstimatedCmax    float64            `json:"estimated_cmax"`
	MechanismScores  map[string]float64 `json:"mechanism_scores"`
	Recommendations  []string           `json:"recommendations"`
	Confidence       float64            `json:"confidence"`
}

// AssayResult is one imaging readout of a compound.
type AssayResult struct {
	Endpoints
	AssayType      string  `json:"assay_type"`
	Confidence     float64 `json:"confidence"`
	ReplicateCount int     `json:"replicate_count"`
	QualityScore   float64 `json:"quality_score"`
}

// PredictRequest is the body of POST /api/predict/dili-risk.
type PredictRequest struct {
	SMILES       string     `json:"smiles"`
	CompoundName string     `json:"compound_name,omitempty"`
	AssayData    *Endpoints `json:"assay_data,omitempty"`
}

// PredictResponse answers POST /api/predict/dili-risk.  FromLibrary reports
// that the SMILES matched a library compound and its stored data was used.
type PredictResponse struct {
	RiskProfile
	SMILES          string  `json:"smiles"`
	FromLibrary     bool    `json:"from_library"`
	MolecularWeight float64 `json:"molecular_weight"`
	LogP            float64 `json:"logp"`
}

// ListResponse is one page of GET /api/compounds.
type ListResponse struct {
	Compounds []Compound `json:"compounds"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	Pages     int        `json:"pages"`
	HasNext   bool       `json:"has_next"`
	HasPrev   bool       `json:"has_prev"`
}

// ListParams are the query parameters of GET /api/compounds.  Zero values
// are omitted from the request.
type ListParams struct {
	Skip         int
	Limit        int
	Search       string
	RiskCategory string
	TC50Min      *float64
	TC50Max      *float64
	SortBy       string
	SortOrder    string
}

type DosePoint struct {
	X                  float64    `json:"x"`
	Y                  float64    `json:"y"`
	ConfidenceInterval [2]float64 `json:"confidence_interval"`
	ReplicateCount     int        `json:"replicate_count"`
	StandardError      float64    `json:"standard_error"`
}

type CurveFit struct {
	EC50      float64 `json:"ec50"`
	HillSlope float64 `json:"hill_slope"`
	Top       float64 `json:"top"`
	Bottom    float64 `json:"bottom"`
	Equation  string  `json:"equation"`
}

type QualityMetrics struct {
	ZFactor            float64 `json:"z_factor"`
	SignalToBackground float64 `json:"signal_to_background"`
	CVPercent          float64 `json:"cv_percent"`
	DataCompleteness   float64 `json:"data_completeness"`
}

// DoseResponse answers GET /api/dose-response/{id}.
type DoseResponse struct {
	CompoundID     string         `json:"compound_id"`
	AssayType      string         `json:"assay_type"`
	Points         []DosePoint    `json:"points"`
	CurveFit       CurveFit       `json:"curve_fit"`
	QualityMetrics QualityMetrics `json:"quality_metrics"`
}

// DoseResponseParams are the query parameters of the dose-response endpoint.
type DoseResponseParams struct {
	AssayType string
	HillSlope *float64
	Noise     bool
}

//Personal.AI order the ending
