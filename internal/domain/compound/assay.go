package compound

import "math"

// resultAssays are the readouts reported per compound.
var resultAssays = []AssayType{
	AssayCellViability, AssayCytoplasmArea, AssayCellDeath, AssayNecrosis, AssayApoptosis,
}

// AssayResult is one readout's endpoint set for a compound.
type AssayResult struct {
	Endpoints
	AssayType      AssayType `json:"assay_type"`
	Confidence     float64   `json:"confidence"`
	ReplicateCount int       `json:"replicate_count"`
	QualityScore   float64   `json:"quality_score"`
}

// AssayResults spreads c's endpoints over the imaging readouts.  Each readout
// jitters around the library values (±5 µM for TC20/EC20, ±10 µM for
// TC50/EC50) and never goes negative.  A nil source reports the library
// values unchanged.
func AssayResults(c *Compound, r RandomSource) []AssayResult {
	out := make([]AssayResult, 0, len(resultAssays))
	for _, a := range resultAssays {
		out = append(out, AssayResult{
			AssayType: a,
			Endpoints: Endpoints{
				TC20: round(math.Max(0, c.TC20+uniform(r, -5, 5)), 2),
				TC50: round(math.Max(0, c.TC50+uniform(r, -10, 10)), 2),
				EC20: round(math.Max(0, c.EC20+uniform(r, -5, 5)), 2),
				EC50: round(math.Max(0, c.EC50+uniform(r, -10, 10)), 2),
			},
			Confidence:     round(0.85+uniform(r, -0.1, 0.1), 2),
			ReplicateCount: replicateCount,
			QualityScore:   round(math.Min(1, 0.9+uniform(r, -0.1, 0.1)), 2),
		})
	}
	return out
}

// QualityMetrics are the plate statistics reported with a curve.
type QualityMetrics struct {
	ZFactor            float64 `json:"z_factor"`
	SignalToBackground float64 `json:"signal_to_background"`
	CVPercent          float64 `json:"cv_percent"`
	DataCompleteness   float64 `json:"data_completeness"`
}

// AssessQuality draws plate statistics around typical screening values.
// Completeness never exceeds 1.
func AssessQuality(r RandomSource) QualityMetrics {
	return QualityMetrics{
		ZFactor:            round(0.7+uniform(r, -0.2, 0.2), 3),
		SignalToBackground: round(5.2+uniform(r, -1, 1), 2),
		CVPercent:          round(8.5+uniform(r, -3, 3), 2),
		DataCompleteness:   round(math.Min(1, 0.95+uniform(r, -0.05, 0.05)), 3),
	}
}

//Personal.AI order the ending
