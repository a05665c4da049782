package compound

import (
	"fmt"
	"math"
	"strings"

	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

// AssayType names an imaging readout.
type AssayType string

const (
	AssayCellViability AssayType = "cell_viability"
	AssayCytoplasmArea AssayType = "cytoplasm_area"
	AssayCellDeath     AssayType = "cell_death"
	AssayNecrosis      AssayType = "necrosis"
	AssayApoptosis     AssayType = "apoptosis"
	AssayMitochondrial AssayType = "mitochondrial_toxicity"
)

// ParseAssayType maps "" to cell_viability and rejects unknown names.
func ParseAssayType(s string) (AssayType, error) {
	a := AssayType(strings.TrimSpace(s))
	switch a {
	case "":
		return AssayCellViability, nil
	case AssayCellViability, AssayCytoplasmArea, AssayCellDeath, AssayNecrosis, AssayApoptosis, AssayMitochondrial:
		return a, nil
	}
	return "", errors.New(errors.ErrCodeDoseResponseInvalid, "unknown assay_type").WithDetail(s)
}

// Concentrations are the fixed dilution series in µM.
var Concentrations = []float64{0.01, 0.03, 0.1, 0.3, 1, 3, 10, 30, 100, 300}

const (
	// NoiseSigma is the standard deviation of added response noise.
	NoiseSigma        = 0.05
	replicateCount    = 3
	DefaultHillSlope  = 1.0
	hillEquationLabel = "Y = Bottom + (Top-Bottom)/(1+10^((LogEC50-X)*HillSlope))"
)

// DosePoint is one concentration of a curve.
type DosePoint struct {
	X                  float64    `json:"x"`
	Y                  float64    `json:"y"`
	ConfidenceInterval [2]float64 `json:"confidence_interval"`
	ReplicateCount     int        `json:"replicate_count"`
	StandardError      float64    `json:"standard_error"`
}

// CurveFit summarises the generating model of a curve.
type CurveFit struct {
	EC50      float64 `json:"ec50"`
	HillSlope float64 `json:"hill_slope"`
	Top       float64 `json:"top"`
	Bottom    float64 `json:"bottom"`
	Equation  string  `json:"equation"`
}

// DoseResponse is a generated curve for one compound and assay.
type DoseResponse struct {
	CompoundID string         `json:"compound_id"`
	AssayType  AssayType      `json:"assay_type"`
	Points     []DosePoint    `json:"points"`
	CurveFit   CurveFit       `json:"curve_fit"`
	Quality    QualityMetrics `json:"quality_metrics"`
}

// NoiseSource supplies standard normal deviates.  *rand.Rand from both
// math/rand and math/rand/v2 satisfies it.
type NoiseSource interface {
	NormFloat64() float64
}

// HillResponse evaluates the four-parameter logistic with bottom 0, top 1.
func HillResponse(x, ec50, hill float64) float64 {
	return 1 / (1 + math.Pow(10, (math.Log10(ec50)-math.Log10(x))*hill))
}

// GenerateCurve builds the points for ec50 and hill.  noise may be nil for a
// deterministic curve.
func GenerateCurve(ec50, hill float64, noise NoiseSource) ([]DosePoint, error) {
	if !(ec50 > 0) || math.IsInf(ec50, 0) {
		return nil, errors.New(errors.ErrCodeDoseResponseInvalid, "ec50 must be positive").
			WithDetail(fmt.Sprint(ec50))
	}
	if math.IsNaN(hill) || math.IsInf(hill, 0) || hill == 0 {
		return nil, errors.New(errors.ErrCodeDoseResponseInvalid, "hill_slope must be finite and non-zero").
			WithDetail(fmt.Sprint(hill))
	}

	points := make([]DosePoint, 0, len(Concentrations))
	for _, x := range Concentrations {
		y := HillResponse(x, ec50, hill)
		if noise != nil {
			y += noise.NormFloat64() * NoiseSigma
		}
		y = clamp01(y)

		width := 0.05
		if y > 0.1 {
			width = 0.1 * y
		}
		points = append(points, DosePoint{
			X:                  x,
			Y:                  y,
			ConfidenceInterval: [2]float64{math.Max(0, y-width), math.Min(1, y+width)},
			ReplicateCount:     replicateCount,
			StandardError:      width / 2,
		})
	}
	return points, nil
}

// FitSummary reports the model parameters alongside the observed extremes.
func FitSummary(points []DosePoint, ec50, hill float64) CurveFit {
	fit := CurveFit{EC50: ec50, HillSlope: hill, Equation: hillEquationLabel}
	for i, p := range points {
		if i == 0 || p.Y > fit.Top {
			fit.Top = p.Y
		}
		if i == 0 || p.Y < fit.Bottom {
			fit.Bottom = p.Y
		}
	}
	return fit
}

// BuildDoseResponse generates the full curve for c.  A noise source that
// also draws uniforms jitters the quality metrics too.
func BuildDoseResponse(c *Compound, assay AssayType, hill float64, noise NoiseSource) (*DoseResponse, error) {
	points, err := GenerateCurve(c.EC50, hill, noise)
	if err != nil {
		return nil, err
	}
	return &DoseResponse{
		CompoundID: c.ID,
		AssayType:  assay,
		Points:     points,
		CurveFit:   FitSummary(points, c.EC50, hill),
		Quality:    AssessQuality(uniformFrom(noise)),
	}, nil
}

func uniformFrom(noise NoiseSource) RandomSource {
	if r, ok := noise.(RandomSource); ok {
		return r
	}
	return nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

//Personal.AI order the ending
