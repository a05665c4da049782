package compound

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedUniform float64

func (f fixedUniform) Float64() float64 { return float64(f) }

func TestEstimateCmax(t *testing.T) {
	// Reference mass and logP give the base Cmax.
	assert.InDelta(t, 10.0, EstimateCmax(400, 3, nil), 1e-12)
	assert.InDelta(t, 10.0, EstimateCmax(0, 3, nil), 1e-12, "unknown mass uses the reference")
	// Light molecules are floored at 200 Da.
	assert.InDelta(t, 20.0, EstimateCmax(120, 3, nil), 1e-12)
	assert.InDelta(t, 12.0, EstimateCmax(400, 5, nil), 1e-12)
	// Very hydrophilic inputs drive the factor negative; the floor holds.
	assert.Equal(t, 0.1, EstimateCmax(400, -10, nil))

	// Draws of 0 and 1 span the ±30% band.
	assert.InDelta(t, 7.0, EstimateCmax(400, 3, fixedUniform(0)), 1e-12)
	assert.InDelta(t, 13.0, EstimateCmax(400, 3, fixedUniform(1)), 1e-12)
}

func TestWindowCategory(t *testing.T) {
	assert.Equal(t, RiskLow, WindowCategory(100.5))
	assert.Equal(t, RiskMedium, WindowCategory(100))
	assert.Equal(t, RiskMedium, WindowCategory(10.01))
	assert.Equal(t, RiskHigh, WindowCategory(10))
	assert.Equal(t, RiskHigh, WindowCategory(0.2))
}

func TestCompositeRiskScore(t *testing.T) {
	// 2.5 - 0.02*50 - 0.015*40 + 0.3*3 + 0.001*400
	assert.InDelta(t, 2.2, CompositeRiskScore(50, 40, 3, 400, nil), 1e-9)
	assert.InDelta(t, 1.7, CompositeRiskScore(50, 40, 3, 400, fixedUniform(0)), 1e-9)

	assert.Equal(t, 0.0, CompositeRiskScore(1000, 1000, 0, 100, nil))
	assert.Equal(t, 10.0, CompositeRiskScore(0, 0, 30, 1000, nil))
}

func TestScoreMechanisms(t *testing.T) {
	m := ScoreMechanisms(Endpoints{TC20: 8.5, TC50: 22.3, EC20: 12.1, EC50: 28.7})
	assert.Equal(t, 1.0, m[MechanismOxidativeStress])
	assert.Equal(t, 1.0, m[MechanismMitochondrial])
	assert.Equal(t, 1.0, m[MechanismERStress])
	assert.Equal(t, 0.762, m[MechanismApoptosis])
	assert.Equal(t, 0.843, m[MechanismNecrosis])

	m = ScoreMechanisms(Endpoints{TC20: 100, TC50: 400, EC20: 50, EC50: 200})
	assert.Equal(t, 0.5, m[MechanismOxidativeStress])
	assert.Equal(t, 0.25, m[MechanismMitochondrial])
	assert.Equal(t, 0.25, m[MechanismERStress])
	assert.Equal(t, 0.5, m[MechanismApoptosis])
	assert.Equal(t, 0.5, m[MechanismNecrosis])

	// Zero potencies hit the denominators' floors instead of dividing by zero.
	m = ScoreMechanisms(Endpoints{})
	assert.Equal(t, 1.0, m[MechanismOxidativeStress])
	assert.Equal(t, 0.0, m[MechanismApoptosis])
}

func TestRecommend(t *testing.T) {
	quiet := map[Mechanism]float64{MechanismOxidativeStress: 0.2, MechanismMitochondrial: 0.3}
	assert.Equal(t, []string{RecommendProceed}, Recommend(1, RiskLow, quiet, 2))

	loud := map[Mechanism]float64{MechanismOxidativeStress: 0.9, MechanismMitochondrial: 0.8}
	assert.Equal(t, []string{
		RecommendStructuralOptimization,
		RecommendEarlyScreening,
		RecommendAntioxidant,
		RecommendMitochondrialMarkers,
		RecommendReduceLipophilicity,
	}, Recommend(7, RiskHigh, loud, 4.5))

	assert.Equal(t, []string{RecommendReduceLipophilicity}, Recommend(5, RiskMedium, quiet, 4.01))
}

func TestConfidence(t *testing.T) {
	typical := Endpoints{TC50: 50, EC50: 40}
	assert.InDelta(t, 0.8, Confidence(typical, 3, nil), 1e-12)
	assert.InDelta(t, 0.75, Confidence(typical, 3, fixedUniform(0)), 1e-12)

	assert.InDelta(t, 0.65, Confidence(typical, 0.2, nil), 1e-12)
	assert.InDelta(t, 0.6, Confidence(Endpoints{TC50: 0.5, EC50: 2000}, 3, nil), 1e-12)
	assert.InDelta(t, 0.45, Confidence(Endpoints{TC50: 0.5, EC50: 2000}, 9.5, nil), 1e-12)
}

func TestAssessRisk_Troglitazone(t *testing.T) {
	c, err := DefaultLibrary().FindByID(context.Background(), "troglitazone")
	require.NoError(t, err)

	p := AssessRisk(c.RiskInput(), nil)
	assert.Equal(t, "troglitazone", p.CompoundID)
	assert.Equal(t, "Troglitazone", p.CompoundName)
	assert.Equal(t, 7.2, p.RiskScore)
	assert.Equal(t, RiskHigh, p.RiskCategory)
	assert.Equal(t, [2]float64{2.02, 2.6}, p.SafetyWindow)
	assert.Equal(t, 2.02, p.TherapeuticIndex)
	assert.Equal(t, 11.052, p.EstimatedCmax)
	assert.Equal(t, 0.8, p.Confidence)
	assert.Equal(t, []string{
		RecommendStructuralOptimization,
		RecommendEarlyScreening,
		RecommendAntioxidant,
		RecommendMitochondrialMarkers,
		RecommendReduceLipophilicity,
	}, p.Recommendations)
}

func TestAssessRisk_WindowIgnoresEndpointOrder(t *testing.T) {
	in := RiskInput{MolecularWeight: 400, LogP: 3, Endpoints: Endpoints{TC50: 3000, EC50: 1500}}
	p := AssessRisk(in, nil)
	assert.Equal(t, [2]float64{150, 300}, p.SafetyWindow)
	assert.Equal(t, RiskLow, p.RiskCategory)
}

func TestAssessRisk_SeededIsReproducible(t *testing.T) {
	c, err := DefaultLibrary().FindByID(context.Background(), "ketoconazole")
	require.NoError(t, err)

	a := AssessRisk(c.RiskInput(), rand.New(rand.NewPCG(3, 5)))
	b := AssessRisk(c.RiskInput(), rand.New(rand.NewPCG(3, 5)))
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a.Confidence, 0.1)
	assert.LessOrEqual(t, a.Confidence, 1.0)
	assert.LessOrEqual(t, a.SafetyWindow[0], a.SafetyWindow[1])
}

func TestAssayResults(t *testing.T) {
	c := &Compound{TC20: 2, TC50: 6, EC20: 3, EC50: 7.2}

	exact := AssayResults(c, nil)
	require.Len(t, exact, 5)
	assert.Equal(t, AssayCellViability, exact[0].AssayType)
	assert.Equal(t, AssayApoptosis, exact[4].AssayType)
	for _, a := range exact {
		assert.Equal(t, Endpoints{TC20: 2, TC50: 6, EC20: 3, EC50: 7.2}, a.Endpoints)
		assert.Equal(t, 0.85, a.Confidence)
		assert.Equal(t, 0.9, a.QualityScore)
		assert.Equal(t, 3, a.ReplicateCount)
	}

	// The lowest draw would push every endpoint below zero.
	for _, a := range AssayResults(c, fixedUniform(0)) {
		assert.Equal(t, Endpoints{}, a.Endpoints)
		assert.Equal(t, 0.75, a.Confidence)
		assert.Equal(t, 0.8, a.QualityScore)
	}
	for _, a := range AssayResults(c, fixedUniform(0.999999)) {
		assert.LessOrEqual(t, a.QualityScore, 1.0)
	}
}

func TestAssessQuality(t *testing.T) {
	assert.Equal(t, QualityMetrics{ZFactor: 0.7, SignalToBackground: 5.2, CVPercent: 8.5, DataCompleteness: 0.95}, AssessQuality(nil))

	high := AssessQuality(fixedUniform(0.999999))
	assert.LessOrEqual(t, high.DataCompleteness, 1.0)
	assert.InDelta(t, 0.9, high.ZFactor, 1e-3)
}

//Personal.AI order the ending
