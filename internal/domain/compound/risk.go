package compound

import (
	"math"
)

// RandomSource supplies the uniform [0,1) draws behind the variability terms
// of the risk model.  *rand.Rand from math/rand/v2 satisfies it.  A nil
// source removes all variability.
type RandomSource interface {
	Float64() float64
}

// uniform draws from [lo, hi).  Without a source it returns the midpoint, so
// symmetric jitter collapses to zero.
func uniform(r RandomSource, lo, hi float64) float64 {
	if r == nil {
		return (lo + hi) / 2
	}
	return lo + r.Float64()*(hi-lo)
}

// ─────────────────────────────────────────────────────────────────────────────
// Model constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// Safety window lower bounds (multiples of Cmax).
	lowRiskWindow    = 100.0
	mediumRiskWindow = 10.0

	baseCmaxMicromolar     = 10.0
	minCmaxMicromolar      = 0.1
	referenceMolecularMass = 400.0
	minMolecularMass       = 200.0
	referenceLogP          = 3.0
	cmaxVariability        = 0.3

	// Composite score coefficients.
	scoreIntercept = 2.5
	scoreTC50Coeff = -0.02
	scoreEC50Coeff = -0.015
	scoreLogPCoeff = 0.3
	scoreMassCoeff = 0.001
	scoreJitter    = 0.5
	maxRiskScore   = 10.0

	baseConfidence   = 0.8
	confidenceJitter = 0.05

	mechanismAlert   = 0.7
	escalationScore  = 5.0
	lipophilicityCap = 4.0
)

// Mechanism names a toxicity pathway.
type Mechanism string

const (
	MechanismOxidativeStress Mechanism = "oxidative_stress"
	MechanismMitochondrial   Mechanism = "mitochondrial_dysfunction"
	MechanismERStress        Mechanism = "er_stress"
	MechanismApoptosis       Mechanism = "apoptosis"
	MechanismNecrosis        Mechanism = "necrosis"
)

// Recommendation texts.
const (
	RecommendStructuralOptimization = "High DILI risk - consider structural optimization"
	RecommendEarlyScreening         = "Implement early safety screening"
	RecommendAntioxidant            = "Consider antioxidant co-treatment"
	RecommendMitochondrialMarkers   = "Evaluate mitochondrial toxicity markers"
	RecommendReduceLipophilicity    = "Reduce lipophilicity to improve safety profile"
	RecommendProceed                = "Acceptable safety profile - proceed with caution"
)

// Endpoints are the in vitro potency readouts in µM.
type Endpoints struct {
	TC20 float64 `json:"tc20"`
	TC50 float64 `json:"tc50"`
	EC20 float64 `json:"ec20"`
	EC50 float64 `json:"ec50"`
}

// RiskInput is everything the risk model reads.  A non-positive
// MolecularWeight means the reference mass.
type RiskInput struct {
	CompoundID      string
	CompoundName    string
	Endpoints       Endpoints
	RiskScore       float64
	MolecularWeight float64
	LogP            float64
}

// RiskProfile is the assessed DILI risk of one compound.  RiskCategory here
// is graded on the safety window, not on the score.
type RiskProfile struct {
	CompoundID       string                `json:"compound_id"`
	CompoundName     string                `json:"compound_name"`
	RiskScore        float64               `json:"risk_score"`
	RiskCategory     RiskCategory          `json:"risk_category"`
	SafetyWindow     [2]float64            `json:"safety_window"`
	TherapeuticIndex float64               `json:"therapeutic_index"`
	EstimatedCmax    float64               `json:"estimated_cmax"`
	MechanismScores  map[Mechanism]float64 `json:"mechanism_scores"`
	Recommendations  []string              `json:"recommendations"`
	Confidence       float64               `json:"confidence"`
}

// RiskInput extracts the model inputs of a library compound.
func (c *Compound) RiskInput() RiskInput {
	return RiskInput{
		CompoundID:      c.ID,
		CompoundName:    c.Name,
		Endpoints:       Endpoints{TC20: c.TC20, TC50: c.TC50, EC20: c.EC20, EC50: c.EC50},
		RiskScore:       c.RiskScore,
		MolecularWeight: c.MolecularWeight,
		LogP:            c.LogP,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Model
// ─────────────────────────────────────────────────────────────────────────────

// EstimateCmax is a crude plasma Cmax in µM: heavier molecules reach lower
// peaks, lipophilic ones higher.  Never below 0.1 µM.
func EstimateCmax(molecularWeight, logP float64, r RandomSource) float64 {
	if molecularWeight <= 0 {
		molecularWeight = referenceMolecularMass
	}
	massFactor := referenceMolecularMass / math.Max(molecularWeight, minMolecularMass)
	logPFactor := 1 + (logP-referenceLogP)*0.1
	cmax := baseCmaxMicromolar * massFactor * logPFactor
	cmax *= 1 + uniform(r, -cmaxVariability, cmaxVariability)
	return math.Max(minCmaxMicromolar, cmax)
}

// WindowCategory grades the lower safety window bound.
func WindowCategory(lowerWindow float64) RiskCategory {
	switch {
	case lowerWindow > lowRiskWindow:
		return RiskLow
	case lowerWindow > mediumRiskWindow:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// CompositeRiskScore predicts a 0..10 score from potency and physchem
// properties.
func CompositeRiskScore(tc50, ec50, logP, molecularWeight float64, r RandomSource) float64 {
	score := scoreIntercept +
		scoreTC50Coeff*tc50 +
		scoreEC50Coeff*ec50 +
		scoreLogPCoeff*logP +
		scoreMassCoeff*molecularWeight
	score += uniform(r, -scoreJitter, scoreJitter)
	return math.Max(0, math.Min(maxRiskScore, score))
}

// ScoreMechanisms maps endpoint potencies onto pathway scores in [0,1].
func ScoreMechanisms(e Endpoints) map[Mechanism]float64 {
	return map[Mechanism]float64{
		MechanismOxidativeStress: round(math.Min(1, 100/math.Max(e.EC50, 10)), 3),
		MechanismMitochondrial:   round(math.Min(1, 100/math.Max(e.TC50, 10)), 3),
		MechanismERStress:        round(math.Min(1, 150/math.Max(e.TC50+e.EC50, 20)), 3),
		MechanismApoptosis:       round(math.Min(1, 2*e.TC20/math.Max(e.TC50, 1)), 3),
		MechanismNecrosis:        round(math.Min(1, 2*e.EC20/math.Max(e.EC50, 1)), 3),
	}
}

// Recommend lists follow-ups in a fixed order.  It always returns at least
// one entry.
func Recommend(score float64, category RiskCategory, mech map[Mechanism]float64, logP float64) []string {
	var out []string
	if category == RiskHigh {
		out = append(out, RecommendStructuralOptimization)
	}
	if score > escalationScore {
		out = append(out, RecommendEarlyScreening)
	}
	if mech[MechanismOxidativeStress] > mechanismAlert {
		out = append(out, RecommendAntioxidant)
	}
	if mech[MechanismMitochondrial] > mechanismAlert {
		out = append(out, RecommendMitochondrialMarkers)
	}
	if logP > lipophilicityCap {
		out = append(out, RecommendReduceLipophilicity)
	}
	if len(out) == 0 {
		out = append(out, RecommendProceed)
	}
	return out
}

// Confidence drops for potencies outside 1..1000 µM and for extreme scores.
func Confidence(e Endpoints, score float64, r RandomSource) float64 {
	c := baseConfidence
	if e.TC50 < 1 || e.TC50 > 1000 {
		c -= 0.1
	}
	if e.EC50 < 1 || e.EC50 > 1000 {
		c -= 0.1
	}
	if score < 0.5 || score > 9 {
		c -= 0.15
	}
	c += uniform(r, -confidenceJitter, confidenceJitter)
	return math.Max(0.1, math.Min(1, c))
}

// AssessRisk builds the full profile.  With a nil source the result is a pure
// function of in.
func AssessRisk(in RiskInput, r RandomSource) RiskProfile {
	e := in.Endpoints
	cmax := EstimateCmax(in.MolecularWeight, in.LogP, r)
	lo, hi := math.Min(e.TC50, e.EC50), math.Max(e.TC50, e.EC50)
	window := [2]float64{lo / cmax, hi / cmax}
	category := WindowCategory(window[0])
	mech := ScoreMechanisms(e)

	return RiskProfile{
		CompoundID:       in.CompoundID,
		CompoundName:     in.CompoundName,
		RiskScore:        round(in.RiskScore, 2),
		RiskCategory:     category,
		SafetyWindow:     [2]float64{round(window[0], 2), round(window[1], 2)},
		TherapeuticIndex: round(window[0], 2),
		EstimatedCmax:    round(cmax, 3),
		MechanismScores:  mech,
		Recommendations:  Recommend(in.RiskScore, category, mech, in.LogP),
		Confidence:       round(Confidence(e, in.RiskScore, r), 2),
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

//Personal.AI order the ending
