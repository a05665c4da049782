// Package compound is the mocked toxicity library behind the dashboard: the
// compounds with their assay endpoints, risk grading, list queries and
// synthetic dose-response curves.
package compound

import (
	"strings"

	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

// RiskCategory buckets a DILI risk score.
type RiskCategory string

const (
	RiskLow    RiskCategory = "Low"
	RiskMedium RiskCategory = "Medium"
	RiskHigh   RiskCategory = "High"
)

// Risk score thresholds.
const (
	mediumRiskThreshold = 3.3
	highRiskThreshold   = 6.6
)

// CategoryFor grades a risk score.
func CategoryFor(score float64) RiskCategory {
	switch {
	case score < mediumRiskThreshold:
		return RiskLow
	case score < highRiskThreshold:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ParseRiskCategory accepts the category names case-insensitively.
func ParseRiskCategory(s string) (RiskCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow, nil
	case "medium":
		return RiskMedium, nil
	case "high":
		return RiskHigh, nil
	}
	return "", errors.New(errors.ErrCodeCompoundQueryInvalid, "risk_category must be Low, Medium or High").
		WithDetail(s)
}

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

// RiskCategory grades c.RiskScore.
func (c *Compound) RiskCategory() RiskCategory {
	return CategoryFor(c.RiskScore)
}

// SafetyMargin is TC50 over EC50; larger means a wider window between
// efficacy and toxicity.  Zero when EC50 is not positive.
func (c *Compound) SafetyMargin() float64 {
	if c.EC50 <= 0 {
		return 0
	}
	return c.TC50 / c.EC50
}

//Personal.AI order the ending
