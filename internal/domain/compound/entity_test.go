package compound

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

func TestCategoryFor(t *testing.T) {
	cases := []struct {
		score float64
		want  RiskCategory
	}{
		{0, RiskLow},
		{3.29, RiskLow},
		{3.3, RiskMedium},
		{6.59, RiskMedium},
		{6.6, RiskHigh},
		{9.9, RiskHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CategoryFor(tc.score), "score %v", tc.score)
	}
}

func TestParseRiskCategory(t *testing.T) {
	c, err := ParseRiskCategory(" medium ")
	require.NoError(t, err)
	assert.Equal(t, RiskMedium, c)

	_, err = ParseRiskCategory("severe")
	assert.True(t, errors.IsCode(err, errors.ErrCodeCompoundQueryInvalid))
}

func TestCompound_SafetyMargin(t *testing.T) {
	c := &Compound{TC50: 100, EC50: 25}
	assert.InDelta(t, 4.0, c.SafetyMargin(), 1e-9)
	assert.Zero(t, (&Compound{TC50: 1}).SafetyMargin())
}

//Personal.AI order the ending
