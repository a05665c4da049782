package compound

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompoundDetail_FlattensEmbeddedCompound(t *testing.T) {
	d := CompoundDetail{
		Compound:     Compound{ID: "7", Name: "Troglitazone", TC50: 35.4, EC50: 22.8, RiskScore: 8.4},
		RiskCategory: RiskHigh,
		SafetyMargin: 35.4 / 22.8,
	}
	b, err := json.Marshal(d)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "Troglitazone", m["name"])
	assert.Equal(t, "High", m["risk_category"])
	assert.Contains(t, m, "riskScore")
	assert.NotContains(t, m, "Compound")
}

func TestListResponse_Keys(t *testing.T) {
	b, err := json.Marshal(ListResponse{Compounds: []Compound{}, Total: 0, Page: 1, Pages: 0})
	require.NoError(t, err)
	assert.JSONEq(t, `{"compounds":[],"total":0,"page":1,"pages":0,"has_next":false,"has_prev":false}`, string(b))
}

//Personal.AI order the ending
