package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/axiomgfx-dili/pkg/errors"
	"github.com/turtacn/axiomgfx-dili/pkg/types/common"
	"github.com/turtacn/axiomgfx-dili/pkg/types/compound"
)

func newTestCompoundsClient(t *testing.T, handler http.HandlerFunc) *CompoundsClient {
	return newTestClient(t, handler, WithRetryMax(0)).Compounds()
}

func TestCompoundsList_NoParams(t *testing.T) {
	c := newTestCompoundsClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/compounds", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		writeJSON(t, w, http.StatusOK, compound.ListResponse{
			Compounds: []compound.Compound{{ID: "acetaminophen", Name: "Acetaminophen"}},
			Total:     19, Page: 1, Pages: 1,
		})
	})

	out, err := c.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 19, out.Total)
	assert.Equal(t, "Acetaminophen", out.Compounds[0].Name)
}

func TestCompoundsList_EncodesParams(t *testing.T) {
	lo, hi := 200.0, 300.5
	c := newTestCompoundsClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "5", q.Get("skip"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "statin", q.Get("search"))
		assert.Equal(t, "High", q.Get("risk_category"))
		assert.Equal(t, "200", q.Get("tc50_min"))
		assert.Equal(t, "300.5", q.Get("tc50_max"))
		assert.Equal(t, "tc50", q.Get("sort_by"))
		assert.Equal(t, "desc", q.Get("sort_order"))
		writeJSON(t, w, http.StatusOK, compound.ListResponse{Page: 2, Pages: 4, HasNext: true, HasPrev: true})
	})

	out, err := c.List(context.Background(), &compound.ListParams{
		Skip: 5, Limit: 5, Search: "statin", RiskCategory: compound.RiskHigh,
		TC50Min: &lo, TC50Max: &hi, SortBy: "tc50", SortOrder: "desc",
	})
	require.NoError(t, err)
	assert.True(t, out.HasNext)
	assert.True(t, out.HasPrev)
}

func TestCompoundsList_InvalidQuery(t *testing.T) {
	c := newTestCompoundsClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, common.ErrorResponse{Error: "invalid sort_by", Code: "CMP_002"})
	})

	_, err := c.List(context.Background(), &compound.ListParams{SortBy: "color"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "CMP_002", apiErr.Code)
}

func TestCompoundsGet(t *testing.T) {
	c := newTestCompoundsClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/compounds/troglitazone", r.URL.Path)
		writeJSON(t, w, http.StatusOK, compound.CompoundDetail{
			Compound:     compound.Compound{ID: "troglitazone", Name: "Troglitazone", RiskScore: 7.2},
			RiskCategory: compound.RiskHigh,
		})
	})

	out, err := c.Get(context.Background(), "troglitazone")
	require.NoError(t, err)
	assert.Equal(t, compound.RiskHigh, out.RiskCategory)
	assert.InDelta(t, 7.2, out.RiskScore, 1e-9)

	_, err = c.Get(context.Background(), "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestCompoundsDoseResponse(t *testing.T) {
	hill := 1.5
	c := newTestCompoundsClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/dose-response/metformin", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, compound.AssayNecrosis, q.Get("assay_type"))
		assert.Equal(t, "1.5", q.Get("hill_slope"))
		assert.Equal(t, "true", q.Get("noise"))
		writeJSON(t, w, http.StatusOK, compound.DoseResponse{
			CompoundID: "metformin",
			AssayType:  compound.AssayNecrosis,
			Points:     make([]compound.DosePoint, 10),
			CurveFit:   compound.CurveFit{HillSlope: 1.5},
		})
	})

	out, err := c.DoseResponse(context.Background(), "metformin", &compound.DoseResponseParams{
		AssayType: compound.AssayNecrosis, HillSlope: &hill, Noise: true,
	})
	require.NoError(t, err)
	assert.Len(t, out.Points, 10)
	assert.Equal(t, 1.5, out.CurveFit.HillSlope)
}

func TestCompoundsDoseResponse_DefaultsOmitted(t *testing.T) {
	c := newTestCompoundsClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		writeJSON(t, w, http.StatusOK, compound.DoseResponse{CompoundID: "aspirin"})
	})

	_, err := c.DoseResponse(context.Background(), "aspirin", nil)
	require.NoError(t, err)
}

func TestCompoundsPredictRisk(t *testing.T) {
	c := newTestCompoundsClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/predict/dili-risk", r.URL.Path)
		var req compound.PredictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "CCO", req.SMILES)
		require.NotNil(t, req.AssayData)
		assert.Equal(t, 900.0, req.AssayData.TC50)
		writeJSON(t, w, http.StatusOK, compound.PredictResponse{
			RiskProfile: compound.RiskProfile{CompoundID: "pred_0042", RiskCategory: compound.RiskLow},
			SMILES:      "CCO",
		})
	})

	out, err := c.PredictRisk(context.Background(), &compound.PredictRequest{
		SMILES:    "CCO",
		AssayData: &compound.Endpoints{TC50: 900, EC50: 800},
	})
	require.NoError(t, err)
	assert.Equal(t, "pred_0042", out.CompoundID)
	assert.Equal(t, compound.RiskLow, out.RiskCategory)

	for _, req := range []*compound.PredictRequest{nil, {SMILES: " "}} {
		_, err = c.PredictRisk(context.Background(), req)
		assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	}
}

//Personal.AI order the ending
