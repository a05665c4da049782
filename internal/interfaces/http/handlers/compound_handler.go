package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appcmp "github.com/turtacn/axiomgfx-dili/internal/application/compound"
	domain "github.com/turtacn/axiomgfx-dili/internal/domain/compound"
	"github.com/turtacn/axiomgfx-dili/pkg/errors"
	dto "github.com/turtacn/axiomgfx-dili/pkg/types/compound"
)

// CompoundHandler serves the compound library and dose-response curves.
type CompoundHandler struct {
	svc *appcmp.Service
}

func NewCompoundHandler(svc *appcmp.Service) *CompoundHandler {
	return &CompoundHandler{svc: svc}
}

// RegisterRoutes mounts the library routes under g (normally /api).
func (h *CompoundHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/compounds", h.List)
	g.GET("/compounds/:id", h.Get)
	g.GET("/dose-response/:id", h.DoseResponse)
	g.POST("/predict/dili-risk", h.PredictRisk)
}

func toCompoundDTO(c *domain.Compound) dto.Compound {
	return dto.Compound{
		ID:              c.ID,
		Name:            c.Name,
		TC20:            c.TC20,
		TC50:            c.TC50,
		EC20:            c.EC20,
		EC50:            c.EC50,
		RiskScore:       c.RiskScore,
		SMILES:          c.SMILES,
		MolecularWeight: c.MolecularWeight,
		LogP:            c.LogP,
	}
}

func toRiskProfileDTO(p domain.RiskProfile) dto.RiskProfile {
	mech := make(map[string]float64, len(p.MechanismScores))
	for m, v := range p.MechanismScores {
		mech[string(m)] = v
	}
	return dto.RiskProfile{
		CompoundID:       p.CompoundID,
		CompoundName:     p.CompoundName,
		RiskScore:        p.RiskScore,
		RiskCategory:     string(p.RiskCategory),
		SafetyWindow:     p.SafetyWindow,
		TherapeuticIndex: p.TherapeuticIndex,
		EstimatedCmax:    p.EstimatedCmax,
		MechanismScores:  mech,
		Recommendations:  p.Recommendations,
		Confidence:       p.Confidence,
	}
}

// List handles GET /compounds.
func (h *CompoundHandler) List(c *gin.Context) {
	const code = errors.ErrCodeCompoundQueryInvalid
	in := appcmp.ListInput{
		Search:       c.Query("search"),
		RiskCategory: c.Query("risk_category"),
		SortBy:       c.Query("sort_by"),
		SortOrder:    c.Query("sort_order"),
	}
	var err error
	if in.Skip, err = queryInt(c, "skip", code); err != nil {
		writeError(c, err)
		return
	}
	if in.Limit, err = queryInt(c, "limit", code); err != nil {
		writeError(c, err)
		return
	}
	if _, set := c.GetQuery("limit"); set && in.Limit == 0 {
		writeError(c, errors.New(code, "limit must be between 1 and 100").WithDetail("0"))
		return
	}
	if in.TC50Min, err = queryFloat(c, "tc50_min", code); err != nil {
		writeError(c, err)
		return
	}
	if in.TC50Max, err = queryFloat(c, "tc50_max", code); err != nil {
		writeError(c, err)
		return
	}

	page, err := h.svc.List(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := dto.ListResponse{
		Compounds: make([]dto.Compound, len(page.Compounds)),
		Total:     page.Total,
		Page:      page.Page,
		Pages:     page.Pages,
		HasNext:   page.HasNext,
		HasPrev:   page.HasPrev,
	}
	for i, cp := range page.Compounds {
		resp.Compounds[i] = toCompoundDTO(cp)
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /compounds/:id.
func (h *CompoundHandler) Get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := dto.CompoundDetail{
		Compound:     toCompoundDTO(d.Compound),
		RiskCategory: string(d.RiskCategory),
		SafetyMargin: d.SafetyMargin,
		RiskProfile:  toRiskProfileDTO(d.RiskProfile),
		AssayResults: make([]dto.AssayResult, len(d.AssayResults)),
	}
	for i, a := range d.AssayResults {
		resp.AssayResults[i] = dto.AssayResult{
			Endpoints:      dto.Endpoints(a.Endpoints),
			AssayType:      string(a.AssayType),
			Confidence:     a.Confidence,
			ReplicateCount: a.ReplicateCount,
			QualityScore:   a.QualityScore,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// PredictRisk handles POST /predict/dili-risk.
func (h *CompoundHandler) PredictRisk(c *gin.Context) {
	var req dto.PredictRequest
	if !bindJSON(c, &req) {
		return
	}
	in := appcmp.PredictInput{SMILES: req.SMILES, CompoundName: req.CompoundName}
	if req.AssayData != nil {
		e := domain.Endpoints(*req.AssayData)
		in.AssayData = &e
	}

	p, err := h.svc.PredictRisk(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PredictResponse{
		RiskProfile:     toRiskProfileDTO(p.RiskProfile),
		SMILES:          p.SMILES,
		FromLibrary:     p.FromLibrary,
		MolecularWeight: p.MolecularWeight,
		LogP:            p.LogP,
	})
}

// DoseResponse handles GET /dose-response/:id.
func (h *CompoundHandler) DoseResponse(c *gin.Context) {
	const code = errors.ErrCodeDoseResponseInvalid
	in := appcmp.DoseResponseInput{
		CompoundID: c.Param("id"),
		AssayType:  c.Query("assay_type"),
	}
	var err error
	if in.HillSlope, err = queryFloat(c, "hill_slope", code); err != nil {
		writeError(c, err)
		return
	}
	if in.Noise, err = queryBool(c, "noise", code); err != nil {
		writeError(c, err)
		return
	}

	dr, err := h.svc.DoseResponse(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := dto.DoseResponse{
		CompoundID: dr.CompoundID,
		AssayType:  string(dr.AssayType),
		Points:     make([]dto.DosePoint, len(dr.Points)),
		CurveFit: dto.CurveFit{
			EC50:      dr.CurveFit.EC50,
			HillSlope: dr.CurveFit.HillSlope,
			Top:       dr.CurveFit.Top,
			Bottom:    dr.CurveFit.Bottom,
			Equation:  dr.CurveFit.Equation,
		},
		QualityMetrics: dto.QualityMetrics(dr.Quality),
	}
	for i, p := range dr.Points {
		resp.Points[i] = dto.DosePoint(p)
	}
	c.JSON(http.StatusOK, resp)
}

//Personal.AI order the ending
