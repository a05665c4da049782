// Package compound provides the application service behind the compound
// library and dose-response endpoints.
package compound

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"

	domain "github.com/turtacn/axiomgfx-dili/internal/domain/compound"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

// ListInput mirrors the listing query parameters.  Zero Limit means the
// default.
type ListInput struct {
	Skip         int
	Limit        int
	Search       string
	RiskCategory string
	TC50Min      *float64
	TC50Max      *float64
	SortBy       string
	SortOrder    string
}

// DoseResponseInput selects a curve.  A nil HillSlope means 1.0.
type DoseResponseInput struct {
	CompoundID string
	AssayType  string
	HillSlope  *float64
	Noise      bool
}

// Detail is a compound with its derived grading, risk profile and per-assay
// endpoints.
type Detail struct {
	*domain.Compound
	RiskCategory domain.RiskCategory  `json:"risk_category"`
	SafetyMargin float64              `json:"safety_margin"`
	RiskProfile  domain.RiskProfile   `json:"dili_risk_profile"`
	AssayResults []domain.AssayResult `json:"assay_results"`
}

// PredictInput asks for the risk of a structure.  AssayData, when set,
// replaces the library or estimated endpoints.
type PredictInput struct {
	SMILES       string
	CompoundName string
	AssayData    *domain.Endpoints
}

// Prediction is a risk profile plus where its inputs came from.
type Prediction struct {
	domain.RiskProfile
	SMILES          string  `json:"smiles"`
	FromLibrary     bool    `json:"from_library"`
	MolecularWeight float64 `json:"molecular_weight"`
	LogP            float64 `json:"logp"`
}

// NoiseFactory hands out a noise source per curve so concurrent requests
// never share generator state.
type NoiseFactory func() domain.NoiseSource

// DefaultNoiseFactory seeds a fresh PCG generator per call.
func DefaultNoiseFactory() domain.NoiseSource {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Service is the compound application service.
type Service struct {
	repo   domain.Repository
	logger logging.Logger
	noise  NoiseFactory
}

// NewService wires a repository.  noise may be nil for the default.
func NewService(repo domain.Repository, logger logging.Logger, noise NoiseFactory) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if noise == nil {
		noise = DefaultNoiseFactory
	}
	return &Service{repo: repo, logger: logger.Named("compound"), noise: noise}
}

// List filters, sorts and pages the library.
func (s *Service) List(ctx context.Context, in ListInput) (*domain.Page, error) {
	opts, err := in.options()
	if err != nil {
		return nil, err
	}
	page, err := s.repo.List(ctx, opts...)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("listed compounds",
		logging.Int("total", page.Total),
		logging.Int("returned", len(page.Compounds)))
	return page, nil
}

func (in ListInput) options() ([]domain.QueryOption, error) {
	limit := in.Limit
	if limit == 0 {
		limit = domain.DefaultLimit
	}
	opts := []domain.QueryOption{
		domain.WithPagination(in.Skip, limit),
		domain.WithSearch(in.Search),
		domain.WithTC50Range(in.TC50Min, in.TC50Max),
	}

	if strings.TrimSpace(in.RiskCategory) != "" {
		c, err := domain.ParseRiskCategory(in.RiskCategory)
		if err != nil {
			return nil, err
		}
		opts = append(opts, domain.WithRiskCategory(c))
	}

	field := domain.SortField(strings.ToLower(strings.TrimSpace(in.SortBy)))
	if field == "" {
		field = domain.SortByName
	}
	var desc bool
	switch strings.ToLower(strings.TrimSpace(in.SortOrder)) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return nil, errors.New(errors.ErrCodeCompoundQueryInvalid, "sort_order must be asc or desc").
			WithDetail(in.SortOrder)
	}
	return append(opts, domain.WithSort(field, desc)), nil
}

// Get returns one compound with its risk category.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	c, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	return &Detail{
		Compound:     c,
		RiskCategory: c.RiskCategory(),
		SafetyMargin: c.SafetyMargin(),
		RiskProfile:  domain.AssessRisk(c.RiskInput(), nil),
		AssayResults: domain.AssayResults(c, nil),
	}, nil
}

// PredictRisk profiles a structure.  A SMILES found in the library is
// assessed from its stored data with no variability.  Any other SMILES gets
// estimated properties drawn from a generator seeded by the SMILES itself,
// so repeated calls agree.
func (s *Service) PredictRisk(ctx context.Context, in PredictInput) (*Prediction, error) {
	smiles := strings.TrimSpace(in.SMILES)
	if smiles == "" {
		return nil, errors.New(errors.ErrCodePredictionInvalid, "smiles is required")
	}
	if in.AssayData != nil {
		if err := validateEndpoints(*in.AssayData); err != nil {
			return nil, err
		}
	}

	var (
		input  domain.RiskInput
		source domain.RandomSource
	)
	c, err := s.repo.FindBySMILES(ctx, smiles)
	switch {
	case err == nil:
		input = c.RiskInput()
	case errors.IsCode(err, errors.ErrCodeCompoundNotFound):
		h := fnv.New64a()
		h.Write([]byte(smiles))
		sum := h.Sum64()
		r := rand.New(rand.NewPCG(sum, sum^0x9e3779b97f4a7c15))
		input = estimateInput(sum, r)
		source = r
	default:
		return nil, err
	}

	if name := strings.TrimSpace(in.CompoundName); name != "" {
		input.CompoundName = name
	}
	if in.AssayData != nil {
		input.Endpoints = *in.AssayData
		input.RiskScore = domain.CompositeRiskScore(input.Endpoints.TC50, input.Endpoints.EC50,
			input.LogP, input.MolecularWeight, source)
	}

	p := &Prediction{
		RiskProfile:     domain.AssessRisk(input, source),
		SMILES:          smiles,
		FromLibrary:     source == nil,
		MolecularWeight: input.MolecularWeight,
		LogP:            input.LogP,
	}
	s.logger.Debug("predicted DILI risk",
		logging.String("compound_id", p.CompoundID),
		logging.Bool("from_library", p.FromLibrary),
		logging.Float64("risk_score", p.RiskScore),
		logging.String("risk_category", string(p.RiskCategory)))
	return p, nil
}

// estimateInput stands in for descriptor calculation on an unknown
// structure.
func estimateInput(sum uint64, r domain.RandomSource) domain.RiskInput {
	u := func(lo, hi float64) float64 { return lo + r.Float64()*(hi-lo) }
	mw := round2(300 + u(-100, 200))
	logP := round2(2.5 + u(-1.5, 2))
	tc50 := 50 + u(-30, 50)
	ec50 := 45 + u(-25, 45)
	e := domain.Endpoints{
		TC20: round2(math.Max(0, tc50*0.4+u(-5, 5))),
		TC50: round2(tc50),
		EC20: round2(math.Max(0, ec50*0.6+u(-5, 5))),
		EC50: round2(ec50),
	}
	id := fmt.Sprintf("pred_%04d", sum%10000)
	return domain.RiskInput{
		CompoundID:      id,
		CompoundName:    id,
		Endpoints:       e,
		RiskScore:       domain.CompositeRiskScore(e.TC50, e.EC50, logP, mw, r),
		MolecularWeight: mw,
		LogP:            logP,
	}
}

func validateEndpoints(e domain.Endpoints) error {
	for name, v := range map[string]float64{"tc20": e.TC20, "tc50": e.TC50, "ec20": e.EC20, "ec50": e.EC50} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return errors.New(errors.ErrCodePredictionInvalid, "assay endpoints must be finite and non-negative").
				WithDetail(name)
		}
	}
	if e.TC50 <= 0 || e.EC50 <= 0 {
		return errors.New(errors.ErrCodePredictionInvalid, "tc50 and ec50 must be positive")
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DoseResponse generates the curve for a compound.
func (s *Service) DoseResponse(ctx context.Context, in DoseResponseInput) (*domain.DoseResponse, error) {
	assay, err := domain.ParseAssayType(in.AssayType)
	if err != nil {
		return nil, err
	}
	hill := domain.DefaultHillSlope
	if in.HillSlope != nil {
		hill = *in.HillSlope
	}

	c, err := s.repo.FindByID(ctx, strings.TrimSpace(in.CompoundID))
	if err != nil {
		return nil, err
	}

	var noise domain.NoiseSource
	if in.Noise {
		noise = s.noise()
	}
	dr, err := domain.BuildDoseResponse(c, assay, hill, noise)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("generated dose-response",
		logging.String("compound_id", c.ID),
		logging.String("assay_type", string(assay)),
		logging.Float64("hill_slope", hill),
		logging.Bool("noise", in.Noise))
	return dr, nil
}

//Personal.AI order the ending
