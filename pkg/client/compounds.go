package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/turtacn/axiomgfx-dili/pkg/types/compound"
)

// CompoundsClient reads the compound library and dose-response curves.
type CompoundsClient struct {
	client *Client
}

// List returns one page of the library.  p may be nil.
func (cc *CompoundsClient) List(ctx context.Context, p *compound.ListParams) (*compound.ListResponse, error) {
	var out compound.ListResponse
	if err := cc.client.get(ctx, "/api/compounds", listQuery(p), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns one compound with its risk profile and assay results.
func (cc *CompoundsClient) Get(ctx context.Context, id string) (*compound.CompoundDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalidArg("compound id is required")
	}
	var out compound.CompoundDetail
	if err := cc.client.get(ctx, "/api/compounds/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DoseResponse fetches the curve for id.  p may be nil.
func (cc *CompoundsClient) DoseResponse(ctx context.Context, id string, p *compound.DoseResponseParams) (*compound.DoseResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalidArg("compound id is required")
	}
	var out compound.DoseResponse
	if err := cc.client.get(ctx, "/api/dose-response/"+url.PathEscape(id), doseQuery(p), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PredictRisk profiles the DILI risk of a structure.
func (cc *CompoundsClient) PredictRisk(ctx context.Context, req *compound.PredictRequest) (*compound.PredictResponse, error) {
	if req == nil || strings.TrimSpace(req.SMILES) == "" {
		return nil, invalidArg("smiles is required")
	}
	var out compound.PredictResponse
	if err := cc.client.post(ctx, "/api/predict/dili-risk", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func listQuery(p *compound.ListParams) url.Values {
	q := url.Values{}
	if p == nil {
		return q
	}
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.RiskCategory != "" {
		q.Set("risk_category", p.RiskCategory)
	}
	if p.TC50Min != nil {
		q.Set("tc50_min", formatFloat(*p.TC50Min))
	}
	if p.TC50Max != nil {
		q.Set("tc50_max", formatFloat(*p.TC50Max))
	}
	if p.SortBy != "" {
		q.Set("sort_by", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sort_order", p.SortOrder)
	}
	return q
}

func doseQuery(p *compound.DoseResponseParams) url.Values {
	q := url.Values{}
	if p == nil {
		return q
	}
	if p.AssayType != "" {
		q.Set("assay_type", p.AssayType)
	}
	if p.HillSlope != nil {
		q.Set("hill_slope", formatFloat(*p.HillSlope))
	}
	if p.Noise {
		q.Set("noise", "true")
	}
	return q
}

//Personal.AI order the ending
