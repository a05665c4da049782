package compound

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

// SortField selects the listing order.
type SortField string

const (
	SortByName      SortField = "name"
	SortByRiskScore SortField = "risk_score"
	SortByTC50      SortField = "tc50"
	SortByEC50      SortField = "ec50"
)

// Listing bounds.
const (
	DefaultLimit = 100
	MaxLimit     = 100
)

// QueryOptions describes one library listing.  A nil bound is unset.
type QueryOptions struct {
	Offset     int
	Limit      int
	Search     string
	Risk       RiskCategory
	TC50Min    *float64
	TC50Max    *float64
	SortField  SortField
	Descending bool
}

// QueryOption is a functional option for QueryOptions.
type QueryOption func(*QueryOptions)

// WithPagination sets skip/limit.  Out-of-range values are rejected by
// Validate, not clamped.
func WithPagination(offset, limit int) QueryOption {
	return func(o *QueryOptions) {
		o.Offset = offset
		o.Limit = limit
	}
}

// WithSearch filters on a case-insensitive substring of the name.
func WithSearch(keyword string) QueryOption {
	return func(o *QueryOptions) {
		o.Search = strings.TrimSpace(keyword)
	}
}

// WithRiskCategory keeps only compounds in category c.
func WithRiskCategory(c RiskCategory) QueryOption {
	return func(o *QueryOptions) {
		o.Risk = c
	}
}

// WithTC50Range bounds TC50 inclusively.  Pass nil to leave a side open.
func WithTC50Range(lo, hi *float64) QueryOption {
	return func(o *QueryOptions) {
		o.TC50Min = lo
		o.TC50Max = hi
	}
}

// WithSort sets the order.
func WithSort(field SortField, descending bool) QueryOption {
	return func(o *QueryOptions) {
		o.SortField = field
		o.Descending = descending
	}
}

// ApplyOptions folds opts over the defaults.
func ApplyOptions(opts ...QueryOption) QueryOptions {
	o := QueryOptions{
		Limit:     DefaultLimit,
		SortField: SortByName,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Validate rejects listings the API would answer with 400.
func (o QueryOptions) Validate() error {
	if o.Offset < 0 {
		return invalidQuery("skip must be >= 0", fmt.Sprint(o.Offset))
	}
	if o.Limit < 1 || o.Limit > MaxLimit {
		return invalidQuery(fmt.Sprintf("limit must be in [1, %d]", MaxLimit), fmt.Sprint(o.Limit))
	}
	switch o.SortField {
	case SortByName, SortByRiskScore, SortByTC50, SortByEC50:
	default:
		return invalidQuery("sort_by must be name, risk_score, tc50 or ec50", string(o.SortField))
	}
	switch o.Risk {
	case "", RiskLow, RiskMedium, RiskHigh:
	default:
		return invalidQuery("unknown risk category", string(o.Risk))
	}
	for _, b := range []*float64{o.TC50Min, o.TC50Max} {
		if b != nil && (math.IsNaN(*b) || math.IsInf(*b, 0)) {
			return invalidQuery("tc50 bounds must be finite", fmt.Sprint(*b))
		}
	}
	if o.TC50Min != nil && o.TC50Max != nil && *o.TC50Min > *o.TC50Max {
		return invalidQuery("tc50_min must not exceed tc50_max",
			fmt.Sprintf("%g > %g", *o.TC50Min, *o.TC50Max))
	}
	return nil
}

func invalidQuery(msg, detail string) error {
	return errors.New(errors.ErrCodeCompoundQueryInvalid, msg).WithDetail(detail)
}

// Matches reports whether c passes every filter in o.
func (o QueryOptions) Matches(c *Compound) bool {
	if o.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(o.Search)) {
		return false
	}
	if o.Risk != "" && c.RiskCategory() != o.Risk {
		return false
	}
	if o.TC50Min != nil && c.TC50 < *o.TC50Min {
		return false
	}
	if o.TC50Max != nil && c.TC50 > *o.TC50Max {
		return false
	}
	return true
}

// Sort orders cs in place.  Ties keep their library order.
func (o QueryOptions) Sort(cs []*Compound) {
	key := func(c *Compound) float64 {
		switch o.SortField {
		case SortByRiskScore:
			return c.RiskScore
		case SortByTC50:
			return c.TC50
		case SortByEC50:
			return c.EC50
		}
		return 0
	}
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if o.SortField == SortByName || o.SortField == "" {
			if o.Descending {
				return a.Name > b.Name
			}
			return a.Name < b.Name
		}
		if o.Descending {
			return key(a) > key(b)
		}
		return key(a) < key(b)
	})
}

// Paginate cuts the window [Offset, Offset+Limit) out of the filtered set.
func (o QueryOptions) Paginate(cs []*Compound) *Page {
	total := len(cs)
	start := o.Offset
	if start > total {
		start = total
	}
	end := start + o.Limit
	if end > total {
		end = total
	}
	window := make([]*Compound, end-start)
	copy(window, cs[start:end])
	return &Page{
		Compounds: window,
		Total:     total,
		Page:      o.Offset/o.Limit + 1,
		Pages:     (total + o.Limit - 1) / o.Limit,
		HasNext:   o.Offset+o.Limit < total,
		HasPrev:   o.Offset > 0,
	}
}

//Personal.AI order the ending
