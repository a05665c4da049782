package molecule

import (
	"context"
	"time"

	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

// Step is one attempt in the resolution chain.  Attempt returns a complete
// identity on success.  A miss is reported with NoMatch; any other error is a
// failure of that step only.
type Step interface {
	Name() string
	Attempt(ctx context.Context, q Query) (CompoundIdentity, error)
}

// StepFunc adapts a function into a Step.
type StepFunc struct {
	StepName string
	Fn       func(ctx context.Context, q Query) (CompoundIdentity, error)
}

func (s StepFunc) Name() string { return s.StepName }

func (s StepFunc) Attempt(ctx context.Context, q Query) (CompoundIdentity, error) {
	return s.Fn(ctx, q)
}

// NoMatch is the error a Step returns when it answered but had nothing.
func NoMatch(step string) *errors.AppError {
	return errors.New(errors.ErrCodeMoleculeNotFound, "no match").WithDetail(step)
}

// Outcome classifies a step result for observers.
type Outcome string

const (
	OutcomeHit   Outcome = "hit"
	OutcomeMiss  Outcome = "miss"
	OutcomeError Outcome = "error"
)

// StepEvent describes one finished step.
type StepEvent struct {
	Step    string
	Outcome Outcome
	Err     error
	Elapsed time.Duration
}

// Observer receives every step result.  Implementations must not block.
type Observer interface {
	OnStep(ctx context.Context, q Query, ev StepEvent)
}

// ObserverFunc adapts a function into an Observer.
type ObserverFunc func(ctx context.Context, q Query, ev StepEvent)

func (f ObserverFunc) OnStep(ctx context.Context, q Query, ev StepEvent) { f(ctx, q, ev) }

// ─────────────────────────────────────────────────────────────────────────────
// Chain
// ─────────────────────────────────────────────────────────────────────────────

// Chain evaluates steps strictly in order and stops at the first one that
// yields a valid identity.  The placeholder step is always last, so Resolve
// never fails.
type Chain struct {
	steps    []Step
	observer Observer
}

// ChainOption customises a Chain.
type ChainOption func(*Chain)

// WithObserver attaches an Observer.
func WithObserver(o Observer) ChainOption {
	return func(c *Chain) { c.observer = o }
}

// NewChain builds a chain over steps and appends the placeholder step.
func NewChain(steps []Step, opts ...ChainOption) *Chain {
	all := make([]Step, 0, len(steps)+1)
	for _, s := range steps {
		if s != nil {
			all = append(all, s)
		}
	}
	all = append(all, placeholderStep{})
	c := &Chain{steps: all}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StepNames lists step names in evaluation order, placeholder included.
func (c *Chain) StepNames() []string {
	out := make([]string, len(c.steps))
	for i, s := range c.steps {
		out[i] = s.Name()
	}
	return out
}

// Resolve runs the chain for q.  The first step producing an identity that
// passes Validate wins; later steps are not consulted.
func (c *Chain) Resolve(ctx context.Context, q Query) CompoundIdentity {
	for _, s := range c.steps {
		start := time.Now()
		id, err := s.Attempt(ctx, q)
		if err == nil {
			err = id.Validate()
		}

		ev := StepEvent{Step: s.Name(), Err: err, Elapsed: time.Since(start)}
		switch {
		case err == nil:
			ev.Outcome = OutcomeHit
		case errors.IsCode(err, errors.ErrCodeMoleculeNotFound):
			ev.Outcome = OutcomeMiss
		default:
			ev.Outcome = OutcomeError
		}
		if c.observer != nil {
			c.observer.OnStep(ctx, q, ev)
		}

		if err == nil {
			if id.DisplayName == "" {
				id.DisplayName = q.DisplayName
			}
			if id.NormalizedName == "" {
				id.NormalizedName = q.NormalizedName
			}
			return id
		}
	}
	// Unreachable while placeholderStep is last.
	return Placeholder(q)
}

// ─────────────────────────────────────────────────────────────────────────────
// Built-in steps
// ─────────────────────────────────────────────────────────────────────────────

// CatalogStep consults a Catalog without any I/O.
func CatalogStep(c *Catalog) Step {
	return StepFunc{
		StepName: string(SourceCatalog),
		Fn: func(_ context.Context, q Query) (CompoundIdentity, error) {
			if id, ok := c.Lookup(q); ok {
				return id, nil
			}
			return CompoundIdentity{}, NoMatch(string(SourceCatalog))
		},
	}
}

type placeholderStep struct{}

func (placeholderStep) Name() string { return string(SourcePlaceholder) }

func (placeholderStep) Attempt(_ context.Context, q Query) (CompoundIdentity, error) {
	return Placeholder(q), nil
}

//Personal.AI order the ending
