// Package molecule is the application layer for compound-name resolution
// and 3D structure retrieval.  HTTP, gRPC and CLI front-ends call into it.
package molecule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	domain "github.com/turtacn/axiomgfx-dili/internal/domain/molecule"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

// Batch defaults.
const (
	DefaultBatchWorkers  = 8
	DefaultBatchMaxNames = 50
)

// NameMapping is the answer of the compound-mapping lookup.
type NameMapping struct {
	OriginalName string `json:"original_name"`
	MappedName   string `json:"mapped_name"`
	Mapped       bool   `json:"mapped"`
}

// Resolver runs the fallback chain for one name at a time, and fans batches
// out over a bounded worker pool.  Each name still walks its own chain
// strictly in order.
type Resolver struct {
	chain    *domain.Chain
	logger   logging.Logger
	metrics  *prometheus.AppMetrics
	pool     *ants.Pool
	workers  int
	maxBatch int
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

func WithLogger(l logging.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithMetrics(m *prometheus.AppMetrics) ResolverOption {
	return func(r *Resolver) { r.metrics = m }
}

// WithBatchLimits bounds batch concurrency and size.  Non-positive values
// keep the defaults.
func WithBatchLimits(workers, maxNames int) ResolverOption {
	return func(r *Resolver) {
		if workers > 0 {
			r.workers = workers
		}
		if maxNames > 0 {
			r.maxBatch = maxNames
		}
	}
}

// NewResolver builds the chain catalog → steps... → placeholder.  The
// catalog may be nil.
func NewResolver(catalog *domain.Catalog, steps []domain.Step, opts ...ResolverOption) (*Resolver, error) {
	r := &Resolver{
		logger:   logging.NewNopLogger(),
		workers:  DefaultBatchWorkers,
		maxBatch: DefaultBatchMaxNames,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("resolver")

	all := make([]domain.Step, 0, len(steps)+1)
	if catalog != nil {
		all = append(all, domain.CatalogStep(catalog))
	}
	all = append(all, steps...)
	r.chain = domain.NewChain(all, domain.WithObserver(domain.ObserverFunc(r.observe)))

	pool, err := ants.NewPool(r.workers, ants.WithExpiryDuration(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("create batch pool: %w", err)
	}
	r.pool = pool
	return r, nil
}

// Close releases the batch pool, waiting briefly for in-flight work.
func (r *Resolver) Close() error {
	if r.pool == nil {
		return nil
	}
	return r.pool.ReleaseTimeout(5 * time.Second)
}

// StepNames lists the chain in evaluation order.
func (r *Resolver) StepNames() []string { return r.chain.StepNames() }

// MaxBatch is the largest accepted batch.
func (r *Resolver) MaxBatch() int { return r.maxBatch }

func (r *Resolver) observe(_ context.Context, q domain.Query, ev domain.StepEvent) {
	prometheus.RecordResolverStep(r.metrics, ev.Step, string(ev.Outcome))

	fields := []logging.Field{
		logging.String("name", q.DisplayName),
		logging.String("step", ev.Step),
		logging.String("outcome", string(ev.Outcome)),
		logging.Duration("elapsed", ev.Elapsed),
	}
	switch ev.Outcome {
	case domain.OutcomeError:
		r.logger.Warn("resolver step failed", append(fields, logging.Err(ev.Err))...)
	default:
		r.logger.Debug("resolver step finished", fields...)
	}
}

// Resolve maps name to an identity.  The only error is an empty name; every
// upstream failure ends in a later step or the placeholder.
func (r *Resolver) Resolve(ctx context.Context, name string) (domain.CompoundIdentity, error) {
	q := domain.NewQuery(name)
	if q.IsEmpty() {
		return domain.CompoundIdentity{}, errors.New(errors.ErrCodeMoleculeInvalidName, "name is required")
	}

	start := time.Now()
	id := r.chain.Resolve(ctx, q)
	elapsed := time.Since(start)

	prometheus.RecordResolution(r.metrics, id.Source.String(), elapsed)
	r.logger.Info("resolved compound",
		logging.String("name", q.DisplayName),
		logging.String("source", id.Source.String()),
		logging.Int64("cid", id.CID),
		logging.Duration("elapsed", elapsed))
	return id, nil
}

// ResolveBatch resolves names concurrently and returns results in input
// order.  The batch is rejected whole if it is empty, too large or holds a
// blank name.
func (r *Resolver) ResolveBatch(ctx context.Context, names []string) ([]domain.CompoundIdentity, error) {
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeMoleculeInvalidName, "names must not be empty")
	}
	if len(names) > r.maxBatch {
		return nil, errors.New(errors.ErrCodeBatchTooLarge, "too many names in batch").
			WithDetail(fmt.Sprintf("%d > %d", len(names), r.maxBatch))
	}
	for i, n := range names {
		if domain.NewQuery(n).IsEmpty() {
			return nil, errors.New(errors.ErrCodeMoleculeInvalidName, "name is required").
				WithDetail(fmt.Sprintf("names[%d]", i))
		}
	}
	prometheus.RecordBatch(r.metrics, len(names))

	out := make([]domain.CompoundIdentity, len(names))
	var wg sync.WaitGroup
	for i, n := range names {
		i, n := i, n
		wg.Add(1)
		task := func() {
			defer wg.Done()
			out[i], _ = r.Resolve(ctx, n)
		}
		if err := r.pool.Submit(task); err != nil {
			r.logger.Warn("batch pool rejected task, resolving inline", logging.Err(err))
			task()
		}
	}
	wg.Wait()
	return out, nil
}

// Mapping reports the resolver spelling of name.
func (r *Resolver) Mapping(name string) NameMapping {
	mapped, ok := domain.MappedName(name)
	return NameMapping{OriginalName: name, MappedName: mapped, Mapped: ok}
}

//Personal.AI order the ending
