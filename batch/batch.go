// Package batch runs independent evaluation requests concurrently.
// Single evaluations are strictly sequential inside the engine; across
// requests they are embarrassingly parallel, so the runner schedules
// them with a bounded worker count.
package batch

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/arbiterdev/arbiter"
	"github.com/arbiterdev/arbiter/store"
	"github.com/arbiterdev/arbiter/strategy"
)

// DefaultConcurrency is the worker limit when none is configured.
const DefaultConcurrency = 4

// Outcome pairs one request with its judgment or error, at the
// request's original index.
type Outcome struct {
	Index    int
	Request  strategy.Request
	Judgment *arbiter.Judgment
	Err      error
}

// Runner executes batches of evaluation requests.
type Runner struct {
	engine      store.Runner
	st          store.Store
	concurrency int
	logger      *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithConcurrency bounds the number of in-flight evaluations.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithStore persists each successful judgment as it completes. Failed
// evaluations are never persisted.
func WithStore(st store.Store) RunnerOption {
	return func(r *Runner) {
		r.st = st
	}
}

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner builds a batch runner over the given engine.
func NewRunner(engine store.Runner, opts ...RunnerOption) (*Runner, error) {
	if engine == nil {
		return nil, errors.New("batch: engine is required")
	}
	r := &Runner{
		engine:      engine,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run evaluates every request and returns one outcome per request, in
// input order. Individual failures are recorded in their outcome and
// do not stop the batch; only context cancellation aborts early.
func (r *Runner) Run(ctx context.Context, requests []strategy.Request) ([]Outcome, error) {
	outcomes := make([]Outcome, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	var mu sync.Mutex
	for i, req := range requests {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				outcomes[i] = Outcome{Index: i, Request: req, Err: err}
				mu.Unlock()
				return err
			}

			judgment, err := r.evaluate(ctx, req)
			mu.Lock()
			outcomes[i] = Outcome{Index: i, Request: req, Judgment: judgment, Err: err}
			mu.Unlock()

			if err != nil {
				r.logger.Warn("batch evaluation failed", "index", i, "kind", req.Kind(), "error", err)
			}
			// Evaluation failures stay in their outcome; only
			// cancellation propagates to the group.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	return outcomes, err
}

func (r *Runner) evaluate(ctx context.Context, req strategy.Request) (*arbiter.Judgment, error) {
	if r.st != nil {
		return store.RunAndSave(ctx, r.engine, r.st, req)
	}
	return r.engine.Run(ctx, req)
}

// Succeeded returns the judgments of the successful outcomes.
func Succeeded(outcomes []Outcome) []*arbiter.Judgment {
	var out []*arbiter.Judgment
	for _, o := range outcomes {
		if o.Err == nil && o.Judgment != nil {
			out = append(out, o.Judgment)
		}
	}
	return out
}
