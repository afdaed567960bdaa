package arbiter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/arbiterdev/arbiter/llm"
	"github.com/arbiterdev/arbiter/strategy"
	"github.com/arbiterdev/arbiter/telemetry"
	"github.com/arbiterdev/arbiter/trace"
)

// Engine is the evaluation orchestrator. It resolves the strategy for
// a request's kind, runs it with a fresh trace, and assembles the
// durable judgment. An Engine is stateless per call and safe for
// concurrent use.
type Engine struct {
	provider llm.Provider
	model    string

	policy      llm.RetryPolicy
	temperature float64
	logger      *slog.Logger
	recorder    *telemetry.Recorder

	strategies map[strategy.Kind]strategy.Strategy
}

// New builds an Engine that judges with model on provider. The full
// strategy table is constructed up front, so a misconfiguration fails
// here rather than on first use.
func New(provider llm.Provider, model string, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, newError("New", KindValidation, errors.New("provider is required"))
	}
	if model == "" {
		return nil, newError("New", KindValidation, errors.New("judge model is required"))
	}

	e := &Engine{
		provider: provider,
		model:    model,
		policy:   llm.DefaultRetryPolicy(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	gen, err := llm.NewGenerator(e.provider, e.policy, e.logger)
	if err != nil {
		return nil, newError("New", KindValidation, err)
	}

	cfg := strategy.Config{
		Generator:   gen,
		Model:       e.model,
		Temperature: e.temperature,
		Logger:      e.logger,
	}
	e.strategies = make(map[strategy.Kind]strategy.Strategy, len(strategy.Kinds()))
	for _, kind := range strategy.Kinds() {
		s, err := strategy.New(kind, cfg)
		if err != nil {
			return nil, newError("New", KindInternal, err)
		}
		e.strategies[kind] = s
	}
	return e, nil
}

// Model returns the judge model identifier.
func (e *Engine) Model() string { return e.model }

// Run executes one evaluation request end to end: validation, strategy
// dispatch, trace assembly and timing. Failed evaluations return a
// typed *Error carrying the partial trace; they never return a
// fabricated score.
func (e *Engine) Run(ctx context.Context, req strategy.Request) (*Judgment, error) {
	const op = "Engine.Run"

	if req == nil {
		return nil, newError(op, KindValidation, ErrInvalidRequest)
	}
	if err := req.Validate(); err != nil {
		return nil, newError(op, KindValidation, err)
	}

	s, ok := e.strategies[req.Kind()]
	if !ok {
		return nil, newError(op, KindValidation, errors.New("no strategy for kind "+req.Kind().String()))
	}

	ctx, span := e.recorder.StartSpan(ctx, req.Kind().String(), e.model)
	tr := trace.New()
	started := time.Now()

	e.logger.Info("evaluation started", "kind", req.Kind(), "model", e.model)

	result, err := s.Evaluate(ctx, req, tr)
	elapsed := time.Since(started)
	tr.Freeze()

	e.recorder.EndSpan(span, err)
	e.recorder.Record(ctx, telemetry.Observation{
		Kind:     req.Kind().String(),
		Model:    e.model,
		Score:    overallOf(result),
		Duration: elapsed,
		Failed:   err != nil,
	})

	if err != nil {
		e.logger.Warn("evaluation failed", "kind", req.Kind(), "error", err, "duration", elapsed)
		return nil, e.wrapError(op, req, err, tr)
	}

	judgment := &Judgment{
		ID:        uuid.NewString(),
		Kind:      req.Kind(),
		Inputs:    req,
		Result:    result,
		Trace:     tr.Steps(),
		Model:     e.model,
		Duration:  elapsed,
		CreatedAt: time.Now().UTC(),
	}
	e.logger.Info("evaluation completed",
		"kind", req.Kind(), "id", judgment.ID,
		"overall_score", result.OverallScore, "duration", elapsed)
	return judgment, nil
}

// wrapError maps a strategy failure onto the error taxonomy and
// attaches the partial trace.
func (e *Engine) wrapError(op string, req strategy.Request, err error, tr *trace.Trace) *Error {
	kind := KindStrategy
	var sentinel error = ErrStrategyFailed

	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		kind, sentinel = KindCancelled, ErrCancelled
	case errors.Is(err, strategy.ErrInvalidRequest), errors.Is(err, strategy.ErrKindMismatch):
		kind, sentinel = KindValidation, ErrInvalidRequest
	case errors.Is(err, llm.ErrExhausted):
		kind, sentinel = KindGeneration, ErrGenerationExhausted
	case errors.Is(err, strategy.ErrAllMetricsUnparsed):
		kind, sentinel = KindParse, ErrStrategyFailed
	}

	return (&Error{
		Op:   op,
		Kind: kind,
		Err:  errors.Join(sentinel, err),
	}).WithContext(map[string]any{
		"evaluation_kind": req.Kind().String(),
		"trace":           tr.Steps(),
	})
}

func overallOf(r *strategy.Result) float64 {
	if r == nil {
		return 0
	}
	return r.OverallScore
}
