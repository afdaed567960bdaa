// Package telemetry records OpenTelemetry traces and metrics for
// evaluations. It takes only primitive observations so it stays free of
// domain imports and can be wired into any layer.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/arbiterdev/arbiter"

// Observation is one completed evaluation, reduced to primitives.
type Observation struct {
	// Kind is the evaluation kind label.
	Kind string

	// Model is the judge model label. Empty for model-free kinds.
	Model string

	// Score is the overall score. Ignored when Failed is set.
	Score float64

	// Duration is the wall-clock evaluation time.
	Duration time.Duration

	// Failed marks an evaluation that returned an error.
	Failed bool
}

// Recorder emits spans and metric points per evaluation. The zero
// value is not usable; construct with NewRecorder.
type Recorder struct {
	tracer oteltrace.Tracer

	scoreHistogram    metric.Float64Histogram
	durationHistogram metric.Float64Histogram
	evalCounter       metric.Int64Counter
}

// NewRecorder builds a Recorder on the global OpenTelemetry providers.
// Instrument creation failures fall back to no-op instruments, so a
// missing meter provider never breaks evaluation.
func NewRecorder() *Recorder {
	meter := otel.Meter(instrumentationName)

	scoreHist, err := meter.Float64Histogram("arbiter.evaluation.score",
		metric.WithDescription("Overall evaluation scores"),
		metric.WithUnit("1"))
	if err != nil {
		scoreHist = nil
	}

	durationHist, err := meter.Float64Histogram("arbiter.evaluation.duration",
		metric.WithDescription("Evaluation wall-clock duration"),
		metric.WithUnit("s"))
	if err != nil {
		durationHist = nil
	}

	counter, err := meter.Int64Counter("arbiter.evaluation.count",
		metric.WithDescription("Completed evaluations by kind and outcome"))
	if err != nil {
		counter = nil
	}

	return &Recorder{
		tracer:            otel.Tracer(instrumentationName),
		scoreHistogram:    scoreHist,
		durationHistogram: durationHist,
		evalCounter:       counter,
	}
}

// StartSpan opens an evaluation span. The returned context carries the
// span; callers end it through EndSpan.
func (r *Recorder) StartSpan(ctx context.Context, kind, model string) (context.Context, oteltrace.Span) {
	if r == nil {
		return ctx, nil
	}
	return r.tracer.Start(ctx, "arbiter.evaluate",
		oteltrace.WithAttributes(
			attribute.String("evaluation.kind", kind),
			attribute.String("evaluation.model", model),
		))
}

// EndSpan closes a span with the evaluation outcome.
func (r *Recorder) EndSpan(span oteltrace.Span, err error) {
	if r == nil || span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Record emits the metric points for one observation.
func (r *Recorder) Record(ctx context.Context, obs Observation) {
	if r == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("kind", obs.Kind),
		attribute.Bool("failed", obs.Failed),
	}
	if obs.Model != "" {
		attrs = append(attrs, attribute.String("model", obs.Model))
	}
	set := metric.WithAttributes(attrs...)

	if r.evalCounter != nil {
		r.evalCounter.Add(ctx, 1, set)
	}
	if r.durationHistogram != nil {
		r.durationHistogram.Record(ctx, obs.Duration.Seconds(), set)
	}
	if !obs.Failed && r.scoreHistogram != nil {
		r.scoreHistogram.Record(ctx, obs.Score, set)
	}
}
