package strategy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arbiterdev/arbiter/llm"
	"github.com/arbiterdev/arbiter/parse"
	"github.com/arbiterdev/arbiter/trace"
)

// Sentinel errors for strategy-level failures. The orchestrator maps
// these onto its error taxonomy.
var (
	// ErrKindMismatch marks a request dispatched to the wrong strategy.
	ErrKindMismatch = errors.New("strategy: request kind does not match strategy")

	// ErrAllMetricsUnparsed marks a judgment from which no metric at
	// all could be extracted.
	ErrAllMetricsUnparsed = errors.New("strategy: no metrics could be parsed from judgment")
)

// DefaultTemperature is the judge sampling temperature. Low but nonzero
// so verdict prose stays readable while scores stay stable.
const DefaultTemperature = 0.2

// Strategy is one evaluation algorithm.
type Strategy interface {
	// Kind returns the request kind this strategy handles.
	Kind() Kind

	// Evaluate runs the algorithm for req, recording pipeline steps on
	// tr. It returns ErrKindMismatch when req is of the wrong kind.
	Evaluate(ctx context.Context, req Request, tr *trace.Trace) (*Result, error)
}

// Config carries the collaborators shared by all judge-backed
// strategies.
type Config struct {
	// Generator drives the backend calls. Required for every kind
	// except code analysis.
	Generator *llm.Generator

	// Model is the judge model identifier.
	Model string

	// Temperature overrides DefaultTemperature when positive.
	Temperature float64

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

func (c Config) validate(needsGenerator bool) error {
	if needsGenerator && c.Generator == nil {
		return errors.New("strategy: generator is required")
	}
	if needsGenerator && strings.TrimSpace(c.Model) == "" {
		return errors.New("strategy: judge model is required")
	}
	return nil
}

func (c Config) temperature() float64 {
	if c.Temperature > 0 {
		return c.Temperature
	}
	return DefaultTemperature
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// New constructs the strategy for kind.
func New(kind Kind, cfg Config) (Strategy, error) {
	switch kind {
	case KindSingle:
		return NewSingle(cfg)
	case KindPairwise:
		return NewPairwise(cfg)
	case KindComprehensive:
		return NewComprehensive(cfg)
	case KindSkills:
		return NewSkills(cfg)
	case KindRouter:
		return NewRouter(cfg)
	case KindTrajectory:
		return NewTrajectory(cfg)
	case KindCustomMetric:
		return NewCustomMetric(cfg)
	case KindCode:
		return NewCode(cfg)
	default:
		return nil, fmt.Errorf("strategy: unknown kind %q", kind)
	}
}

// metricDef declares one expected metric of a strategy. The expected
// metric set is an explicit ordered list owned by the strategy, so the
// parser's extraction targets are statically known.
type metricDef struct {
	// name is the metric key in the result.
	name string

	// label is how the prompt asks the metric to be reported, and what
	// the parser searches for. Defaults to name when empty.
	label string

	// inverted marks risk-scale metrics. The prompt asks for risk (10
	// is worst) and the stored score is 10 minus the extracted value,
	// with the raw risk kept alongside.
	inverted bool
}

func (d metricDef) parseLabel() string {
	if d.label != "" {
		return d.label
	}
	return d.name
}

// extractMetrics pulls every declared metric out of sanitized judge
// output. Metrics that cannot be extracted come back explicitly
// unparsed; when nothing at all parses the error is
// ErrAllMetricsUnparsed.
func extractMetrics(text string, defs []metricDef) (map[string]MetricScore, error) {
	metrics := make(map[string]MetricScore, len(defs))
	parsed := 0
	for _, def := range defs {
		score, ok := parse.ExtractScore(text, def.parseLabel())
		if !ok {
			metrics[def.name] = MetricScore{Unparsed: true}
			continue
		}
		metrics[def.name] = buildMetricScore(def, score, parse.ExtractExplanation(text))
		parsed++
	}
	if parsed == 0 {
		return metrics, fmt.Errorf("%w: expected %d metrics", ErrAllMetricsUnparsed, len(defs))
	}
	return metrics, nil
}

// buildMetricScore converts an extracted value into a stored metric,
// applying the inversion convention and recording any clamping.
func buildMetricScore(def metricDef, score parse.Score, explanation string) MetricScore {
	m := MetricScore{Explanation: explanation}
	if score.Clamped {
		m.Explanation = appendNote(m.Explanation, "score was out of scale and clamped")
	}
	if def.inverted {
		risk := score.Value
		m.RiskScore = &risk
		m.Score = roundScore(parse.ScoreMax - risk)
		return m
	}
	m.Score = score.Value
	return m
}

func appendNote(explanation, note string) string {
	if explanation == "" {
		return note
	}
	return explanation + " [" + note + "]"
}

// judgeMessages builds the standard system + user message pair.
func judgeMessages(system, user string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	}
}

func checkKind[T Request](req Request) (T, error) {
	typed, ok := req.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: got %q", ErrKindMismatch, req.Kind())
	}
	if err := typed.Validate(); err != nil {
		var zero T
		return zero, err
	}
	return typed, nil
}
