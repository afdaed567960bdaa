package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/cel-go/cel"

	"github.com/arbiterdev/arbiter/llm"
	"github.com/arbiterdev/arbiter/parse"
	"github.com/arbiterdev/arbiter/trace"
)

// CustomMetric scores a response on one user-defined metric with a
// request-supplied scale. The raw score is clamped to the scale and
// linearly rescaled onto [0, 10]; an optional CEL expression over the
// scores decides pass or fail.
type CustomMetric struct {
	gen         *llm.Generator
	model       string
	temperature float64
	logger      *slog.Logger
}

// NewCustomMetric constructs the custom-metric strategy.
func NewCustomMetric(cfg Config) (*CustomMetric, error) {
	if err := cfg.validate(true); err != nil {
		return nil, err
	}
	return &CustomMetric{
		gen:         cfg.Generator,
		model:       cfg.Model,
		temperature: cfg.temperature(),
		logger:      cfg.logger(),
	}, nil
}

func (s *CustomMetric) Kind() Kind { return KindCustomMetric }

func (s *CustomMetric) Evaluate(ctx context.Context, req Request, tr *trace.Trace) (*Result, error) {
	r, err := checkKind[CustomMetricRequest](req)
	if err != nil {
		return nil, err
	}

	done := tr.StartStep("custom metric judgment")
	out, err := s.gen.Generate(ctx, s.model,
		judgeMessages(fmt.Sprintf(metricJudgeSystem, r.MetricName), buildCustomMetricPrompt(r)), tr,
		llm.WithTemperature(s.temperature))
	if err != nil {
		done("generation failed")
		return nil, err
	}

	raw, explanation, found := extractCustomScore(out, r.MetricName)
	if !found {
		done("score unparsed")
		return nil, fmt.Errorf("%w: metric %q not found in judgment", ErrAllMetricsUnparsed, r.MetricName)
	}

	clamped, moved := clampToScale(raw, r.ScaleMin, r.ScaleMax)
	if moved {
		explanation = appendNote(explanation, fmt.Sprintf("score was outside [%g, %g] and clamped", r.ScaleMin, r.ScaleMax))
	}
	normalized := Normalize(clamped, r.ScaleMin, r.ScaleMax)

	result := &Result{
		Kind: KindCustomMetric,
		Metrics: map[string]MetricScore{
			r.MetricName: {Score: clamped, Explanation: explanation},
		},
		OverallScore:    normalized,
		NormalizedScore: &normalized,
		RawJudgment:     out,
	}

	if r.PassCriteria != "" {
		passed, err := EvalPassCriteria(r.PassCriteria, clamped, normalized)
		if err != nil {
			done("pass criteria failed")
			return nil, err
		}
		result.Passed = &passed
	}

	done(fmt.Sprintf("raw=%.2f normalized=%.2f", clamped, normalized))
	return result, nil
}

// extractCustomScore pulls the raw metric value without forcing the
// default 0-10 clamp, since the scale is request-supplied.
func extractCustomScore(text, metricName string) (float64, string, bool) {
	explanation := parse.ExtractExplanation(text)
	if section, ok := parse.ExtractSection(text, metricName, "explanation"); ok {
		if v, found := parse.ExtractRawNumber(section); found {
			return v, explanation, true
		}
	}
	if v, found := parse.ExtractRawNumber(text); found {
		return v, explanation, true
	}
	return 0, "", false
}

func clampToScale(v, min, max float64) (float64, bool) {
	if v < min {
		return min, true
	}
	if v > max {
		return max, true
	}
	return v, false
}

// Normalize rescales a value on [min, max] linearly onto [0, 10].
func Normalize(v, min, max float64) float64 {
	return roundScore((v - min) / (max - min) * 10)
}

// EvalPassCriteria evaluates a CEL expression with the variables
// `score` (raw, on the request scale) and `normalized` (on [0, 10]).
// The expression must produce a boolean.
func EvalPassCriteria(expr string, score, normalized float64) (bool, error) {
	env, err := cel.NewEnv(
		cel.Variable("score", cel.DoubleType),
		cel.Variable("normalized", cel.DoubleType),
	)
	if err != nil {
		return false, fmt.Errorf("strategy: build criteria environment: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return false, fmt.Errorf("strategy: compile pass criteria %q: %w", expr, iss.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("strategy: build criteria program: %w", err)
	}

	out, _, err := prg.Eval(map[string]any{
		"score":      score,
		"normalized": normalized,
	})
	if err != nil {
		return false, fmt.Errorf("strategy: evaluate pass criteria: %w", err)
	}

	passed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("strategy: pass criteria %q did not produce a boolean", expr)
	}
	return passed, nil
}
