package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arbiterdev/arbiter/analyzer"
	"github.com/arbiterdev/arbiter/trace"
)

// Code runs static analysis over a code sample. It is the one strategy
// that never calls the generation backend, so its scores are fully
// deterministic.
type Code struct {
	logger *slog.Logger
}

// NewCode constructs the static-analysis strategy.
func NewCode(cfg Config) (*Code, error) {
	if err := cfg.validate(false); err != nil {
		return nil, err
	}
	return &Code{logger: cfg.logger()}, nil
}

func (s *Code) Kind() Kind { return KindCode }

func (s *Code) Evaluate(ctx context.Context, req Request, tr *trace.Trace) (*Result, error) {
	r, err := checkKind[CodeRequest](req)
	if err != nil {
		return nil, err
	}

	done := tr.StartStep("static analysis")
	report := analyzer.Analyze(ctx, r.Code, r.Language, analyzer.Options{
		Execute:        r.Execute,
		TestInputs:     r.TestInputs,
		ExpectedOutput: r.ExpectedOutput,
	})
	done(fmt.Sprintf("score=%.2f vulnerabilities=%d smells=%d",
		report.OverallScore, report.VulnerabilityCount(), report.SmellCount()))

	metrics := map[string]MetricScore{
		"syntax": {
			Score:       syntaxMetric(report),
			Explanation: syntaxExplanation(report),
		},
		"quality": {
			Score: report.Quality.Maintainability,
			Explanation: fmt.Sprintf("maintainability %.2f, readability %.2f, technical debt %.2f%%",
				report.Quality.Maintainability, report.Quality.Readability, report.Quality.TechnicalDebtRatio),
		},
		"security": {
			Score:       securityMetric(report),
			Explanation: fmt.Sprintf("%d security findings", report.VulnerabilityCount()),
		},
	}
	if report.Execution != nil {
		metrics["execution"] = MetricScore{
			Score:       executionMetric(report.Execution),
			Explanation: executionExplanation(report.Execution),
		}
	}

	return &Result{
		Kind:         KindCode,
		Metrics:      metrics,
		OverallScore: report.OverallScore,
		Report:       report,
	}, nil
}

func syntaxMetric(r *analyzer.Report) float64 {
	if !r.Syntax.Valid {
		return 0
	}
	return 10
}

func syntaxExplanation(r *analyzer.Report) string {
	if r.Syntax.Valid {
		return "syntax valid"
	}
	return fmt.Sprintf("syntax invalid: %d errors", len(r.Syntax.Errors))
}

func securityMetric(r *analyzer.Report) float64 {
	v := 10.0
	for _, f := range r.Security {
		switch f.Severity {
		case analyzer.SeverityBlocker:
			v -= 4
		case analyzer.SeverityCritical:
			v -= 3
		default:
			v -= 1
		}
	}
	if v < 0 {
		return 0
	}
	return v
}

func executionMetric(e *analyzer.Execution) float64 {
	if !e.Success {
		return 0
	}
	if e.OutputMatched != nil && !*e.OutputMatched {
		return 5
	}
	return 10
}

func executionExplanation(e *analyzer.Execution) string {
	if !e.Success {
		return "execution failed: " + e.Stderr
	}
	if e.OutputMatched != nil && !*e.OutputMatched {
		return "execution succeeded but output did not match the expected text"
	}
	return fmt.Sprintf("execution succeeded in %s", e.Elapsed)
}
