package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arbiterdev/arbiter/llm"
	"github.com/arbiterdev/arbiter/parse"
	"github.com/arbiterdev/arbiter/trace"
)

// Single judges one response to one question with a single backend
// call, producing an overall score plus strengths and weaknesses text.
type Single struct {
	gen         *llm.Generator
	model       string
	temperature float64
	logger      *slog.Logger
}

// NewSingle constructs the single-response strategy.
func NewSingle(cfg Config) (*Single, error) {
	if err := cfg.validate(true); err != nil {
		return nil, err
	}
	return &Single{
		gen:         cfg.Generator,
		model:       cfg.Model,
		temperature: cfg.temperature(),
		logger:      cfg.logger(),
	}, nil
}

func (s *Single) Kind() Kind { return KindSingle }

// Evaluate runs one judge call and extracts the overall score and the
// strengths/weaknesses sections.
func (s *Single) Evaluate(ctx context.Context, req Request, tr *trace.Trace) (*Result, error) {
	r, err := checkKind[SingleRequest](req)
	if err != nil {
		return nil, err
	}

	done := tr.StartStep("single judgment")
	out, err := s.gen.Generate(ctx, s.model,
		judgeMessages(singleJudgeSystem, buildSinglePrompt(r)), tr,
		llm.WithTemperature(s.temperature))
	if err != nil {
		done("generation failed")
		return nil, err
	}

	score, ok := parse.ExtractScore(out, "score")
	if !ok {
		done("score unparsed")
		return nil, fmt.Errorf("%w: no overall score in judgment", ErrAllMetricsUnparsed)
	}

	overall := buildMetricScore(metricDef{name: "overall", label: "score"}, score, parse.ExtractExplanation(out))

	result := &Result{
		Kind:         KindSingle,
		Metrics:      map[string]MetricScore{"overall": overall},
		OverallScore: overall.Score,
		RawJudgment:  out,
	}
	if section, ok := parse.ExtractSection(out, "strengths", "weaknesses", "explanation", "score"); ok {
		result.Strengths = section
	}
	if section, ok := parse.ExtractSection(out, "weaknesses", "strengths", "explanation", "score"); ok {
		result.Weaknesses = section
	}

	done(fmt.Sprintf("score=%.2f", overall.Score))
	return result, nil
}
