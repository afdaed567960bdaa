package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arbiterdev/arbiter/llm"
	"github.com/arbiterdev/arbiter/trace"
)

const multiMetricSystem = `You are an impartial judge scoring an AI agent's output across several quality dimensions. Score each requested dimension independently on a 0-10 scale and keep the exact labels and format you are given.`

// singleCallJudge is the shared core of the strategies that extract
// their whole metric set from one backend call.
type singleCallJudge struct {
	gen         *llm.Generator
	model       string
	temperature float64
	logger      *slog.Logger
}

func newSingleCallJudge(cfg Config) (singleCallJudge, error) {
	if err := cfg.validate(true); err != nil {
		return singleCallJudge{}, err
	}
	return singleCallJudge{
		gen:         cfg.Generator,
		model:       cfg.Model,
		temperature: cfg.temperature(),
		logger:      cfg.logger(),
	}, nil
}

// judgeAndExtract issues one call and extracts every declared metric.
// Missing metrics degrade individually; a fully unparseable judgment
// returns ErrAllMetricsUnparsed.
func (j singleCallJudge) judgeAndExtract(ctx context.Context, kind Kind, stepName, prompt string, defs []metricDef, tr *trace.Trace) (*Result, error) {
	done := tr.StartStep(stepName)
	out, err := j.gen.Generate(ctx, j.model,
		judgeMessages(multiMetricSystem, prompt), tr,
		llm.WithTemperature(j.temperature))
	if err != nil {
		done("generation failed")
		return nil, err
	}

	metrics, err := extractMetrics(out, defs)
	if err != nil {
		done("no metrics parsed")
		return nil, err
	}

	result := &Result{
		Kind:         kind,
		Metrics:      metrics,
		OverallScore: meanOfParsed(metrics),
		RawJudgment:  out,
	}
	done(fmt.Sprintf("parsed %d/%d metrics, overall=%.2f", result.ParsedMetricCount(), len(defs), result.OverallScore))
	return result, nil
}
