package strategy

import (
	"math"
	"sort"

	"github.com/arbiterdev/arbiter/analyzer"
	"github.com/arbiterdev/arbiter/parse"
)

// MetricScore is one scored metric in a Result.
type MetricScore struct {
	// Score is the stored value on [0, 10]. For inverted metrics this
	// is already the prompt-convention inversion of the raw risk.
	Score float64 `json:"score" yaml:"score"`

	// RiskScore carries the raw risk value for inverted metrics
	// (hallucination, toxicity, bias). Nil otherwise.
	RiskScore *float64 `json:"risk_score,omitempty" yaml:"risk_score,omitempty"`

	// Explanation is the judge's free-text reasoning for this metric.
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`

	// Unparsed marks a metric whose score could not be extracted. An
	// unparsed metric never contributes to the overall score.
	Unparsed bool `json:"unparsed,omitempty" yaml:"unparsed,omitempty"`
}

// Result is the structured outcome of one evaluation.
type Result struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Metrics holds every declared metric for the kind, scored or
	// explicitly unparsed. Never silently missing.
	Metrics map[string]MetricScore `json:"metrics" yaml:"metrics"`

	// OverallScore is the kind's combination of its metrics, by
	// default the arithmetic mean of the parsed ones.
	OverallScore float64 `json:"overall_score" yaml:"overall_score"`

	// Winner, ScoreA and ScoreB are populated by pairwise evaluation.
	Winner parse.Verdict `json:"winner,omitempty" yaml:"winner,omitempty"`
	ScoreA *float64      `json:"score_a,omitempty" yaml:"score_a,omitempty"`
	ScoreB *float64      `json:"score_b,omitempty" yaml:"score_b,omitempty"`

	// Strengths and Weaknesses are populated by single evaluation.
	Strengths  string `json:"strengths,omitempty" yaml:"strengths,omitempty"`
	Weaknesses string `json:"weaknesses,omitempty" yaml:"weaknesses,omitempty"`

	// NormalizedScore and Passed are populated by custom-metric
	// evaluation: the [0, 10] rescale of the raw score and the outcome
	// of the pass-criteria expression when one was supplied.
	NormalizedScore *float64 `json:"normalized_score,omitempty" yaml:"normalized_score,omitempty"`
	Passed          *bool    `json:"passed,omitempty" yaml:"passed,omitempty"`

	// Report is populated by code evaluation.
	Report *analyzer.Report `json:"report,omitempty" yaml:"report,omitempty"`

	// RawJudgment is the sanitized judge output the result was parsed
	// from. Pairwise double calls concatenate both outputs.
	RawJudgment string `json:"raw_judgment,omitempty" yaml:"raw_judgment,omitempty"`
}

// ParsedMetricCount returns how many metrics carry a usable score.
func (r *Result) ParsedMetricCount() int {
	n := 0
	for _, m := range r.Metrics {
		if !m.Unparsed {
			n++
		}
	}
	return n
}

// MetricNames returns the result's metric names in sorted order.
func (r *Result) MetricNames() []string {
	names := make([]string, 0, len(r.Metrics))
	for name := range r.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// meanOfParsed computes the arithmetic mean of the parsed metrics,
// rounded away from float noise. Zero when nothing parsed.
func meanOfParsed(metrics map[string]MetricScore) float64 {
	sum, n := 0.0, 0
	for _, m := range metrics {
		if m.Unparsed {
			continue
		}
		sum += m.Score
		n++
	}
	if n == 0 {
		return 0
	}
	return roundScore(sum / float64(n))
}

// roundScore rounds to two decimal places for stable records.
func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
