package arbiter

import (
	"time"

	"github.com/arbiterdev/arbiter/strategy"
	"github.com/arbiterdev/arbiter/trace"
)

// Judgment is the durable record of one completed evaluation. It is
// immutable once returned: the trace is frozen and the result is never
// modified by the engine afterwards.
type Judgment struct {
	// ID is a unique identifier assigned when the judgment is built.
	ID string `json:"id" yaml:"id"`

	// Kind is the evaluation kind that produced this judgment.
	Kind strategy.Kind `json:"kind" yaml:"kind"`

	// Inputs is the originating request, kept for reproducibility.
	Inputs strategy.Request `json:"inputs" yaml:"inputs"`

	// Result is the structured evaluation outcome.
	Result *strategy.Result `json:"result" yaml:"result"`

	// Trace is the frozen sequence of pipeline steps.
	Trace []trace.Step `json:"trace" yaml:"trace"`

	// Model is the judge model used, empty for model-free kinds.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Duration is the wall-clock evaluation time.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// CreatedAt is when the evaluation completed.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// OverallScore returns the result's overall score, or zero when the
// judgment has no result.
func (j *Judgment) OverallScore() float64 {
	if j == nil || j.Result == nil {
		return 0
	}
	return j.Result.OverallScore
}
