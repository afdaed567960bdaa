// Package trace records the ordered sequence of internal processing steps
// performed during an evaluation. A Trace is created empty when a request
// starts, appended to by each pipeline stage, and frozen before it is
// attached to the returned judgment.
package trace

import (
	"encoding/json"
	"sync"
	"time"
)

// Step is a single recorded pipeline stage.
type Step struct {
	// Name identifies the stage, e.g. "prompt_built", "generate_attempt_1".
	Name string `json:"step" yaml:"step"`

	// StartedAt is when the stage began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// EndedAt is when the stage completed.
	EndedAt time.Time `json:"ended_at" yaml:"ended_at"`

	// Summary is a short human-readable outcome description.
	// It must never contain full prompt or response bodies.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Duration returns the elapsed time of the step.
func (s Step) Duration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}

// Trace is an append-only, thread-safe sequence of steps.
// After Freeze is called all further appends are silently discarded,
// so a judgment handed to a caller can never be mutated retroactively.
type Trace struct {
	mu     sync.Mutex
	steps  []Step
	frozen bool
}

// New returns an empty trace ready for appending.
func New() *Trace {
	return &Trace{}
}

// Append adds a fully-formed step to the trace.
// It is a no-op once the trace is frozen, and on a nil trace, so callers
// that do not record traces can pass nil.
func (t *Trace) Append(step Step) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frozen {
		return
	}
	t.steps = append(t.steps, step)
}

// StartStep begins a named step and returns a function that completes it.
// The returned function records the end time and summary and appends the
// step; calling it more than once appends duplicate steps and should be
// avoided.
//
//	done := tr.StartStep("model_called")
//	...
//	done("attempt 1 succeeded")
func (t *Trace) StartStep(name string) func(summary string) {
	started := time.Now()
	return func(summary string) {
		t.Append(Step{
			Name:      name,
			StartedAt: started,
			EndedAt:   time.Now(),
			Summary:   summary,
		})
	}
}

// Freeze marks the trace immutable. Subsequent Append calls are ignored.
func (t *Trace) Freeze() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frozen = true
}

// Frozen reports whether the trace has been frozen.
func (t *Trace) Frozen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frozen
}

// Steps returns a copy of the recorded steps in append order.
func (t *Trace) Steps() []Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}

// Len returns the number of recorded steps.
func (t *Trace) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.steps)
}

// MarshalJSON serializes the trace as its step list.
func (t *Trace) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Steps())
}
