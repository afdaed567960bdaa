package trace

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace_AppendOrder(t *testing.T) {
	tr := New()
	now := time.Now()

	tr.Append(Step{Name: "prompt_built", StartedAt: now, EndedAt: now})
	tr.Append(Step{Name: "model_called", StartedAt: now, EndedAt: now})
	tr.Append(Step{Name: "response_parsed", StartedAt: now, EndedAt: now})

	steps := tr.Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, "prompt_built", steps[0].Name)
	assert.Equal(t, "model_called", steps[1].Name)
	assert.Equal(t, "response_parsed", steps[2].Name)
}

func TestTrace_StartStep(t *testing.T) {
	tr := New()

	done := tr.StartStep("generate_attempt_1")
	time.Sleep(time.Millisecond)
	done("ok")

	steps := tr.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, "generate_attempt_1", steps[0].Name)
	assert.Equal(t, "ok", steps[0].Summary)
	assert.True(t, steps[0].EndedAt.After(steps[0].StartedAt) || steps[0].EndedAt.Equal(steps[0].StartedAt))
	assert.GreaterOrEqual(t, steps[0].Duration(), time.Duration(0))
}

func TestTrace_FreezeDiscardsAppends(t *testing.T) {
	tr := New()
	tr.Append(Step{Name: "one"})
	tr.Freeze()
	tr.Append(Step{Name: "two"})

	assert.True(t, tr.Frozen())
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, "one", tr.Steps()[0].Name)
}

func TestTrace_StepsReturnsCopy(t *testing.T) {
	tr := New()
	tr.Append(Step{Name: "one"})

	steps := tr.Steps()
	steps[0].Name = "mutated"

	assert.Equal(t, "one", tr.Steps()[0].Name)
}

func TestTrace_MarshalJSON(t *testing.T) {
	tr := New()
	tr.Append(Step{Name: "one", Summary: "done"})
	tr.Freeze()

	data, err := json.Marshal(tr)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"step":"one"`)
	assert.Contains(t, string(data), `"summary":"done"`)
}
