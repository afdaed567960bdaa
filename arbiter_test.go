package arbiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbiterdev/arbiter/llm"
	"github.com/arbiterdev/arbiter/parse"
	"github.com/arbiterdev/arbiter/strategy"
)

// replayProvider returns canned responses in order.
type replayProvider struct {
	responses []string
	err       error
	calls     int
}

func (p *replayProvider) Complete(_ context.Context, _ *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	idx := p.calls
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return &llm.CompletionResponse{Content: p.responses[idx], FinishReason: "stop"}, nil
}

func fastPolicy() llm.RetryPolicy {
	p := llm.DefaultRetryPolicy()
	p.Delay = 0
	return p
}

func newTestEngine(t *testing.T, provider llm.Provider) *Engine {
	t.Helper()
	e, err := New(provider, "judge-model", WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	return e
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, "m")
	require.Error(t, err)
	assert.Equal(t, KindValidation, ErrorKind(err))

	_, err = New(&replayProvider{}, "")
	require.Error(t, err)
	assert.Equal(t, KindValidation, ErrorKind(err))
}

func TestRunSingleEndToEnd(t *testing.T) {
	provider := &replayProvider{responses: []string{
		"Score: 8\nStrengths: clear.\nWeaknesses: terse.\nExplanation: good answer.",
	}}
	e := newTestEngine(t, provider)

	judgment, err := e.Run(context.Background(), SingleRequest{
		Question: "q", Response: "r",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, judgment.ID)
	assert.Equal(t, strategy.KindSingle, judgment.Kind)
	assert.Equal(t, "judge-model", judgment.Model)
	assert.Equal(t, 8.0, judgment.OverallScore())
	assert.NotEmpty(t, judgment.Trace)
	assert.False(t, judgment.CreatedAt.IsZero())
	assert.GreaterOrEqual(t, judgment.Duration, time.Duration(0))
}

func TestRunPairwiseDispatch(t *testing.T) {
	provider := &replayProvider{responses: []string{
		"Score A: 9\nScore B: 3\nVerdict: [[A]]",
	}}
	e := newTestEngine(t, provider)

	judgment, err := e.Run(context.Background(), PairwiseRequest{
		Question: "q", ResponseA: "a", ResponseB: "b",
	})
	require.NoError(t, err)
	assert.Equal(t, parse.VerdictA, judgment.Result.Winner)
}

func TestRunCodeNeedsNoBackend(t *testing.T) {
	provider := &replayProvider{responses: []string{"unused"}}
	e := newTestEngine(t, provider)

	judgment, err := e.Run(context.Background(), CodeRequest{
		Language: "python",
		Code:     "def add(a, b): return a + b",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, provider.calls)
	require.NotNil(t, judgment.Result.Report)
	assert.True(t, judgment.Result.Report.Syntax.Valid)
}

func TestRunInvalidRequest(t *testing.T) {
	e := newTestEngine(t, &replayProvider{responses: []string{"x"}})

	_, err := e.Run(context.Background(), SingleRequest{Question: "q"})
	require.Error(t, err)
	assert.Equal(t, KindValidation, ErrorKind(err))

	_, err = e.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, KindValidation, ErrorKind(err))
}

func TestRunGenerationExhaustionMapsToGenerationKind(t *testing.T) {
	provider := &replayProvider{err: errors.New("connection refused")}
	e := newTestEngine(t, provider)

	_, err := e.Run(context.Background(), SingleRequest{Question: "q", Response: "r"})
	require.Error(t, err)
	assert.Equal(t, KindGeneration, ErrorKind(err))
	assert.ErrorIs(t, err, ErrGenerationExhausted)

	// The error envelope carries the partial trace.
	var typed *Error
	require.ErrorAs(t, err, &typed)
	assert.NotNil(t, typed.Context["trace"])
}

func TestRunTotalParseFailureMapsToParseKind(t *testing.T) {
	provider := &replayProvider{responses: []string{"no numbers here at all"}}
	e := newTestEngine(t, provider)

	_, err := e.Run(context.Background(), SingleRequest{Question: "q", Response: "r"})
	require.Error(t, err)
	assert.Equal(t, KindParse, ErrorKind(err))
}

func TestRunCancellationMapsToCancelledKind(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(t, &replayProvider{responses: []string{"Score: 8"}})
	_, err := e.Run(ctx, SingleRequest{Question: "q", Response: "r"})
	require.Error(t, err)
	assert.Equal(t, KindCancelled, ErrorKind(err))
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestRunJudgmentTraceIsFrozenSnapshot(t *testing.T) {
	provider := &replayProvider{responses: []string{"Score: 7"}}
	e := newTestEngine(t, provider)

	judgment, err := e.Run(context.Background(), SingleRequest{Question: "q", Response: "r"})
	require.NoError(t, err)

	steps := len(judgment.Trace)
	assert.Greater(t, steps, 0)

	// A second run gets its own fresh trace.
	second, err := e.Run(context.Background(), SingleRequest{Question: "q", Response: "r"})
	require.NoError(t, err)
	assert.Equal(t, steps, len(second.Trace))
	assert.NotEqual(t, judgment.ID, second.ID)
}
