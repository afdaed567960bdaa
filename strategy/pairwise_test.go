package strategy

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbiterdev/arbiter/llm"
	"github.com/arbiterdev/arbiter/parse"
	"github.com/arbiterdev/arbiter/trace"
)

func pairwiseReq() PairwiseRequest {
	return PairwiseRequest{
		Question:  "What is 2+2?",
		ResponseA: "The answer is four.",
		ResponseB: "It equals 5.",
	}
}

func TestPairwiseSingleCall(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"Score A: 9\nScore B: 2\nExplanation: A is correct.\nVerdict: [[A]]",
	}}
	s, err := NewPairwise(testConfig(t, provider))
	require.NoError(t, err)

	result, err := s.Evaluate(context.Background(), pairwiseReq(), trace.New())
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls())
	assert.Equal(t, parse.VerdictA, result.Winner)
	require.NotNil(t, result.ScoreA)
	require.NotNil(t, result.ScoreB)
	assert.Equal(t, 9.0, *result.ScoreA)
	assert.Equal(t, 2.0, *result.ScoreB)

	prompt := provider.userPrompt(t, 0)
	idxA := strings.Index(prompt, "The answer is four.")
	idxB := strings.Index(prompt, "It equals 5.")
	require.Greater(t, idxA, -1)
	require.Greater(t, idxB, -1)
	assert.Less(t, idxA, idxB, "response A must be presented first")
}

func TestPairwiseBiasMitigationAgreement(t *testing.T) {
	// Second call sees the responses swapped, so a consistent judge
	// answers [[A]] then [[B]].
	provider := &scriptedProvider{responses: []string{
		"Score A: 9\nScore B: 2\nVerdict: [[A]]",
		"Score A: 3\nScore B: 8\nVerdict: [[B]]",
	}}
	s, err := NewPairwise(testConfig(t, provider))
	require.NoError(t, err)

	req := pairwiseReq()
	req.MitigateBias = true
	result, err := s.Evaluate(context.Background(), req, trace.New())
	require.NoError(t, err)

	assert.Equal(t, 2, provider.calls())
	assert.Equal(t, parse.VerdictA, result.Winner)
	assert.Equal(t, 8.5, *result.ScoreA)
	assert.Equal(t, 2.5, *result.ScoreB)

	// The swapped call presents B first.
	prompt := provider.userPrompt(t, 1)
	idxA := strings.Index(prompt, "The answer is four.")
	idxB := strings.Index(prompt, "It equals 5.")
	assert.Less(t, idxB, idxA, "swapped call must present response B first")
}

func TestPairwiseBiasMitigationDisagreementIsTie(t *testing.T) {
	// The judge prefers whichever response is shown first: positional
	// bias. Both calls answer [[A]], which disagree after un-swapping.
	provider := &scriptedProvider{responses: []string{
		"Score A: 8\nScore B: 6\nVerdict: [[A]]",
		"Score A: 8\nScore B: 6\nVerdict: [[A]]",
	}}
	s, err := NewPairwise(testConfig(t, provider))
	require.NoError(t, err)

	req := pairwiseReq()
	req.MitigateBias = true
	result, err := s.Evaluate(context.Background(), req, trace.New())
	require.NoError(t, err)

	assert.Equal(t, parse.VerdictTie, result.Winner)
	assert.Equal(t, 7.0, *result.ScoreA)
	assert.Equal(t, 7.0, *result.ScoreB)
}

func TestPairwiseWinnerFallbackFromScores(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"Score A: 4\nScore B: 7\nExplanation: B is more accurate.",
	}}
	s, err := NewPairwise(testConfig(t, provider))
	require.NoError(t, err)

	result, err := s.Evaluate(context.Background(), pairwiseReq(), trace.New())
	require.NoError(t, err)
	assert.Equal(t, parse.VerdictB, result.Winner)
}

func TestPairwiseUnparsedScoresAreTie(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"Both responses are fine in their own way.",
	}}
	s, err := NewPairwise(testConfig(t, provider))
	require.NoError(t, err)

	result, err := s.Evaluate(context.Background(), pairwiseReq(), trace.New())
	require.NoError(t, err)
	assert.Equal(t, parse.VerdictTie, result.Winner)
	assert.Nil(t, result.ScoreA)
	assert.Nil(t, result.ScoreB)
	assert.True(t, result.Metrics["score_a"].Unparsed)
	assert.True(t, result.Metrics["score_b"].Unparsed)
}

func TestPairwiseSingleSwapUnswapsResult(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"Score A: 9\nScore B: 2\nVerdict: [[A]]",
	}}
	s, err := NewPairwise(testConfig(t, provider))
	require.NoError(t, err)
	s.swapCoin = func() bool { return true }

	req := pairwiseReq()
	req.SingleSwap = true
	result, err := s.Evaluate(context.Background(), req, trace.New())
	require.NoError(t, err)

	// Presentation was swapped, so the judged [[A]] is really B.
	assert.Equal(t, parse.VerdictB, result.Winner)
	assert.Equal(t, 2.0, *result.ScoreA)
	assert.Equal(t, 9.0, *result.ScoreB)

	prompt := provider.userPrompt(t, 0)
	idxA := strings.Index(prompt, "The answer is four.")
	idxB := strings.Index(prompt, "It equals 5.")
	assert.Less(t, idxB, idxA)
}

func TestPairwiseChainOfThoughtPrependsSolution(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"2+2 equals 4.",
		"Score A: 9\nScore B: 1\nVerdict: [[A]]",
	}}
	s, err := NewPairwise(testConfig(t, provider))
	require.NoError(t, err)

	req := pairwiseReq()
	req.ChainOfThought = true
	result, err := s.Evaluate(context.Background(), req, trace.New())
	require.NoError(t, err)

	assert.Equal(t, 2, provider.calls())
	assert.Equal(t, parse.VerdictA, result.Winner)
	assert.Contains(t, provider.userPrompt(t, 1), "2+2 equals 4.")
}

func TestPairwiseCancelledBetweenCalls(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	provider := &scriptedProvider{responses: []string{
		"Score A: 8\nScore B: 6\nVerdict: [[A]]",
		"Score A: 8\nScore B: 6\nVerdict: [[A]]",
	}}

	// Cancel as soon as the first call completes; the second call of
	// the double must then never be issued.
	wrapped := &cancelAfterFirst{inner: provider, cancel: cancel}
	s, err := NewPairwise(testConfig(t, wrapped))
	require.NoError(t, err)

	req := pairwiseReq()
	req.MitigateBias = true
	_, err = s.Evaluate(ctx, req, trace.New())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, provider.calls())
}

type cancelAfterFirst struct {
	inner  *scriptedProvider
	cancel context.CancelFunc
}

func (c *cancelAfterFirst) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	resp, err := c.inner.Complete(ctx, req)
	c.cancel()
	return resp, err
}
