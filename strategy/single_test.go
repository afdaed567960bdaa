package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbiterdev/arbiter/trace"
)

func TestSingleEvaluate(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"Score: 8.5\nStrengths: accurate and concise.\nWeaknesses: no sources cited.\nExplanation: a solid answer overall.",
	}}
	s, err := NewSingle(testConfig(t, provider))
	require.NoError(t, err)

	tr := trace.New()
	result, err := s.Evaluate(context.Background(), SingleRequest{
		Question: "What is the boiling point of water?",
		Response: "100 degrees Celsius at sea level.",
	}, tr)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls())
	assert.Equal(t, 8.5, result.OverallScore)
	assert.Equal(t, "accurate and concise.", result.Strengths)
	assert.Equal(t, "no sources cited.", result.Weaknesses)
	assert.Equal(t, "a solid answer overall.", result.Metrics["overall"].Explanation)
	assert.Greater(t, tr.Len(), 0)
}

func TestSingleIncludesReferenceAndTaskType(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"Score: 7"}}
	s, err := NewSingle(testConfig(t, provider))
	require.NoError(t, err)

	_, err = s.Evaluate(context.Background(), SingleRequest{
		Question:  "q",
		Response:  "r",
		Reference: "the gold answer",
		TaskType:  "coding",
	}, trace.New())
	require.NoError(t, err)

	prompt := provider.userPrompt(t, 0)
	assert.Contains(t, prompt, "the gold answer")
	assert.Contains(t, prompt, "coding")
}

func TestSingleUnparsedScoreFails(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"This response is quite good but I will not commit to a number.",
	}}
	s, err := NewSingle(testConfig(t, provider))
	require.NoError(t, err)

	_, err = s.Evaluate(context.Background(), SingleRequest{
		Question: "q", Response: "r",
	}, trace.New())
	require.ErrorIs(t, err, ErrAllMetricsUnparsed)
}
