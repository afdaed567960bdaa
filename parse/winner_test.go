package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVerdict(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  Verdict
		found bool
	}{
		{"token A", "After comparing both, my verdict is [[A]].", VerdictA, true},
		{"token B", "[[B]]", VerdictB, true},
		{"token tie", "Both are equal: [[C]]", VerdictTie, true},
		{"winner line", "Winner: A", VerdictA, true},
		{"winner is", "The winner is B because it cites sources.", VerdictB, true},
		{"winner tie word", "Winner: Tie", VerdictTie, true},
		{"token beats prose", "Winner: B ... final token [[A]]", VerdictA, true},
		{"nothing", "Both answers have merit.", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractVerdict(tt.text)
			require.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractPairScores(t *testing.T) {
	a, okA, b, okB := ExtractPairScores("Score A: 8.5\nScore B: 6\n[[A]]")
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, 8.5, a.Value)
	assert.Equal(t, 6.0, b.Value)

	_, okA, b, okB = ExtractPairScores("Score B: 7")
	assert.False(t, okA)
	require.True(t, okB)
	assert.Equal(t, 7.0, b.Value)
}

func TestVerdictFromScores(t *testing.T) {
	a := Score{Value: 8}
	b := Score{Value: 6}

	assert.Equal(t, VerdictA, VerdictFromScores(a, true, b, true))
	assert.Equal(t, VerdictB, VerdictFromScores(b, true, a, true))
	assert.Equal(t, VerdictTie, VerdictFromScores(a, true, a, true))
	assert.Equal(t, VerdictTie, VerdictFromScores(a, true, Score{}, false))
	assert.Equal(t, VerdictTie, VerdictFromScores(Score{}, false, Score{}, false))
}

func TestVerdictSwap(t *testing.T) {
	assert.Equal(t, VerdictB, VerdictA.Swap())
	assert.Equal(t, VerdictA, VerdictB.Swap())
	assert.Equal(t, VerdictTie, VerdictTie.Swap())
}

func TestVerdictIsValid(t *testing.T) {
	assert.True(t, VerdictA.IsValid())
	assert.True(t, VerdictTie.IsValid())
	assert.False(t, Verdict("D").IsValid())
	assert.False(t, Verdict("").IsValid())
}
