package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbiterdev/arbiter"
	"github.com/arbiterdev/arbiter/strategy"
	"github.com/arbiterdev/arbiter/trace"
)

func sampleJudgment(id string, kind strategy.Kind) *arbiter.Judgment {
	var req strategy.Request
	switch kind {
	case strategy.KindPairwise:
		req = strategy.PairwiseRequest{Question: "q", ResponseA: "a", ResponseB: "b"}
	default:
		req = strategy.SingleRequest{Question: "q", Response: "r"}
	}
	return &arbiter.Judgment{
		ID:     id,
		Kind:   kind,
		Inputs: req,
		Result: &strategy.Result{
			Kind:         kind,
			Metrics:      map[string]strategy.MetricScore{"overall": {Score: 7.5, Explanation: "fine"}},
			OverallScore: 7.5,
		},
		Trace: []trace.Step{{
			Name:      "single judgment",
			StartedAt: time.Now().Add(-time.Second),
			EndedAt:   time.Now(),
			Summary:   "score=7.50",
		}},
		Model:     "judge-model",
		Duration:  time.Second,
		CreatedAt: time.Now().UTC(),
	}
}

// storeUnderTest runs the shared contract tests against any Store.
func storeUnderTest(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	_, err := st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	j := sampleJudgment("j-1", strategy.KindSingle)
	require.NoError(t, st.Save(ctx, j))

	loaded, err := st.Get(ctx, "j-1")
	require.NoError(t, err)
	assert.Equal(t, j.ID, loaded.ID)
	assert.Equal(t, j.Kind, loaded.Kind)
	assert.Equal(t, 7.5, loaded.OverallScore())
	assert.Equal(t, "judge-model", loaded.Model)
	require.Len(t, loaded.Trace, 1)
	assert.Equal(t, "single judgment", loaded.Trace[0].Name)

	// Inputs come back as the concrete request type.
	single, ok := loaded.Inputs.(strategy.SingleRequest)
	require.True(t, ok)
	assert.Equal(t, "q", single.Question)

	require.NoError(t, st.Save(ctx, sampleJudgment("j-2", strategy.KindPairwise)))

	all, err := st.List(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pairwiseOnly, err := st.List(ctx, strategy.KindPairwise, 10)
	require.NoError(t, err)
	require.Len(t, pairwiseOnly, 1)
	assert.Equal(t, "j-2", pairwiseOnly[0].ID)

	limited, err := st.List(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMemoryStore(t *testing.T) {
	st := NewMemory()
	storeUnderTest(t, st)
	assert.Equal(t, 2, st.Len())
	assert.NoError(t, st.Close())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "judgments.db")
	st, err := NewSQLite(path)
	require.NoError(t, err)
	defer st.Close()

	storeUnderTest(t, st)
}

func TestSQLiteSaveOverwrites(t *testing.T) {
	st, err := NewSQLite(filepath.Join(t.TempDir(), "judgments.db"))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	j := sampleJudgment("j-1", strategy.KindSingle)
	require.NoError(t, st.Save(ctx, j))

	j.Result.OverallScore = 9.0
	require.NoError(t, st.Save(ctx, j))

	loaded, err := st.Get(ctx, "j-1")
	require.NoError(t, err)
	assert.Equal(t, 9.0, loaded.OverallScore())

	all, err := st.List(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNewSQLiteRequiresPath(t *testing.T) {
	_, err := NewSQLite("")
	assert.Error(t, err)
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis(RedisOptions{URL: "not-a-url"})
	assert.Error(t, err)
}

func TestDecodeRequestUnknownKind(t *testing.T) {
	_, err := decodeRequest(strategy.Kind("bogus"), []byte(`{}`))
	assert.Error(t, err)
}

type failingRunner struct{}

func (failingRunner) Run(context.Context, strategy.Request) (*arbiter.Judgment, error) {
	return nil, errors.New("evaluation failed")
}

type okRunner struct{ j *arbiter.Judgment }

func (r okRunner) Run(context.Context, strategy.Request) (*arbiter.Judgment, error) {
	return r.j, nil
}

func TestRunAndSave(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	j := sampleJudgment("j-9", strategy.KindSingle)
	saved, err := RunAndSave(ctx, okRunner{j: j}, st, strategy.SingleRequest{Question: "q", Response: "r"})
	require.NoError(t, err)
	assert.Equal(t, "j-9", saved.ID)
	assert.Equal(t, 1, st.Len())
}

func TestRunAndSaveDoesNotPersistFailures(t *testing.T) {
	st := NewMemory()
	_, err := RunAndSave(context.Background(), failingRunner{}, st, strategy.SingleRequest{Question: "q", Response: "r"})
	require.Error(t, err)
	assert.Equal(t, 0, st.Len())
}
