package arbiter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := &Error{Op: "Engine.Run", Kind: KindGeneration, Err: ErrGenerationExhausted}
	assert.Contains(t, err.Error(), "Engine.Run")
	assert.Contains(t, err.Error(), KindGeneration)

	bare := &Error{Op: "Engine.Run", Kind: KindValidation}
	assert.Contains(t, bare.Error(), KindValidation)
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("backend down")
	err := &Error{Op: "Engine.Run", Kind: KindGeneration, Err: inner}
	assert.ErrorIs(t, err, inner)
}

func TestErrorIsMatchesByKind(t *testing.T) {
	err := &Error{Op: "Engine.Run", Kind: KindParse, Err: ErrStrategyFailed}

	assert.ErrorIs(t, err, &Error{Kind: KindParse})
	assert.NotErrorIs(t, err, &Error{Kind: KindGeneration})
	assert.ErrorIs(t, err, &Error{Op: "Engine.Run", Kind: KindParse})
	assert.NotErrorIs(t, err, &Error{Op: "Engine.Other", Kind: KindParse})
}

func TestErrorWithContext(t *testing.T) {
	base := &Error{Op: "Engine.Run", Kind: KindStrategy, Err: ErrStrategyFailed}
	withCtx := base.WithContext(map[string]any{"evaluation_kind": "pairwise"})

	assert.Equal(t, "pairwise", withCtx.Context["evaluation_kind"])
	assert.Nil(t, base.Context, "original error must not be mutated")
	assert.Contains(t, withCtx.Error(), "pairwise")
}

func TestErrorKind(t *testing.T) {
	err := &Error{Op: "Engine.Run", Kind: KindCancelled, Err: ErrCancelled}
	assert.Equal(t, KindCancelled, ErrorKind(err))

	wrapped := errors.Join(errors.New("outer"), err)
	assert.Equal(t, KindCancelled, ErrorKind(wrapped))

	require.Equal(t, "", ErrorKind(errors.New("plain")))
}
