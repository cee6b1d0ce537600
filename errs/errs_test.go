package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessageWithAndWithoutStepID(t *testing.T) {
	plain := New("pending.trySet", CodeStale, "step is stale")
	assert.Contains(t, plain.Error(), "op=pending.trySet")
	assert.NotContains(t, plain.Error(), "step=")

	withStep := NewStep("pending.trySet", CodeStale, 42, "step is stale")
	assert.Contains(t, withStep.Error(), "step=0000002A")
}

func TestErrorDefaultsMessageToCode(t *testing.T) {
	e := New("op", CodeFull, "")
	assert.Contains(t, e.Error(), string(CodeFull))
}

func TestIsMatchesByCode(t *testing.T) {
	a := New("opA", CodeFull, "a")
	b := New("opB", CodeFull, "b")
	c := New("opC", CodeEmpty, "c")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestWrapPreservesInnerCode(t *testing.T) {
	inner := NewStep("inner.op", CodeOutOfWindow, 7, "out of window")
	wrapped := Wrap("outer.op", inner)

	require.NotNil(t, wrapped)
	assert.Equal(t, CodeOutOfWindow, wrapped.Code)
	assert.Equal(t, "outer.op", wrapped.Op)
	assert.True(t, errors.Is(wrapped, inner))
	assert.ErrorIs(t, wrapped, inner)
}

func TestWrapNilIsNil(t *testing.T) {
	assert.Nil(t, Wrap("op", nil))
}

func TestWrapPlainErrorGetsBadStep(t *testing.T) {
	wrapped := Wrap("op", errors.New("boom"))
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeBadStep, wrapped.Code)
	assert.Equal(t, "boom", wrapped.Msg)
}

func TestIsCode(t *testing.T) {
	err := NewStep("op", CodeConflictingDuplicate, 1, "dup")
	assert.True(t, IsCode(err, CodeConflictingDuplicate))
	assert.False(t, IsCode(err, CodeStale))
	assert.False(t, IsCode(errors.New("plain"), CodeStale))
}
