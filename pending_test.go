package nimblesteps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimblesteps/nimblesteps-go/errs"
	"github.com/nimblesteps/nimblesteps-go/slab"
)

func newTestOptions() Options {
	opts := DefaultOptions()
	opts.Allocator = slab.NewAllocator(opts.MaxCombinedOctetSize)
	return opts
}

// validStep is a zero-participant combined step: the smallest payload
// verify.Verify accepts.
func validStep() []byte { return []byte{0} }

func TestPendingWindowTrySetAndTryRead(t *testing.T) {
	w := NewPendingWindow(0, newTestOptions())

	res, err := w.TrySet(0, validStep())
	require.NoError(t, err)
	assert.Equal(t, Inserted, res)

	payload, id, ok := w.TryRead()
	require.True(t, ok)
	assert.Equal(t, StepID(0), id)
	assert.Equal(t, validStep(), payload)

	_, _, ok = w.TryRead()
	assert.False(t, ok, "nothing left to read")
}

func TestPendingWindowOutOfOrderArrival(t *testing.T) {
	w := NewPendingWindow(0, newTestOptions())

	_, err := w.TrySet(2, validStep())
	require.NoError(t, err)

	_, _, ok := w.TryRead()
	assert.False(t, ok, "step 0 hasn't arrived, step 2 must not be delivered early")

	_, err = w.TrySet(0, validStep())
	require.NoError(t, err)
	_, err = w.TrySet(1, validStep())
	require.NoError(t, err)

	for want := StepID(0); want <= 2; want++ {
		_, id, ok := w.TryRead()
		require.True(t, ok)
		assert.Equal(t, want, id)
	}
}

func TestPendingWindowAlreadyPresentIsIdempotent(t *testing.T) {
	w := NewPendingWindow(0, newTestOptions())

	res, err := w.TrySet(5, validStep())
	require.NoError(t, err)
	assert.Equal(t, Inserted, res)

	res, err = w.TrySet(5, validStep())
	require.NoError(t, err)
	assert.Equal(t, AlreadyPresent, res)
}

func TestPendingWindowConflictingDuplicateErrors(t *testing.T) {
	w := NewPendingWindow(0, newTestOptions())

	_, err := w.TrySet(5, []byte{0})
	require.NoError(t, err)

	_, err = w.TrySet(5, []byte{1, 2, 0})
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.CodeConflictingDuplicate))
}

func TestPendingWindowStaleStepIsSilentlyIgnored(t *testing.T) {
	w := NewPendingWindow(10, newTestOptions())

	res, err := w.TrySet(5, validStep())
	require.NoError(t, err)
	assert.Equal(t, StaleOrOutOfWindow, res)
}

func TestPendingWindowOutOfWindowStepIsSilentlyIgnored(t *testing.T) {
	w := NewPendingWindow(0, newTestOptions())

	res, err := w.TrySet(100, validStep())
	require.NoError(t, err)
	assert.Equal(t, StaleOrOutOfWindow, res)
}

func TestPendingWindowLatestStepID(t *testing.T) {
	w := NewPendingWindow(0, newTestOptions())

	_, ok := w.LatestStepID()
	assert.False(t, ok, "nothing received yet")

	_, err := w.TrySet(3, validStep())
	require.NoError(t, err)
	_, err = w.TrySet(1, validStep())
	require.NoError(t, err)

	latest, ok := w.LatestStepID()
	require.True(t, ok)
	assert.Equal(t, StepID(3), latest)
}

func TestPendingWindowReadDestroyRejectsMismatch(t *testing.T) {
	w := NewPendingWindow(0, newTestOptions())
	_, err := w.TrySet(0, validStep())
	require.NoError(t, err)
	_, _, ok := w.TryRead()
	require.True(t, ok)

	require.NoError(t, w.ReadDestroy(0))
	assert.Error(t, w.ReadDestroy(7), "destroying an id that isn't the last one read must fail")
}

func TestPendingWindowResetFreesInUseSlots(t *testing.T) {
	w := NewPendingWindow(0, newTestOptions())
	_, err := w.TrySet(1, validStep())
	require.NoError(t, err)

	w.Reset(50)
	_, ok := w.LatestStepID()
	assert.False(t, ok)
	assert.False(t, w.HasStep(1))
}

func TestPendingWindowCopyToRespectsBackpressure(t *testing.T) {
	w := NewPendingWindow(0, newTestOptions())
	auth, err := NewAuthBuffer(newTestOptions())
	require.NoError(t, err)
	auth.ReInit(0)

	for i := StepID(0); i < 60; i++ {
		_, err := w.TrySet(i, validStep())
		require.NoError(t, err)
	}

	require.NoError(t, w.CopyTo(auth))
	assert.Equal(t, AuthWriteAllowedLimit, auth.StepsCount(), "copy must stop once the soft threshold is reached")

	out := make([]byte, 4)
	for auth.StepsCount() > 0 {
		_, _, err := auth.Read(out)
		require.NoError(t, err)
	}

	require.NoError(t, w.CopyTo(auth))
	assert.Equal(t, 0, auth.StepsCount(), "no further pending steps after the first 60 drained")
}
