package nimblesteps

import (
	"bytes"

	"github.com/nimblesteps/nimblesteps-go/errs"
	"github.com/nimblesteps/nimblesteps-go/internal/constants"
	"github.com/nimblesteps/nimblesteps-go/internal/interfaces"
	"github.com/nimblesteps/nimblesteps-go/internal/receivemask"
	"github.com/nimblesteps/nimblesteps-go/internal/verify"
)

// PendingStep is one slot of the pending window: a step received out of
// order, awaiting drain. The payload bytes are owned by the slot until
// ReadDestroy, Reset, or overwrite.
type PendingStep struct {
	payload   []byte
	idForDebug StepID
	isInUse   bool
}

// TrySetResult is the outcome of PendingWindow.TrySet.
type TrySetResult int

const (
	// Inserted means the step was newly accepted into its slot.
	Inserted TrySetResult = 1
	// AlreadyPresent means a byte-identical step already occupied the
	// slot; a silent no-op.
	AlreadyPresent TrySetResult = 0
	// StaleOrOutOfWindow means the step is behind the read cursor or
	// beyond the 64-slot window; a silent no-op.
	StaleOrOutOfWindow TrySetResult = 0
)

// PendingWindow is the 64-slot out-of-order reception window: it accepts
// steps over an unreliable transport, tracks reception via a receive
// mask, and drains received steps in order.
type PendingWindow struct {
	slots         [constants.PendingWindowSize]PendingStep
	writeIndex    int
	readIndex     int
	debugCount    int
	readID        StepID
	hasReceived   bool
	latestReceived StepID
	mask       receivemask.ReceiveMask
	allocator  interfaces.Allocator
	log        interfaces.Logger
}

// NewPendingWindow creates and initializes a PendingWindow.
func NewPendingWindow(lateJoinStepID StepID, opts Options) *PendingWindow {
	w := &PendingWindow{allocator: opts.Allocator, log: opts.Log}
	w.Init(lateJoinStepID)
	return w
}

// Init clears all 64 slots and sets the read cursor to lateJoinStepID.
func (w *PendingWindow) Init(lateJoinStepID StepID) {
	for i := range w.slots {
		w.slots[i] = PendingStep{}
	}
	w.writeIndex = 0
	w.readIndex = 0
	w.debugCount = 0
	w.readID = lateJoinStepID
	w.hasReceived = false
	w.latestReceived = 0
	w.mask.Init(uint32(lateJoinStepID))
}

// Reset frees any still-in-use slots and returns the window to a
// fresh-for-lateJoinStepID state.
func (w *PendingWindow) Reset(lateJoinStepID StepID) {
	for i := range w.slots {
		if w.slots[i].isInUse && w.slots[i].payload != nil {
			w.allocator.Free(w.slots[i].payload)
		}
	}
	w.Init(lateJoinStepID)
}

func (w *PendingWindow) stepIDToIndex(stepID StepID) (int, error) {
	if stepID < w.readID {
		return 0, errs.NewStep("pending.stepIDToIndex", errs.CodeStale, uint32(stepID), "step is stale")
	}
	delta := int(stepID - w.readID)
	if delta >= constants.PendingWindowSize {
		return 0, errs.NewStep("pending.stepIDToIndex", errs.CodeOutOfWindow, uint32(stepID), "step is out of window")
	}
	return (w.readIndex + delta) % constants.PendingWindowSize, nil
}

// TrySet attempts to insert payload at stepID. It returns Inserted (1),
// AlreadyPresent/StaleOrOutOfWindow (0, silent no-ops), or an error for
// CodeConflictingDuplicate or a failing receive-mask update.
func (w *PendingWindow) TrySet(stepID StepID, payload []byte) (TrySetResult, error) {
	index, err := w.stepIDToIndex(stepID)
	if err != nil {
		return StaleOrOutOfWindow, nil
	}

	slot := &w.slots[index]
	if slot.isInUse {
		if slot.idForDebug == stepID && len(slot.payload) == len(payload) && bytes.Equal(slot.payload, payload) {
			return AlreadyPresent, nil
		}
		logError(w.log, "pending slot already in use with different data", "index", index, "stepId", stepID)
		return 0, errs.NewStep("pending.TrySet", errs.CodeConflictingDuplicate, uint32(stepID), "slot already in use with different data")
	}

	if stepID >= StepID(w.mask.ExpectingWriteID) {
		w.writeIndex = index
	}

	if err := w.mask.Received(uint32(stepID)); err != nil {
		logWarn(w.log, "could not update receive mask", "stepId", stepID, "err", err)
		return 0, errs.Wrap("pending.TrySet", err)
	}

	if slot.payload != nil {
		w.allocator.Free(slot.payload)
	}

	buf := w.allocator.Alloc(len(payload))
	copy(buf, payload)
	slot.payload = buf
	slot.idForDebug = stepID
	slot.isInUse = true
	w.debugCount++
	if !w.hasReceived || stepID > w.latestReceived {
		w.hasReceived = true
		w.latestReceived = stepID
	}

	return Inserted, nil
}

// TryRead returns the next in-order step without copying: the returned
// slice aliases the slot's owned bytes. The caller must not retain it past
// a subsequent ReadDestroy for the same id. Returns ok=false when either
// there are no pending steps or the slot at the read cursor is not yet
// in use (a gap).
func (w *PendingWindow) TryRead() (payload []byte, id StepID, ok bool) {
	if w.debugCount == 0 {
		return nil, 0, false
	}

	slot := &w.slots[w.readIndex]
	if !slot.isInUse {
		return nil, 0, false
	}

	w.readIndex = (w.readIndex + 1) % constants.PendingWindowSize
	w.debugCount--
	payload = slot.payload
	id = w.readID
	w.readID++
	slot.isInUse = false

	return payload, id, true
}

// ReadDestroy frees the bytes belonging to the slot one behind the read
// cursor, if its id matches. Returns an error if it does not (the caller
// raced a TryRead it didn't account for).
func (w *PendingWindow) ReadDestroy(id StepID) error {
	lastReadIndex := (w.readIndex - 1 + constants.PendingWindowSize) % constants.PendingWindowSize
	if w.readID-1 != id {
		return errs.NewStep("pending.ReadDestroy", errs.CodeStale, uint32(id), "id does not match last read")
	}
	slot := &w.slots[lastReadIndex]
	if slot.payload != nil {
		w.allocator.Free(slot.payload)
		slot.payload = nil
	}
	return nil
}

// HasStep reports whether id currently occupies an in-use slot.
func (w *PendingWindow) HasStep(id StepID) bool {
	index, err := w.stepIDToIndex(id)
	if err != nil {
		return false
	}
	return w.slots[index].isInUse
}

// CanBeAdvanced reports whether the slot at the read cursor holds a
// payload ready for TryRead.
func (w *PendingWindow) CanBeAdvanced() bool {
	return w.slots[w.readIndex].isInUse
}

// LatestStepID returns the highest step id received so far, if any.
func (w *PendingWindow) LatestStepID() (StepID, bool) {
	if !w.hasReceived {
		return StepMax, false
	}
	return w.latestReceived, true
}

// ReceiveMaskSnapshot returns the current receive mask and its anchor, for
// the transport layer to send as an acknowledgment.
func (w *PendingWindow) ReceiveMaskSnapshot() (headID StepID, mask uint64) {
	return StepID(w.mask.ExpectingWriteID), w.mask.Mask
}

// CopyTo drains pending steps into target while target.AllowedToAdd()
// permits it, verifying each step before writing it through.
func (w *PendingWindow) CopyTo(target *AuthBuffer) error {
	for target.AllowedToAdd() {
		payload, id, ok := w.TryRead()
		if !ok {
			return nil
		}

		if _, err := verify.Verify(payload); err != nil {
			logError(w.log, "could not verify pending step", "stepId", id, "err", err)
		}

		if _, err := target.Write(id, payload); err != nil {
			return err
		}
	}
	return nil
}
