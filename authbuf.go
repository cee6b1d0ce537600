package nimblesteps

import (
	"github.com/nimblesteps/nimblesteps-go/discoid"
	"github.com/nimblesteps/nimblesteps-go/errs"
	"github.com/nimblesteps/nimblesteps-go/internal/constants"
	"github.com/nimblesteps/nimblesteps-go/internal/interfaces"
	"github.com/nimblesteps/nimblesteps-go/internal/verify"
)

// StepInfo indexes one accepted step into the discoid blob ring.
type StepInfo struct {
	PositionInBuffer int
	OctetCount       int
	StepID           StepID
	OptionalTime     int64
}

// AuthBuffer is the strictly-ordered, fixed-capacity authoritative step
// buffer: writes must arrive with consecutive StepIDs, reads produce steps
// in the same order, and random-access peeking by StepID is supported for
// retransmission/serialization.
type AuthBuffer struct {
	ring    interfaces.Ring
	infos   [constants.AuthWindowSize]StepInfo
	log     interfaces.Logger

	stepsCount      int
	expectedWriteID StepID
	expectedReadID  StepID
	infoHeadIndex   int
	infoTailIndex   int
	isInitialized   bool

	maxCombinedOctetSize int
}

// NewAuthBuffer allocates the discoid blob ring and prepares the buffer.
// The buffer is not usable for writes until ReInit is called.
func NewAuthBuffer(opts Options) (*AuthBuffer, error) {
	if opts.MaxCombinedOctetSize > constants.LooseMaxCombinedOctetSize {
		return nil, errs.New("NewAuthBuffer", errs.CodeBadStep, "max combined octet size too large")
	}
	capacity := opts.MaxCombinedOctetSize * constants.DiscoidRingMultiplier
	b := &AuthBuffer{
		log:                  opts.Log,
		maxCombinedOctetSize: opts.MaxCombinedOctetSize,
	}
	if opts.Allocator != nil {
		b.ring = discoid.NewWithAllocator(capacity, opts.Allocator)
	} else {
		b.ring = discoid.New(capacity)
	}
	b.expectedWriteID = StepMax
	b.expectedReadID = StepMax
	return b, nil
}

// ReInit zeroes counters and anchors both cursors at initialID, leaving
// the buffer initialized and ready for writes.
func (b *AuthBuffer) ReInit(initialID StepID) {
	b.stepsCount = 0
	b.expectedWriteID = initialID
	b.expectedReadID = initialID
	b.infoHeadIndex = 0
	b.infoTailIndex = 0
	b.ring.Reset()
	b.isInitialized = true
}

// Reset returns the buffer to an uninitialized state; ReInit must be
// called again before the next write.
func (b *AuthBuffer) Reset() {
	b.ReInit(StepMax)
	b.isInitialized = false
}

// IsInitialized reports whether ReInit has run since construction or the
// last Reset.
func (b *AuthBuffer) IsInitialized() bool {
	return b.isInitialized
}

// AllowedToAdd reports whether the buffer is under its soft write
// threshold (a quarter of capacity), the backpressure signal the copy
// pipeline polls.
func (b *AuthBuffer) AllowedToAdd() bool {
	return b.stepsCount < constants.AuthWriteAllowedLimit
}

func advanceIndex(i int) int {
	return (i + 1) % constants.AuthWindowSize
}

// Write appends data at stepId, which must equal the buffer's expected
// write cursor. Fails with CodeWrongExpectedWrite, CodeFull, or
// CodeBadStep (verifier rejection).
func (b *AuthBuffer) Write(stepID StepID, data []byte) (int, error) {
	if stepID != b.expectedWriteID {
		return 0, errs.NewStep("AuthBuffer.Write", errs.CodeWrongExpectedWrite, uint32(stepID), "non-consecutive write")
	}
	if b.stepsCount == constants.AuthHardFull {
		return 0, errs.NewStep("AuthBuffer.Write", errs.CodeFull, uint32(stepID), "buffer is full")
	}
	if _, err := verify.Verify(data); err != nil {
		logError(b.log, "auth write: bad step", "stepId", stepID, "err", err)
		return 0, errs.Wrap("AuthBuffer.Write", err)
	}

	b.expectedWriteID++

	info := &b.infos[b.infoHeadIndex]
	info.StepID = stepID
	info.OctetCount = len(data)
	info.PositionInBuffer = b.ring.WriteIndex()
	b.infoHeadIndex = advanceIndex(b.infoHeadIndex)

	if err := b.ring.Write(data); err != nil {
		return 0, errs.Wrap("AuthBuffer.Write", err)
	}
	b.stepsCount++

	return len(data), nil
}

func (b *AuthBuffer) advanceTail() (*StepInfo, error) {
	info := &b.infos[b.infoTailIndex]
	b.infoTailIndex = advanceIndex(b.infoTailIndex)

	if info.StepID != b.expectedReadID {
		logError(b.log, "auth buffer out of order", "expected", b.expectedReadID, "got", info.StepID)
		return nil, errs.NewStep("AuthBuffer.advanceTail", errs.CodeOutOfOrder, uint32(info.StepID), "tail info does not match expected read id")
	}
	b.expectedReadID++
	b.stepsCount--

	return info, nil
}

// Read delivers the next step in order into out. Fails with CodeEmpty if
// there is nothing buffered, or CodeBufferTooSmall if out is too small.
func (b *AuthBuffer) Read(out []byte) (StepID, int, error) {
	if b.stepsCount == 0 {
		return 0, 0, errs.New("AuthBuffer.Read", errs.CodeEmpty, "buffer is empty")
	}

	info, err := b.advanceTail()
	if err != nil {
		return 0, 0, err
	}
	if info.OctetCount > len(out) {
		return 0, 0, errs.NewStep("AuthBuffer.Read", errs.CodeBufferTooSmall, uint32(info.StepID), "caller buffer too small")
	}
	n, err := b.ring.Read(out[:info.OctetCount])
	if err != nil {
		return 0, 0, errs.Wrap("AuthBuffer.Read", err)
	}
	return info.StepID, n, nil
}

// Peek reports whether a step is available and, if so, the StepID that
// the next Read would deliver.
func (b *AuthBuffer) Peek() (StepID, bool) {
	return b.expectedReadID, b.stepsCount > 0
}

// Discard advances the tail without delivering bytes, returning the
// discarded StepID.
func (b *AuthBuffer) Discard() (StepID, error) {
	if b.stepsCount == 0 {
		return 0, errs.New("AuthBuffer.Discard", errs.CodeEmpty, "buffer is empty")
	}
	info, err := b.advanceTail()
	if err != nil {
		return 0, err
	}
	if err := b.ring.Skip(info.OctetCount); err != nil {
		return 0, errs.Wrap("AuthBuffer.Discard", err)
	}
	return info.StepID, nil
}

// DiscardCount discards up to n steps, returning the number actually
// discarded (fewer than n if the buffer empties first).
func (b *AuthBuffer) DiscardCount(n int) int {
	discarded := 0
	for discarded < n && b.stepsCount > 0 {
		if _, err := b.Discard(); err != nil {
			break
		}
		discarded++
	}
	return discarded
}

// DiscardUpTo discards steps until ExpectedReadID() == stepID. Idempotent
// for ids at or before the current read cursor.
func (b *AuthBuffer) DiscardUpTo(stepID StepID) int {
	if b.stepsCount == 0 {
		return 0
	}
	if stepID <= b.expectedReadID {
		return 0
	}
	discarded := 0
	for b.expectedReadID != stepID && b.stepsCount > 0 {
		if _, err := b.Discard(); err != nil {
			break
		}
		discarded++
	}
	return discarded
}

// DiscardIncluding discards steps through and including stepID.
func (b *AuthBuffer) DiscardIncluding(stepID StepID) int {
	return b.DiscardUpTo(stepID + 1)
}

// GetIndexForStep linear-scans from the tail for up to stepsCount slots to
// find the info index holding stepID.
func (b *AuthBuffer) GetIndexForStep(stepID StepID) (int, error) {
	idx := b.infoTailIndex
	for i := 0; i < b.stepsCount; i++ {
		if b.infos[idx].StepID == stepID {
			return idx, nil
		}
		idx = advanceIndex(idx)
	}
	return 0, errs.NewStep("AuthBuffer.GetIndexForStep", errs.CodeEmpty, uint32(stepID), "step not found")
}

// ReadAtIndex non-destructively copies the step at infoIndex into out.
func (b *AuthBuffer) ReadAtIndex(infoIndex int, out []byte) (int, error) {
	info := &b.infos[infoIndex]
	if info.OctetCount > len(out) {
		return 0, errs.NewStep("AuthBuffer.ReadAtIndex", errs.CodeBufferTooSmall, uint32(info.StepID), "caller buffer too small")
	}
	return b.ring.Peek(info.PositionInBuffer, out[:info.OctetCount])
}

// ReadAtStep non-destructively reads a specific, currently-buffered step.
func (b *AuthBuffer) ReadAtStep(stepID StepID, out []byte) (int, error) {
	idx, err := b.GetIndexForStep(stepID)
	if err != nil {
		return 0, err
	}
	return b.ReadAtIndex(idx, out)
}

// ReadExactStepID reads one step and requires it to equal needed; on a
// mismatch it discards up through needed and reports the mismatch rather
// than returning mismatched data.
func (b *AuthBuffer) ReadExactStepID(needed StepID, out []byte) (int, error) {
	id, n, err := b.Read(out)
	if err != nil {
		return 0, err
	}
	if id != needed {
		b.DiscardUpTo(needed + 1)
		return 0, errs.NewStep("AuthBuffer.ReadExactStepID", errs.CodeOutOfOrder, uint32(id), "read id did not match needed id")
	}
	return n, nil
}

// LatestStepID returns the most recently written step id, if the buffer
// is non-empty.
func (b *AuthBuffer) LatestStepID() (StepID, bool) {
	if b.stepsCount == 0 {
		return StepMax, false
	}
	return b.expectedWriteID - 1, true
}

// Dropped reports how many steps were skipped between the buffer's
// current write cursor and firstReadStepID, clamped to zero.
func (b *AuthBuffer) Dropped(firstReadStepID StepID) int {
	if firstReadStepID <= b.expectedWriteID {
		return 0
	}
	return int(firstReadStepID - b.expectedWriteID)
}

// ExpectedReadID returns the StepID the next Read will deliver.
func (b *AuthBuffer) ExpectedReadID() StepID {
	return b.expectedReadID
}

// ExpectedWriteID returns the StepID the next Write must supply.
func (b *AuthBuffer) ExpectedWriteID() StepID {
	return b.expectedWriteID
}

// StepsCount returns the number of buffered, unread steps.
func (b *AuthBuffer) StepsCount() int {
	return b.stepsCount
}
