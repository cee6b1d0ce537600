// Package receivemask implements the sliding 64-bit receive bitmap
// anchored at an "expecting write" cursor: the engine that records "step
// received" at arbitrary positions within the last 64 tick positions.
package receivemask

import (
	"strconv"
	"strings"

	"github.com/nimblesteps/nimblesteps-go/errs"
)

// AllReceived is the initial mask value: every position before session
// start is treated as already settled, so late-join history is never
// requested for retransmission.
const AllReceived uint64 = ^uint64(0)

// ReceiveMask is a 64-bit bitmap of reception status over the last 64
// step positions ending just before ExpectingWriteID. Bit i (0<=i<=63)
// represents StepID = ExpectingWriteID-1-i; 1 means received.
type ReceiveMask struct {
	ExpectingWriteID uint32
	Mask             uint64
}

// Init resets the mask to all-received, anchored at startID.
func (m *ReceiveMask) Init(startID uint32) {
	m.ExpectingWriteID = startID
	m.Mask = AllReceived
}

// Received records that stepID has been received.
//
// For a stepID at or beyond the current anchor, the mask is shifted left
// by the advance distance and bit 0 is set (the newly admitted "current"
// step). Advancing by more than 63 would shift all known history out of
// the window and fails with CodeFutureTooFar.
//
// For a stepID behind the anchor, the corresponding bit is set directly;
// setting an already-set bit is permitted and has no effect beyond
// debug-observability. A stepID more than 63 bits behind the anchor fails
// with CodePastTooFar.
func (m *ReceiveMask) Received(stepID uint32) error {
	if stepID >= m.ExpectingWriteID {
		advance := stepID - m.ExpectingWriteID + 1
		if advance > 63 {
			return errs.NewStep("receivemask.Received", errs.CodeFutureTooFar, stepID, "advancing too far into the future")
		}
		m.Mask = (m.Mask << advance) | 0x1
		m.ExpectingWriteID = stepID + 1
		return nil
	}

	bitsFromHead := m.ExpectingWriteID - stepID - 1
	if bitsFromHead > 63 {
		return errs.NewStep("receivemask.Received", errs.CodePastTooFar, stepID, "too far in the past")
	}
	m.Mask |= uint64(1) << bitsFromHead
	return nil
}

// DebugString renders the mask as two aligned lines: a bit-position ruler
// (oldest to newest, left to right) and the bit values themselves. No
// control flow depends on it.
func (m *ReceiveMask) DebugString() string {
	var ruler, bits strings.Builder
	for i := 63; i >= 0; i-- {
		if (63-i)%8 == 0 {
			ruler.WriteByte(' ')
			bits.WriteByte(' ')
		} else if (63-i)%4 == 0 {
			ruler.WriteByte('.')
			bits.WriteByte('.')
		}
		ruler.WriteString(strconv.Itoa(i % 10))
		if m.Mask&(uint64(1)<<uint(i)) != 0 {
			bits.WriteByte('1')
		} else {
			bits.WriteByte('0')
		}
	}
	return ruler.String() + "\n" + bits.String()
}
