package nimblesteps

import "github.com/nimblesteps/nimblesteps-go/internal/ranges"

// Range names a half-open [StartID, StartID+Count) interval of missing
// steps the transport layer should retransmit.
type Range struct {
	StartID StepID
	Count   int
}

// Ranges synthesizes the retransmission ranges implied by the window's
// current receive mask: everything missing between the read cursor and
// maximumAvailablePlusOne, bounded by maxRanges ranges and maxSteps total
// steps.
func (w *PendingWindow) Ranges(maximumAvailablePlusOne StepID, maxRanges, maxSteps int) []Range {
	headID, mask := w.ReceiveMaskSnapshot()
	raw := ranges.Synthesize(uint32(headID), uint32(maximumAvailablePlusOne), mask, maxRanges, maxSteps)
	out := make([]Range, len(raw))
	for i, r := range raw {
		out[i] = Range{StartID: StepID(r.StartID), Count: r.Count}
	}
	return out
}
