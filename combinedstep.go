package nimblesteps

import "github.com/nimblesteps/nimblesteps-go/internal/verify"

// Verify sanity-checks a combined step payload's participant-count /
// per-participant framing and returns the declared participant count, or
// an *errs.Error naming the violation. It is the sole reader of the
// combined-step wire schema; it never dereferences beyond the declared
// sizes.
func Verify(payload []byte) (int, error) {
	return verify.Verify(payload)
}
