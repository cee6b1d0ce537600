package nimblesteps

import "github.com/nimblesteps/nimblesteps-go/internal/constants"

// StepID is a monotonic 32-bit tick identifier. Arithmetic on it is
// ordinary unsigned arithmetic; no modular comparison is performed, since
// a session is expected to end long before wraparound.
type StepID uint32

// StepMax is the sentinel StepID denoting "absent/uninitialized".
const StepMax StepID = StepID(constants.StepMax)
