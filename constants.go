package nimblesteps

import "github.com/nimblesteps/nimblesteps-go/internal/constants"

// Re-export the bit-exact compatibility constants for callers that need
// them (e.g. to size their own buffers or assert against wire behavior).
const (
	PendingWindowSize           = constants.PendingWindowSize
	AuthWindowSize              = constants.AuthWindowSize
	AuthWriteAllowedLimit       = constants.AuthWriteAllowedLimit
	AuthHardFull                = constants.AuthHardFull
	MaxParticipantCount         = constants.MaxParticipantCount
	MaxParticipantID            = constants.MaxParticipantID
	MaxPerParticipantOctets     = constants.MaxPerParticipantOctets
	DefaultMaxCombinedOctetSize = constants.DefaultMaxCombinedOctetSize
	LooseMaxCombinedOctetSize   = constants.LooseMaxCombinedOctetSize
)
