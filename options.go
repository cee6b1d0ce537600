package nimblesteps

import (
	"github.com/nimblesteps/nimblesteps-go/errs"
	"github.com/nimblesteps/nimblesteps-go/internal/constants"
	"github.com/nimblesteps/nimblesteps-go/internal/interfaces"
)

// Options bundles the knobs both buffers need at construction time.
// Grounded on the teacher's DeviceParams/DefaultParams pattern.
type Options struct {
	// MaxCombinedOctetSize caps one combined step's serialized size.
	// Must be <= LooseMaxCombinedOctetSize.
	MaxCombinedOctetSize int

	// Allocator owns payload bytes for pending steps. Required by
	// PendingWindow; AuthBuffer only ever calls Alloc, never Free (the
	// discoid ring reclaims region space as its tail advances).
	Allocator interfaces.Allocator

	// Log receives debug/info/warn/error output. Nil means silent.
	Log interfaces.Logger
}

// DefaultOptions returns the spec's bit-exact default configuration, with
// no allocator or logger set (callers must supply an Allocator before use).
func DefaultOptions() Options {
	return Options{
		MaxCombinedOctetSize: constants.DefaultMaxCombinedOctetSize,
	}
}

// Validate checks Options against the compatibility constants.
func (o Options) Validate() error {
	if o.MaxCombinedOctetSize <= 0 || o.MaxCombinedOctetSize > constants.LooseMaxCombinedOctetSize {
		return errs.New("Options.Validate", errs.CodeBadStep, "max combined octet size out of range")
	}
	if o.Allocator == nil {
		return errs.New("Options.Validate", errs.CodeBadStep, "allocator is required")
	}
	return nil
}
