// Package verify implements the combined-step verifier: a sanity check
// that a payload claims a plausible participant-count / per-participant
// framing, without dereferencing beyond the declared sizes.
package verify

import (
	"github.com/nimblesteps/nimblesteps-go/errs"
	"github.com/nimblesteps/nimblesteps-go/internal/constants"
	"github.com/nimblesteps/nimblesteps-go/internal/octstream"
)

// connectStateBit marks a participant entry as connect-state-only rather
// than carrying a per-step payload.
const connectStateBit = 0x80

// participantIDMask strips the connect-state bit from a participant id
// byte.
const participantIDMask = 0x7F

// Verify sanity-checks a combined step payload and returns its declared
// participant count, or a structured error from errs naming the framing
// violation.
//
//   - participantCount (1 byte, must be <= MaxParticipantCount)
//   - for each participant: participantId (1 byte); if the top bit is
//     set, a 1-byte connect-state follows; else a 1-byte per-participant
//     octet-count (<= MaxPerParticipantOctets) followed by that many
//     payload octets.
func Verify(payload []byte) (int, error) {
	if len(payload) < 1 {
		return 0, errs.New("verify.Verify", errs.CodePayloadTooSmall, "combined step is too small")
	}

	r := octstream.New(payload)

	participantCount, ok := r.ReadU8()
	if !ok {
		return 0, errs.New("verify.Verify", errs.CodePayloadTooSmall, "combined step is too small")
	}
	if int(participantCount) > constants.MaxParticipantCount {
		return 0, errs.New("verify.Verify", errs.CodeParticipantCountTooHigh, "participant count is too high")
	}

	for i := 0; i < int(participantCount); i++ {
		participantID, ok := r.ReadU8()
		if !ok {
			return 0, errs.New("verify.Verify", errs.CodePayloadTruncated, "payload truncated reading participant id")
		}
		maskedID := participantID & participantIDMask
		if int(maskedID) > constants.MaxParticipantID {
			return 0, errs.New("verify.Verify", errs.CodeParticipantIDTooHigh, "participant id is too high")
		}

		if participantID&connectStateBit != 0 {
			if !r.Advance(1) {
				return 0, errs.New("verify.Verify", errs.CodePayloadTruncated, "payload truncated reading connect state")
			}
			continue
		}

		octetCount, ok := r.ReadU8()
		if !ok {
			return 0, errs.New("verify.Verify", errs.CodePayloadTruncated, "payload truncated reading per-step size")
		}
		if int(octetCount) > constants.MaxPerParticipantOctets {
			return 0, errs.New("verify.Verify", errs.CodePerStepSizeInvalid, "per-step size invalid")
		}

		if !r.Advance(int(octetCount)) {
			return 0, errs.New("verify.Verify", errs.CodePayloadTruncated, "payload truncated reading step data")
		}
	}

	return int(participantCount), nil
}
