// Package errs provides the structured error type used throughout
// nimblesteps, mapping the core's negative-return-value error taxonomy
// onto idiomatic Go errors.
package errs

import (
	"errors"
	"fmt"
)

// Code is a high-level error category, one per failure kind named in the
// core's error taxonomy.
type Code string

const (
	CodePayloadTooSmall         Code = "payload too small"
	CodePayloadTruncated        Code = "payload truncated"
	CodeParticipantCountTooHigh Code = "participant count too high"
	CodeParticipantIDTooHigh    Code = "participant id too high"
	CodePerStepSizeInvalid      Code = "per-step size invalid"
	CodeFutureTooFar            Code = "future too far"
	CodePastTooFar              Code = "past too far"
	CodeStale                   Code = "stale step"
	CodeOutOfWindow             Code = "out of window"
	CodeConflictingDuplicate    Code = "conflicting duplicate"
	CodeWrongExpectedWrite      Code = "wrong expected write"
	CodeFull                    Code = "buffer full"
	CodeEmpty                   Code = "buffer empty"
	CodeBufferTooSmall          Code = "caller buffer too small"
	CodeOutOfOrder              Code = "out of order"
	CodeBadStep                 Code = "bad step"
)

// Error is a structured nimblesteps error with context and a Code for
// programmatic matching.
type Error struct {
	Op     string // Operation that failed (e.g. "pending.trySet")
	StepID uint32 // StepID involved, if any
	HasID  bool   // whether StepID is meaningful
	Code   Code   // High-level error category
	Msg    string // Human-readable message
	Inner  error  // Wrapped error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.HasID {
		return fmt.Sprintf("nimblesteps: %s (op=%s step=%08X)", msg, e.Op, e.StepID)
	}
	return fmt.Sprintf("nimblesteps: %s (op=%s)", msg, e.Op)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is provides errors.Is support matching by Code.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}
	return false
}

// New creates a new structured error.
func New(op string, code Code, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// NewStep creates a new structured error tied to a specific StepID.
func NewStep(op string, code Code, stepID uint32, msg string) *Error {
	return &Error{Op: op, StepID: stepID, HasID: true, Code: code, Msg: msg}
}

// Wrap wraps an existing error under a new operation name, preserving its
// Code if it is already a structured *Error.
func Wrap(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	if ie, ok := inner.(*Error); ok {
		return &Error{Op: op, StepID: ie.StepID, HasID: ie.HasID, Code: ie.Code, Msg: ie.Msg, Inner: ie.Inner}
	}
	return &Error{Op: op, Code: CodeBadStep, Msg: inner.Error(), Inner: inner}
}

// IsCode reports whether err is a structured *Error with the given Code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
