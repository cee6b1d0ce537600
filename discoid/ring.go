// Package discoid provides a fixed-capacity, single-writer/single-reader
// byte ring — the "discoid blob ring" external collaborator the
// authoritative step buffer uses to hold concatenated step payload bytes.
//
// Grounded on the teacher's backend.Memory offset arithmetic, generalized
// from random access to a ring's own write/peek/skip cursor discipline.
// No internal locking: single-threaded cooperative use only, same as the
// rest of the core.
package discoid

import (
	"github.com/nimblesteps/nimblesteps-go/errs"
	"github.com/nimblesteps/nimblesteps-go/internal/interfaces"
)

// Ring is a fixed-capacity byte ring with independent write/read/peek/skip
// cursors. Wraparound is this type's own concern; callers never see it.
type Ring struct {
	data       []byte
	capacity   int
	writeIndex int
	readIndex  int
}

// New creates a Ring with the given byte capacity, allocated directly.
func New(capacity int) *Ring {
	return &Ring{
		data:     make([]byte, capacity),
		capacity: capacity,
	}
}

// NewWithAllocator creates a Ring whose backing arena comes from alloc,
// the way the authoritative step buffer's init wires its one big
// allocation through the external allocator collaborator.
func NewWithAllocator(capacity int, alloc interfaces.Allocator) *Ring {
	return &Ring{
		data:     alloc.Alloc(capacity),
		capacity: capacity,
	}
}

// Reset returns the ring to its empty state without reallocating.
func (r *Ring) Reset() {
	r.writeIndex = 0
	r.readIndex = 0
}

// WriteIndex returns the current write cursor position, used by callers to
// stamp a StepInfo.positionInBuffer at the moment of write.
func (r *Ring) WriteIndex() int {
	return r.writeIndex
}

// Write copies p into the ring starting at the write cursor and advances
// it, wrapping as needed.
func (r *Ring) Write(p []byte) error {
	if len(p) > r.capacity {
		return errs.New("discoid.Write", errs.CodeBufferTooSmall, "payload larger than ring capacity")
	}
	r.copyInto(r.writeIndex, p)
	r.writeIndex = (r.writeIndex + len(p)) % r.capacity
	return nil
}

// Read copies len(out) bytes starting at the read cursor into out and
// advances the cursor, wrapping as needed.
func (r *Ring) Read(out []byte) (int, error) {
	n := r.copyFrom(r.readIndex, out)
	r.readIndex = (r.readIndex + len(out)) % r.capacity
	return n, nil
}

// Peek copies len(out) bytes starting at an arbitrary prior write position
// without moving any cursor.
func (r *Ring) Peek(position int, out []byte) (int, error) {
	if position < 0 || position >= r.capacity {
		return 0, errs.New("discoid.Peek", errs.CodeBufferTooSmall, "position out of range")
	}
	return r.copyFrom(position, out), nil
}

// Skip advances the read cursor by n bytes without copying, used to drop
// discarded steps.
func (r *Ring) Skip(n int) error {
	if n < 0 || n > r.capacity {
		return errs.New("discoid.Skip", errs.CodeBufferTooSmall, "skip distance out of range")
	}
	r.readIndex = (r.readIndex + n) % r.capacity
	return nil
}

func (r *Ring) copyInto(start int, p []byte) {
	n := copy(r.data[start:], p)
	if n < len(p) {
		copy(r.data, p[n:])
	}
}

func (r *Ring) copyFrom(start int, out []byte) int {
	n := copy(out, r.data[start:])
	if n < len(out) {
		n += copy(out[n:], r.data[:len(out)-n])
	}
	return n
}
