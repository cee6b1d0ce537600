// Package slab provides a sync.Pool-backed allocator for pending step
// payload bytes, the "arena-style allocator" external collaborator the
// core spec treats as opaque.
//
// Unlike the teacher's size-bucketed backend.BufferPool (which buckets by
// power-of-two I/O sizes), pending step payloads are all bounded by one
// configured class size, so a single pool suffices. The *[]byte-through-
// sync.Pool idiom is kept to dodge the interface-boxing allocation a
// sync.Pool of []byte directly would incur.
package slab

import "sync"

// Allocator hands out byte slices from a single size-classed sync.Pool and
// accepts them back. It implements interfaces.Allocator.
type Allocator struct {
	classSize int
	pool      sync.Pool
}

// NewAllocator creates an Allocator whose pool buckets buffers of
// classSize bytes. Requests larger than classSize fall back to a direct
// allocation that is never pooled.
func NewAllocator(classSize int) *Allocator {
	a := &Allocator{classSize: classSize}
	a.pool = sync.Pool{
		New: func() any {
			b := make([]byte, classSize)
			return &b
		},
	}
	return a
}

// Alloc returns a buffer of at least size bytes.
func (a *Allocator) Alloc(size int) []byte {
	if size > a.classSize {
		return make([]byte, size)
	}
	buf := *a.pool.Get().(*[]byte)
	return buf[:size]
}

// Free returns a buffer to the pool. Buffers whose capacity doesn't match
// the pool's class size (i.e. the Alloc fallback path) are simply dropped
// for the garbage collector.
func (a *Allocator) Free(b []byte) {
	c := cap(b)
	if c != a.classSize {
		return
	}
	b = b[:c]
	a.pool.Put(&b)
}

// DefaultAllocator is a package-level convenience allocator sized for the
// default combined-step cap, mirroring the teacher's package-level
// GetBuffer/PutBuffer pair.
var DefaultAllocator = NewAllocator(256)

// Alloc allocates from DefaultAllocator.
func Alloc(size int) []byte { return DefaultAllocator.Alloc(size) }

// Free releases to DefaultAllocator.
func Free(b []byte) { DefaultAllocator.Free(b) }
