package region

import (
	"unsafe"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.uber.org/atomic"

	"github.com/pavanmanishd/memrt/alloc"
)

// DefaultCapacity is the buffer size used when New is given capacity <= 0.
const DefaultCapacity = 64 << 10

// entry is one logged allocation.
type entry struct {
	ptr    unsafe.Pointer
	layout alloc.Layout
	owner  alloc.Allocator
}

// Checkpoint is a saved allocation position: the bump cursor and the length
// of the allocation log.
type Checkpoint struct {
	offset uintptr
	logLen int
}

// Region is a bump allocator that logs every allocation made through it, so
// that a rollback can hand out-of-band allocations back to their allocator
// as well as rewind the cursor. Not goroutine-safe.
//
// Region implements alloc.Allocator. Deallocate does not free anything;
// memory is reclaimed by Scope rollback, Reset or Release.
type Region struct {
	bump     *alloc.Bump
	overflow alloc.Allocator
	logger   log.Logger

	log      []entry
	scopes   []*Scope
	released bool

	allocated   atomic.Uint64
	deallocated atomic.Uint64
}

// New creates a region with a buffer of capacity bytes.
func New(capacity int, opts ...Option) *Region {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	o := buildOptions(opts)
	return &Region{
		bump:     alloc.NewBump(capacity, o.bump...),
		overflow: o.overflow,
		logger:   o.logger,
	}
}

// Allocate returns size bytes aligned to at least alloc.DefaultAlign, or nil
// when neither the buffer nor the overflow allocator can serve the request.
// The memory is not zeroed.
func (r *Region) Allocate(size, align uintptr) unsafe.Pointer {
	owner := alloc.Allocator(r.bump)
	p := r.bump.Allocate(size, align)
	if p == nil && size > 0 && r.overflow != nil {
		owner = r.overflow
		p = r.overflow.Allocate(size, align)
		if p != nil {
			level.Debug(r.logger).Log("msg", "region overflow", "size", size, "align", align)
		}
	}
	if p == nil {
		return nil
	}
	r.log = append(r.log, entry{ptr: p, layout: alloc.Layout{Size: size, Align: align}, owner: owner})
	r.allocated.Add(uint64(size))
	return p
}

// Alloc allocates size bytes with the default alignment.
func (r *Region) Alloc(size int) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	return r.Allocate(uintptr(size), 0)
}

// AllocLayout allocates size bytes aligned to align.
func (r *Region) AllocLayout(size, align uintptr) unsafe.Pointer {
	return r.Allocate(size, align)
}

// AllocBytes returns n bytes from the region as a slice, or nil.
func (r *Region) AllocBytes(n int) []byte {
	p := r.Alloc(n)
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

// Deallocate is a no-op. Individual blocks are never returned early, which
// keeps the log consistent with what rollback will release.
func (r *Region) Deallocate(unsafe.Pointer, uintptr, uintptr) {}

// Checkpoint returns the current allocation position.
func (r *Region) Checkpoint() Checkpoint {
	return Checkpoint{offset: uintptr(r.bump.Used()), logLen: len(r.log)}
}

// Rollback releases every allocation made after cp, newest first, and moves
// the cursor back to cp. Rolling back to a position at or after the current
// one does nothing.
func (r *Region) Rollback(cp Checkpoint) {
	for i := len(r.log) - 1; i >= cp.logLen; i-- {
		e := r.log[i]
		e.owner.Deallocate(e.ptr, e.layout.Size, e.layout.Align)
		r.deallocated.Add(uint64(e.layout.Size))
		r.log[i] = entry{}
	}
	if cp.logLen < len(r.log) {
		r.log = r.log[:cp.logLen]
	}
	r.bump.Rewind(cp.offset)
}

// Reset releases every allocation, closes every open scope and moves the
// cursor back to the start of the buffer.
func (r *Region) Reset() {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		r.scopes[i].closed = true
	}
	r.scopes = r.scopes[:0]
	r.Rollback(Checkpoint{})
}

// Release resets the region and returns its buffer. The region must not be
// used afterwards.
func (r *Region) Release() {
	if r.released {
		return
	}
	r.released = true
	r.Reset()
	r.bump.Release()
}

// Used returns the number of buffer bytes consumed, alignment padding
// included. Overflow allocations are not counted.
func (r *Region) Used() int { return r.bump.Used() }

// Capacity returns the buffer size.
func (r *Region) Capacity() int { return r.bump.Capacity() }

// Available returns the number of buffer bytes after the cursor.
func (r *Region) Available() int { return r.bump.Remaining() }

// Len returns the number of logged allocations.
func (r *Region) Len() int { return len(r.log) }

// Contains reports whether p points into the region's buffer.
func (r *Region) Contains(p unsafe.Pointer) bool { return r.bump.Contains(p) }

// TotalAllocated returns the cumulative bytes handed out, overflow included.
func (r *Region) TotalAllocated() uint64 { return r.allocated.Load() }

// TotalDeallocated returns the cumulative bytes released by rollbacks.
func (r *Region) TotalDeallocated() uint64 { return r.deallocated.Load() }

// Metrics returns a snapshot of the region's buffer statistics.
func (r *Region) Metrics() alloc.Stats {
	s := r.bump.Metrics()
	s.Allocated = r.allocated.Load()
	s.Deallocated = r.deallocated.Load()
	return s
}

// Scoped runs f inside a new scope that is closed when f returns.
func (r *Region) Scoped(f func(s *Scope) error) error {
	s := NewScope(r)
	defer s.Close()
	return f(s)
}
