package alloc

import (
	"unsafe"

	"go.uber.org/atomic"

	"github.com/pavanmanishd/memrt/internal/sysmem"
)

// DefaultBumpCapacity is the buffer size used when NewBump is given a
// non-positive capacity (1 MiB).
const DefaultBumpCapacity = 1 << 20

// Bump is a bump (arena) allocator over one fixed-size buffer. The cursor
// only moves toward the end of the buffer; memory comes back in bulk through
// Reset or Release, never per allocation. Not goroutine-safe; wrap it in
// Synchronized for concurrent access.
type Bump struct {
	buf    []byte
	base   uintptr // address of buf[0]
	offset uintptr // cursor, relative to base
	src    sysmem.Source

	allocated   atomic.Uint64
	deallocated atomic.Uint64
}

// NewBump creates a bump allocator owning a buffer of capacity bytes.
// If capacity <= 0, DefaultBumpCapacity is used.
func NewBump(capacity int, opts ...Option) *Bump {
	if capacity <= 0 {
		capacity = DefaultBumpCapacity
	}
	o := buildOptions(opts)
	buf := o.source.Acquire(capacity)
	return &Bump{
		buf:  buf,
		base: uintptr(unsafe.Pointer(unsafe.SliceData(buf))),
		src:  o.source,
	}
}

// Allocate returns size bytes aligned to max(align, DefaultAlign), or nil if
// they do not fit in the rest of the buffer. Zero-sized requests return nil.
// The memory is not zeroed.
func (b *Bump) Allocate(size, align uintptr) unsafe.Pointer {
	b.panicIfReleased()
	align = normalizeAlign(align, DefaultAlign)
	if size == 0 || align == 0 {
		return nil
	}

	// Align the absolute address, not the offset, so the buffer's own
	// alignment does not matter.
	off := alignUp(b.base+b.offset, align) - b.base
	end := off + size
	if end < off || end > uintptr(len(b.buf)) {
		return nil
	}

	b.offset = end
	b.allocated.Add(uint64(size))
	return unsafe.Pointer(&b.buf[off])
}

// Alloc allocates size bytes with the default alignment.
func (b *Bump) Alloc(size int) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	return b.Allocate(uintptr(size), 0)
}

// AllocBytes returns a []byte of n bytes pointing into the buffer, or nil if
// n <= 0 or the buffer is exhausted.
func (b *Bump) AllocBytes(n int) []byte {
	p := b.Alloc(n)
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

// Deallocate does not free anything; per-object release is unsupported. It
// only updates the deallocated-bytes counter.
func (b *Bump) Deallocate(p unsafe.Pointer, size, _ uintptr) {
	if p == nil {
		return
	}
	b.deallocated.Add(uint64(size))
}

// Reset moves the cursor back to the start of the buffer. Every pointer
// returned before the reset is invalid afterwards; the caller guarantees
// none of them is still in use.
func (b *Bump) Reset() {
	b.panicIfReleased()
	b.offset = 0
}

// Checkpoint returns the current cursor offset.
func (b *Bump) Checkpoint() uintptr {
	return b.offset
}

// Rewind moves the cursor back to an offset obtained from Checkpoint. Offsets
// beyond the current cursor are ignored.
func (b *Bump) Rewind(off uintptr) {
	b.panicIfReleased()
	if off < b.offset {
		b.offset = off
	}
}

// Used returns the number of bytes consumed, alignment padding included.
func (b *Bump) Used() int { return int(b.offset) }

// Remaining returns the number of bytes left after the cursor.
func (b *Bump) Remaining() int { return len(b.buf) - int(b.offset) }

// Capacity returns the buffer size.
func (b *Bump) Capacity() int { return len(b.buf) }

// Contains reports whether p points into the buffer.
func (b *Bump) Contains(p unsafe.Pointer) bool {
	addr := uintptr(p)
	return addr >= b.base && addr < b.base+uintptr(len(b.buf))
}

// TotalAllocated returns the cumulative number of bytes handed out.
func (b *Bump) TotalAllocated() uint64 { return b.allocated.Load() }

// TotalDeallocated returns the cumulative number of bytes passed to Deallocate.
func (b *Bump) TotalDeallocated() uint64 { return b.deallocated.Load() }

// Metrics returns a snapshot of the allocator's statistics.
func (b *Bump) Metrics() Stats {
	return newStats(b.allocated.Load(), b.deallocated.Load(), b.Used(), b.Capacity())
}

// Release returns the buffer to its source and makes the allocator unusable.
// Any subsequent allocation panics.
func (b *Bump) Release() {
	if b.buf == nil {
		return
	}
	b.src.Free(b.buf)
	b.buf = nil
	b.base = 0
	b.offset = 0
}

func (b *Bump) panicIfReleased() {
	if b.buf == nil {
		panic("alloc: bump allocator used after Release()")
	}
}
