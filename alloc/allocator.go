package alloc

import (
	"math/bits"
	"unsafe"

	"github.com/go-kit/log"

	"github.com/pavanmanishd/memrt/internal/sysmem"
)

const (
	// DefaultAlign is the minimum alignment handed out by the bump allocator
	// and the heap allocator.
	DefaultAlign = 16

	// WordSize is the size of a machine word, the smallest usable pool block.
	WordSize = unsafe.Sizeof(uintptr(0))
)

// Allocator is the capability every allocator in this package implements.
//
// Allocate returns nil when the request cannot be served; callers decide
// whether that is fatal. An align of 0 selects the allocator's default and
// alignments that are not a power of two always fail.
//
// TotalAllocated and TotalDeallocated are monotonic byte counters, not a
// live count. They are safe to read from any goroutine.
type Allocator interface {
	Allocate(size, align uintptr) unsafe.Pointer
	Deallocate(p unsafe.Pointer, size, align uintptr)
	TotalAllocated() uint64
	TotalDeallocated() uint64
}

// Layout describes the size and alignment of a request.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// LayoutOf returns the layout of T.
func LayoutOf[T any]() Layout {
	var zero T
	return Layout{Size: unsafe.Sizeof(zero), Align: unsafe.Alignof(zero)}
}

// alignUp rounds off up to align, which must be a power of two.
func alignUp(off, align uintptr) uintptr {
	mask := align - 1
	return (off + mask) &^ mask
}

func isPowerOfTwo(v uintptr) bool {
	return v != 0 && v&(v-1) == 0
}

// normalizeAlign applies the default and floor to a requested alignment.
// It returns 0 for alignments that can never be satisfied.
func normalizeAlign(align, floor uintptr) uintptr {
	if align == 0 {
		return floor
	}
	if !isPowerOfTwo(align) {
		return 0
	}
	return max(align, floor)
}

// mulSize multiplies n elements of size bytes, reporting overflow.
func mulSize(n, size uintptr) (uintptr, bool) {
	hi, lo := bits.Mul64(uint64(n), uint64(size))
	if hi != 0 || lo > uint64(^uintptr(0)) {
		return 0, false
	}
	return uintptr(lo), true
}

// Option configures allocator construction.
type Option func(*options)

type options struct {
	logger   log.Logger
	source   sysmem.Source
	poolSize int
}

func buildOptions(opts []Option) options {
	o := options{
		logger:   log.NewNopLogger(),
		source:   sysmem.Go(),
		poolSize: DefaultSlabPoolSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for growth and leak diagnostics.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSource selects where backing buffers come from.
func WithSource(src sysmem.Source) Option {
	return func(o *options) {
		if src != nil {
			o.source = src
		}
	}
}

// WithMmap backs the allocator with anonymous memory mappings instead of the
// Go heap. Such allocators must be released explicitly.
func WithMmap() Option {
	return WithSource(sysmem.Mmap())
}

// WithPoolSize sets how many objects each slab pool holds.
func WithPoolSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.poolSize = n
		}
	}
}
