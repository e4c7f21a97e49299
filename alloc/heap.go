package alloc

import (
	"unsafe"

	"go.uber.org/atomic"
)

// HeapAllocator forwards every request to the Go heap and keeps byte
// counters. It is safe for concurrent use and is the default allocator.
//
// Deallocate only records the release: the garbage collector reclaims a block
// once the caller drops its last reference to it.
type HeapAllocator struct {
	allocated   atomic.Uint64
	deallocated atomic.Uint64
}

// NewHeap returns a heap allocator with zeroed counters.
func NewHeap() *HeapAllocator {
	return &HeapAllocator{}
}

// Allocate returns a zeroed block of size bytes aligned to align (at least
// DefaultAlign). It returns nil for zero-sized or unsatisfiable requests.
func (h *HeapAllocator) Allocate(size, align uintptr) unsafe.Pointer {
	align = normalizeAlign(align, DefaultAlign)
	if size == 0 || align == 0 {
		return nil
	}
	total := size + align - 1
	if total < size {
		return nil
	}
	// Over-allocate and hand out an aligned interior pointer.
	buf := make([]byte, total)
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	shift := alignUp(addr, align) - addr
	h.allocated.Add(uint64(size))
	return unsafe.Pointer(&buf[shift])
}

// Deallocate records that size bytes were returned.
func (h *HeapAllocator) Deallocate(p unsafe.Pointer, size, _ uintptr) {
	if p == nil {
		return
	}
	h.deallocated.Add(uint64(size))
}

// TotalAllocated returns the cumulative number of bytes handed out.
func (h *HeapAllocator) TotalAllocated() uint64 { return h.allocated.Load() }

// TotalDeallocated returns the cumulative number of bytes returned.
func (h *HeapAllocator) TotalDeallocated() uint64 { return h.deallocated.Load() }

// LiveBytes returns allocated minus deallocated bytes.
func (h *HeapAllocator) LiveBytes() uint64 {
	return h.allocated.Load() - h.deallocated.Load()
}

// Metrics returns a snapshot of heap statistics. The heap is unbounded, so
// Capacity and Utilization are always zero.
func (h *HeapAllocator) Metrics() Stats {
	allocated, deallocated := h.allocated.Load(), h.deallocated.Load()
	return newStats(allocated, deallocated, int(allocated-deallocated), 0)
}

func (h *HeapAllocator) record(n uintptr)  { h.allocated.Add(uint64(n)) }
func (h *HeapAllocator) release(n uintptr) { h.deallocated.Add(uint64(n)) }
