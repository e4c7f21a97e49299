package alloc

import (
	"fmt"
	"sort"
	"sync"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.uber.org/atomic"
)

// Tracking decorates an allocator with a per-pointer side table and running
// byte totals, for leak diagnostics.
//
// The side table has its own mutex. That makes the decorator's bookkeeping
// safe for concurrent use, but it does not make the wrapped allocator safe:
// wrap a Bump, Pool or Slab in Synchronized first if it is shared.
type Tracking struct {
	inner  Allocator
	logger log.Logger

	mu   sync.Mutex
	live map[uintptr]Layout

	allocated   atomic.Uint64
	deallocated atomic.Uint64
}

// Leak is an allocation that was never deallocated.
type Leak struct {
	Addr   uintptr
	Layout Layout
}

// NewTracking wraps inner.
func NewTracking(inner Allocator, opts ...Option) *Tracking {
	o := buildOptions(opts)
	return &Tracking{
		inner:  inner,
		logger: o.logger,
		live:   make(map[uintptr]Layout),
	}
}

// Allocate forwards to the wrapped allocator and records the block.
func (t *Tracking) Allocate(size, align uintptr) unsafe.Pointer {
	p := t.inner.Allocate(size, align)
	if p == nil {
		return nil
	}
	t.allocated.Add(uint64(size))

	t.mu.Lock()
	t.live[uintptr(p)] = Layout{Size: size, Align: align}
	t.mu.Unlock()
	return p
}

// Deallocate forwards to the wrapped allocator and forgets the block.
func (t *Tracking) Deallocate(p unsafe.Pointer, size, align uintptr) {
	if p == nil {
		return
	}
	t.inner.Deallocate(p, size, align)
	t.deallocated.Add(uint64(size))

	t.mu.Lock()
	delete(t.live, uintptr(p))
	t.mu.Unlock()
}

// TotalAllocated returns the bytes allocated through the decorator.
func (t *Tracking) TotalAllocated() uint64 { return t.allocated.Load() }

// TotalDeallocated returns the bytes deallocated through the decorator.
func (t *Tracking) TotalDeallocated() uint64 { return t.deallocated.Load() }

// LiveBytes returns allocated minus deallocated bytes.
func (t *Tracking) LiveBytes() uint64 {
	return t.allocated.Load() - t.deallocated.Load()
}

// LiveAllocations returns the number of blocks not yet deallocated.
func (t *Tracking) LiveAllocations() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// AllocatedSize returns the recorded size of p, or 0 if p is not live.
func (t *Tracking) AllocatedSize(p unsafe.Pointer) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live[uintptr(p)].Size
}

// Leaks returns the live allocations ordered by address.
func (t *Tracking) Leaks() []Leak {
	t.mu.Lock()
	leaks := make([]Leak, 0, len(t.live))
	for addr, l := range t.live {
		leaks = append(leaks, Leak{Addr: addr, Layout: l})
	}
	t.mu.Unlock()

	sort.Slice(leaks, func(i, j int) bool { return leaks[i].Addr < leaks[j].Addr })
	return leaks
}

// ReportLeaks logs every live allocation at warn level and returns how many
// there were.
func (t *Tracking) ReportLeaks() int {
	leaks := t.Leaks()
	for _, l := range leaks {
		level.Warn(t.logger).Log(
			"msg", "allocation not released",
			"addr", fmt.Sprintf("%#x", l.Addr),
			"size", humanize.IBytes(uint64(l.Layout.Size)),
			"align", l.Layout.Align,
		)
	}
	if len(leaks) > 0 {
		level.Warn(t.logger).Log("msg", "leak summary", "count", len(leaks), "bytes", humanize.IBytes(t.LiveBytes()))
	}
	return len(leaks)
}

// Inner returns the wrapped allocator.
func (t *Tracking) Inner() Allocator { return t.inner }

// Metrics reports the decorator's own view: live bytes in use, and the
// wrapped allocator's capacity when it exposes one.
func (t *Tracking) Metrics() Stats {
	capacity := 0
	if m, ok := t.inner.(Measurable); ok {
		capacity = m.Metrics().Capacity
	}
	return newStats(t.allocated.Load(), t.deallocated.Load(), int(t.LiveBytes()), capacity)
}
