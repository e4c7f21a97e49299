package region

import (
	"unsafe"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/pavanmanishd/memrt/alloc"
)

// Arena chains same-capacity regions. When the active region is exhausted
// the arena moves on to the next region it already owns, or appends a new
// one. Reset keeps every region for reuse. Not goroutine-safe.
//
// A single request can never span regions, so requests larger than the
// region capacity fail.
type Arena struct {
	regions  []*Region
	active   int
	capacity int
	opts     []Option
	logger   log.Logger
}

// NewArena creates an arena whose regions hold capacity bytes each.
// If capacity <= 0, DefaultCapacity is used.
func NewArena(capacity int, opts ...Option) *Arena {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	// Overflow would let a region absorb every request and the chain would
	// never advance.
	opts = append(opts[:len(opts):len(opts)], WithOverflow(nil))
	a := &Arena{
		capacity: capacity,
		opts:     opts,
		logger:   buildOptions(opts).logger,
	}
	a.regions = append(a.regions, New(capacity, opts...))
	return a
}

// Allocate returns size bytes aligned to align from the active region,
// advancing to the next region when it is exhausted. It returns nil without
// growing when the request cannot fit in an empty region.
func (a *Arena) Allocate(size, align uintptr) unsafe.Pointer {
	a.panicIfReleased()
	if size == 0 || size > uintptr(a.capacity) {
		return nil
	}
	r := a.regions[a.active]
	if p := r.Allocate(size, align); p != nil {
		return p
	}
	if r.Used() == 0 {
		// A fresh region cannot serve it; neither can the next one.
		return nil
	}
	a.advance()
	return a.regions[a.active].Allocate(size, align)
}

// Alloc allocates size bytes with the default alignment.
func (a *Arena) Alloc(size int) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	return a.Allocate(uintptr(size), 0)
}

// AllocBytes returns n bytes from the arena as a slice, or nil.
func (a *Arena) AllocBytes(n int) []byte {
	p := a.Alloc(n)
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

// Deallocate is a no-op; memory is reclaimed by Reset.
func (a *Arena) Deallocate(unsafe.Pointer, uintptr, uintptr) {}

// EnsureCapacity makes sure the active region has at least n free bytes,
// advancing to a fresh region if it does not. It has no effect when n is
// larger than the region capacity.
func (a *Arena) EnsureCapacity(n int) {
	a.panicIfReleased()
	if n > a.capacity || a.regions[a.active].Available() >= n {
		return
	}
	a.advance()
}

func (a *Arena) advance() {
	a.active++
	if a.active < len(a.regions) {
		return
	}
	a.regions = append(a.regions, New(a.capacity, a.opts...))
	level.Debug(a.logger).Log("msg", "arena grew", "regions", len(a.regions), "region_capacity", a.capacity)
}

// Reset resets every region and makes the first one active again. Every
// pointer handed out before is invalid afterwards.
func (a *Arena) Reset() {
	a.panicIfReleased()
	for _, r := range a.regions {
		r.Reset()
	}
	a.active = 0
}

// Release returns every region's buffer. Any subsequent allocation panics.
func (a *Arena) Release() {
	for _, r := range a.regions {
		r.Release()
	}
	a.regions = nil
	a.active = 0
}

// NumRegions returns the number of regions the arena owns.
func (a *Arena) NumRegions() int { return len(a.regions) }

// RegionCapacity returns the capacity of each region.
func (a *Arena) RegionCapacity() int { return a.capacity }

// TotalUsed returns the bytes used across all regions.
func (a *Arena) TotalUsed() int {
	sum := 0
	for _, r := range a.regions {
		sum += r.Used()
	}
	return sum
}

// Capacity returns the combined capacity of all regions.
func (a *Arena) Capacity() int { return len(a.regions) * a.capacity }

// TotalAllocated returns the cumulative bytes handed out by all regions.
func (a *Arena) TotalAllocated() uint64 {
	var sum uint64
	for _, r := range a.regions {
		sum += r.TotalAllocated()
	}
	return sum
}

// TotalDeallocated returns the cumulative bytes released by all regions.
func (a *Arena) TotalDeallocated() uint64 {
	var sum uint64
	for _, r := range a.regions {
		sum += r.TotalDeallocated()
	}
	return sum
}

// Metrics returns a snapshot of the arena's statistics.
func (a *Arena) Metrics() alloc.Stats {
	s := alloc.Stats{
		Allocated:   a.TotalAllocated(),
		Deallocated: a.TotalDeallocated(),
		InUse:       a.TotalUsed(),
		Capacity:    a.Capacity(),
	}
	if s.Capacity > 0 {
		s.Utilization = float64(s.InUse) / float64(s.Capacity)
	}
	return s
}

func (a *Arena) panicIfReleased() {
	if a.regions == nil {
		panic("region: arena used after Release()")
	}
}
