package alloc

import (
	"unsafe"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/pavanmanishd/memrt/internal/sysmem"
)

// DefaultSlabPoolSize is the number of objects in each pool a Slab adds.
const DefaultSlabPoolSize = 64

// Slab serves an unbounded number of fixed-size objects by owning a growing
// list of pools that all share one object size. Not goroutine-safe.
type Slab struct {
	objectSize int
	poolSize   int
	pools      []*Pool
	src        sysmem.Source
	logger     log.Logger
}

// NewSlab creates an empty slab for objects of objectSize bytes. Pools are
// added on demand.
func NewSlab(objectSize int, opts ...Option) (*Slab, error) {
	if objectSize <= 0 {
		return nil, errors.Wrapf(ErrObjectSize, "object size %d", objectSize)
	}
	o := buildOptions(opts)
	return &Slab{
		// Every block must be able to hold the free-list link.
		objectSize: max(objectSize, int(WordSize)),
		poolSize:   o.poolSize,
		src:        o.source,
		logger:     o.logger,
	}, nil
}

// Get returns a block from the first pool with room, adding a pool when
// every existing one is exhausted.
func (s *Slab) Get() unsafe.Pointer {
	for _, p := range s.pools {
		if ptr := p.Get(); ptr != nil {
			return ptr
		}
	}

	p, err := NewPool(s.objectSize, s.poolSize, WithSource(s.src))
	if err != nil {
		// The object size was validated in NewSlab.
		panic(err)
	}
	s.pools = append(s.pools, p)
	level.Debug(s.logger).Log("msg", "slab grew", "object_size", s.objectSize, "pools", len(s.pools))
	return p.Get()
}

// Put hands ptr back to the pool that owns it. Pointers no pool claims are
// ignored.
func (s *Slab) Put(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	if p := s.owner(ptr); p != nil {
		p.Put(ptr)
	}
}

func (s *Slab) owner(ptr unsafe.Pointer) *Pool {
	for _, p := range s.pools {
		if p.Contains(ptr) {
			return p
		}
	}
	return nil
}

// Contains reports whether any pool owns ptr.
func (s *Slab) Contains(ptr unsafe.Pointer) bool {
	return s.owner(ptr) != nil
}

// Allocate serves requests no larger than the object size.
func (s *Slab) Allocate(size, align uintptr) unsafe.Pointer {
	align = normalizeAlign(align, 1)
	if size == 0 || size > uintptr(s.objectSize) || !s.aligned(align) {
		return nil
	}
	return s.Get()
}

// aligned reports whether every block of every pool, present or future,
// honours align. Pool buffers start on a sysmem.Align boundary.
func (s *Slab) aligned(align uintptr) bool {
	if align == 0 || align > sysmem.Align {
		return false
	}
	return alignUp(uintptr(s.objectSize), WordSize)%align == 0
}

// Deallocate returns ptr to its pool.
func (s *Slab) Deallocate(ptr unsafe.Pointer, _, _ uintptr) {
	s.Put(ptr)
}

// Used returns the number of objects currently handed out.
func (s *Slab) Used() int {
	sum := 0
	for _, p := range s.pools {
		sum += p.Used()
	}
	return sum
}

// NumPools returns the number of pools the slab owns.
func (s *Slab) NumPools() int { return len(s.pools) }

// ObjectSize returns the size of each block.
func (s *Slab) ObjectSize() int { return s.objectSize }

// TotalAllocated returns the cumulative number of bytes handed out.
func (s *Slab) TotalAllocated() uint64 {
	var sum uint64
	for _, p := range s.pools {
		sum += p.TotalAllocated()
	}
	return sum
}

// TotalDeallocated returns the cumulative number of bytes returned.
func (s *Slab) TotalDeallocated() uint64 {
	var sum uint64
	for _, p := range s.pools {
		sum += p.TotalDeallocated()
	}
	return sum
}

// Metrics returns a snapshot of the slab's statistics across all pools.
func (s *Slab) Metrics() Stats {
	var inUse, capacity int
	for _, p := range s.pools {
		m := p.Metrics()
		inUse += m.InUse
		capacity += m.Capacity
	}
	return newStats(s.TotalAllocated(), s.TotalDeallocated(), inUse, capacity)
}

// Release frees every pool.
func (s *Slab) Release() {
	for _, p := range s.pools {
		p.Release()
	}
	s.pools = nil
}
