package alloc

import (
	"sync"
	"unsafe"
)

// Synchronized is a mutex-protected wrapper around any Allocator. All
// operations are goroutine-safe but pay for the lock on every call. It is
// the external lock the bump, pool and slab allocators expect from callers
// that share them.
type Synchronized struct {
	mu sync.Mutex
	a  Allocator
}

// NewSynchronized wraps a.
func NewSynchronized(a Allocator) *Synchronized {
	return &Synchronized{a: a}
}

// Allocate thread-safely forwards to the wrapped allocator.
func (s *Synchronized) Allocate(size, align uintptr) unsafe.Pointer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Allocate(size, align)
}

// Deallocate thread-safely forwards to the wrapped allocator.
func (s *Synchronized) Deallocate(p unsafe.Pointer, size, align uintptr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Deallocate(p, size, align)
}

// TotalAllocated thread-safely returns the wrapped allocator's counter.
func (s *Synchronized) TotalAllocated() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.TotalAllocated()
}

// TotalDeallocated thread-safely returns the wrapped allocator's counter.
func (s *Synchronized) TotalDeallocated() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.TotalDeallocated()
}

// Metrics thread-safely returns the wrapped allocator's statistics, or
// counters only when it does not expose any.
func (s *Synchronized) Metrics() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.a.(Measurable); ok {
		return m.Metrics()
	}
	return newStats(s.a.TotalAllocated(), s.a.TotalDeallocated(), 0, 0)
}

// Do runs f with the lock held, for operations outside the Allocator
// interface such as Bump.Reset.
func (s *Synchronized) Do(f func(a Allocator)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.a)
}
