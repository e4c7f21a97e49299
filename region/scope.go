package region

import "unsafe"

// Scope gives stack discipline to a Region: it captures a checkpoint when
// created and rolls the region back to it when closed.
//
//	s := region.NewScope(r)
//	defer s.Close()
//
// Scopes nest. Closing a scope first closes every scope opened after it, so
// nested scopes always unwind in reverse order of creation. Closing an inner
// scope after its outer scope is a no-op.
type Scope struct {
	r      *Region
	cp     Checkpoint
	closed bool
}

// NewScope opens a scope on r.
func NewScope(r *Region) *Scope {
	s := &Scope{r: r, cp: r.Checkpoint()}
	r.scopes = append(r.scopes, s)
	return s
}

// Alloc allocates size bytes from the region. It returns nil once the scope
// is closed.
func (s *Scope) Alloc(size int) unsafe.Pointer {
	if s.closed {
		return nil
	}
	return s.r.Alloc(size)
}

// AllocLayout allocates size bytes aligned to align from the region.
func (s *Scope) AllocLayout(size, align uintptr) unsafe.Pointer {
	if s.closed {
		return nil
	}
	return s.r.Allocate(size, align)
}

// AllocBytes allocates n bytes from the region as a slice.
func (s *Scope) AllocBytes(n int) []byte {
	if s.closed {
		return nil
	}
	return s.r.AllocBytes(n)
}

// Region returns the region the scope belongs to.
func (s *Scope) Region() *Region { return s.r }

// Closed reports whether the scope has been closed.
func (s *Scope) Closed() bool { return s.closed }

// Reset releases everything allocated since the scope was opened, closing
// any nested scopes, and leaves this scope open.
func (s *Scope) Reset() {
	if s.closed {
		return
	}
	s.unwind(false)
}

// Close releases everything allocated since the scope was opened and closes
// it. Calling Close more than once is safe.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.unwind(true)
}

func (s *Scope) unwind(closeSelf bool) {
	scopes := s.r.scopes
	i := len(scopes) - 1
	for ; i >= 0 && scopes[i] != s; i-- {
		// Inner scopes release their own allocations first.
		s.r.Rollback(scopes[i].cp)
		scopes[i].closed = true
		scopes[i] = nil
	}
	s.r.Rollback(s.cp)
	if closeSelf {
		s.closed = true
		if i >= 0 {
			scopes[i] = nil
			i--
		}
	}
	s.r.scopes = scopes[:i+1]
}
