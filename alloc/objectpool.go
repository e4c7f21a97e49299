package alloc

import (
	"unsafe"

	"github.com/pkg/errors"
)

// ObjectPool recycles values of a plain-data type T through a Slab. Values
// live in untyped slab memory, so T must be pointer-free. Not goroutine-safe.
type ObjectPool[T any] struct {
	slab    *Slab
	factory func() T
	inUse   int
}

// NewObjectPool creates a pool. factory, when non-nil, initializes every
// value handed out by Get; otherwise values are zeroed.
func NewObjectPool[T any](factory func() T, opts ...Option) (*ObjectPool[T], error) {
	if !PointerFree[T]() {
		return nil, errors.Wrapf(ErrPointerType, "object pool of %T", *new(T))
	}
	size := max(int(LayoutOf[T]().Size), 1)
	slab, err := NewSlab(size, opts...)
	if err != nil {
		return nil, err
	}
	return &ObjectPool[T]{slab: slab, factory: factory}, nil
}

// Get returns a fresh value.
func (p *ObjectPool[T]) Get() *T {
	ptr := p.slab.Get()
	v := (*T)(ptr)
	if p.factory != nil {
		*v = p.factory()
	} else {
		var zero T
		*v = zero
	}
	p.inUse++
	return v
}

// Put returns v to the pool. v must not be used afterwards.
func (p *ObjectPool[T]) Put(v *T) {
	if v == nil {
		return
	}
	p.slab.Put(unsafe.Pointer(v))
	p.inUse--
}

// Preallocate makes sure at least n values can be handed out without
// growing the slab.
func (p *ObjectPool[T]) Preallocate(n int) {
	if p.Available() >= n {
		return
	}
	held := make([]unsafe.Pointer, 0, n)
	for i := 0; i < n; i++ {
		held = append(held, p.slab.Get())
	}
	for i := len(held) - 1; i >= 0; i-- {
		p.slab.Put(held[i])
	}
}

// InUse returns how many values are checked out.
func (p *ObjectPool[T]) InUse() int { return p.inUse }

// Available returns how many values can be handed out before the slab grows.
func (p *ObjectPool[T]) Available() int {
	free := 0
	for _, pool := range p.slab.pools {
		free += pool.Available()
	}
	return free
}

// Clear releases all backing memory. Values still checked out become invalid.
func (p *ObjectPool[T]) Clear() {
	p.slab.Release()
	p.inUse = 0
}
