package rc

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/pavanmanishd/memrt/alloc"
)

// Dropper is implemented by values that need cleanup when the last owner
// lets go of them. Drop is called on a pointer to the stored value.
type Dropper interface {
	Drop()
}

// Cloner is implemented by values that need a deep copy when MakeMut has to
// separate a shared value. Without it the value is copied shallowly.
type Cloner[T any] interface {
	Clone() T
}

// Option configures how a smart pointer stores its value.
type Option func(*options)

type options struct {
	a    alloc.Allocator
	drop any
}

// WithAllocator takes the block from a instead of the Go heap. A
// *alloc.HeapAllocator only accounts for the block. Any other allocator
// stores it in its own memory when the value type holds no Go pointers;
// pointer-holding types fall back to the Go heap.
func WithAllocator(a alloc.Allocator) Option {
	return func(o *options) {
		o.a = a
	}
}

// WithDrop registers f as the destructor, called once with a pointer to the
// value when the last strong owner drops it. It takes precedence over a
// Dropper implementation.
func WithDrop[T any](f func(*T)) Option {
	return func(o *options) {
		o.drop = f
	}
}

// control is shared by every handle to one block.
type control[T any] struct {
	a    alloc.Allocator
	drop func(*T)
}

func newControl[T any](opts []Option) *control[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	c := &control[T]{a: o.a}
	if _, heap := o.a.(*alloc.HeapAllocator); o.a != nil && !heap && !alloc.PointerFree[T]() {
		// Untyped memory is invisible to the garbage collector.
		c.a = nil
	}
	if o.drop != nil {
		f, ok := o.drop.(func(*T))
		if !ok {
			panic(errors.Wrapf(ErrDropType, "got %T for %T", o.drop, (*T)(nil)))
		}
		c.drop = f
	}
	return c
}

// destroy runs the destructor on v, if there is one.
func (c *control[T]) destroy(v *T) {
	if c.drop != nil {
		c.drop(v)
		return
	}
	if d, ok := any(v).(Dropper); ok {
		d.Drop()
	}
}

// clone copies v for MakeMut.
func clone[T any](v *T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}
	return *v
}

// place returns a zeroed H from the control's allocator, or from the Go
// heap. It returns nil only when the allocator is exhausted.
func place[H, T any](c *control[T]) *H {
	if c.a == nil {
		return new(H)
	}
	return alloc.New[H](c.a)
}

// unplace gives a block obtained from place back.
func unplace[H, T any](c *control[T], h *H) {
	if c.a != nil {
		alloc.Free(c.a, h)
	}
}

func allocFailed[H any]() error {
	var h H
	return errors.Wrapf(ErrAllocFailed, "%d-byte block", unsafe.Sizeof(h))
}
