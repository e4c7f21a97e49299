package alloc

import (
	"reflect"
	"runtime"
	"unsafe"
)

// New returns a pointer to a zeroed T obtained from a, or nil if a cannot
// serve the request.
//
// A *HeapAllocator is special-cased: the value comes from new(T), so the
// garbage collector sees any pointers inside it, and only the byte counters
// are updated. Every other allocator hands out untyped memory the collector
// does not scan, so T must not contain Go pointers (see PointerFree).
func New[T any](a Allocator) *T {
	l := LayoutOf[T]()
	if h, ok := a.(*HeapAllocator); ok {
		h.record(l.Size)
		return new(T)
	}
	if l.Size == 0 {
		return new(T)
	}
	p := a.Allocate(l.Size, l.Align)
	if p == nil {
		return nil
	}
	clear(unsafe.Slice((*byte)(p), l.Size))
	return (*T)(p)
}

// Free returns a value obtained from New to a.
func Free[T any](a Allocator, p *T) {
	if p == nil {
		return
	}
	l := LayoutOf[T]()
	if h, ok := a.(*HeapAllocator); ok {
		h.release(l.Size)
		return
	}
	if l.Size == 0 {
		return
	}
	a.Deallocate(unsafe.Pointer(p), l.Size, l.Align)
}

// NewSlice allocates a zeroed slice of n elements of type T from a.
// Returns nil if n <= 0 or the allocator is exhausted. The same pointer
// restriction as New applies to allocators other than the heap.
func NewSlice[T any](a Allocator, n int) []T {
	if n <= 0 {
		return nil
	}
	l := LayoutOf[T]()
	total, ok := mulSize(l.Size, uintptr(n))
	if !ok {
		return nil
	}
	if h, ok := a.(*HeapAllocator); ok {
		h.record(total)
		return make([]T, n)
	}
	if total == 0 {
		return make([]T, n)
	}
	p := a.Allocate(total, l.Align)
	if p == nil {
		return nil
	}
	clear(unsafe.Slice((*byte)(p), total))
	return unsafe.Slice((*T)(p), n)
}

// FreeSlice returns a slice obtained from NewSlice to a.
func FreeSlice[T any](a Allocator, s []T) {
	if len(s) == 0 {
		return
	}
	l := LayoutOf[T]()
	total := l.Size * uintptr(len(s))
	if h, ok := a.(*HeapAllocator); ok {
		h.release(total)
		return
	}
	if total == 0 {
		return
	}
	a.Deallocate(unsafe.Pointer(unsafe.SliceData(s)), total, l.Align)
}

// NewBytes allocates n zeroed bytes from a.
func NewBytes(a Allocator, n int) []byte {
	return NewSlice[byte](a, n)
}

// KeepAlive returns t and calls runtime.KeepAlive on a. This prevents the
// allocator (and the buffer t points into) from being collected while t is
// still used from unsafe code.
func KeepAlive[T any](a Allocator, t *T) *T {
	runtime.KeepAlive(a)
	return t
}

// PointerFree reports whether T can live in memory the garbage collector
// does not scan.
func PointerFree[T any]() bool {
	return pointerFree(reflect.TypeFor[T]())
}

func pointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || pointerFree(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !pointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
