package rc

import (
	"runtime"

	"go.uber.org/atomic"
)

// lockedWeak marks the weak count while GetMut checks for uniqueness.
const lockedWeak = -1

// arcInner is the shared block. The strong owners together hold one
// implicit weak reference, released by whichever owner drops the value, so
// the block is freed by exactly one final weak decrement.
type arcInner[T any] struct {
	strong atomic.Int64
	weak   atomic.Int64
	value  T
}

// Arc is a shared, atomically reference-counted pointer. Handles may be
// cloned, dropped and upgraded from any goroutine. Concurrent access to the
// value itself is up to T.
//
// Each *Arc is one strong reference. Drop releases it and clears the handle,
// so dropping the same handle twice is harmless.
type Arc[T any] struct {
	inner *arcInner[T]
	ctl   *control[T]
}

// Weak is a non-owning reference to an Arc's block. It keeps the block, but
// not the value, alive.
type Weak[T any] struct {
	inner *arcInner[T]
	ctl   *control[T]
}

// NewArc stores v in a new shared block with a strong count of one. It
// panics with ErrAllocFailed if a configured allocator is exhausted.
func NewArc[T any](v T, opts ...Option) *Arc[T] {
	a := TryNewArc(v, opts...)
	if a == nil {
		panic(allocFailed[arcInner[T]]())
	}
	return a
}

// TryNewArc is NewArc but returns nil when the allocator is exhausted.
func TryNewArc[T any](v T, opts ...Option) *Arc[T] {
	ctl := newControl[T](opts)
	return newArc(v, ctl)
}

func newArc[T any](v T, ctl *control[T]) *Arc[T] {
	inner := place[arcInner[T]](ctl)
	if inner == nil {
		return nil
	}
	inner.value = v
	inner.strong.Store(1)
	inner.weak.Store(1)
	return &Arc[T]{inner: inner, ctl: ctl}
}

// NewWeak returns a Weak that was never attached to a value. Upgrade always
// returns nil.
func NewWeak[T any]() *Weak[T] {
	return &Weak[T]{}
}

// Get returns a pointer to the shared value.
func (a *Arc[T]) Get() *T {
	return &a.inner.value
}

// Ptr returns the address of the value. Two handles share a block exactly
// when their Ptr values are equal.
func (a *Arc[T]) Ptr() *T {
	if a.inner == nil {
		return nil
	}
	return &a.inner.value
}

// PtrEqual reports whether a and b share a block.
func (a *Arc[T]) PtrEqual(b *Arc[T]) bool {
	return a.inner != nil && a.inner == b.inner
}

// Clone returns a new strong handle to the same value.
func (a *Arc[T]) Clone() *Arc[T] {
	// The caller's handle keeps the count at one or more.
	a.inner.strong.Inc()
	return &Arc[T]{inner: a.inner, ctl: a.ctl}
}

// Downgrade returns a new weak handle to the same block.
func (a *Arc[T]) Downgrade() *Weak[T] {
	inner := a.inner
	for {
		w := inner.weak.Load()
		if w == lockedWeak {
			runtime.Gosched()
			continue
		}
		if inner.weak.CompareAndSwap(w, w+1) {
			return &Weak[T]{inner: inner, ctl: a.ctl}
		}
	}
}

// StrongCount returns the number of strong handles.
func (a *Arc[T]) StrongCount() int {
	if a.inner == nil {
		return 0
	}
	return int(a.inner.strong.Load())
}

// WeakCount returns the number of weak handles.
func (a *Arc[T]) WeakCount() int {
	if a.inner == nil {
		return 0
	}
	return explicitWeak(a.inner)
}

func explicitWeak[T any](inner *arcInner[T]) int {
	w := inner.weak.Load()
	if w == lockedWeak {
		return 0
	}
	if inner.strong.Load() > 0 {
		w--
	}
	return int(max(w, 0))
}

// Drop releases this strong reference. The goroutine that releases the last
// one runs the destructor, after every other owner's writes to the value
// are visible to it.
func (a *Arc[T]) Drop() {
	inner := a.inner
	if inner == nil {
		return
	}
	a.inner = nil
	if inner.strong.Dec() != 0 {
		return
	}
	a.ctl.destroy(&inner.value)
	releaseWeak(inner, a.ctl)
}

func releaseWeak[T any](inner *arcInner[T], ctl *control[T]) {
	if inner.weak.Dec() == 0 {
		unplace(ctl, inner)
	}
}

// GetMut returns the value for mutation if this is the only handle, strong
// or weak, to the block.
func (a *Arc[T]) GetMut() (*T, bool) {
	if !a.isUnique() {
		return nil, false
	}
	return &a.inner.value, true
}

func (a *Arc[T]) isUnique() bool {
	inner := a.inner
	// Locking the weak count keeps Downgrade from racing with the strong
	// check below.
	if !inner.weak.CompareAndSwap(1, lockedWeak) {
		return false
	}
	unique := inner.strong.Load() == 1
	inner.weak.Store(1)
	return unique
}

// MakeMut returns the value for mutation, first moving this handle to a
// private block if the current one is shared. Other strong handles keep the
// old value. If only weak handles remain they can no longer upgrade.
func (a *Arc[T]) MakeMut() *T {
	if a.isUnique() {
		return &a.inner.value
	}

	old := a.inner
	if old.strong.CompareAndSwap(1, 0) {
		// Sole strong owner: move the value out and disassociate the weaks.
		fresh := newArc(old.value, a.ctl)
		if fresh == nil {
			panic(allocFailed[arcInner[T]]())
		}
		var zero T
		old.value = zero
		releaseWeak(old, a.ctl)
		a.inner = fresh.inner
		return &a.inner.value
	}

	fresh := newArc(clone(&old.value), a.ctl)
	if fresh == nil {
		panic(allocFailed[arcInner[T]]())
	}
	a.Drop()
	a.inner = fresh.inner
	return &a.inner.value
}

// Upgrade returns a new strong handle, or nil once the value has been
// dropped. It never revives a value whose strong count reached zero.
func (w *Weak[T]) Upgrade() *Arc[T] {
	inner := w.inner
	if inner == nil {
		return nil
	}
	for {
		n := inner.strong.Load()
		if n == 0 {
			return nil
		}
		if inner.strong.CompareAndSwap(n, n+1) {
			return &Arc[T]{inner: inner, ctl: w.ctl}
		}
	}
}

// StrongCount returns the number of strong handles to the block.
func (w *Weak[T]) StrongCount() int {
	if w.inner == nil {
		return 0
	}
	return int(w.inner.strong.Load())
}

// WeakCount returns the number of weak handles to the block.
func (w *Weak[T]) WeakCount() int {
	if w.inner == nil {
		return 0
	}
	return explicitWeak(w.inner)
}

// Drop releases this weak reference, freeing the block if it was the last
// reference of any kind. Calling Drop again does nothing.
func (w *Weak[T]) Drop() {
	inner := w.inner
	if inner == nil {
		return
	}
	w.inner = nil
	releaseWeak(inner, w.ctl)
}
