package rc

// rcInner is the block shared by Rc and WeakRc handles. As with Arc, the
// strong owners together hold one implicit weak reference.
type rcInner[T any] struct {
	strong int
	weak   int
	value  T
}

// Rc is a shared pointer with plain, non-atomic counters. All handles to
// one value must stay on a single goroutine; use Arc to share across
// goroutines.
type Rc[T any] struct {
	inner *rcInner[T]
	ctl   *control[T]
}

// WeakRc is a non-owning reference to an Rc's block.
type WeakRc[T any] struct {
	inner *rcInner[T]
	ctl   *control[T]
}

// NewRc stores v in a new block with a strong count of one. It panics with
// ErrAllocFailed if a configured allocator is exhausted.
func NewRc[T any](v T, opts ...Option) *Rc[T] {
	r := newRc(v, newControl[T](opts))
	if r == nil {
		panic(allocFailed[rcInner[T]]())
	}
	return r
}

func newRc[T any](v T, ctl *control[T]) *Rc[T] {
	inner := place[rcInner[T]](ctl)
	if inner == nil {
		return nil
	}
	inner.value = v
	inner.strong = 1
	inner.weak = 1
	return &Rc[T]{inner: inner, ctl: ctl}
}

// NewWeakRc returns a WeakRc that was never attached to a value.
func NewWeakRc[T any]() *WeakRc[T] {
	return &WeakRc[T]{}
}

// Get returns a pointer to the shared value.
func (r *Rc[T]) Get() *T { return &r.inner.value }

// Ptr returns the address of the value, or nil for a dropped handle.
func (r *Rc[T]) Ptr() *T {
	if r.inner == nil {
		return nil
	}
	return &r.inner.value
}

// PtrEqual reports whether r and o share a block.
func (r *Rc[T]) PtrEqual(o *Rc[T]) bool {
	return r.inner != nil && r.inner == o.inner
}

// Clone returns a new strong handle to the same value.
func (r *Rc[T]) Clone() *Rc[T] {
	r.inner.strong++
	return &Rc[T]{inner: r.inner, ctl: r.ctl}
}

// Downgrade returns a new weak handle to the same block.
func (r *Rc[T]) Downgrade() *WeakRc[T] {
	r.inner.weak++
	return &WeakRc[T]{inner: r.inner, ctl: r.ctl}
}

// StrongCount returns the number of strong handles.
func (r *Rc[T]) StrongCount() int {
	if r.inner == nil {
		return 0
	}
	return r.inner.strong
}

// WeakCount returns the number of weak handles.
func (r *Rc[T]) WeakCount() int {
	if r.inner == nil {
		return 0
	}
	return r.inner.explicitWeak()
}

func (in *rcInner[T]) explicitWeak() int {
	if in.strong > 0 {
		return in.weak - 1
	}
	return in.weak
}

// Drop releases this strong reference, running the destructor if it was the
// last one. Calling Drop again does nothing.
func (r *Rc[T]) Drop() {
	inner := r.inner
	if inner == nil {
		return
	}
	r.inner = nil
	inner.strong--
	if inner.strong != 0 {
		return
	}
	r.ctl.destroy(&inner.value)
	releaseWeakRc(inner, r.ctl)
}

func releaseWeakRc[T any](inner *rcInner[T], ctl *control[T]) {
	inner.weak--
	if inner.weak == 0 {
		unplace(ctl, inner)
	}
}

// GetMut returns the value for mutation if this is the only handle, strong
// or weak, to the block.
func (r *Rc[T]) GetMut() (*T, bool) {
	if r.inner.strong != 1 || r.inner.weak != 1 {
		return nil, false
	}
	return &r.inner.value, true
}

// MakeMut returns the value for mutation, first moving this handle to a
// private block if the current one is shared.
func (r *Rc[T]) MakeMut() *T {
	if p, ok := r.GetMut(); ok {
		return p
	}

	old := r.inner
	var v T
	if old.strong == 1 {
		// Only weak handles remain: move the value out.
		v = old.value
		var zero T
		old.value = zero
		old.strong = 0
		releaseWeakRc(old, r.ctl)
		r.inner = nil
	} else {
		v = clone(&old.value)
		r.Drop()
	}

	fresh := newRc(v, r.ctl)
	if fresh == nil {
		panic(allocFailed[rcInner[T]]())
	}
	r.inner = fresh.inner
	return &r.inner.value
}

// Upgrade returns a new strong handle, or nil once the value has been
// dropped.
func (w *WeakRc[T]) Upgrade() *Rc[T] {
	if w.inner == nil || w.inner.strong == 0 {
		return nil
	}
	w.inner.strong++
	return &Rc[T]{inner: w.inner, ctl: w.ctl}
}

// StrongCount returns the number of strong handles to the block.
func (w *WeakRc[T]) StrongCount() int {
	if w.inner == nil {
		return 0
	}
	return w.inner.strong
}

// WeakCount returns the number of weak handles to the block.
func (w *WeakRc[T]) WeakCount() int {
	if w.inner == nil {
		return 0
	}
	return w.inner.explicitWeak()
}

// Drop releases this weak reference. Calling Drop again does nothing.
func (w *WeakRc[T]) Drop() {
	inner := w.inner
	if inner == nil {
		return
	}
	w.inner = nil
	releaseWeakRc(inner, w.ctl)
}
