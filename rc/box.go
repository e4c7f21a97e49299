package rc

// Box exclusively owns one value. Drop runs the destructor and frees the
// block. Box is not safe for concurrent use.
type Box[T any] struct {
	p   *T
	ctl *control[T]
}

// NewBox stores v in a new block. It panics with ErrAllocFailed if a
// configured allocator is exhausted.
func NewBox[T any](v T, opts ...Option) *Box[T] {
	ctl := newControl[T](opts)
	p := place[T](ctl)
	if p == nil {
		panic(allocFailed[T]())
	}
	*p = v
	return &Box[T]{p: p, ctl: ctl}
}

// FromRaw takes ownership of a pointer returned by IntoRaw. opts must
// describe the same allocator the pointer came from. Each IntoRaw must be
// paired with exactly one FromRaw.
func FromRaw[T any](p *T, opts ...Option) *Box[T] {
	return &Box[T]{p: p, ctl: newControl[T](opts)}
}

// Get returns a pointer to the value. It is nil once the box has been
// dropped or given up.
func (b *Box[T]) Get() *T { return b.p }

// Set replaces the value without running the destructor on the old one.
func (b *Box[T]) Set(v T) { *b.p = v }

// Drop runs the destructor and frees the block. Calling Drop again does
// nothing.
func (b *Box[T]) Drop() {
	p := b.p
	if p == nil {
		return
	}
	b.p = nil
	b.ctl.destroy(p)
	unplace(b.ctl, p)
}

// IntoRaw gives up ownership and returns the pointer. Use FromRaw to take
// it back.
func (b *Box[T]) IntoRaw() *T {
	p := b.p
	b.p = nil
	return p
}

// Leak gives up ownership without ever running the destructor or freeing
// the block.
func (b *Box[T]) Leak() *T {
	return b.IntoRaw()
}
