package region

import (
	"github.com/go-kit/log"

	"github.com/pavanmanishd/memrt/alloc"
)

// Option configures a Region or an Arena.
type Option func(*options)

type options struct {
	overflow alloc.Allocator
	logger   log.Logger
	bump     []alloc.Option
}

func buildOptions(opts []Option) options {
	o := options{logger: log.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithOverflow routes requests that do not fit in the region's buffer to a.
// Such allocations are logged like any other and handed back to a when the
// scope that made them rolls back. Arenas ignore this option.
func WithOverflow(a alloc.Allocator) Option {
	return func(o *options) {
		o.overflow = a
	}
}

// WithLogger sets the logger used for overflow and growth diagnostics.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
			o.bump = append(o.bump, alloc.WithLogger(l))
		}
	}
}

// WithMmap backs the region buffers with anonymous memory mappings.
func WithMmap() Option {
	return func(o *options) {
		o.bump = append(o.bump, alloc.WithMmap())
	}
}
