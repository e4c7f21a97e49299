package memrt

import (
	"os"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pavanmanishd/memrt/alloc"
	"github.com/pavanmanishd/memrt/internal/sysmem"
	"github.com/pavanmanishd/memrt/region"
)

// Runtime is the process-wide default instance: one configured set of
// allocators created at start-up and torn down with Close. Components take
// the allocator they need from it explicitly; there is no global.
//
// The heap (and tracking decorator) are safe for concurrent use. Allocators
// created through the Runtime follow their own rules; the Runtime only
// remembers them so Close can release them.
type Runtime struct {
	cfg    Config
	logger log.Logger
	src    sysmem.Source

	heap      *alloc.HeapAllocator
	tracking  *alloc.Tracking
	collector *alloc.Collector
	reg       prometheus.Registerer

	mu       sync.Mutex
	releases []func()
	closed   bool
}

// New builds a Runtime from cfg. logger may be nil, in which case a logfmt
// logger on stderr at cfg.LogLevel is used. reg may be nil to skip metrics.
func New(cfg Config, logger log.Logger, reg prometheus.Registerer) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid runtime config")
	}
	if logger == nil {
		var err error
		if logger, err = NewLogger(os.Stderr, cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	src, err := sysmem.Lookup(cfg.Source)
	if err != nil {
		return nil, err
	}

	r := &Runtime{
		cfg:       cfg,
		logger:    logger,
		src:       src,
		heap:      alloc.NewHeap(),
		collector: alloc.NewCollector(cfg.MetricsNamespace),
		reg:       reg,
	}
	r.collector.Register("heap", r.heap)
	if cfg.Tracking {
		r.tracking = alloc.NewTracking(r.heap, alloc.WithLogger(logger))
		r.collector.Register("tracking", r.tracking)
	}
	if reg != nil {
		if err := reg.Register(r.collector); err != nil {
			return nil, errors.Wrap(err, "register allocator metrics")
		}
	}

	level.Info(logger).Log("msg", "memory runtime started", "source", src.Name(), "tracking", cfg.Tracking)
	return r, nil
}

// Config returns the configuration the runtime was built with.
func (r *Runtime) Config() Config { return r.cfg }

// Logger returns the runtime's logger.
func (r *Runtime) Logger() log.Logger { return r.logger }

// Heap returns the shared heap allocator.
func (r *Runtime) Heap() *alloc.HeapAllocator { return r.heap }

// Allocator returns the default allocator: the heap, wrapped in a tracking
// decorator when tracking is enabled.
func (r *Runtime) Allocator() alloc.Allocator {
	if r.tracking != nil {
		return r.tracking
	}
	return r.heap
}

// Tracking returns the tracking decorator, or nil when tracking is off.
func (r *Runtime) Tracking() *alloc.Tracking { return r.tracking }

// Collector returns the Prometheus collector for the runtime's allocators.
// Register only allocators that are safe to read concurrently.
func (r *Runtime) Collector() *alloc.Collector { return r.collector }

func (r *Runtime) allocOptions() []alloc.Option {
	return []alloc.Option{alloc.WithSource(r.src), alloc.WithLogger(r.logger), alloc.WithPoolSize(r.cfg.SlabPoolSize)}
}

func (r *Runtime) regionOptions() []region.Option {
	opts := []region.Option{region.WithLogger(r.logger)}
	if r.src.Name() == sysmem.NameMmap {
		opts = append(opts, region.WithMmap())
	}
	return opts
}

// onClose remembers f for Close, failing if the runtime is already closed.
func (r *Runtime) onClose(f func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.releases = append(r.releases, f)
	return nil
}

// NewBump creates a bump allocator owned by the runtime. capacity <= 0
// selects the configured bump capacity.
func (r *Runtime) NewBump(capacity int) (*alloc.Bump, error) {
	if capacity <= 0 {
		capacity = int(r.cfg.BumpCapacity.Bytes())
	}
	b := alloc.NewBump(capacity, r.allocOptions()...)
	if err := r.onClose(b.Release); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// NewPool creates a pool allocator owned by the runtime.
func (r *Runtime) NewPool(blockSize, blockCount int) (*alloc.Pool, error) {
	p, err := alloc.NewPool(blockSize, blockCount, r.allocOptions()...)
	if err != nil {
		return nil, err
	}
	if err := r.onClose(p.Release); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

// NewSlab creates a slab allocator owned by the runtime, with the
// configured pool size.
func (r *Runtime) NewSlab(objectSize int) (*alloc.Slab, error) {
	s, err := alloc.NewSlab(objectSize, r.allocOptions()...)
	if err != nil {
		return nil, err
	}
	if err := r.onClose(s.Release); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

// NewRegion creates a region owned by the runtime with the configured
// capacity. Requests that do not fit overflow to the default allocator.
func (r *Runtime) NewRegion() (*region.Region, error) {
	opts := append(r.regionOptions(), region.WithOverflow(r.Allocator()))
	rg := region.New(int(r.cfg.RegionCapacity.Bytes()), opts...)
	if err := r.onClose(rg.Release); err != nil {
		rg.Release()
		return nil, err
	}
	return rg, nil
}

// NewArena creates an arena owned by the runtime whose regions have the
// configured capacity.
func (r *Runtime) NewArena() (*region.Arena, error) {
	a := region.NewArena(int(r.cfg.RegionCapacity.Bytes()), r.regionOptions()...)
	if err := r.onClose(a.Release); err != nil {
		a.Release()
		return nil, err
	}
	return a, nil
}

// Close releases every allocator created through the runtime, newest first,
// and unregisters the metrics. With tracking enabled it logs every live
// allocation of the default allocator and returns ErrLeaks if there were
// any. Calling Close more than once is safe.
func (r *Runtime) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	releases := r.releases
	r.releases = nil
	r.mu.Unlock()

	for i := len(releases) - 1; i >= 0; i-- {
		releases[i]()
	}
	if r.reg != nil {
		r.reg.Unregister(r.collector)
	}

	level.Info(r.logger).Log("msg", "memory runtime stopped", "heap", r.heap.Metrics())
	if r.tracking != nil {
		if n := r.tracking.ReportLeaks(); n > 0 {
			return errors.Wrapf(ErrLeaks, "%d allocations", n)
		}
	}
	return nil
}
