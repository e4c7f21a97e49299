// Package memrt is a memory runtime: allocation strategies, scoped regions,
// hand-built smart pointers and zero-copy views, plus the wiring that turns
// them into one configured instance.
//
// # Overview
//
// The building blocks live in sub-packages:
//
//   - alloc: the Allocator capability and the heap, bump, pool and slab
//     allocators, a tracking decorator and a Prometheus collector
//   - region: Region, Scope and Arena for stack-shaped lifetimes
//   - rc: Box, Rc/WeakRc and Arc/Weak with explicit Drop
//   - view: ByteSlice, StrView, CowStr/CowBytes and Substring
//
// This package adds Config and Runtime. A Runtime is the default instance a
// program creates at start-up and closes on shutdown; it is passed to the
// components that need memory rather than reached through a global.
//
// # Basic Usage
//
//	cfg, err := memrt.LoadConfig("memrt.yaml")
//	if err != nil {
//		return err
//	}
//	rt, err := memrt.New(cfg, logger, prometheus.DefaultRegisterer)
//	if err != nil {
//		return err
//	}
//	defer rt.Close()
//
//	scratch, _ := rt.NewRegion()
//	err = scratch.Scoped(func(s *region.Scope) error {
//		buf := s.AllocBytes(4096)
//		return fill(buf)
//	})
//
//	shared := rc.NewArc(state, rc.WithAllocator(rt.Allocator()))
//	defer shared.Drop()
//
// # Configuration
//
// Config can be read from YAML (LoadConfig) or registered on a flag set
// (RegisterFlags). Sizes accept units, for example "1MB" or "64KB".
//
// # Memory Layout
//
// Bump, pool, slab and region allocators carve their memory out of backing
// buffers taken from the Go heap or, with source "mmap", from anonymous
// memory mappings. That memory is not scanned by the garbage collector:
// values placed in it must not hold Go pointers.
package memrt
