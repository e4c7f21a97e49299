// Package alloc implements the allocation strategies of the memory runtime.
//
// # Overview
//
// Every allocator implements the Allocator capability:
//
//	Allocate(size, align) unsafe.Pointer
//	Deallocate(p, size, align)
//	TotalAllocated() uint64
//	TotalDeallocated() uint64
//
// Running out of capacity is never fatal: Allocate returns nil and the
// caller decides what to do. Only a failed system allocation (the Go heap
// or an mmap call) aborts, because there is no way to continue without
// memory.
//
// # Implementations
//
// HeapAllocator: thin tracked wrapper over the Go heap
//
//   - Safe for concurrent use
//   - The default allocator for everything else in this module
//
// Bump: arena over one fixed buffer
//
//   - O(1) allocation by advancing a cursor
//   - No per-object free; Reset rewinds the whole buffer
//
// Pool: fixed-size blocks on an intrusive free list
//
//   - O(1) Get and Put, LIFO reuse, no fragmentation
//
// Slab: a growing list of pools for one object size
//
// Tracking: decorator recording every live block for leak reports
//
// Synchronized: mutex wrapper for sharing any allocator
//
// # Basic Usage
//
//	pool, err := alloc.NewPool(32, 4)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release()
//
//	p := pool.Get() // nil once all 4 blocks are out
//	pool.Put(p)
//
//	b := alloc.NewBump(64 << 10)
//	defer b.Release()
//	v := alloc.New[point](b) // zeroed, aligned
//
// # Pointers in raw memory
//
// Memory from Bump, Pool, Slab and mmap-backed sources is not scanned by the
// garbage collector. Values placed there must not contain Go pointers; use
// PointerFree to check a type. New and NewSlice on a *HeapAllocator use the
// regular Go heap and have no such restriction.
//
// # Thread Safety
//
// HeapAllocator and the counters of every allocator are safe for concurrent
// use. Bump, Pool, Slab and ObjectPool are not; wrap them in Synchronized or
// keep one instance per goroutine.
package alloc
