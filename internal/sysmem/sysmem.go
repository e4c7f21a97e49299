// Package sysmem hands out the backing buffers that allocators carve up.
// A Source is the "system allocator" of this module: either the Go heap or
// anonymous memory mappings obtained directly from the kernel.
package sysmem

import (
	"unsafe"

	"github.com/pkg/errors"
)

// Source names accepted by Lookup.
const (
	NameGo   = "go"
	NameMmap = "mmap"
)

// Align is the minimum address alignment of every buffer a Source returns.
const Align = 16

// Source acquires and frees whole backing buffers.
//
// Acquire never returns a short buffer and its first byte is aligned to
// Align. Running out of system memory is not
// recoverable, so implementations panic instead of returning an error.
type Source interface {
	Acquire(size int) []byte
	Free(buf []byte)
	Name() string
}

// Go returns the source backed by the Go heap. Free is a no-op; the garbage
// collector reclaims the buffer once nothing references it.
func Go() Source { return goSource{} }

type goSource struct{}

func (goSource) Acquire(size int) []byte {
	if size <= 0 {
		panic(errors.Errorf("sysmem: invalid buffer size %d", size))
	}
	if size > maxInt-Align {
		panic(errors.Errorf("sysmem: buffer size %d too large", size))
	}
	// Small size classes are only 8-aligned, or less for tiny objects.
	buf := make([]byte, size+Align-1)
	off := int(-uintptr(unsafe.Pointer(unsafe.SliceData(buf))) & (Align - 1))
	return buf[off : off+size : off+size]
}

const maxInt = int(^uint(0) >> 1)

func (goSource) Free([]byte) {}

func (goSource) Name() string { return NameGo }

// Lookup resolves a configured source name.
func Lookup(name string) (Source, error) {
	switch name {
	case "", NameGo:
		return Go(), nil
	case NameMmap:
		return Mmap(), nil
	default:
		return nil, errors.Errorf("sysmem: unknown source %q", name)
	}
}
