package alloc

import "github.com/pkg/errors"

var (
	// ErrBlockTooSmall indicates a block cannot hold the intrusive free-list link.
	ErrBlockTooSmall = errors.New("alloc: block size must be at least one machine word")

	// ErrNoBlocks indicates a pool was requested with no blocks.
	ErrNoBlocks = errors.New("alloc: pool needs at least one block")

	// ErrObjectSize indicates a non-positive slab object size.
	ErrObjectSize = errors.New("alloc: object size must be positive")

	// ErrPointerType indicates a type holding Go pointers was placed in untyped memory.
	ErrPointerType = errors.New("alloc: type contains Go pointers")
)
