package rc

import "github.com/pkg/errors"

var (
	// ErrAllocFailed indicates the configured allocator could not provide a block.
	ErrAllocFailed = errors.New("rc: allocation failed")

	// ErrDropType indicates a WithDrop function whose argument type does not
	// match the value type.
	ErrDropType = errors.New("rc: drop function does not match value type")
)
