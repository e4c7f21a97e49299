package memrt

import "github.com/pkg/errors"

var (
	// ErrClosed indicates the runtime was used after Close.
	ErrClosed = errors.New("memrt: runtime closed")

	// ErrLeaks indicates allocations made through the tracked default
	// allocator were still live at Close.
	ErrLeaks = errors.New("memrt: allocations not released")
)
