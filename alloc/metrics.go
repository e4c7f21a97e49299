package alloc

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Stats contains statistical information about an allocator.
type Stats struct {
	Allocated   uint64  // Cumulative bytes handed out
	Deallocated uint64  // Cumulative bytes returned
	InUse       int     // Bytes currently in use, including alignment padding
	Capacity    int     // Backing capacity in bytes, 0 when unbounded
	Utilization float64 // Ratio of InUse to Capacity (0.0-1.0)
}

// Measurable is implemented by allocators that can report Stats.
type Measurable interface {
	Metrics() Stats
}

func newStats(allocated, deallocated uint64, inUse, capacity int) Stats {
	s := Stats{
		Allocated:   allocated,
		Deallocated: deallocated,
		InUse:       inUse,
		Capacity:    capacity,
	}
	if capacity > 0 {
		s.Utilization = float64(inUse) / float64(capacity)
	}
	return s
}

// String formats the snapshot for logs.
func (s Stats) String() string {
	if s.Capacity == 0 {
		return fmt.Sprintf("in use %s, allocated %s, deallocated %s",
			humanize.IBytes(uint64(s.InUse)), humanize.IBytes(s.Allocated), humanize.IBytes(s.Deallocated))
	}
	return fmt.Sprintf("in use %s of %s (%.2f%%), allocated %s, deallocated %s",
		humanize.IBytes(uint64(s.InUse)), humanize.IBytes(uint64(s.Capacity)), s.Utilization*100,
		humanize.IBytes(s.Allocated), humanize.IBytes(s.Deallocated))
}
