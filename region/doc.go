// Package region provides scoped allocation on top of the bump allocator.
//
// A Region is a bump buffer plus a log of every allocation made through it.
// A Scope captures a checkpoint and rolls the region back to it on Close,
// which gives nested, stack-shaped lifetimes:
//
//	r := region.New(64 << 10)
//	defer r.Release()
//
//	err := r.Scoped(func(s *region.Scope) error {
//		buf := s.AllocBytes(512)
//		return parse(buf)
//	})
//
// Allocations that do not fit the buffer can be sent to another allocator
// with WithOverflow; the log makes sure rollback hands them back too.
//
// An Arena chains fixed-capacity regions for workloads that need more room
// than one buffer and free everything at once with Reset.
//
// None of the types in this package are safe for concurrent use.
package region
