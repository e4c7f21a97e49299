// Package view provides non-owning views over bytes and strings, and
// copy-on-write wrappers that only copy when a caller asks for ownership.
//
// Views alias the memory they were built from. A StrView made from a byte
// slice with FromBytes shares that slice: the bytes must not be modified
// while the view is in use.
package view
