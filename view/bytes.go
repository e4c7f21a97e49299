package view

import (
	"bytes"
	"strings"
)

// ByteSlice is a read-only view of a byte slice.
type ByteSlice struct {
	b []byte
}

// NewByteSlice returns a view of b. It does not copy.
func NewByteSlice(b []byte) ByteSlice {
	return ByteSlice{b: b}
}

// Len returns the number of bytes in the view.
func (v ByteSlice) Len() int { return len(v.b) }

// IsEmpty reports whether the view has no bytes.
func (v ByteSlice) IsEmpty() bool { return len(v.b) == 0 }

// Get returns the byte at i. ok is false when i is out of range.
func (v ByteSlice) Get(i int) (b byte, ok bool) {
	if i < 0 || i >= len(v.b) {
		return 0, false
	}
	return v.b[i], true
}

// SplitAt divides the view at mid. It panics if mid is out of range, like
// slicing does.
func (v ByteSlice) SplitAt(mid int) (ByteSlice, ByteSlice) {
	return ByteSlice{b: v.b[:mid:mid]}, ByteSlice{b: v.b[mid:]}
}

// StartsWith reports whether the view begins with prefix.
func (v ByteSlice) StartsWith(prefix []byte) bool { return bytes.HasPrefix(v.b, prefix) }

// EndsWith reports whether the view ends with suffix.
func (v ByteSlice) EndsWith(suffix []byte) bool { return bytes.HasSuffix(v.b, suffix) }

// Contains reports whether c occurs in the view.
func (v ByteSlice) Contains(c byte) bool { return bytes.IndexByte(v.b, c) >= 0 }

// Index returns the offset of the first occurrence of sub, or -1.
func (v ByteSlice) Index(sub []byte) int { return bytes.Index(v.b, sub) }

// Bytes returns the underlying slice. Callers must not modify it.
func (v ByteSlice) Bytes() []byte { return v.b }

// String decodes the bytes as UTF-8, replacing invalid sequences with
// U+FFFD. It always copies.
func (v ByteSlice) String() string {
	return strings.ToValidUTF8(string(v.b), "\uFFFD")
}
