package view

import "unicode/utf8"

// Substring is a bounds-checked [start, end) slice of a parent string.
type Substring struct {
	parent     string
	start, end int
}

// NewSubstring returns parent[start:end]. ok is false unless
// 0 <= start < end <= len(parent) and both bounds fall on rune boundaries.
func NewSubstring(parent string, start, end int) (sub Substring, ok bool) {
	if start < 0 || start >= end || end > len(parent) {
		return Substring{}, false
	}
	if !utf8.RuneStart(parent[start]) || (end < len(parent) && !utf8.RuneStart(parent[end])) {
		return Substring{}, false
	}
	return Substring{parent: parent, start: start, end: end}, true
}

// String returns the substring without copying.
func (s Substring) String() string { return s.parent[s.start:s.end] }

// View returns the substring as a StrView.
func (s Substring) View() StrView { return StrView{s: s.String()} }

// Len returns the length in bytes.
func (s Substring) Len() int { return s.end - s.start }

// IsEmpty reports whether the substring has no bytes.
func (s Substring) IsEmpty() bool { return s.start == s.end }

// Start returns the start offset in the parent.
func (s Substring) Start() int { return s.start }

// End returns the end offset in the parent.
func (s Substring) End() int { return s.end }

// Parent returns the parent string.
func (s Substring) Parent() string { return s.parent }
