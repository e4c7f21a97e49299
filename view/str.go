package view

import (
	"iter"
	"strings"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StrView is a read-only view of UTF-8 text.
type StrView struct {
	s string
}

// NewStrView returns a view of s.
func NewStrView(s string) StrView {
	return StrView{s: s}
}

// FromBytes returns a view of b after checking it is valid UTF-8. The view
// shares b's memory, so b must not change while the view is used.
func FromBytes(b []byte) (StrView, bool) {
	if !utf8.Valid(b) {
		return StrView{}, false
	}
	return FromBytesUnchecked(b), true
}

// FromBytesUnchecked is FromBytes without validation, for input the caller
// has already checked.
func FromBytesUnchecked(b []byte) StrView {
	if len(b) == 0 {
		return StrView{}
	}
	return StrView{s: unsafe.String(unsafe.SliceData(b), len(b))}
}

// String returns the viewed text without copying.
func (v StrView) String() string { return v.s }

// Bytes returns the text's bytes without copying. Callers must not modify
// them.
func (v StrView) Bytes() []byte {
	if v.s == "" {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(v.s), len(v.s))
}

// Len returns the length in bytes.
func (v StrView) Len() int { return len(v.s) }

// IsEmpty reports whether the view has no text.
func (v StrView) IsEmpty() bool { return v.s == "" }

// Get returns the n-th rune. ok is false when there are fewer than n+1
// runes.
func (v StrView) Get(n int) (r rune, ok bool) {
	if n < 0 {
		return 0, false
	}
	for _, r := range v.s {
		if n == 0 {
			return r, true
		}
		n--
	}
	return 0, false
}

// Runes iterates over the runes of the view.
func (v StrView) Runes() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for _, r := range v.s {
			if !yield(r) {
				return
			}
		}
	}
}

// StartsWith reports whether the view begins with prefix.
func (v StrView) StartsWith(prefix string) bool { return strings.HasPrefix(v.s, prefix) }

// EndsWith reports whether the view ends with suffix.
func (v StrView) EndsWith(suffix string) bool { return strings.HasSuffix(v.s, suffix) }

// Contains reports whether sub occurs in the view.
func (v StrView) Contains(sub string) bool { return strings.Contains(v.s, sub) }

// Split iterates over the views between occurrences of sep.
func (v StrView) Split(sep string) iter.Seq[StrView] {
	return func(yield func(StrView) bool) {
		for part := range strings.SplitSeq(v.s, sep) {
			if !yield(StrView{s: part}) {
				return
			}
		}
	}
}

// Trim returns the view without leading and trailing white space.
func (v StrView) Trim() StrView { return StrView{s: strings.TrimSpace(v.s)} }

// ToLower returns a lower-cased copy.
func (v StrView) ToLower() string { return cases.Lower(language.Und).String(v.s) }

// ToUpper returns an upper-cased copy.
func (v StrView) ToUpper() string { return cases.Upper(language.Und).String(v.s) }

// Equal reports whether both views hold the same text.
func (v StrView) Equal(o StrView) bool { return v.s == o.s }
