package view

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// CowStr holds text that is either borrowed from somewhere else or owned.
// Borrowed text is copied only when ownership is requested.
type CowStr struct {
	s     string
	owned bool
}

// BorrowedStr wraps s without taking ownership.
func BorrowedStr(s string) CowStr { return CowStr{s: s} }

// OwnedStr wraps s, which the CowStr now owns.
func OwnedStr(s string) CowStr { return CowStr{s: s, owned: true} }

// IsBorrowed reports whether the text is borrowed.
func (c CowStr) IsBorrowed() bool { return !c.owned }

// IsOwned reports whether the text is owned.
func (c CowStr) IsOwned() bool { return c.owned }

// String returns the text without copying.
func (c CowStr) String() string { return c.s }

// IntoOwned returns the text, copying it only if it is borrowed.
func (c CowStr) IntoOwned() string {
	if c.owned {
		return c.s
	}
	return strings.Clone(c.s)
}

// CowBytes holds bytes that are either borrowed or owned.
type CowBytes struct {
	b     []byte
	owned bool
}

// BorrowedBytes wraps b without taking ownership.
func BorrowedBytes(b []byte) CowBytes { return CowBytes{b: b} }

// OwnedBytes wraps b, which the CowBytes now owns.
func OwnedBytes(b []byte) CowBytes { return CowBytes{b: b, owned: true} }

// IsBorrowed reports whether the bytes are borrowed.
func (c *CowBytes) IsBorrowed() bool { return !c.owned }

// IsOwned reports whether the bytes are owned.
func (c *CowBytes) IsOwned() bool { return c.owned }

// Bytes returns the bytes without copying. Borrowed bytes must not be
// modified through the result.
func (c *CowBytes) Bytes() []byte { return c.b }

// IntoOwned returns the bytes, copying them only if they are borrowed.
func (c *CowBytes) IntoOwned() []byte {
	if c.owned {
		return c.b
	}
	return bytes.Clone(c.b)
}

// ToMut returns a slice the caller may modify. Borrowed bytes are copied
// once and the CowBytes owns the copy from then on.
func (c *CowBytes) ToMut() []byte {
	if !c.owned {
		c.b = bytes.Clone(c.b)
		c.owned = true
	}
	return c.b
}

// DecodeWindows1252 converts single-byte Windows-1252 text to UTF-8. Pure
// ASCII input is already valid UTF-8 and is borrowed without copying; any
// other input is decoded into an owned string.
func DecodeWindows1252(b []byte) (CowStr, error) {
	if isASCII(b) {
		return BorrowedStr(FromBytesUnchecked(b).String()), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return CowStr{}, errors.Wrap(err, "view: decode windows-1252")
	}
	return OwnedStr(string(decoded)), nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
