package view

import (
	"slices"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBytesRoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte(""),
		[]byte("plain ascii"),
		[]byte("grüße, 世界"),
		[]byte("emoji \U0001F600 and tab\t"),
		{0xe2, 0x82, 0xac},
	}
	for _, in := range inputs {
		v, ok := FromBytes(in)
		require.True(t, ok, "%q", in)
		assert.Equal(t, string(in), string(v.Bytes()))
		assert.Equal(t, len(in), v.Len())
	}
}

func TestFromBytesIsZeroCopy(t *testing.T) {
	data := []byte("shared")
	v, ok := FromBytes(data)
	require.True(t, ok)
	assert.Equal(t, unsafe.SliceData(data), unsafe.StringData(v.String()))
}

func TestFromBytesRejectsInvalidUTF8(t *testing.T) {
	for _, in := range [][]byte{
		{0xff},
		{'a', 0xc3},
		{0xed, 0xa0, 0x80}, // surrogate half
		{0xe2, 0x28, 0xa1},
	} {
		_, ok := FromBytes(in)
		assert.False(t, ok, "%x", in)
	}

	v := FromBytesUnchecked([]byte{0xff})
	assert.Equal(t, 1, v.Len())
}

func TestStrViewQueries(t *testing.T) {
	v := NewStrView("  Grüße Welt  ")

	assert.False(t, v.IsEmpty())
	assert.True(t, NewStrView("").IsEmpty())
	assert.True(t, v.StartsWith("  G"))
	assert.True(t, v.EndsWith("t  "))
	assert.True(t, v.Contains("ße"))

	trimmed := v.Trim()
	assert.Equal(t, "Grüße Welt", trimmed.String())
	assert.True(t, trimmed.Equal(NewStrView("Grüße Welt")))

	r, ok := trimmed.Get(3)
	assert.True(t, ok)
	assert.Equal(t, 'ß', r)
	_, ok = trimmed.Get(10)
	assert.False(t, ok)
	_, ok = trimmed.Get(-1)
	assert.False(t, ok)
}

func TestStrViewRunes(t *testing.T) {
	v := NewStrView("añb")
	assert.Equal(t, []rune{'a', 'ñ', 'b'}, slices.Collect(v.Runes()))

	var first []rune
	for r := range v.Runes() {
		first = append(first, r)
		break
	}
	assert.Equal(t, []rune{'a'}, first)
}

func TestStrViewSplit(t *testing.T) {
	var parts []string
	for p := range NewStrView("a,b,,c").Split(",") {
		parts = append(parts, p.String())
	}
	assert.Equal(t, []string{"a", "b", "", "c"}, parts)

	for p := range NewStrView("x:y").Split(":") {
		assert.Equal(t, "x", p.String())
		break
	}
}

func TestStrViewCaseConversion(t *testing.T) {
	tests := []struct {
		in, lower, upper string
	}{
		{"Hello", "hello", "HELLO"},
		{"GRÜSSE", "grüsse", "GRÜSSE"},
		{"straße", "straße", "STRASSE"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := NewStrView(tt.in)
			assert.Equal(t, tt.lower, v.ToLower())
			assert.Equal(t, tt.upper, v.ToUpper())
		})
	}
}
