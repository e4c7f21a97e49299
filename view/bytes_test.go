package view

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestByteSlice(t *testing.T) {
	data := []byte("hello, world")
	v := NewByteSlice(data)

	assert.Equal(t, 12, v.Len())
	assert.False(t, v.IsEmpty())
	assert.True(t, NewByteSlice(nil).IsEmpty())

	b, ok := v.Get(4)
	assert.True(t, ok)
	assert.Equal(t, byte('o'), b)
	_, ok = v.Get(12)
	assert.False(t, ok)
	_, ok = v.Get(-1)
	assert.False(t, ok)

	assert.True(t, v.StartsWith([]byte("hello")))
	assert.True(t, v.EndsWith([]byte("world")))
	assert.False(t, v.EndsWith([]byte("hello")))
	assert.True(t, v.Contains(','))
	assert.False(t, v.Contains('z'))
	assert.Equal(t, 7, v.Index([]byte("world")))
	assert.Equal(t, -1, v.Index([]byte("moon")))
}

func TestByteSliceSplitAtDoesNotCopy(t *testing.T) {
	data := []byte("headerbody")
	left, right := NewByteSlice(data).SplitAt(6)

	assert.Equal(t, "header", string(left.Bytes()))
	assert.Equal(t, "body", string(right.Bytes()))
	assert.Equal(t, unsafe.SliceData(data), unsafe.SliceData(left.Bytes()))
	assert.Equal(t, &data[6], unsafe.SliceData(right.Bytes()))
	assert.Equal(t, 6, cap(left.Bytes()), "appending to the left half must not clobber the right")

	assert.Panics(t, func() { NewByteSlice(data).SplitAt(11) })
}

func TestByteSliceStringIsLossy(t *testing.T) {
	assert.Equal(t, "ok", NewByteSlice([]byte("ok")).String())
	assert.Equal(t, "a\uFFFDb", NewByteSlice([]byte{'a', 0xff, 'b'}).String())
}
