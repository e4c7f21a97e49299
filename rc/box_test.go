package rc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/memrt/alloc"
)

type point struct{ X, Y int32 }

func TestBox(t *testing.T) {
	var drops []point
	b := NewBox(point{1, 2}, WithDrop(func(p *point) { drops = append(drops, *p) }))

	assert.Equal(t, point{1, 2}, *b.Get())
	b.Set(point{3, 4})
	b.Get().X = 5

	b.Drop()
	b.Drop()
	assert.Equal(t, []point{{5, 4}}, drops)
	assert.Nil(t, b.Get())
}

func TestBoxRawRoundTrip(t *testing.T) {
	h := alloc.NewHeap()
	var drops int
	opts := []Option{WithAllocator(h), WithDrop(func(*point) { drops++ })}

	b := NewBox(point{7, 8}, opts...)
	p := b.IntoRaw()
	require.NotNil(t, p)
	assert.Nil(t, b.Get())
	b.Drop()
	assert.Zero(t, drops, "ownership moved out")

	back := FromRaw(p, opts...)
	assert.Equal(t, point{7, 8}, *back.Get())
	back.Drop()
	assert.Equal(t, 1, drops)
	assert.Zero(t, h.LiveBytes())
}

func TestBoxLeak(t *testing.T) {
	h := alloc.NewHeap()
	var drops int
	b := NewBox(point{}, WithAllocator(h), WithDrop(func(*point) { drops++ }))

	p := b.Leak()
	require.NotNil(t, p)
	b.Drop()
	assert.Zero(t, drops)
	assert.NotZero(t, h.LiveBytes())
}

func TestBoxPlacedInBump(t *testing.T) {
	bump := alloc.NewBump(64)
	defer bump.Release()

	b := NewBox(point{1, 1}, WithAllocator(bump))
	assert.True(t, bump.Contains(unsafe.Pointer(b.Get())))
	b.Drop()
	assert.Equal(t, uint64(8), bump.TotalDeallocated())

	for bump.Remaining() >= 16 {
		NewBox(point{}, WithAllocator(bump)).Leak()
	}
	assert.Panics(t, func() { NewBox(point{}, WithAllocator(bump)) })
}
