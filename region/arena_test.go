package region

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/memrt/alloc"
)

func TestArenaGrows(t *testing.T) {
	a := NewArena(256)
	defer a.Release()

	assert.Equal(t, 1, a.NumRegions())
	for i := 0; i < 4; i++ {
		require.NotNil(t, a.Alloc(128))
	}
	assert.Equal(t, 2, a.NumRegions())

	require.NotNil(t, a.Alloc(1))
	assert.Equal(t, 3, a.NumRegions())
	assert.Equal(t, 3*256, a.Capacity())
	assert.Equal(t, 512+1, a.TotalUsed())
}

func TestArenaRejectsOversizedRequests(t *testing.T) {
	a := NewArena(256)
	defer a.Release()

	assert.Nil(t, a.Alloc(257))
	assert.Nil(t, a.Alloc(0))
	assert.Equal(t, 1, a.NumRegions())
}

func TestArenaUnsatisfiableRequestsDoNotGrow(t *testing.T) {
	// No heap address is aligned this strongly.
	const align = 1 << 40
	a := NewArena(64)
	defer a.Release()

	for i := 0; i < 100; i++ {
		assert.Nil(t, a.Allocate(64, align), "request %d", i)
	}
	assert.Equal(t, 1, a.NumRegions())

	require.NotNil(t, a.Alloc(32))
	for i := 0; i < 100; i++ {
		assert.Nil(t, a.Allocate(64, align), "request %d", i)
	}
	assert.Equal(t, 2, a.NumRegions(), "one advance off the partly used region")

	require.NotNil(t, a.Alloc(64), "the fresh region still serves fitting requests")
	assert.Equal(t, 2, a.NumRegions())
}

func TestArenaResetReusesRegions(t *testing.T) {
	a := NewArena(128)
	defer a.Release()

	first := a.Alloc(100)
	for i := 0; i < 5; i++ {
		a.Alloc(100)
	}
	require.Equal(t, 6, a.NumRegions())

	a.Reset()
	assert.Zero(t, a.TotalUsed())
	assert.Equal(t, 6, a.NumRegions())
	assert.Equal(t, first, a.Alloc(100), "the first region is active again")

	for i := 0; i < 5; i++ {
		a.Alloc(100)
	}
	assert.Equal(t, 6, a.NumRegions(), "retained regions are reused before growing")
}

func TestArenaEnsureCapacity(t *testing.T) {
	a := NewArena(256)
	defer a.Release()

	a.Alloc(200)
	a.EnsureCapacity(100)
	assert.Equal(t, 2, a.NumRegions())

	p := a.Alloc(100)
	require.NotNil(t, p)
	assert.Equal(t, 100, a.regions[1].Used())

	a.EnsureCapacity(1000)
	assert.Equal(t, 2, a.NumRegions())
}

func TestArenaIgnoresOverflow(t *testing.T) {
	h := alloc.NewHeap()
	a := NewArena(64, WithOverflow(h))
	defer a.Release()

	a.Alloc(64)
	a.Alloc(64)
	assert.Zero(t, h.TotalAllocated())
	assert.Equal(t, 2, a.NumRegions())
}

func TestArenaTypedHelpers(t *testing.T) {
	a := NewArena(64)
	defer a.Release()

	xs := alloc.NewSlice[uint32](a, 16)
	require.Len(t, xs, 16)
	ys := alloc.NewSlice[uint32](a, 16)
	require.Len(t, ys, 16)

	assert.NotEqual(t, unsafe.SliceData(xs), unsafe.SliceData(ys))
	assert.Equal(t, uint64(128), a.TotalAllocated())
	assert.InDelta(t, 1.0, a.Metrics().Utilization, 1e-9)
}

func TestArenaRelease(t *testing.T) {
	a := NewArena(64)
	a.Release()
	assert.Panics(t, func() { a.Alloc(8) })
	assert.Panics(t, a.Reset)
}

func BenchmarkArenaAlloc(b *testing.B) {
	a := NewArena(1 << 20)
	defer a.Release()

	for i := 0; i < b.N; i++ {
		a.Alloc(64)
		if i%1000 == 999 {
			a.Reset()
		}
	}
}
