package alloc

import (
	"bytes"
	"testing"
	"unsafe"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlabValidation(t *testing.T) {
	_, err := NewSlab(0)
	require.ErrorIs(t, err, ErrObjectSize)

	s, err := NewSlab(1)
	require.NoError(t, err)
	assert.Equal(t, int(WordSize), s.ObjectSize(), "objects hold at least a free-list link")
}

func TestSlabGrowsOnDemand(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewSlab(24, WithPoolSize(4), WithLogger(log.NewLogfmtLogger(&buf)))
	require.NoError(t, err)
	defer s.Release()

	assert.Zero(t, s.NumPools(), "pools are created lazily")

	seen := make(map[unsafe.Pointer]bool)
	for i := 0; i < 10; i++ {
		p := s.Get()
		require.NotNil(t, p)
		require.False(t, seen[p], "duplicate address at %d", i)
		seen[p] = true
	}
	assert.Equal(t, 3, s.NumPools())
	assert.Equal(t, 10, s.Used())
	assert.Contains(t, buf.String(), "slab grew")
}

func TestSlabPutDelegatesToOwner(t *testing.T) {
	s, err := NewSlab(16, WithPoolSize(2))
	require.NoError(t, err)
	defer s.Release()

	a, b, c := s.Get(), s.Get(), s.Get()
	require.Equal(t, 2, s.NumPools())

	s.Put(c)
	assert.Equal(t, 2, s.Used())
	s.Put(a)
	assert.Equal(t, a, s.Get(), "the first pool serves first")
	assert.Equal(t, c, s.Get())
	_ = b
}

func TestSlabPutForeignPointerIsIgnored(t *testing.T) {
	s, err := NewSlab(16)
	require.NoError(t, err)
	defer s.Release()

	s.Get()
	var x [16]byte
	s.Put(unsafe.Pointer(&x))
	s.Put(nil)
	assert.Equal(t, 1, s.Used())
	assert.False(t, s.Contains(unsafe.Pointer(&x)))
}

func TestSlabAllocatorInterface(t *testing.T) {
	s, err := NewSlab(32, WithPoolSize(2))
	require.NoError(t, err)
	defer s.Release()

	assert.Nil(t, s.Allocate(64, 0))
	p := s.Allocate(32, 8)
	require.NotNil(t, p)
	s.Deallocate(p, 32, 8)

	assert.Equal(t, uint64(32), s.TotalAllocated())
	assert.Equal(t, uint64(32), s.TotalDeallocated())

	m := s.Metrics()
	assert.Zero(t, m.InUse)
	assert.Equal(t, 64, m.Capacity)
}

func TestSlabAllocateAlignment(t *testing.T) {
	s, err := NewSlab(32, WithPoolSize(2))
	require.NoError(t, err)
	defer s.Release()

	for i := 0; i < 5; i++ {
		p := s.Allocate(32, 16)
		require.NotNil(t, p, "allocation %d", i)
		assert.Zero(t, uintptr(p)%16)
	}
	assert.Nil(t, s.Allocate(32, 64), "stronger than the buffer alignment")
	assert.Nil(t, s.Allocate(32, 3), "non power of two")

	odd, err := NewSlab(24)
	require.NoError(t, err)
	defer odd.Release()
	assert.Nil(t, odd.Allocate(24, 16), "24-byte blocks cannot keep 16-byte alignment")
	assert.NotNil(t, odd.Allocate(24, 8))
}
