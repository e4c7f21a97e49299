package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type particle struct {
	X, Y, Z float32
	Age     uint16
}

func TestObjectPoolFactory(t *testing.T) {
	p, err := NewObjectPool(func() particle { return particle{Age: 100} })
	require.NoError(t, err)
	defer p.Clear()

	v := p.Get()
	assert.Equal(t, uint16(100), v.Age)
	v.X = 1.5
	assert.Equal(t, 1, p.InUse())

	p.Put(v)
	assert.Zero(t, p.InUse())

	w := p.Get()
	assert.Same(t, v, w, "the block is recycled")
	assert.Equal(t, particle{Age: 100}, *w, "recycled values are reinitialized")
}

func TestObjectPoolZeroValue(t *testing.T) {
	p, err := NewObjectPool[uint64](nil)
	require.NoError(t, err)
	defer p.Clear()

	v := p.Get()
	*v = 7
	p.Put(v)
	assert.Zero(t, *p.Get())
}

func TestObjectPoolPreallocate(t *testing.T) {
	p, err := NewObjectPool[particle](nil, WithPoolSize(8))
	require.NoError(t, err)
	defer p.Clear()

	assert.Zero(t, p.Available())
	p.Preallocate(20)
	assert.GreaterOrEqual(t, p.Available(), 20)
	assert.Zero(t, p.InUse())

	avail := p.Available()
	p.Preallocate(5)
	assert.Equal(t, avail, p.Available(), "already satisfied")
}

func TestObjectPoolRejectsPointerTypes(t *testing.T) {
	type withPointer struct{ name string }

	_, err := NewObjectPool[withPointer](nil)
	require.ErrorIs(t, err, ErrPointerType)
}

func TestObjectPoolClear(t *testing.T) {
	p, err := NewObjectPool[int32](nil)
	require.NoError(t, err)

	p.Get()
	p.Get()
	p.Clear()
	assert.Zero(t, p.InUse())
	assert.Zero(t, p.Available())

	require.NotNil(t, p.Get(), "a cleared pool grows again")
	p.Clear()
}
