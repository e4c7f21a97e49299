package alloc

import (
	"unsafe"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/pavanmanishd/memrt/internal/sysmem"
)

// Pool is a fixed-block allocator. Unused blocks form an intrusive singly
// linked free list: the first word of each free block holds the address of
// the next free block, or 0 at the end of the list. Get and Put are O(1) and
// the pool never fragments. Not goroutine-safe.
type Pool struct {
	buf       []byte
	base      uintptr
	blockSize uintptr
	count     int
	head      uintptr // first free block, 0 when exhausted
	used      int
	src       sysmem.Source

	allocated   atomic.Uint64
	deallocated atomic.Uint64
}

// NewPool creates a pool of blockCount blocks of blockSize bytes. The block
// size is rounded up to a multiple of WordSize so every link is aligned.
func NewPool(blockSize, blockCount int, opts ...Option) (*Pool, error) {
	if blockSize < int(WordSize) {
		return nil, errors.Wrapf(ErrBlockTooSmall, "block size %d", blockSize)
	}
	if blockCount < 1 {
		return nil, errors.Wrapf(ErrNoBlocks, "block count %d", blockCount)
	}
	bs := alignUp(uintptr(blockSize), WordSize)
	total, ok := mulSize(bs, uintptr(blockCount))
	if !ok || total > uintptr(maxInt) {
		return nil, errors.Errorf("alloc: pool of %d x %d bytes overflows", blockCount, bs)
	}

	o := buildOptions(opts)
	buf := o.source.Acquire(int(total))
	p := &Pool{
		buf:       buf,
		base:      uintptr(unsafe.Pointer(unsafe.SliceData(buf))),
		blockSize: bs,
		count:     blockCount,
		src:       o.source,
	}
	p.thread()
	return p, nil
}

const maxInt = int(^uint(0) >> 1)

// thread links every block into the free list in address order.
func (p *Pool) thread() {
	for i := 0; i < p.count; i++ {
		addr := p.base + uintptr(i)*p.blockSize
		var next uintptr
		if i < p.count-1 {
			next = addr + p.blockSize
		}
		*(*uintptr)(p.at(addr)) = next
	}
	p.head = p.base
	p.used = 0
}

// at converts a block address back into a pointer derived from the buffer.
func (p *Pool) at(addr uintptr) unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(p.buf)), addr-p.base)
}

// Get pops a block off the free list. It returns nil when every block is in
// use. The block's contents are undefined.
func (p *Pool) Get() unsafe.Pointer {
	p.panicIfReleased()
	if p.head == 0 {
		return nil
	}
	ptr := p.at(p.head)
	p.head = *(*uintptr)(ptr)
	p.used++
	p.allocated.Add(uint64(p.blockSize))
	return ptr
}

// Put pushes a block obtained from Get back onto the free list. Passing a
// pointer from another allocator corrupts the pool.
func (p *Pool) Put(ptr unsafe.Pointer) {
	p.panicIfReleased()
	if ptr == nil {
		return
	}
	*(*uintptr)(ptr) = p.head
	p.head = uintptr(ptr)
	p.used--
	p.deallocated.Add(uint64(p.blockSize))
}

// Allocate serves requests that fit in one block. Larger requests, and
// alignments the blocks do not honour, return nil.
func (p *Pool) Allocate(size, align uintptr) unsafe.Pointer {
	align = normalizeAlign(align, 1)
	if size == 0 || size > p.blockSize || align == 0 || !p.aligned(align) {
		return nil
	}
	return p.Get()
}

// Deallocate returns a block to the pool.
func (p *Pool) Deallocate(ptr unsafe.Pointer, _, _ uintptr) {
	p.Put(ptr)
}

func (p *Pool) aligned(align uintptr) bool {
	return p.base%align == 0 && p.blockSize%align == 0
}

// Contains reports whether ptr lies inside the pool's buffer.
func (p *Pool) Contains(ptr unsafe.Pointer) bool {
	addr := uintptr(ptr)
	return addr >= p.base && addr < p.base+uintptr(len(p.buf))
}

// Used returns the number of blocks handed out and not yet returned.
func (p *Pool) Used() int { return p.used }

// Available returns the number of free blocks.
func (p *Pool) Available() int { return p.count - p.used }

// Len returns the total number of blocks.
func (p *Pool) Len() int { return p.count }

// BlockSize returns the (word-rounded) block size.
func (p *Pool) BlockSize() int { return int(p.blockSize) }

// TotalAllocated returns the cumulative number of bytes handed out.
func (p *Pool) TotalAllocated() uint64 { return p.allocated.Load() }

// TotalDeallocated returns the cumulative number of bytes returned.
func (p *Pool) TotalDeallocated() uint64 { return p.deallocated.Load() }

// Metrics returns a snapshot of the pool's statistics.
func (p *Pool) Metrics() Stats {
	return newStats(p.allocated.Load(), p.deallocated.Load(), p.used*int(p.blockSize), len(p.buf))
}

// Release returns the buffer to its source. Outstanding blocks become invalid.
func (p *Pool) Release() {
	if p.buf == nil {
		return
	}
	p.src.Free(p.buf)
	p.buf = nil
	p.base = 0
	p.head = 0
}

func (p *Pool) panicIfReleased() {
	if p.buf == nil {
		panic("alloc: pool used after Release()")
	}
}
