package alloc_test

import (
	"fmt"

	"github.com/pavanmanishd/memrt/alloc"
)

// Example demonstrates basic bump allocator usage.
func Example() {
	b := alloc.NewBump(1024)
	defer b.Release()

	buf := b.AllocBytes(100)
	fmt.Printf("Allocated buffer of size: %d\n", len(buf))

	ptr := alloc.New[int64](b)
	*ptr = 42
	fmt.Printf("Allocated int64 with value: %d\n", *ptr)

	slice := alloc.NewSlice[int32](b, 50)
	for i := range slice {
		slice[i] = int32(i * 2)
	}
	fmt.Printf("Allocated slice: %v...\n", slice[:5])

	// Every allocation is aligned to 16 bytes.
	fmt.Printf("Memory in use: %d bytes\n", b.Used())

	b.Reset()
	fmt.Printf("After reset, memory in use: %d bytes\n", b.Used())

	// Output:
	// Allocated buffer of size: 100
	// Allocated int64 with value: 42
	// Allocated slice: [0 2 4 6 8]...
	// Memory in use: 328 bytes
	// After reset, memory in use: 0 bytes
}

func ExamplePool() {
	p, err := alloc.NewPool(32, 4)
	if err != nil {
		panic(err)
	}
	defer p.Release()

	var blocks []any
	for p.Available() > 0 {
		blocks = append(blocks, p.Get())
	}
	fmt.Println("blocks:", len(blocks), "exhausted:", p.Get() == nil)

	// Output:
	// blocks: 4 exhausted: true
}

func ExampleTracking() {
	t := alloc.NewTracking(alloc.NewHeap())

	p := t.Allocate(256, 0)
	t.Allocate(64, 0)
	t.Deallocate(p, 256, 0)

	fmt.Println("live allocations:", t.LiveAllocations())
	fmt.Println("live bytes:", t.LiveBytes())

	// Output:
	// live allocations: 1
	// live bytes: 64
}
