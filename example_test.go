package memrt_test

import (
	"flag"
	"fmt"

	"github.com/go-kit/log"

	"github.com/pavanmanishd/memrt"
	"github.com/pavanmanishd/memrt/rc"
	"github.com/pavanmanishd/memrt/region"
)

// Example demonstrates a runtime handing out a scoped region and a shared
// pointer accounted against the default allocator.
func Example() {
	cfg := memrt.DefaultConfig()
	cfg.Tracking = true

	rt, err := memrt.New(cfg, log.NewNopLogger(), nil)
	if err != nil {
		panic(err)
	}

	scratch, err := rt.NewRegion()
	if err != nil {
		panic(err)
	}
	_ = scratch.Scoped(func(s *region.Scope) error {
		s.AllocBytes(512)
		fmt.Println("in scope:", scratch.Used())
		return nil
	})
	fmt.Println("after scope:", scratch.Used())

	counter := rc.NewArc(int64(0), rc.WithAllocator(rt.Allocator()))
	other := counter.Clone()
	*counter.Get() = 41
	*other.Get()++
	fmt.Println("value:", *counter.Get(), "owners:", counter.StrongCount())
	other.Drop()
	counter.Drop()

	fmt.Println("close:", rt.Close())

	// Output:
	// in scope: 512
	// after scope: 0
	// value: 42 owners: 2
	// close: <nil>
}

// ExampleConfig_RegisterFlags shows the runtime configured from the command
// line.
func ExampleConfig_RegisterFlags() {
	var cfg memrt.Config
	fs := flag.NewFlagSet("example", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	_ = fs.Parse([]string{"-memrt.region-capacity=1MB", "-memrt.source=mmap"})

	fmt.Println(cfg.Source, cfg.RegionCapacity, cfg.Validate())

	// Output:
	// mmap 1MB <nil>
}
