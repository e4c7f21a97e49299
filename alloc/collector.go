package alloc

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports allocator counters to Prometheus. Each registered
// allocator becomes one value of the "allocator" label.
//
// Scrapes happen on other goroutines, so only register allocators that are
// safe to read concurrently: the heap, a Tracking decorator, or anything
// wrapped in Synchronized.
type Collector struct {
	mu      sync.RWMutex
	sources map[string]Allocator

	allocated   *prometheus.Desc
	deallocated *prometheus.Desc
	inUse       *prometheus.Desc
	capacity    *prometheus.Desc
}

// NewCollector creates a collector whose metric names start with namespace.
func NewCollector(namespace string) *Collector {
	labels := []string{"allocator"}
	return &Collector{
		sources: make(map[string]Allocator),
		allocated: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "allocator", "allocated_bytes_total"),
			"Total number of bytes handed out by the allocator.",
			labels, nil,
		),
		deallocated: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "allocator", "deallocated_bytes_total"),
			"Total number of bytes returned to the allocator.",
			labels, nil,
		),
		inUse: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "allocator", "in_use_bytes"),
			"Bytes currently in use, including alignment padding.",
			labels, nil,
		),
		capacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "allocator", "capacity_bytes"),
			"Backing capacity of the allocator, 0 when unbounded.",
			labels, nil,
		),
	}
}

// Register adds a under name, replacing any allocator with the same name.
func (c *Collector) Register(name string, a Allocator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[name] = a
}

// Unregister removes the allocator registered under name.
func (c *Collector) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sources, name)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocated
	ch <- c.deallocated
	ch <- c.inUse
	ch <- c.capacity
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	names := make([]string, 0, len(c.sources))
	for name := range c.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	sources := make([]Allocator, len(names))
	for i, name := range names {
		sources[i] = c.sources[name]
	}
	c.mu.RUnlock()

	for i, a := range sources {
		name := names[i]
		ch <- prometheus.MustNewConstMetric(c.allocated, prometheus.CounterValue, float64(a.TotalAllocated()), name)
		ch <- prometheus.MustNewConstMetric(c.deallocated, prometheus.CounterValue, float64(a.TotalDeallocated()), name)
		if m, ok := a.(Measurable); ok {
			s := m.Metrics()
			ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(s.InUse), name)
			ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity), name)
		}
	}
}
