package memrt

import (
	"flag"
	"os"

	"github.com/c2h5oh/datasize"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pavanmanishd/memrt/alloc"
	"github.com/pavanmanishd/memrt/internal/sysmem"
	"github.com/pavanmanishd/memrt/region"
)

// Config is the configuration block for a Runtime.
type Config struct {
	Source           string            `yaml:"source"`
	BumpCapacity     datasize.ByteSize `yaml:"bump_capacity"`
	RegionCapacity   datasize.ByteSize `yaml:"region_capacity"`
	SlabPoolSize     int               `yaml:"slab_pool_size"`
	Tracking         bool              `yaml:"tracking"`
	LogLevel         string            `yaml:"log_level"`
	MetricsNamespace string            `yaml:"metrics_namespace"`
}

// RegisterFlags registers the runtime flags.
func (c *Config) RegisterFlags(f *flag.FlagSet) {
	c.RegisterFlagsWithPrefix("memrt.", f)
}

// RegisterFlagsWithPrefix registers the runtime flags with a prefix.
func (c *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&c.Source, prefix+"source", sysmem.NameGo, "Where backing buffers come from: go or mmap.")
	f.TextVar(&c.BumpCapacity, prefix+"bump-capacity", datasize.ByteSize(alloc.DefaultBumpCapacity), "Default buffer size of bump allocators.")
	f.TextVar(&c.RegionCapacity, prefix+"region-capacity", datasize.ByteSize(region.DefaultCapacity), "Buffer size of regions and of each arena region.")
	f.IntVar(&c.SlabPoolSize, prefix+"slab-pool-size", alloc.DefaultSlabPoolSize, "Number of objects in each slab pool.")
	f.BoolVar(&c.Tracking, prefix+"tracking", false, "Record every allocation made through the default allocator and report leaks on close.")
	f.StringVar(&c.LogLevel, prefix+"log-level", "info", "Log level: debug, info, warn or error.")
	f.StringVar(&c.MetricsNamespace, prefix+"metrics-namespace", "memrt", "Namespace of the exported allocator metrics.")
}

// Validate validates the runtime settings.
func (c *Config) Validate() error {
	if _, err := sysmem.Lookup(c.Source); err != nil {
		return errors.Wrap(err, "invalid source")
	}
	if err := validateSize("bump capacity", c.BumpCapacity); err != nil {
		return err
	}
	if err := validateSize("region capacity", c.RegionCapacity); err != nil {
		return err
	}
	if c.SlabPoolSize <= 0 {
		return errors.Errorf("slab pool size must be positive, got %d", c.SlabPoolSize)
	}
	if _, err := levelOption(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func validateSize(name string, v datasize.ByteSize) error {
	if v == 0 || v.Bytes() > uint64(maxInt) {
		return errors.Errorf("%s must be between 1B and %s, got %s", name, datasize.ByteSize(maxInt).HumanReadable(), v.HumanReadable())
	}
	return nil
}

const maxInt = int(^uint(0) >> 1)

// DefaultConfig returns the configuration the flags default to.
func DefaultConfig() Config {
	var c Config
	c.RegisterFlags(flag.NewFlagSet("", flag.ContinueOnError))
	return c
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates the
// result. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "open config")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}
