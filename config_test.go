package memrt

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "go", cfg.Source)
	assert.Equal(t, datasize.MB, cfg.BumpCapacity)
	assert.Equal(t, 64*datasize.KB, cfg.RegionCapacity)
	assert.Equal(t, 64, cfg.SlabPoolSize)
	assert.False(t, cfg.Tracking)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "memrt", cfg.MetricsNamespace)
}

func TestConfigFlags(t *testing.T) {
	var cfg Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"-memrt.source=mmap",
		"-memrt.bump-capacity=4MB",
		"-memrt.region-capacity=256KB",
		"-memrt.slab-pool-size=16",
		"-memrt.tracking",
		"-memrt.log-level=debug",
	}))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "mmap", cfg.Source)
	assert.Equal(t, 4*datasize.MB, cfg.BumpCapacity)
	assert.Equal(t, 256*datasize.KB, cfg.RegionCapacity)
	assert.Equal(t, 16, cfg.SlabPoolSize)
	assert.True(t, cfg.Tracking)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
bump_capacity: 2MB
tracking: true
log_level: warn
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2*datasize.MB, cfg.BumpCapacity)
	assert.True(t, cfg.Tracking)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 64*datasize.KB, cfg.RegionCapacity, "unset keys keep their defaults")
}

func TestLoadConfigRoundTrip(t *testing.T) {
	want := DefaultConfig()
	want.BumpCapacity = 8 * datasize.MB
	want.Tracking = true

	out, err := yaml.Marshal(want)
	require.NoError(t, err)

	got, err := LoadConfig(writeConfig(t, string(out)))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key":     "bump_size: 1MB\n",
		"bad size":        "bump_capacity: lots\n",
		"invalid source":  "source: tmpfs\n",
		"zero capacity":   "region_capacity: 0B\n",
		"bad pool size":   "slab_pool_size: 0\n",
		"bad log level":   "log_level: chatty\n",
		"not a yaml dict": "- a\n- b\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memrt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}
