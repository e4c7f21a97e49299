//go:build unix

package sysmem

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Mmap returns a source that maps anonymous private memory for every buffer.
// Mapped buffers live outside the Go heap and must be returned with Free.
func Mmap() Source { return mmapSource{} }

type mmapSource struct{}

func (mmapSource) Acquire(size int) []byte {
	if size <= 0 {
		panic(errors.Errorf("sysmem: invalid buffer size %d", size))
	}
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		panic(errors.Wrapf(err, "sysmem: mmap %d bytes", size))
	}
	return buf
}

func (mmapSource) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}
	if err := unix.Munmap(buf[:cap(buf)]); err != nil && !errors.Is(err, unix.EINVAL) {
		panic(errors.Wrap(err, "sysmem: munmap"))
	}
}

func (mmapSource) Name() string { return NameMmap }
