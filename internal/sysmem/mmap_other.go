//go:build !unix

package sysmem

// Mmap falls back to the Go heap where anonymous mappings are unavailable.
func Mmap() Source { return goSource{} }
