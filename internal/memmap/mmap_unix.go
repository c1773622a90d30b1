//go:build unix

package memmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps size bytes of f read-write and shared, so writes reach the
// backing file and are visible to other processes mapping the same path.
func mmapFile(f *os.File, size int) ([]byte, error) {
	return unix.Mmap(
		int(f.Fd()), //nolint:gosec // G115: file descriptor fits in int
		0,
		size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED,
	)
}

// munmapFile unmaps a memory-mapped file.
func munmapFile(data []byte) error {
	return unix.Munmap(data)
}

// msyncFile flushes mapped pages to the backing file.
func msyncFile(data []byte) error {
	return unix.Msync(data, unix.MS_SYNC)
}
