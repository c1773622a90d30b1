//go:build windows

package memmap

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// mmapFile maps size bytes of f read-write and shared (Windows implementation).
func mmapFile(f *os.File, size int) ([]byte, error) {
	handle, err := windows.CreateFileMapping(
		windows.Handle(f.Fd()),
		nil,
		windows.PAGE_READWRITE,
		uint32(uint64(size)>>32), //nolint:gosec // G115: split int64 into high/low words
		uint32(uint64(size)),     //nolint:gosec // G115: split int64 into high/low words
		nil,
	)
	if err != nil {
		return nil, err
	}
	// The mapping object handle can be closed once a view exists; the view
	// keeps the mapping alive.
	defer func() {
		_ = windows.CloseHandle(handle)
	}()

	addr, err := windows.MapViewOfFile(
		handle,
		windows.FILE_MAP_READ|windows.FILE_MAP_WRITE,
		0,
		0,
		uintptr(size),
	)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // G103: addr is a valid mapped address from MapViewOfFile
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

// munmapFile unmaps a memory-mapped file (Windows implementation).
func munmapFile(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("cannot unmap empty data")
	}
	return windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&data[0])))
}

// msyncFile flushes mapped pages to the backing file (Windows implementation).
func msyncFile(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return windows.FlushViewOfFile(uintptr(unsafe.Pointer(&data[0])), uintptr(len(data)))
}
