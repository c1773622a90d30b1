package memmap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// createBacking allocates a uniquely named backing file in the system
// temporary directory, sized to hold size bytes. The filename is the only
// identifier another process needs to re-open the mapping.
func createBacking(size int) (string, *os.File, error) {
	path := filepath.Join(os.TempDir(), "memmap-"+uuid.NewString()+".bin")

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", nil, storageErr("create", path, err)
	}
	if err := f.Truncate(int64(size)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, storageErr("size", path, err)
	}
	return path, f, nil
}

// openBacking re-opens an existing backing file read-write and verifies it is
// large enough to hold the requested extent.
func openBacking(path string, size int) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, storageErr("open", path, err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, storageErr("stat", path, err)
	}
	if st.Size() < int64(size) {
		_ = f.Close()
		return nil, storageErr("open", path, fmt.Errorf("file holds %d bytes, mapping requires %d", st.Size(), size))
	}
	return f, nil
}
