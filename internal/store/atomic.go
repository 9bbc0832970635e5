package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWriteFile writes data to path durably: it writes to a temp file in
// the same directory, fsyncs it, then renames it over path. The rename is
// atomic on POSIX filesystems, so a crash mid-write never leaves path
// holding a partially-written document — readers either see the old
// content or the new content, never a mix.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", ErrPersistence, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("%w: writing temp file: %v", ErrPersistence, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("%w: fsyncing temp file: %v", ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %v", ErrPersistence, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: chmod temp file: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: renaming temp file into place: %v", ErrPersistence, err)
	}
	return nil
}

// ReadFile reads path, wrapping any error in ErrPersistence so callers can
// use errors.Is(err, ErrPersistence) uniformly. The underlying os error is
// wrapped too, so errors.Is(err, os.ErrNotExist) still distinguishes a
// missing file from a real I/O failure.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return data, nil
}
