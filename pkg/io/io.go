package io

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

var (
	_ FileIO = (*OSFileSystem)(nil)

	ErrIsDirectory = errors.New("path is a directory")
)

// OSFileSystem is the default implementation of file io using the os package
type OSFileSystem struct{}

// Stat is a wrapper around os.Stat
func (o *OSFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile is a wrapper around os.ReadFile
func (o *OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// MkdirAll is a wrapper around os.MkdirAll
func (o *OSFileSystem) MkdirAll(name string, perm os.FileMode) error {
	return os.MkdirAll(name, perm)
}

// FileExists reports whether name can be stat'd
func (o *OSFileSystem) FileExists(name string) bool {
	_, err := o.Stat(name)
	return err == nil
}

// WriteFileAtomic replaces name with data. The bytes are written to a temporary
// file in the same directory which is synced and then renamed over the target,
// so readers see either the old contents or the new contents.
func (o *OSFileSystem) WriteFileAtomic(name string, data []byte, perm os.FileMode) error {
	if fi, err := o.Stat(name); err == nil && fi.IsDir() {
		return fmt.Errorf("%s: %w", name, ErrIsDirectory)
	}

	dir := filepath.Dir(name)
	if err := o.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(name)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if err := writeAll(tmp, data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, name); err != nil {
		return err
	}

	_ = syncDir(dir)
	return nil
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

// syncDir is best effort; directory fsync is not supported everywhere.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
