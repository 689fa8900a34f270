package io

import (
	"os"
)

// FileIO is an interface for the file operations the catalog backing file needs
type FileIO interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	MkdirAll(name string, perm os.FileMode) error
	WriteFileAtomic(name string, data []byte, perm os.FileMode) error
	FileExists(name string) bool
}
