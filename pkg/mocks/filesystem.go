package mocks

import (
	"fmt"
	"sync"

	"github.com/user/vidpump/pkg/ports"
)

// FileSystem is an in-memory ports.FileSystem for adapter tests.
type FileSystem struct {
	mu    sync.Mutex
	files map[string][]byte

	// WriteErr, when set, is returned by every WriteFile call.
	WriteErr error
}

// NewFileSystem creates an empty in-memory filesystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{files: make(map[string][]byte)}
}

// ReadFile implements ports.FileSystem.
func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return data, nil
}

// WriteFile implements ports.FileSystem.
func (f *FileSystem) WriteFile(path string, data []byte) error {
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = data
	return nil
}

// Exists implements ports.FileSystem.
func (f *FileSystem) Exists(path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[path]
	return ok, nil
}

// Remove implements ports.FileSystem.
func (f *FileSystem) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path]; !ok {
		return fmt.Errorf("file not found: %s", path)
	}
	delete(f.files, path)
	return nil
}

var _ ports.FileSystem = (*FileSystem)(nil)
