package mocks

import (
	iofs "io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/user/yuvenc/pkg/ports"
)

// FileSystem is an in-memory ports.FileSystem. Paths are compared after
// filepath.Clean, and a directory exists once it was created or once a
// file was written below it.
type FileSystem struct {
	mu     sync.RWMutex
	files  map[string][]byte
	dirs   map[string]bool
	writes []string

	// WriteFileFunc, when set, replaces WriteFile (e.g. to inject disk errors).
	WriteFileFunc func(path string, data []byte) error
}

// NewFileSystem returns an empty in-memory file system.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &iofs.PathError{Op: "open", Path: path, Err: iofs.ErrNotExist}
	}
	return data, nil
}

func (m *FileSystem) WriteFile(path string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(path, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := filepath.Clean(path)
	if m.dirs[key] {
		return &iofs.PathError{Op: "write", Path: path, Err: iofs.ErrExist}
	}
	m.files[key] = append([]byte(nil), data...)
	m.writes = append(m.writes, path)
	return nil
}

func (m *FileSystem) MkdirAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for dir := filepath.Clean(path); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		m.dirs[dir] = true
	}
	return nil
}

func (m *FileSystem) Exists(path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := filepath.Clean(path)
	if _, ok := m.files[key]; ok || m.dirs[key] {
		return true, nil
	}
	prefix := key + string(filepath.Separator)
	for name := range m.files {
		if strings.HasPrefix(name, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (m *FileSystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := filepath.Clean(path)
	if _, ok := m.files[key]; !ok && !m.dirs[key] {
		return &iofs.PathError{Op: "remove", Path: path, Err: iofs.ErrNotExist}
	}
	delete(m.files, key)
	delete(m.dirs, key)
	return nil
}

// SetFile seeds a file without recording a write.
func (m *FileSystem) SetFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(path)] = data
}

// GetFile returns a file's contents.
func (m *FileSystem) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[filepath.Clean(path)]
	return data, ok
}

// DirExists reports whether MkdirAll created path or one of its children.
func (m *FileSystem) DirExists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[filepath.Clean(path)]
}

// Writes returns the paths passed to WriteFile, in call order.
func (m *FileSystem) Writes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.writes...)
}

var _ ports.FileSystem = (*FileSystem)(nil)
