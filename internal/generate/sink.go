package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/cameronsjo/shipwright/internal/fileutil"
)

// Sink receives the filesystem side effects of a generator run.
type Sink interface {
	// MkdirAll creates a directory and its parents. It tolerates an existing
	// directory.
	MkdirAll(path string) error

	// WriteFile replaces path with data.
	WriteFile(path string, data []byte) error

	// MakeExecutable marks a written file executable.
	MakeExecutable(path string) error
}

// DiskSink writes to the local filesystem.
type DiskSink struct{}

// MkdirAll creates path with mode 0755.
func (DiskSink) MkdirAll(path string) error {
	return fileutil.EnsureDir(path)
}

// WriteFile writes path atomically with mode 0644.
func (DiskSink) WriteFile(path string, data []byte) error {
	return fileutil.WriteFile(path, data, 0644)
}

// MakeExecutable adds the owner execute bit to path.
func (DiskSink) MakeExecutable(path string) error {
	return fileutil.MakeExecutable(path)
}

// MemoryFile is a file recorded by MemorySink.
type MemoryFile struct {
	Data       []byte
	Executable bool
}

// MemorySink records side effects without touching disk. It backs dry runs.
type MemorySink struct {
	Dirs  map[string]bool
	Files map[string]*MemoryFile

	// order keeps paths in first-write order.
	order []string
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		Dirs:  make(map[string]bool),
		Files: make(map[string]*MemoryFile),
	}
}

// MkdirAll records path and its parents.
func (m *MemorySink) MkdirAll(path string) error {
	path = filepath.Clean(path)
	if _, isFile := m.Files[path]; isFile {
		return fmt.Errorf("create directory %s: %w", path, os.ErrExist)
	}
	for p := path; ; p = filepath.Dir(p) {
		m.Dirs[p] = true
		if filepath.Dir(p) == p {
			break
		}
	}
	return nil
}

// WriteFile records data at path. The parent must have been created.
func (m *MemorySink) WriteFile(path string, data []byte) error {
	path = filepath.Clean(path)
	if !m.Dirs[filepath.Dir(path)] {
		return fmt.Errorf("write %s: %w", path, os.ErrNotExist)
	}
	if _, seen := m.Files[path]; !seen {
		m.order = append(m.order, path)
	}
	m.Files[path] = &MemoryFile{Data: slices.Clone(data)}
	return nil
}

// MakeExecutable flags a recorded file.
func (m *MemorySink) MakeExecutable(path string) error {
	f, ok := m.Files[filepath.Clean(path)]
	if !ok {
		return fmt.Errorf("chmod %s: %w", path, os.ErrNotExist)
	}
	f.Executable = true
	return nil
}

// Paths returns recorded file paths in first-write order.
func (m *MemorySink) Paths() []string {
	return slices.Clone(m.order)
}
