package source

import (
	"fmt"
	"os"
	"sort"
	"sync"
)

// Unit is one input file: a named piece of JavaScript text, either
// library code (pruned) or application code (read-only usage evidence).
type Unit struct {
	Name    string
	Source  []byte
	Library bool
}

// ContentSource provides file content from a specific source.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct{}

// NewFilesystem creates a source that reads from the filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// MemorySource serves content from memory.
// It is safe for concurrent use by multiple goroutines.
type MemorySource struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory creates a source backed by the given files.
func NewMemory(files map[string][]byte) *MemorySource {
	m := &MemorySource{files: make(map[string][]byte, len(files))}
	for k, v := range files {
		m.files[k] = v
	}
	return m
}

// Put stores content for path.
func (m *MemorySource) Put(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = content
}

// Read implements ContentSource.
func (m *MemorySource) Read(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return content, nil
}

// Load reads each path from src into a Unit, preserving order.
func Load(src ContentSource, paths []string, library bool) ([]Unit, error) {
	units := make([]Unit, 0, len(paths))
	for _, p := range paths {
		content, err := src.Read(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		units = append(units, Unit{Name: p, Source: content, Library: library})
	}
	return units, nil
}

// Bundle is the concatenation of several units into one source text,
// joined by newlines, with enough bookkeeping to map an offset back to
// the unit it came from.
type Bundle struct {
	Name   string
	Source []byte
	spans  []span
}

type span struct {
	name  string
	start int // offset of the unit's first byte in the bundle
	end   int
	lines []int // bundle offsets of each line start within the unit
}

// Concat joins units with a single newline between consecutive units.
func Concat(name string, units []Unit) *Bundle {
	b := &Bundle{Name: name}
	size := 0
	for _, u := range units {
		size += len(u.Source) + 1
	}
	buf := make([]byte, 0, size)

	for i, u := range units {
		if i > 0 {
			buf = append(buf, '\n')
		}
		start := len(buf)
		buf = append(buf, u.Source...)
		sp := span{name: u.Name, start: start, end: len(buf), lines: []int{start}}
		for j, c := range u.Source {
			if c == '\n' {
				sp.lines = append(sp.lines, start+j+1)
			}
		}
		b.spans = append(b.spans, sp)
	}
	b.Source = buf
	return b
}

// Locate maps a bundle byte offset to the owning unit name and the
// 1-based line and column within that unit. Offsets on a joining newline
// belong to the preceding unit.
func (b *Bundle) Locate(offset int) (unit string, line, column int) {
	if len(b.spans) == 0 {
		return b.Name, 1, offset + 1
	}
	i := sort.Search(len(b.spans), func(i int) bool { return b.spans[i].start > offset }) - 1
	if i < 0 {
		i = 0
	}
	sp := b.spans[i]
	l := sort.Search(len(sp.lines), func(j int) bool { return sp.lines[j] > offset }) - 1
	if l < 0 {
		l = 0
	}
	return sp.name, l + 1, offset - sp.lines[l] + 1
}

// Units returns the unit names in bundle order.
func (b *Bundle) Units() []string {
	names := make([]string, len(b.spans))
	for i, sp := range b.spans {
		names[i] = sp.name
	}
	return names
}
