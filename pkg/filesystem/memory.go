package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MemoryFS implements FS with in-memory storage
type MemoryFS struct {
	mu    sync.RWMutex
	nodes map[string]*fileNode

	// Error injection, keyed by cleaned absolute path
	errorPaths map[string]error

	// Statistics
	readCount  int
	writeCount int
}

// fileNode represents a file or directory in memory
type fileNode struct {
	mode    os.FileMode
	modTime time.Time
	content []byte
	isDir   bool
}

// NewMemory creates a new in-memory filesystem rooted at "/"
func NewMemory() *MemoryFS {
	return &MemoryFS{
		nodes: map[string]*fileNode{
			"/": {mode: 0755 | os.ModeDir, modTime: time.Now(), isDir: true},
		},
		errorPaths: make(map[string]error),
	}
}

// normalizePath converts a path to absolute form
func normalizePath(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join("/", path)
	}
	return filepath.Clean(path)
}

// getNode retrieves a node at the given path
func (m *MemoryFS) getNode(op, path string) (*fileNode, error) {
	if err, ok := m.errorPaths[path]; ok {
		return nil, &fs.PathError{Op: op, Path: path, Err: err}
	}
	node, ok := m.nodes[path]
	if !ok {
		return nil, &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
	}
	return node, nil
}

// requireParentDir checks that the parent of path is an existing directory
func (m *MemoryFS) requireParentDir(op, path string) error {
	dir := filepath.Dir(path)
	parent, err := m.getNode(op, dir)
	if err != nil {
		return err
	}
	if !parent.isDir {
		return &fs.PathError{Op: op, Path: dir, Err: errors.New("not a directory")}
	}
	return nil
}

// Stat returns file info
func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path := normalizePath(name)
	node, err := m.getNode("stat", path)
	if err != nil {
		return nil, err
	}
	return &fileInfo{name: filepath.Base(path), node: node}, nil
}

// ReadFile reads the entire file
func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.readCount++

	path := normalizePath(name)
	node, err := m.getNode("read", path)
	if err != nil {
		return nil, err
	}
	if node.isDir {
		return nil, &fs.PathError{Op: "read", Path: path, Err: errors.New("is a directory")}
	}

	out := make([]byte, len(node.content))
	copy(out, node.content)
	return out, nil
}

// WriteFile writes data to a file, creating it if necessary
func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writeCount++

	path := normalizePath(name)
	if err, ok := m.errorPaths[path]; ok {
		return &fs.PathError{Op: "write", Path: path, Err: err}
	}
	if err := m.requireParentDir("write", path); err != nil {
		return err
	}
	if existing, ok := m.nodes[path]; ok && existing.isDir {
		return &fs.PathError{Op: "write", Path: path, Err: errors.New("is a directory")}
	}

	content := make([]byte, len(data))
	copy(content, data)
	m.nodes[path] = &fileNode{mode: perm, modTime: time.Now(), content: content}
	return nil
}

// MkdirAll creates a directory and all necessary parents
func (m *MemoryFS) MkdirAll(path string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = normalizePath(path)
	var chain []string
	for p := path; ; p = filepath.Dir(p) {
		chain = append(chain, p)
		if p == "/" {
			break
		}
	}

	for i := len(chain) - 1; i >= 0; i-- {
		p := chain[i]
		if err, ok := m.errorPaths[p]; ok {
			return &fs.PathError{Op: "mkdir", Path: p, Err: err}
		}
		if node, ok := m.nodes[p]; ok {
			if !node.isDir {
				return &fs.PathError{Op: "mkdir", Path: p, Err: errors.New("not a directory")}
			}
			continue
		}
		m.nodes[p] = &fileNode{mode: perm | os.ModeDir, modTime: time.Now(), isDir: true}
	}
	return nil
}

// Rename moves a file, replacing any existing file at newpath
func (m *MemoryFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from, to := normalizePath(oldpath), normalizePath(newpath)
	node, err := m.getNode("rename", from)
	if err != nil {
		return err
	}
	if node.isDir {
		return &fs.PathError{Op: "rename", Path: from, Err: errors.New("is a directory")}
	}
	if err, ok := m.errorPaths[to]; ok {
		return &fs.PathError{Op: "rename", Path: to, Err: err}
	}
	if err := m.requireParentDir("rename", to); err != nil {
		return err
	}

	delete(m.nodes, from)
	node.modTime = time.Now()
	m.nodes[to] = node
	return nil
}

// Remove removes a file or empty directory
func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := normalizePath(name)
	node, err := m.getNode("remove", path)
	if err != nil {
		return err
	}
	if node.isDir {
		for p := range m.nodes {
			if p != path && filepath.Dir(p) == path {
				return &fs.PathError{Op: "remove", Path: path, Err: errors.New("directory not empty")}
			}
		}
	}
	delete(m.nodes, path)
	return nil
}

// WithError makes every operation touching path fail with err
func (m *MemoryFS) WithError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errorPaths[normalizePath(path)] = err
	return m
}

// ClearErrors removes all injected errors
func (m *MemoryFS) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errorPaths = make(map[string]error)
}

// Stats returns read and write operation counts
func (m *MemoryFS) Stats() (reads, writes int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.readCount, m.writeCount
}

// fileInfo implements fs.FileInfo
type fileInfo struct {
	name string
	node *fileNode
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return int64(len(fi.node.content)) }
func (fi *fileInfo) Mode() fs.FileMode  { return fi.node.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.node.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.node.isDir }
func (fi *fileInfo) Sys() interface{}   { return nil }
