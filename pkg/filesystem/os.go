package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// OS is the real filesystem.
type OS struct{}

var _ FS = OS{}

// NewOS returns the OS filesystem.
func NewOS() FS { return OS{} }

func (OS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }
func (OS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }
func (OS) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }
func (OS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }
func (OS) Remove(name string) error { return os.Remove(name) }

func (OS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// WriteAtomic replaces name with data through a temporary sibling and a
// rename, creating the parent directory when needed. Readers never observe a
// partially written file. The temporary file is removed when the rename fails.
func WriteAtomic(fsys FS, name string, data []byte, perm fs.FileMode) error {
	if err := fsys.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return err
	}
	tmp := name + ".tmp"
	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := fsys.Rename(tmp, name); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	return nil
}
