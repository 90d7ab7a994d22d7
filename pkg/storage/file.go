package storage

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/arthur-debert/asprules/pkg/filesystem"
)

// File stores each key in its own file under a directory.
type File struct {
	dir   string
	fs    filesystem.FS
	codec Codec
}

// FileOption configures a File backend.
type FileOption func(*File)

// WithFS sets the filesystem implementation (defaults to the OS).
func WithFS(fsys filesystem.FS) FileOption {
	return func(f *File) { f.fs = fsys }
}

// WithCodec sets the encoding (defaults to JSON).
func WithCodec(c Codec) FileOption {
	return func(f *File) { f.codec = c }
}

// NewFile creates a file backend rooted at dir.
func NewFile(dir string, opts ...FileOption) *File {
	f := &File{dir: dir, fs: filesystem.NewOS(), codec: JSONCodec{}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the file used for key, e.g. "asp:rules" -> <dir>/asp-rules.json.
func (f *File) Path(key string) string {
	return filepath.Join(f.dir, FileName(key)+f.codec.Ext())
}

// Dir returns the backend directory.
func (f *File) Dir() string {
	return f.dir
}

// Get implements Storage.
func (f *File) Get(_ context.Context, key string) (any, bool, error) {
	path := f.Path(key)
	data, err := f.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, errors.ErrStorageRead, "read %s", path)
	}

	v, err := f.codec.Decode(data)
	if err != nil {
		return nil, false, errors.Wrapf(err, errors.ErrStorageCodec, "decode %s", path).
			WithDetail("format", f.codec.Name())
	}
	return v, true, nil
}

// Set implements Storage. The file is replaced atomically through a
// temporary sibling and a rename.
func (f *File) Set(_ context.Context, key string, value any) error {
	path := f.Path(key)

	data, err := f.codec.Encode(value)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStorageCodec, "encode %s", path).
			WithDetail("format", f.codec.Name())
	}

	if err := filesystem.WriteAtomic(f.fs, path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStorageWrite, "write %s", path)
	}
	return nil
}

// FileName maps a storage key to a safe base file name.
func FileName(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	name := strings.Trim(b.String(), ".")
	if name == "" {
		return "_"
	}
	return name
}
