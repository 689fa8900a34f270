package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	mio "github.com/kasuboski/ratez/pkg/io"
	"github.com/kasuboski/ratez/pkg/logger"
	"github.com/kasuboski/ratez/pkg/storage"
	"go.uber.org/zap"
)

var _ storage.Storage = (*File)(nil)

const defaultPerm os.FileMode = 0o644

// File stores the catalog as a JSON array in a single file
type File struct {
	path string
	fs   mio.FileIO
	perm os.FileMode
}

// Option configures a File
type Option func(*File)

// WithFileIO overrides the file io implementation
func WithFileIO(fs mio.FileIO) Option {
	return func(f *File) {
		f.fs = fs
	}
}

// WithPerm sets the permissions of the written file
func WithPerm(perm os.FileMode) Option {
	return func(f *File) {
		f.perm = perm
	}
}

// New creates a json file backed storage at path
func New(path string, opts ...Option) *File {
	f := &File{
		path: path,
		fs:   &mio.OSFileSystem{},
		perm: defaultPerm,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Path returns the location of the backing file
func (f *File) Path() string {
	return f.path
}

// ModTime returns when the backing file was last written
func (f *File) ModTime() (time.Time, error) {
	fi, err := f.fs.Stat(f.path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}

// Read parses the backing file. A missing or zero length file is an empty catalog.
func (f *File) Read(ctx context.Context) ([]storage.Movie, error) {
	log := logger.FromCtx(ctx)

	b, err := f.fs.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debugw("catalog file does not exist", zap.String("path", f.path))
			if err := f.fs.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
				log.Debugw("could not create data directory", zap.String("path", f.path), zap.Error(err))
			}
			return []storage.Movie{}, nil
		}
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrRead, f.path, err)
	}

	if len(bytes.TrimSpace(b)) == 0 {
		return []storage.Movie{}, nil
	}

	var movies []storage.Movie
	if err := json.Unmarshal(b, &movies); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrRead, f.path, err)
	}

	if movies == nil {
		movies = []storage.Movie{}
	}

	for i := range movies {
		if img, ok := movies[i].Image(); ok {
			movies[i].SetImage(img)
			continue
		}
		movies[i].SetImage("")
	}

	log.Debugw("read catalog", zap.String("path", f.path), zap.Int("count", len(movies)))
	return movies, nil
}

// Write replaces the backing file with movies
func (f *File) Write(ctx context.Context, movies []storage.Movie) error {
	out := make([]storage.Movie, len(movies))
	for i, m := range movies {
		img, _ := m.Image()
		m.SetImage(img)
		out[i] = m
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrWrite, err)
	}

	if err := f.fs.WriteFileAtomic(f.path, append(b, '\n'), f.perm); err != nil {
		return fmt.Errorf("%w: %s: %w", storage.ErrWrite, f.path, err)
	}

	logger.FromCtx(ctx).Debugw("wrote catalog", zap.String("path", f.path), zap.Int("count", len(movies)))
	return nil
}
