// Package fsx abstracts read access to a tree of files so that email templates
// can live in the binary, on local disk or in an S3 bucket.
package fsx

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("FSX")

var (
	CodeNotFound    = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "File not found")
	CodeUnavailable = ErrRegistry.Register("UNAVAILABLE", errx.TypeExternal, http.StatusBadGateway, "File storage unavailable")
)

func ErrNotFound(p string) *errx.Error {
	return ErrRegistry.New(CodeNotFound).WithDetail("path", p)
}

func ErrUnavailable(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeUnavailable, cause)
}

// FileInfo represents information about a file
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// FileReader provides read-only operations. Paths are slash separated and
// relative to the reader's root.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	List(ctx context.Context, dir string) ([]FileInfo, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// IOFS adapts an fs.FS (typically an embed.FS) to FileReader.
type IOFS struct {
	fsys fs.FS
}

func NewIOFS(fsys fs.FS) *IOFS {
	return &IOFS{fsys: fsys}
}

func (f *IOFS) ReadFile(_ context.Context, p string) ([]byte, error) {
	data, err := fs.ReadFile(f.fsys, path.Clean(p))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound(p)
	}
	if err != nil {
		return nil, ErrUnavailable(err)
	}
	return data, nil
}

func (f *IOFS) List(_ context.Context, dir string) ([]FileInfo, error) {
	entries, err := fs.ReadDir(f.fsys, path.Clean(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound(dir)
	}
	if err != nil {
		return nil, ErrUnavailable(err)
	}

	infos := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, FileInfo{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime(), IsDir: e.IsDir()})
	}
	return infos, nil
}

func (f *IOFS) Exists(_ context.Context, p string) (bool, error) {
	_, err := fs.Stat(f.fsys, path.Clean(p))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, ErrUnavailable(err)
	}
	return true, nil
}
