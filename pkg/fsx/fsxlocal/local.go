package fsxlocal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/fsx"
)

// LocalFileSystem reads files below a root directory on local disk.
type LocalFileSystem struct {
	basePath string
}

// NewLocalFileSystem resolves basePath; the directory must already exist.
func NewLocalFileSystem(basePath string) (*LocalFileSystem, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base path %s is not a directory", absPath)
	}
	return &LocalFileSystem{basePath: absPath}, nil
}

func (fs *LocalFileSystem) ReadFile(_ context.Context, path string) ([]byte, error) {
	full, err := fs.fullPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return nil, fsx.ErrNotFound(path)
	}
	if err != nil {
		return nil, fsx.ErrUnavailable(err)
	}
	return data, nil
}

func (fs *LocalFileSystem) List(_ context.Context, dir string) ([]fsx.FileInfo, error) {
	full, err := fs.fullPath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(full)
	if os.IsNotExist(err) {
		return nil, fsx.ErrNotFound(dir)
	}
	if err != nil {
		return nil, fsx.ErrUnavailable(err)
	}

	infos := make([]fsx.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, fsx.FileInfo{
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			IsDir:   info.IsDir(),
		})
	}
	return infos, nil
}

func (fs *LocalFileSystem) Exists(_ context.Context, path string) (bool, error) {
	full, err := fs.fullPath(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fsx.ErrUnavailable(err)
	}
	return true, nil
}

// fullPath joins path onto the root and refuses anything that escapes it.
func (fs *LocalFileSystem) fullPath(path string) (string, error) {
	full := filepath.Join(fs.basePath, filepath.FromSlash(path))
	if full != fs.basePath && !strings.HasPrefix(full, fs.basePath+string(filepath.Separator)) {
		return "", fsx.ErrNotFound(path)
	}
	return full, nil
}
