package fs

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gml/skins/internal/textures"
)

var ErrPathOutsideRoot = errors.New("path points outside of the storage root")

func New(basePath string) (*Filesystem, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &Filesystem{path: absPath}, nil
}

type Filesystem struct {
	path string
}

func (f *Filesystem) Exists(ctx context.Context, path string) (bool, error) {
	fullPath, err := f.resolve(path)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}

		return false, err
	}

	return !info.IsDir(), nil
}

func (f *Filesystem) LoadImage(ctx context.Context, path string) (image.Image, error) {
	file, err := f.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	if file == nil {
		return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}

	defer file.Close()

	return textures.DecodeImage(file)
}

// Open returns nil reader without an error when the file doesn't exist
func (f *Filesystem) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	fullPath, err := f.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	return file, nil
}

const textureFileMode os.FileMode = 0644

func (f *Filesystem) Save(ctx context.Context, path string, data []byte) error {
	fullPath, err := f.resolve(path)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(fullPath), 0755)
	if err != nil {
		return err
	}

	// Write into a temporary file first so readers never observe a partially written texture
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return err
	}

	_, err = tmp.Write(data)
	if err == nil {
		// CreateTemp makes the file private to the owner, textures must stay readable for other processes
		err = tmp.Chmod(textureFileMode)
	}

	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), fullPath)
}

func (f *Filesystem) Remove(ctx context.Context, path string) error {
	fullPath, err := f.resolve(path)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

func (f *Filesystem) Ping(_ context.Context) error {
	info, err := os.Stat(f.path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", f.path)
	}

	return nil
}

func (f *Filesystem) resolve(path string) (string, error) {
	fullPath := filepath.Join(f.path, filepath.FromSlash(path))
	if fullPath != f.path && !strings.HasPrefix(fullPath, f.path+string(filepath.Separator)) {
		return "", ErrPathOutsideRoot
	}

	return fullPath, nil
}
