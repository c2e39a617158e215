package compile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// pendingFile collects output in a temporary file next to its
// destination, so that a failed run never leaves a partial file behind.
type pendingFile struct {
	*os.File
	dest string
}

func createFile(dest string, force bool) (*pendingFile, error) {
	if err := checkDest(dest, force); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*")
	if err != nil {
		return nil, fmt.Errorf("could not create temporary destination for %q: %w", dest, err)
	}

	return &pendingFile{File: f, dest: dest}, nil
}

// Commit moves the written file to its destination.
func (f *pendingFile) Commit() error {
	if err := f.Sync(); err != nil {
		f.Abort()
		return fmt.Errorf("could not flush temporary destination %q: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		f.Abort()
		return fmt.Errorf("could not close temporary destination %q: %w", f.Name(), err)
	}
	if err := os.Rename(f.Name(), f.dest); err != nil {
		f.Abort()
		return fmt.Errorf("could not rename destination file %q: %w", f.dest, err)
	}
	return nil
}

// Abort drops the temporary file. It is a no-op after Commit.
func (f *pendingFile) Abort() {
	_ = f.Close()
	if err := os.Remove(f.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("could not remove temporary file", "name", f.Name(), "error", err)
	}
}

func checkDest(dest string, force bool) error {
	info, err := os.Stat(dest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", dest, err)
		}
		return nil
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot overwrite non-regular file %q: %s", dest, info.Mode().String())
	}
	if !force {
		return fmt.Errorf("destination file already exists: %q", dest)
	}
	return nil
}
