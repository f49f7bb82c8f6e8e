package workspace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"combine-videos/internal/logging"
)

// DefaultPrefix is the directory name prefix for new workspaces.
const DefaultPrefix = "vidcompress"

// shmDir is tried first by DefaultBase.
var shmDir = "/dev/shm"

// renameFunc is swapped in tests to simulate EXDEV.
var renameFunc = os.Rename

// Workspace is a temporary directory removed by Close.
type Workspace struct {
	dir       string
	closeOnce sync.Once
	closeErr  error
}

// DefaultBase returns /dev/shm when it is a writable directory and the
// system temporary directory otherwise.
func DefaultBase() string {
	if info, err := os.Stat(shmDir); err == nil && info.IsDir() {
		if f, err := os.CreateTemp(shmDir, ".write-test"); err == nil {
			name := f.Name()
			_ = f.Close()
			_ = os.Remove(name)
			return shmDir
		}
	}
	return os.TempDir()
}

// Create makes a new uniquely named directory under base. An empty base
// means DefaultBase.
func Create(base, prefix string) (*Workspace, error) {
	if base == "" {
		base = DefaultBase()
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace base %s: %w", base, err)
	}
	dir, err := os.MkdirTemp(base, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	logging.Debug("Workspace created: %s", dir)
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path returns the path of name inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// WriteFile writes data to name inside the workspace.
func (w *Workspace) WriteFile(name string, data []byte) error {
	return os.WriteFile(w.Path(name), data, 0o644)
}

// Close removes the workspace and its contents. Safe to call more than once.
func (w *Workspace) Close() error {
	w.closeOnce.Do(func() {
		size, _ := dirSize(w.dir)
		if err := os.RemoveAll(w.dir); err != nil {
			w.closeErr = fmt.Errorf("failed to remove workspace %s: %w", w.dir, err)
			return
		}
		logging.Debug("Workspace removed: %s (freed %d bytes)", w.dir, size)
	})
	return w.closeErr
}

// dirSize calculates the total size of a directory
func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}

// Move renames src to dst, replacing dst. When the two are on different
// filesystems (the usual case for /dev/shm) it copies and then removes src.
func Move(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		logging.Warn("Overwriting existing file %s", dst)
	}

	err := renameFunc(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}

	logging.Debug("Cross-device move, copying %s to %s", src, dst)
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := os.Remove(src); err != nil {
		logging.Warn("failed to remove %s after copy: %v", src, err)
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmpName, dst)
}
