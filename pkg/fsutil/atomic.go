package fsutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// DefaultFileMode applies to output files written with mode 0.
	DefaultFileMode os.FileMode = 0o644

	// DefaultDirMode applies to output directories created on demand.
	DefaultDirMode os.FileMode = 0o755
)

// WriteAtomic replaces path with content so that readers see either the old
// file or the complete new one. Missing parent directories are created and
// a mode of 0 means DefaultFileMode. A failed write leaves path untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DefaultDirMode); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	staged, err := stage(dir, filepath.Base(path), content, mode)
	if err != nil {
		return err
	}
	if err := os.Rename(staged, path); err != nil {
		_ = os.Remove(staged)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// stage writes content to a synced temp file in dir and returns its name.
func stage(dir, base string, content []byte, mode os.FileMode) (name string, err error) {
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmp.Name(), nil
}

// WriteAtomicIfChanged is WriteAtomic that skips the write when path already
// holds content. It reports whether it wrote.
func WriteAtomicIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("write atomic: %w", err)
	}

	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("read existing: %w", err)
	}

	if err := WriteAtomic(ctx, path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}
