// Package fsutil provides the file system primitives gomddeep converts with:
// reading sources with a content digest, detecting sources edited while a
// conversion was running, and writing output files atomically.
package fsutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNilFileInfo is returned when a nil FileInfo is passed.
	ErrNilFileInfo = errors.New("nil FileInfo")

	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// FileInfo captures the state of a source file when it was read.
type FileInfo struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64

	// Hash is the SHA-256 of the content.
	Hash [32]byte
}

// Digest returns the hex encoded content hash.
func (i *FileInfo) Digest() string {
	return hex.EncodeToString(i.Hash[:])
}

// ReadFile reads a source file and returns its content with metadata.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	info := &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}

	return content, info, nil
}

func classify(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}

// Digest hashes parts in order and returns the hex encoded SHA-256. Each part
// is length-prefixed so that ("ab", "c") and ("a", "bc") differ.
func Digest(parts ...[]byte) string {
	hasher := sha256.New()
	for _, part := range parts {
		fmt.Fprintf(hasher, "%d:", len(part))
		hasher.Write(part)
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// CheckModified reports whether the file changed since info was taken.
// Mod time and size are compared first; when they match the content is
// hashed again.
func CheckModified(ctx context.Context, info *FileInfo) (bool, error) {
	changed, err := CheckModifiedQuick(ctx, info)
	if err != nil || changed {
		return changed, err
	}

	content, err := os.ReadFile(info.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("read %s: %w", info.Path, err)
	}

	return sha256.Sum256(content) != info.Hash, nil
}

// CheckModifiedQuick compares only mod time and size. A deleted file counts
// as modified.
func CheckModifiedQuick(ctx context.Context, info *FileInfo) (bool, error) {
	if info == nil {
		return false, ErrNilFileInfo
	}

	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}

	stat, err := os.Stat(info.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", info.Path, err)
	}

	return !stat.ModTime().Equal(info.ModTime) || stat.Size() != info.Size, nil
}
