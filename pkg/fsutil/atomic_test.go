package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomddeep/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rel      string
		existing string
		mode     os.FileMode
		wantMode os.FileMode
	}{
		{name: "new file", rel: "out.html", mode: 0o600, wantMode: 0o600},
		{name: "overwrites", rel: "out.html", existing: "old", mode: 0o644, wantMode: 0o644},
		{name: "default mode", rel: "out.html", wantMode: fsutil.DefaultFileMode},
		{name: "creates parent directories", rel: filepath.Join("site", "docs", "out.html"), wantMode: fsutil.DefaultFileMode},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, testCase.rel)
			if testCase.existing != "" {
				require.NoError(t, os.WriteFile(path, []byte(testCase.existing), 0o644))
			}

			require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("<p>hi</p>\n"), testCase.mode))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "<p>hi</p>\n", string(got))

			stat, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, testCase.wantMode, stat.Mode().Perm())

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			for _, entry := range entries {
				assert.False(t, strings.Contains(entry.Name(), ".tmp."), "temp file left behind: %s", entry.Name())
			}
		})
	}

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.html")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.Error(t, fsutil.WriteAtomic(ctx, path, []byte("x"), 0))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("parent is a file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "site")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

		err := fsutil.WriteAtomic(context.Background(), filepath.Join(blocker, "out.html"), []byte("x"), 0)
		require.Error(t, err)
	})
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.html")
	ctx := context.Background()

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("one"), 0)
	require.NoError(t, err)
	assert.True(t, written, "missing file is written")

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("one"), 0)
	require.NoError(t, err)
	assert.False(t, written, "identical content is not rewritten")

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("two"), 0)
	require.NoError(t, err)
	assert.True(t, written)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
}
