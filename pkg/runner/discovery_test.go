package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/gomddeep/pkg/runner"
)

func writeTree(t *testing.T, dir string, files ...string) {
	t.Helper()

	for _, f := range files {
		path := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("# "+f+"\n"), 0o644); err != nil {
			t.Fatalf("setup write: %v", err)
		}
	}
}

func relAll(t *testing.T, dir string, files []string) []string {
	t.Helper()

	rel := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(dir, f)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	return rel
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDiscover_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "readme.md")
	mdFile := filepath.Join(dir, "readme.md")

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{mdFile},
		WorkingDir: dir,
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(files) != 1 || files[0] != mdFile {
		t.Errorf("Discover() = %v, want [%s]", files, mdFile)
	}
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir,
		"readme.md",
		"docs/guide.md",
		"docs/api.markdown",
		"src/main.go",
		"notes.txt",
		".hidden/secret.md",
		"docs/.draft.md",
	)

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []string{"docs/api.markdown", "docs/guide.md", "notes.txt", "readme.md"}
	if got := relAll(t, dir, files); !equalStrings(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscover_Extensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "a.md", "b.MD", "c.txt")

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Extensions: []string{".md"},
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []string{"a.md", "b.MD"}
	if got := relAll(t, dir, files); !equalStrings(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscover_Exclude(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "directory tree",
			patterns: []string{"vendor/**"},
			want:     []string{"docs/CHANGELOG.md", "docs/guide.md", "readme.md"},
		},
		{
			name:     "file name anywhere",
			patterns: []string{"CHANGELOG.md"},
			want:     []string{"docs/guide.md", "readme.md", "vendor/lib/readme.md"},
		},
		{
			name:     "double star prefix",
			patterns: []string{"**/lib"},
			want:     []string{"docs/CHANGELOG.md", "docs/guide.md", "readme.md"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeTree(t, dir, "readme.md", "docs/guide.md", "docs/CHANGELOG.md", "vendor/lib/readme.md")

			files, err := runner.Discover(context.Background(), runner.Options{
				WorkingDir:   dir,
				Extensions:   []string{".md"},
				ExcludeGlobs: testCase.patterns,
			})
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}

			if got := relAll(t, dir, files); !equalStrings(got, testCase.want) {
				t.Errorf("Discover() = %v, want %v", got, testCase.want)
			}
		})
	}
}

func TestDiscover_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   t.TempDir(),
		ExcludeGlobs: []string{"[unclosed"},
	})
	if err == nil {
		t.Error("Discover() expected error for malformed pattern")
	}
}

func TestDiscover_Deduplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "docs/a.md")

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Paths:      []string{"docs", "docs/a.md", "."},
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 1 {
		t.Errorf("Discover() = %v, want one file", files)
	}
}

func TestDiscover_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
		Paths:      []string{"nope.md"},
	})
	if err == nil {
		t.Error("Discover() expected error for missing path")
	}
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outside := t.TempDir()
	writeTree(t, dir, "readme.md")
	writeTree(t, outside, "linked.md")

	if err := os.Symlink(outside, filepath.Join(dir, "ext")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 1 {
		t.Errorf("without FollowSymlinks got %v", files)
	}

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 2 {
		t.Errorf("with FollowSymlinks got %v", files)
	}
}

func TestDiscover_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := runner.Discover(ctx, runner.Options{WorkingDir: t.TempDir()}); err == nil {
		t.Error("Discover() expected error for cancelled context")
	}
}

func TestDiscover_SymlinkCycle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "docs/a.md")

	if err := os.Symlink(dir, filepath.Join(dir, "docs", "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if got := relAll(t, dir, files); !equalStrings(got, []string{"docs/a.md"}) {
		t.Errorf("Discover() = %v, want [docs/a.md]", got)
	}
}
