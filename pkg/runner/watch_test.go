package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yaklabco/gomddeep/pkg/runner"
)

func waitResult(t *testing.T, results <-chan *runner.Result) *runner.Result {
	t.Helper()

	select {
	case result := <-results:
		return result
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a watch result")
		return nil
	}
}

func TestRunner_Watch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "a.md", "b.md")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan *runner.Result, 4)
	done := make(chan error, 1)

	go func() {
		done <- newDeepRunner().Watch(ctx, runner.Options{WorkingDir: dir}, runner.WatchOptions{
			Debounce: 20 * time.Millisecond,
			OnResult: func(r *runner.Result) { results <- r },
		})
	}()

	initial := waitResult(t, results)
	if initial.Stats.FilesConverted != 2 {
		t.Fatalf("initial run Stats = %+v", initial.Stats)
	}

	source := filepath.Join(dir, "a.md")
	if err := os.WriteFile(source, []byte("*changed*\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// A write can arrive as several events; wait until the output settles.
	want := "<p><em>changed</em></p>\n"
	for {
		changed := waitResult(t, results)
		if len(changed.Files) != 1 || changed.Files[0].Path != source {
			t.Fatalf("changed run Files = %+v", changed.Files)
		}
		if got := readFile(t, filepath.Join(dir, "a.html")); got == want {
			break
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not return after cancel")
	}
}
