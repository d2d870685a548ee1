package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/gomddeep/pkg/cache"
	"github.com/yaklabco/gomddeep/pkg/engine"
	"github.com/yaklabco/gomddeep/pkg/markdown"
	"github.com/yaklabco/gomddeep/pkg/runner"
)

func newDeepRunner() *runner.Runner {
	return runner.New(engine.NameDeep, engine.Options{Markdown: markdown.DefaultOptions()})
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestNew(t *testing.T) {
	t.Parallel()

	r := runner.New(engine.NameGoldmark, engine.Options{Flavor: "gfm"})
	if r.Engine != engine.NameGoldmark || r.Options.Flavor != "gfm" {
		t.Errorf("New() = %+v", r)
	}
}

func TestRunner_Run_UnknownEngine(t *testing.T) {
	t.Parallel()

	r := runner.New("nope", engine.Options{})
	_, err := r.Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	if !errors.Is(err, engine.ErrUnknownEngine) {
		t.Errorf("Run() error = %v, want ErrUnknownEngine", err)
	}
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := newDeepRunner().Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Files) != 0 || result.Stats.FilesDiscovered != 0 {
		t.Errorf("Run() = %+v, want empty result", result)
	}
	if result.HasFailures() {
		t.Error("HasFailures() = true for empty run")
	}
}

func TestRunner_Run_WritesNextToSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "b.md", "docs/a.md")

	result, err := newDeepRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 2})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesConverted != 2 || result.Stats.FilesWritten != 2 {
		t.Errorf("Stats = %+v, want 2 converted and written", result.Stats)
	}

	// Outcomes follow the sorted discovery order.
	if got := relAll(t, dir, []string{result.Files[0].Path, result.Files[1].Path}); got[0] != "b.md" || got[1] != "docs/a.md" {
		t.Errorf("outcome order = %v", got)
	}

	if got := readFile(t, filepath.Join(dir, "docs", "a.html")); got != "<h1>docs/a.md</h1>\n" {
		t.Errorf("a.html = %q", got)
	}
	if result.Stats.BytesIn == 0 || result.Stats.BytesOut == 0 {
		t.Errorf("byte counts not recorded: %+v", result.Stats)
	}
}

func TestRunner_Run_OutputDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "docs/guide.md")

	result, err := newDeepRunner().Run(context.Background(), runner.Options{
		WorkingDir: dir,
		OutputDir:  "site",
		OutputExt:  ".htm",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := filepath.Join(dir, "site", "docs", "guide.htm")
	if result.Files[0].OutputPath != want {
		t.Errorf("OutputPath = %s, want %s", result.Files[0].OutputPath, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestRunner_Run_SecondRunIsUnchanged(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "a.md")
	opts := runner.Options{WorkingDir: dir}

	if _, err := newDeepRunner().Run(context.Background(), opts); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	result, err := newDeepRunner().Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if result.Stats.FilesWritten != 0 || result.Stats.FilesUnchanged != 1 {
		t.Errorf("Stats = %+v, want one unchanged", result.Stats)
	}
}

func TestRunner_Run_Collect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "a.md")

	result, err := newDeepRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Mode: runner.OutputCollect})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := string(result.Files[0].HTML); got != "<h1>a.md</h1>\n" {
		t.Errorf("HTML = %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.html")); !os.IsNotExist(err) {
		t.Errorf("collect mode wrote a file: %v", err)
	}
}

func TestRunner_Run_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "a.md")

	result, err := newDeepRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Mode: runner.OutputNone})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	outcome := result.Files[0]
	if outcome.OutputPath != filepath.Join(dir, "a.html") || outcome.Written || outcome.HTML != nil {
		t.Errorf("outcome = %+v", outcome)
	}
	if _, err := os.Stat(outcome.OutputPath); !os.IsNotExist(err) {
		t.Errorf("dry run wrote a file: %v", err)
	}
	if result.Stats.FilesConverted != 1 {
		t.Errorf("FilesConverted = %d, want 1", result.Stats.FilesConverted)
	}
}

func TestRunner_Run_Cache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "a.md")

	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	opts := runner.Options{WorkingDir: dir, Cache: store, Fingerprint: "v1"}

	first, err := newDeepRunner().Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if first.Stats.FilesWritten != 1 {
		t.Fatalf("first run Stats = %+v", first.Stats)
	}

	second, err := newDeepRunner().Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if second.Stats.FilesCached != 1 || !second.Files[0].Cached {
		t.Errorf("second run Stats = %+v, want one cached", second.Stats)
	}

	opts.Fingerprint = "v2"
	third, err := newDeepRunner().Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if third.Stats.FilesCached != 0 {
		t.Errorf("fingerprint change should invalidate the cache: %+v", third.Stats)
	}

	// A missing output forces reconversion even with a fresh entry.
	if err := os.Remove(filepath.Join(dir, "a.html")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	fourth, err := newDeepRunner().Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if fourth.Stats.FilesWritten != 1 {
		t.Errorf("missing output Stats = %+v, want one written", fourth.Stats)
	}
}

func TestRunner_Run_QualifiesURLs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docs, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(docs, "page.md"), []byte("[x](other.html)\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	opts := markdown.DefaultOptions()
	opts.URLBaseLocation = "http://site.example/docs"
	r := runner.New(engine.NameDeep, engine.Options{Markdown: opts})

	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Mode: runner.OutputCollect})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(string(result.Files[0].HTML), `href="http://site.example/docs/other.html"`) {
		t.Errorf("HTML = %q", result.Files[0].HTML)
	}
}

func TestRunner_Run_Goldmark(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "t.md"), []byte("| a |\n|---|\n| 1 |\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := runner.New(engine.NameGoldmark, engine.Options{Flavor: "gfm", Markdown: markdown.DefaultOptions()})
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Mode: runner.OutputCollect})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(string(result.Files[0].HTML), "<table>") {
		t.Errorf("HTML = %q", result.Files[0].HTML)
	}
}

func TestRunner_RunFiles_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "ok.md")
	missing := filepath.Join(dir, "gone.md")

	result, err := newDeepRunner().RunFiles(context.Background(),
		[]string{missing, filepath.Join(dir, "ok.md")},
		runner.Options{WorkingDir: dir, Mode: runner.OutputCollect})
	if err != nil {
		t.Fatalf("RunFiles() error = %v", err)
	}

	if !result.HasFailures() || result.Stats.FilesFailed != 1 || result.Stats.FilesConverted != 1 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	failed := result.Failed()
	if len(failed) != 1 || failed[0].Path != missing {
		t.Errorf("Failed() = %+v", failed)
	}
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "a.md")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newDeepRunner().Run(ctx, runner.Options{WorkingDir: dir}); err == nil {
		t.Error("Run() expected error for cancelled context")
	}
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/work")

	tests := []struct {
		name    string
		source  string
		opts    runner.Options
		want    string
		wantErr error
	}{
		{
			name:   "in place",
			source: "/work/docs/a.md",
			opts:   runner.Options{WorkingDir: root},
			want:   "/work/docs/a.html",
		},
		{
			name:   "mirrored",
			source: "/work/docs/a.md",
			opts:   runner.Options{WorkingDir: root, OutputDir: "out"},
			want:   "/work/out/docs/a.html",
		},
		{
			name:   "outside working dir",
			source: "/elsewhere/a.markdown",
			opts:   runner.Options{WorkingDir: root, OutputDir: "/site"},
			want:   "/site/a.html",
		},
		{
			name:    "same as source",
			source:  "/work/a.html",
			opts:    runner.Options{WorkingDir: root, Extensions: []string{".html"}},
			wantErr: runner.ErrOutputIsSource,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := runner.OutputPath(filepath.FromSlash(testCase.source), testCase.opts)
			if testCase.wantErr != nil {
				if !errors.Is(err, testCase.wantErr) {
					t.Errorf("OutputPath() error = %v, want %v", err, testCase.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("OutputPath() error = %v", err)
			}
			if got != filepath.FromSlash(testCase.want) {
				t.Errorf("OutputPath() = %s, want %s", got, testCase.want)
			}
		})
	}
}
