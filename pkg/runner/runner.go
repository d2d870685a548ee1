package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomddeep/internal/logging"
	"github.com/yaklabco/gomddeep/pkg/cache"
	"github.com/yaklabco/gomddeep/pkg/engine"
	"github.com/yaklabco/gomddeep/pkg/fsutil"
)

// ErrOutputIsSource is returned when a file's output path resolves to the
// source itself.
var ErrOutputIsSource = errors.New("output path is the source file")

// Runner converts files with one engine configuration.
type Runner struct {
	// Engine is the engine name passed to engine.New.
	Engine string

	// Options are the engine options. When Markdown.DocumentLocation is
	// empty each file gets its own directory as document location.
	Options engine.Options
}

// New creates a Runner for the named engine.
func New(engineName string, opts engine.Options) *Runner {
	return &Runner{Engine: engineName, Options: opts}
}

// Run discovers files under opts.Paths and converts them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if _, err := engine.New(r.Engine, r.Options); err != nil {
		return nil, err
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	return r.RunFiles(ctx, files, opts)
}

// RunFiles converts the given absolute paths without discovery.
func (r *Runner) RunFiles(ctx context.Context, files []string, opts Options) (*Result, error) {
	start := time.Now()

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	opts.WorkingDir = workDir

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	logger := logging.FromContext(ctx)
	logger.Debug("converting", logging.FieldFiles, len(files), logging.FieldJobs, jobs, logging.FieldEngine, r.Engine)

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, opts)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order; index by path and rebuild in input order.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}
	result.Stats.Duration = time.Since(start)

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome, opts Options) {
	logger := logging.FromContext(ctx)

	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.convertFile(ctx, path, opts)
		logOutcome(logger, outcome)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// convertFile reads, converts and delivers one file.
func (r *Runner) convertFile(ctx context.Context, path string, opts Options) FileOutcome {
	ctx = logging.WithFile(ctx, path)
	outcome := FileOutcome{Path: path}

	if opts.Mode == OutputFiles || opts.Mode == OutputNone {
		outPath, err := OutputPath(path, opts)
		if err != nil {
			outcome.Error = err
			return outcome
		}
		outcome.OutputPath = outPath
	}

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.InputBytes = len(content)

	digest := fsutil.Digest(content, []byte(r.Engine), []byte(opts.Fingerprint))
	if opts.Mode == OutputFiles && opts.Cache != nil && opts.Cache.Fresh(path, digest) {
		if _, statErr := os.Stat(outcome.OutputPath); statErr == nil {
			outcome.Cached = true
			return outcome
		}
	}

	engineOpts := r.Options
	if engineOpts.Markdown.DocumentLocation == "" {
		engineOpts.Markdown.DocumentLocation = filepath.Dir(path)
	}

	conv, err := engine.New(r.Engine, engineOpts)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	start := time.Now()
	html, err := conv.Convert(ctx, content)
	outcome.Duration = time.Since(start)
	if err != nil {
		outcome.Error = fmt.Errorf("convert %s: %w", path, err)
		return outcome
	}
	outcome.OutputBytes = len(html)

	switch opts.Mode {
	case OutputCollect:
		outcome.HTML = html
		return outcome
	case OutputNone:
		return outcome
	case OutputFiles:
	}

	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	if modified {
		outcome.Skipped = true
		return outcome
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, outcome.OutputPath, html, fsutil.DefaultFileMode)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Written = written
	outcome.Unchanged = !written

	if opts.Cache != nil {
		entry := cache.Entry{Digest: digest, Output: outcome.OutputPath, Converted: time.Now()}
		if err := opts.Cache.Store(path, entry); err != nil {
			logging.FromContext(ctx).Warn("cache store failed", logging.FieldError, err)
		}
	}

	return outcome
}

// OutputPath returns where the HTML for source goes. Without an output
// directory the source extension is swapped in place; with one the path
// relative to the working directory is mirrored below it. Sources outside
// the working directory land at the top of the output directory.
func OutputPath(source string, opts Options) (string, error) {
	ext := opts.effectiveOutputExt()
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + ext

	var out string
	if opts.OutputDir == "" {
		out = filepath.Join(filepath.Dir(source), name)
	} else {
		rel, err := filepath.Rel(opts.WorkingDir, filepath.Dir(source))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			rel = "."
		}

		outDir := opts.OutputDir
		if !filepath.IsAbs(outDir) {
			outDir = filepath.Join(opts.WorkingDir, outDir)
		}
		out = filepath.Join(outDir, rel, name)
	}

	if filepath.Clean(out) == filepath.Clean(source) {
		return "", fmt.Errorf("%w: %s", ErrOutputIsSource, source)
	}
	return out, nil
}

func logOutcome(logger *log.Logger, outcome FileOutcome) {
	switch {
	case outcome.Error != nil:
		logger.Error("conversion failed", logging.FieldPath, outcome.Path, logging.FieldError, outcome.Error)
	case outcome.Cached:
		logger.Debug("up to date", logging.FieldPath, outcome.Path)
	case outcome.Skipped:
		logger.Warn("source changed during conversion, skipped", logging.FieldPath, outcome.Path)
	default:
		logger.Debug("converted",
			logging.FieldPath, outcome.Path,
			logging.FieldOutput, outcome.OutputPath,
			logging.FieldBytes, outcome.OutputBytes,
			logging.FieldDuration, outcome.Duration,
		)
	}
}
