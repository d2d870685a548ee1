package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/gomddeep/internal/logging"
)

// DefaultDebounce is how long Watch waits for a burst of events to settle.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	// OnResult receives every result, the initial full run included.
	OnResult func(*Result)
}

// Watch converts everything once and then reconverts sources as they change
// until ctx is cancelled. Cancellation is not an error.
func (r *Runner) Watch(ctx context.Context, opts Options, wopts WatchOptions) error {
	logger := logging.FromContext(ctx)

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	opts.WorkingDir = workDir

	filter, err := newScanner(ctx, workDir, opts)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchRoots(workDir, opts.effectivePaths()) {
		if err := addTree(watcher, filter, dir); err != nil {
			return err
		}
	}

	result, err := r.Run(ctx, opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	deliver(wopts, result)

	debounce := wopts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if err := addTree(watcher, filter, event.Name); err != nil {
						logger.Warn("watch directory failed", logging.FieldPath, event.Name, logging.FieldError, err)
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") || !filter.matches(event.Name) {
				continue
			}
			pending[filepath.Clean(event.Name)] = struct{}{}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", logging.FieldError, err)

		case <-timer.C:
			files := drain(pending)
			if len(files) == 0 {
				continue
			}
			logger.Info("sources changed", logging.FieldFiles, len(files))

			result, err := r.RunFiles(ctx, files, opts)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			deliver(wopts, result)
		}
	}
}

func deliver(wopts WatchOptions, result *Result) {
	if wopts.OnResult != nil {
		wopts.OnResult(result)
	}
}

// drain returns the existing pending files sorted and empties the set.
// Renamed or deleted sources are dropped.
func drain(pending map[string]struct{}) []string {
	files := make([]string, 0, len(pending))
	for path := range pending {
		delete(pending, path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			files = append(files, path)
		}
	}
	slices.Sort(files)
	return files
}

// watchRoots maps the run paths to directories: files are watched through
// their parent.
func watchRoots(workDir string, paths []string) []string {
	seen := make(map[string]struct{})
	var dirs []string

	for _, path := range paths {
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		path = filepath.Clean(path)

		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			path = filepath.Dir(path)
		}
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			dirs = append(dirs, path)
		}
	}
	return dirs
}

// addTree adds root and every directory below it that discovery would
// descend into.
func addTree(watcher *fsnotify.Watcher, filter *scanner, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root {
			if strings.HasPrefix(entry.Name(), ".") || filter.excludes.MatchDir(filter.rel(path)) {
				return filepath.SkipDir
			}
		}
		return watcher.Add(path)
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	return nil
}
