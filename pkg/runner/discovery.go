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

	"github.com/yaklabco/gomddeep/pkg/fsutil"
)

// Discover expands opts.Paths into the sorted, de-duplicated list of
// absolute Markdown file paths to convert. Directories are walked
// recursively, skipping hidden entries and excluded directories. Files named
// explicitly only need a matching extension and no exclusion.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	scan, err := newScanner(ctx, workDir, opts)
	if err != nil {
		return nil, err
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			scan.consider(path)
			continue
		}
		if err := scan.tree(path); err != nil {
			return nil, err
		}
	}

	files := make([]string, 0, len(scan.found))
	for path := range scan.found {
		files = append(files, path)
	}
	slices.Sort(files)

	return files, nil
}

func newScanner(ctx context.Context, workDir string, opts Options) (*scanner, error) {
	excludes, err := fsutil.NewMatcher(opts.ExcludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("compile exclude patterns: %w", err)
	}
	return &scanner{
		ctx:        ctx,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		excludes:   excludes,
		follow:     opts.FollowSymlinks,
		found:      make(map[string]struct{}),
		visited:    make(map[string]struct{}),
	}, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(workDir)
}

// scanner accumulates matching files across all input paths.
type scanner struct {
	ctx        context.Context
	workDir    string
	extensions []string
	excludes   *fsutil.Matcher
	follow     bool

	found map[string]struct{}
	// visited holds resolved directories already walked, so symlink
	// cycles terminate.
	visited map[string]struct{}
}

func (s *scanner) rel(path string) string {
	if rel, err := filepath.Rel(s.workDir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

// matches reports whether path has a source extension and is not excluded.
func (s *scanner) matches(path string) bool {
	ext := filepath.Ext(path)
	wanted := slices.ContainsFunc(s.extensions, func(e string) bool { return strings.EqualFold(e, ext) })
	return wanted && !s.excludes.Match(s.rel(path))
}

func (s *scanner) consider(path string) {
	if s.matches(path) {
		s.found[path] = struct{}{}
	}
}

func (s *scanner) tree(root string) error {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		if _, seen := s.visited[resolved]; seen {
			return nil
		}
		s.visited[resolved] = struct{}{}
	}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}
		if path == root {
			return nil
		}

		hidden := strings.HasPrefix(entry.Name(), ".")
		switch {
		case entry.IsDir():
			if hidden || s.excludes.MatchDir(s.rel(path)) {
				return filepath.SkipDir
			}
		case entry.Type()&fs.ModeSymlink != 0:
			return s.symlink(path)
		case !hidden:
			s.consider(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// symlink handles a link met during a walk. Links to files are treated as
// the files themselves; links to directories are walked only when following
// is enabled. Broken links are ignored.
func (s *scanner) symlink(path string) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil //nolint:nilerr // broken links are skipped
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // unreadable targets are skipped
	}

	if !info.IsDir() {
		if !strings.HasPrefix(filepath.Base(path), ".") {
			s.consider(path)
		}
		return nil
	}
	if !s.follow {
		return nil
	}
	// WalkDir does not descend a symlinked root, so walk the target.
	return s.tree(target)
}
