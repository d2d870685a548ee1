package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
)

// ConfigPaths lists the configuration files found for one run. An empty
// field means no file exists at that level.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string
}

var (
	// Names looked up while walking up from the working directory, best first.
	projectConfigFiles = []string{".gomddeep.yml", ".gomddeep.yaml", ".gomddeep.json", "gomddeep.yml", "gomddeep.yaml"}

	// Names looked up inside the system and user config directories.
	sharedConfigFiles = []string{"config.yml", "config.yaml"}

	// A directory holding one of these ends the upward walk.
	repositoryMarkers = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths locates the system, user and project config files that
// apply to workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstExisting(systemConfigDir(), sharedConfigFiles),
		User:    firstExisting(userConfigDir(), sharedConfigFiles),
		Project: project,
	}, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/gomddeep"
	}
	root := os.Getenv("ProgramData")
	if root == "" {
		root = `C:\ProgramData`
	}
	return filepath.Join(root, "gomddeep")
}

// userConfigDir honours XDG_CONFIG_HOME and falls back to ~/.config.
func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gomddeep")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gomddeep")
}

func firstExisting(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		if candidate := filepath.Join(dir, name); fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// FindProjectConfig walks up from startDir and returns the first project
// config file, or "" once it passes a repository root, the home directory
// or the filesystem root without finding one.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}

		if found := firstExisting(dir, projectConfigFiles); found != "" {
			return found, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir || dir == home || isRepositoryRoot(dir) {
			return "", nil
		}
		dir = parent
	}
}

func isRepositoryRoot(dir string) bool {
	return slices.ContainsFunc(repositoryMarkers, func(marker string) bool {
		info, err := os.Stat(filepath.Join(dir, marker))
		return err == nil && info.IsDir()
	})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
