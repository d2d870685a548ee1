// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support, option key normalization, and validation.
package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gomddeep/pkg/config"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// ErrConfigExists is returned by WriteConfig when the target exists and
// overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

// ErrConfigNotFound is returned by Load when the explicit config file does
// not exist.
var ErrConfigNotFound = errors.New("config file not found")

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (GOMDDEEP_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.gomddeep.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/gomddeep/config.yml)
//  6. System config (/etc/gomddeep/config.yml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	cfg := config.NewConfig()

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	if opts.ExplicitPath != "" && !fileExists(opts.ExplicitPath) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, opts.ExplicitPath)
	}
	paths.Explicit = opts.ExplicitPath
	result.Paths = paths

	layers := []struct {
		name    string
		path    string
		skipped bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig || opts.ExplicitPath != ""},
		{"explicit", paths.Explicit, false},
	}

	for _, layer := range layers {
		if layer.skipped || layer.path == "" {
			continue
		}

		layerCfg, warnings, err := loadConfigFile(layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		cfg = merge(cfg, layerCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
		result.Warnings = append(result.Warnings, warnings...)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if err := validation.Err(); err != nil {
		return nil, err
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile loads a configuration from a YAML (or JSON) file.
// Markdown option keys are normalized first; unknown keys produce warnings.
func loadConfigFile(path string) (*config.Config, []string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, nil, fmt.Errorf("parse YAML: %w", err)
	}

	cfg := &config.Config{}
	if root.Kind == 0 {
		return cfg, nil, nil
	}

	warnings := normalizeOptionKeys(&root, path)

	if err := root.Decode(cfg); err != nil {
		return nil, nil, fmt.Errorf("decode config: %w", err)
	}

	return cfg, warnings, nil
}

// normalizeOptionKeys rewrites the keys of the markdown mapping in place to
// their canonical form. If an option is given under two spellings, the last
// one wins and a warning is recorded.
func normalizeOptionKeys(root *yaml.Node, path string) []string {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}

	var section *yaml.Node
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == "markdown" {
			section = doc.Content[i+1]
		}
	}
	if section == nil || section.Kind != yaml.MappingNode {
		return nil
	}

	var warnings []string
	seen := make(map[string]string)
	kept := make([]*yaml.Node, 0, len(section.Content))

	for i := 0; i+1 < len(section.Content); i += 2 {
		keyNode, valueNode := section.Content[i], section.Content[i+1]
		original := keyNode.Value

		canonical, known := ResolveOptionKey(original)
		if !known {
			warnings = append(warnings,
				fmt.Sprintf("%s: markdown.%s: unknown option; it will be ignored%s",
					path, original, didYouMean(original, optionKeys())))
			kept = append(kept, keyNode, valueNode)
			continue
		}

		if previous, dup := seen[canonical]; dup {
			warnings = append(warnings,
				fmt.Sprintf("%s: markdown: %q and %q both set %s; using last value", path, previous, original, canonical))
			kept = dropKey(kept, canonical)
		}
		seen[canonical] = original
		keyNode.Value = canonical
		kept = append(kept, keyNode, valueNode)
	}

	section.Content = kept
	return warnings
}

// dropKey removes the key/value pair with the given key from a mapping's content.
func dropKey(content []*yaml.Node, key string) []*yaml.Node {
	for i := 0; i+1 < len(content); i += 2 {
		if content[i].Value == key {
			return append(content[:i], content[i+2:]...)
		}
	}
	return content
}

// WriteConfig writes template bytes to path. It refuses to overwrite an
// existing file unless force is set.
func WriteConfig(path string, content []byte, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	if err := os.WriteFile(path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}
