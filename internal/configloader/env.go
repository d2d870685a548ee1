package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/yaklabco/gomddeep/pkg/config"
)

const envVarPrefix = "GOMDDEEP_"

// envVar binds one GOMDDEEP_* variable to the config key it overrides.
type envVar struct {
	suffix string
	field  string
	help   string
	apply  func(cfg *config.Config, raw string) error
}

func stringVar(set func(*config.Config, string)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		set(cfg, raw)
		return nil
	}
}

func boolVar(set func(*config.Config, *bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%q is not a boolean (want true/false/1/0)", raw)
		}
		set(cfg, config.Bool(b))
		return nil
	}
}

func intVar(set func(*config.Config, int)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%q is not an integer", raw)
		}
		set(cfg, n)
		return nil
	}
}

func listVar(set func(*config.Config, []string)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		set(cfg, splitList(raw))
		return nil
	}
}

var envVars = []envVar{
	{"ENGINE", "engine", "Renderer: deep or goldmark",
		stringVar(func(c *config.Config, v string) { c.Engine = v })},
	{"FLAVOR", "flavor", "goldmark dialect: commonmark or gfm",
		stringVar(func(c *config.Config, v string) { c.Flavor = config.Flavor(v) })},
	{"FORMAT", "format", "Report format: text, json, or yaml",
		stringVar(func(c *config.Config, v string) { c.Format = config.OutputFormat(v) })},
	{"OUTPUT_DIR", "output_dir", "Directory receiving converted files",
		stringVar(func(c *config.Config, v string) { c.OutputDir = v })},
	{"JOBS", "jobs", "Number of parallel workers (0 = auto)",
		intVar(func(c *config.Config, n int) { c.Jobs = n })},
	{"IGNORE", "ignore", "Comma-separated list of ignore patterns",
		listVar(func(c *config.Config, l []string) { c.Ignore = l })},
	{"EXTENSIONS", "extensions", "Comma-separated list of file extensions to convert",
		listVar(func(c *config.Config, l []string) { c.Extensions = l })},
	{"SAFE_MODE", "markdown.safe_mode", "Strip unsafe HTML: true or false",
		boolVar(func(c *config.Config, b *bool) { c.Markdown.SafeMode = b })},
	{"EXTRA_MODE", "markdown.extra_mode", "Enable extra syntax: true or false",
		boolVar(func(c *config.Config, b *bool) { c.Markdown.ExtraMode = b })},
	{"AUTO_HEADING_IDS", "markdown.auto_heading_ids", "Generate heading ids: true or false",
		boolVar(func(c *config.Config, b *bool) { c.Markdown.AutoHeadingIDs = b })},
	{"URL_BASE_LOCATION", "markdown.url_base_location", "Base URL for relative links",
		stringVar(func(c *config.Config, v string) { c.Markdown.URLBaseLocation = v })},
	{"URL_ROOT_LOCATION", "markdown.url_root_location", "Base URL for root-relative links",
		stringVar(func(c *config.Config, v string) { c.Markdown.URLRootLocation = v })},
	{"MAX_IMAGE_WIDTH", "markdown.max_image_width", "Scale local images wider than this",
		intVar(func(c *config.Config, n int) { c.Markdown.MaxImageWidth = n })},
}

// LoadFromEnv applies GOMDDEEP_* overrides to cfg. Unset and empty
// variables are ignored.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, v := range envVars {
		name := envVarPrefix + v.suffix
		raw := os.Getenv(name)
		if raw == "" {
			continue
		}
		if err := v.apply(cfg, raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

// splitList turns "a, b,,c" into [a b c].
func splitList(raw string) []string {
	items := lo.Map(strings.Split(raw, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	})
	return lo.Compact(items)
}

// GetEnvVarName returns the variable overriding a dotted config key, or "".
func GetEnvVarName(field string) string {
	v, ok := lo.Find(envVars, func(v envVar) bool { return v.field == field })
	if !ok {
		return ""
	}
	return envVarPrefix + v.suffix
}

// ListEnvVars describes every supported variable.
func ListEnvVars() map[string]string {
	return lo.SliceToMap(envVars, func(v envVar) (string, string) {
		return envVarPrefix + v.suffix, v.help
	})
}
