package configloader

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/yaklabco/gomddeep/pkg/config"
	"github.com/yaklabco/gomddeep/pkg/engine"
	"github.com/yaklabco/gomddeep/pkg/fsutil"
)

// ValidationError is one invalid or suspicious configuration value.
type ValidationError struct {
	// Field is the dotted key, for example "markdown.max_nesting".
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationResult collects the findings of Validate. Errors stop loading;
// warnings are reported and loading continues.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err joins every error, or returns nil when the config is valid.
func (r *ValidationResult) Err() error {
	errs := make([]error, len(r.Errors))
	for i := range r.Errors {
		errs[i] = &r.Errors[i]
	}
	return errors.Join(errs...)
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Engine != "" && !slices.Contains(engine.Names(), cfg.Engine) {
		result.addError("engine", cfg.Engine, "invalid engine %q; must be one of: %s%s",
			cfg.Engine, strings.Join(engine.Names(), ", "), didYouMean(cfg.Engine, engine.Names()))
	}

	if cfg.Flavor != "" && cfg.Flavor != config.FlavorCommonMark && cfg.Flavor != config.FlavorGFM {
		result.addError("flavor", cfg.Flavor, "invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor)
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("format", cfg.Format, "invalid format %q; must be one of: text, table, summary, json, yaml", cfg.Format)
	}

	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			result.addError(fmt.Sprintf("extensions[%d]", i), ext, "extension %q must start with a dot", ext)
		}
	}

	validateIgnorePatterns(cfg, result)
	validateMarkdown(cfg.Markdown, result)

	return result
}

// validateMarkdown checks the document options.
func validateMarkdown(md config.MarkdownConfig, result *ValidationResult) {
	if md.MaxImageWidth < 0 {
		result.addError("markdown.max_image_width", md.MaxImageWidth, "max_image_width must be >= 0 (0 means no limit)")
	}
	if md.MaxNesting < 0 {
		result.addError("markdown.max_nesting", md.MaxNesting, "max_nesting must be >= 0 (0 means the default)")
	}
	if md.SummaryLength < -1 {
		result.addError("markdown.summary_length", md.SummaryLength, "summary_length must be >= -1")
	}

	for field, value := range map[string]string{
		"markdown.url_base_location": md.URLBaseLocation,
		"markdown.url_root_location": md.URLRootLocation,
	} {
		if value == "" {
			continue
		}
		parsed, err := url.Parse(value)
		if err != nil {
			result.addError(field, value, "invalid URL: %v", err)
			continue
		}
		if !parsed.IsAbs() {
			result.addWarning(field, value, "%q has no scheme; links will be joined as plain paths", value)
		}
	}

	if md.SafeMode != nil && *md.SafeMode && md.MarkdownInHTML != nil && *md.MarkdownInHTML {
		result.addWarning("markdown.markdown_in_html", true, "has no effect on HTML blocks removed by safe_mode")
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := fsutil.NewMatcher([]string{pattern}); err != nil {
			result.addError(fmt.Sprintf("ignore[%d]", i), pattern, "%v", err)
		}
	}
}
