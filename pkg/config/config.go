// Package config defines the serializable configuration of gomddeep.
// These types are plain data; discovery and layering live in configloader.
package config

import "github.com/yaklabco/gomddeep/pkg/markdown"

// OutputFormat selects how results and reference tables are printed.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatSummary OutputFormat = "summary"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatSummary, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// Flavor selects the dialect of the goldmark engine.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// Engine names.
const (
	EngineDeep     = "deep"
	EngineGoldmark = "goldmark"
)

// DefaultExtensions are the file extensions converted when walking directories.
func DefaultExtensions() []string {
	return []string{".md", ".markdown", ".txt"}
}

// MarkdownConfig mirrors markdown.Options. Booleans are pointers so that a
// layer can switch an option off without being mistaken for "unset".
type MarkdownConfig struct {
	SafeMode       *bool `yaml:"safe_mode,omitempty"`
	ExtraMode      *bool `yaml:"extra_mode,omitempty"`
	MarkdownInHTML *bool `yaml:"markdown_in_html,omitempty"`
	AutoHeadingIDs *bool `yaml:"auto_heading_ids,omitempty"`

	URLBaseLocation string `yaml:"url_base_location,omitempty"`
	URLRootLocation string `yaml:"url_root_location,omitempty"`

	NewWindowForExternalLinks *bool `yaml:"new_window_for_external_links,omitempty"`
	NewWindowForLocalLinks    *bool `yaml:"new_window_for_local_links,omitempty"`
	NoFollowLinks             *bool `yaml:"no_follow_links,omitempty"`
	NoFollowExternalLinks     *bool `yaml:"no_follow_external_links,omitempty"`

	MaxImageWidth    int    `yaml:"max_image_width,omitempty"`
	DocumentRoot     string `yaml:"document_root,omitempty"`
	DocumentLocation string `yaml:"document_location,omitempty"`

	HTMLClassFootnotes    string `yaml:"html_class_footnotes,omitempty"`
	HTMLClassTitledImages string `yaml:"html_class_titled_images,omitempty"`

	ExtractHeadBlocks *bool `yaml:"extract_head_blocks,omitempty"`
	UserBreaks        *bool `yaml:"user_breaks,omitempty"`
	SummaryLength     int   `yaml:"summary_length,omitempty"`

	SectionHeader        string `yaml:"section_header,omitempty"`
	SectionHeadingSuffix string `yaml:"section_heading_suffix,omitempty"`
	SectionFooter        string `yaml:"section_footer,omitempty"`

	MaxNesting         int   `yaml:"max_nesting,omitempty"`
	DetectCodeLanguage *bool `yaml:"detect_code_language,omitempty"`
}

// Config is the root configuration structure for gomddeep.
type Config struct {
	// Engine selects the renderer: "deep" or "goldmark".
	Engine string `yaml:"engine"`

	// Flavor is the goldmark dialect ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	// Markdown holds the document options.
	Markdown MarkdownConfig `yaml:"markdown"`

	// Extensions lists the file extensions picked up when walking directories.
	Extensions []string `yaml:"extensions"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore"`

	// OutputDir receives converted files, mirroring input paths. When empty,
	// output is written next to each input.
	OutputDir string `yaml:"output_dir,omitempty"`

	// Jobs is the number of parallel workers; 0 means GOMAXPROCS.
	Jobs int `yaml:"jobs,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format selects the report format.
	Format OutputFormat `yaml:"-"`

	// Stdout writes converted HTML to standard output instead of files.
	Stdout bool `yaml:"-"`

	// DryRun converts without writing output.
	DryRun bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Engine:     EngineDeep,
		Flavor:     FlavorCommonMark,
		Extensions: DefaultExtensions(),
		Format:     FormatText,
		Jobs:       0,
	}
}

// MarkdownOptions returns the document options, starting from
// markdown.DefaultOptions and applying every field that is set.
func (c *Config) MarkdownOptions() markdown.Options {
	opts := markdown.DefaultOptions()
	m := c.Markdown

	setBool(&opts.SafeMode, m.SafeMode)
	setBool(&opts.ExtraMode, m.ExtraMode)
	setBool(&opts.MarkdownInHTML, m.MarkdownInHTML)
	setBool(&opts.AutoHeadingIDs, m.AutoHeadingIDs)
	setBool(&opts.NewWindowForExternalLinks, m.NewWindowForExternalLinks)
	setBool(&opts.NewWindowForLocalLinks, m.NewWindowForLocalLinks)
	setBool(&opts.NoFollowLinks, m.NoFollowLinks)
	setBool(&opts.NoFollowExternalLinks, m.NoFollowExternalLinks)
	setBool(&opts.ExtractHeadBlocks, m.ExtractHeadBlocks)
	setBool(&opts.UserBreaks, m.UserBreaks)
	setBool(&opts.DetectCodeLanguage, m.DetectCodeLanguage)

	setString(&opts.URLBaseLocation, m.URLBaseLocation)
	setString(&opts.URLRootLocation, m.URLRootLocation)
	setString(&opts.DocumentRoot, m.DocumentRoot)
	setString(&opts.DocumentLocation, m.DocumentLocation)
	setString(&opts.HTMLClassFootnotes, m.HTMLClassFootnotes)
	setString(&opts.HTMLClassTitledImages, m.HTMLClassTitledImages)
	setString(&opts.SectionHeader, m.SectionHeader)
	setString(&opts.SectionHeadingSuffix, m.SectionHeadingSuffix)
	setString(&opts.SectionFooter, m.SectionFooter)

	if m.MaxImageWidth != 0 {
		opts.MaxImageWidth = m.MaxImageWidth
	}
	if m.SummaryLength != 0 {
		opts.SummaryLength = m.SummaryLength
	}
	if m.MaxNesting != 0 {
		opts.MaxNesting = m.MaxNesting
	}

	return opts
}

// Bool returns a pointer to v, for filling MarkdownConfig fields.
func Bool(v bool) *bool { return &v }

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
