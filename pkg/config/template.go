package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gomddeep/pkg/markdown"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full lists every markdown option with its default value.
	// If false, generates a minimal commented template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// OptionInfo documents one key of the markdown section.
type OptionInfo struct {
	Key         string
	Description string
	Default     any
}

// MarkdownOptionInfos returns the documented markdown options in file order.
func MarkdownOptionInfos() []OptionInfo {
	def := markdown.DefaultOptions()

	return []OptionInfo{
		{"safe_mode", "Strip unsafe HTML tags and attributes from the output", def.SafeMode},
		{"extra_mode", "Enable tables, footnotes, definition lists, abbreviations and fenced code", def.ExtraMode},
		{"markdown_in_html", "Process markdown inside HTML blocks without needing markdown=\"1\"", def.MarkdownInHTML},
		{"auto_heading_ids", "Generate id attributes for headings", def.AutoHeadingIDs},
		{"url_base_location", "Base URL for relative links", def.URLBaseLocation},
		{"url_root_location", "Base URL for root-relative links (defaults to the host of url_base_location)", def.URLRootLocation},
		{"new_window_for_external_links", "Add target=\"_blank\" to external links", def.NewWindowForExternalLinks},
		{"new_window_for_local_links", "Add target=\"_blank\" to local links", def.NewWindowForLocalLinks},
		{"no_follow_links", "Add rel=\"nofollow\" to all links", def.NoFollowLinks},
		{"no_follow_external_links", "Add rel=\"nofollow\" to external links", def.NoFollowExternalLinks},
		{"max_image_width", "Scale local images wider than this many pixels (0 = no limit)", def.MaxImageWidth},
		{"document_root", "Directory that root-relative image paths resolve against", def.DocumentRoot},
		{"document_location", "Directory that relative image paths resolve against", def.DocumentLocation},
		{"html_class_footnotes", "Class of the footnotes container div", def.HTMLClassFootnotes},
		{"html_class_titled_images", "Wrap titled images in a div with this class", def.HTMLClassTitledImages},
		{"extract_head_blocks", "Remove <head> blocks from the output and collect their content", def.ExtractHeadBlocks},
		{"user_breaks", "Treat === lines and horizontal rules as section breaks", def.UserBreaks},
		{"summary_length", "Render plain text only, stopping after this many characters (0 = off, -1 = no limit)", def.SummaryLength},
		{"section_header", "Written before each top level section; {0} is the section index", def.SectionHeader},
		{"section_heading_suffix", "Written after each section heading; {0} is the section index", def.SectionHeadingSuffix},
		{"section_footer", "Written after each top level section; {0} is the section index", def.SectionFooter},
		{"max_nesting", "Maximum depth of nested block quotes and lists", def.MaxNesting},
		{"detect_code_language", "Guess the language of code blocks that do not name one", def.DetectCodeLanguage},
	}
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate(), nil
	}
	return generateMinimalTemplate(), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Renderer: deep or goldmark
engine: deep

# goldmark dialect: commonmark or gfm
# flavor: commonmark

# Extensions converted when walking directories
# extensions:
#   - .md
#   - .markdown
#   - .txt

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"

# Number of parallel workers (0 = auto)
# jobs: 0

# Document options
# markdown:
#   safe_mode: false
#   extra_mode: true
#   auto_heading_ids: false
#   url_base_location: ""
`)

	return buf.Bytes()
}

// generateFullTemplate creates a template with every option documented.
func generateFullTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(`# gomddeep configuration - Full Template
# See: https://github.com/yaklabco/gomddeep
#
# Every option is listed with its default value.

# Renderer: deep or goldmark
engine: deep

# goldmark dialect: commonmark or gfm
flavor: commonmark

# Extensions converted when walking directories
extensions:
  - .md
  - .markdown
  - .txt

# File patterns to ignore (glob patterns)
ignore:
  - "vendor/**"
  - "node_modules/**"
  - ".git/**"

# Directory receiving converted files (empty = next to each input)
# output_dir: site

# Number of parallel workers (0 = auto based on CPU cores)
jobs: 0

# Document options
markdown:
`)

	for _, info := range MarkdownOptionInfos() {
		fmt.Fprintf(&buf, "\n  # %s\n", wrapComment(info.Description, commentWrapWidth))
		fmt.Fprintf(&buf, "  %s: %s\n", info.Key, yamlScalar(info.Default))
	}

	return buf.Bytes()
}

// yamlScalar renders a default value as a YAML scalar.
func yamlScalar(value any) string {
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// templateToJSON renders the full defaults as a JSON document.
func templateToJSON() ([]byte, error) {
	markdownSection := make(map[string]any)
	for _, info := range MarkdownOptionInfos() {
		markdownSection[info.Key] = info.Default
	}

	cfg := map[string]any{
		"engine":     EngineDeep,
		"flavor":     string(FlavorCommonMark),
		"extensions": DefaultExtensions(),
		"ignore":     []string{"vendor/**", "node_modules/**", ".git/**"},
		"jobs":       0,
		"markdown":   markdownSection,
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return append(jsonBytes, '\n'), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gomddeep configuration
# See: https://github.com/yaklabco/gomddeep`
}
