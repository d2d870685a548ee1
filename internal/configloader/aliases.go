package configloader

import (
	"strings"
	"unicode"
)

// optionAliases maps alternative spellings of markdown option keys to their
// canonical snake_case form. Besides the kebab-case and camel-case variants
// derived automatically, these cover the historical property names whose
// split into words is not mechanical.
//
//nolint:gochecknoglobals // Read-only lookup table.
var optionAliases = map[string]string{
	"markdowninhtml":        "markdown_in_html",
	"autoheadingids":        "auto_heading_ids",
	"urlbaselocation":       "url_base_location",
	"urlrootlocation":       "url_root_location",
	"htmlclassfootnotes":    "html_class_footnotes",
	"htmlclasstitledimages": "html_class_titled_images",
	"nofollowlinks":         "no_follow_links",
	"nofollowexternallinks": "no_follow_external_links",
	"headerids":             "auto_heading_ids",
	"autoheaderids":         "auto_heading_ids",
}

// canonicalOptionKeys lists every key the markdown section accepts.
//
//nolint:gochecknoglobals // Read-only lookup table.
var canonicalOptionKeys = map[string]bool{
	"safe_mode":                     true,
	"extra_mode":                    true,
	"markdown_in_html":              true,
	"auto_heading_ids":              true,
	"url_base_location":             true,
	"url_root_location":             true,
	"new_window_for_external_links": true,
	"new_window_for_local_links":    true,
	"no_follow_links":               true,
	"no_follow_external_links":      true,
	"max_image_width":               true,
	"document_root":                 true,
	"document_location":             true,
	"html_class_footnotes":          true,
	"html_class_titled_images":      true,
	"extract_head_blocks":           true,
	"user_breaks":                   true,
	"summary_length":                true,
	"section_header":                true,
	"section_heading_suffix":        true,
	"section_footer":                true,
	"max_nesting":                   true,
	"detect_code_language":          true,
}

// ResolveOptionKey converts an option key to its canonical form.
// Returns the canonical key and true if the key names a known option.
func ResolveOptionKey(key string) (string, bool) {
	if canonicalOptionKeys[key] {
		return key, true
	}

	snake := toSnakeCase(key)
	if canonicalOptionKeys[snake] {
		return snake, true
	}

	compact := strings.ReplaceAll(snake, "_", "")
	if canonical, ok := optionAliases[compact]; ok {
		return canonical, true
	}

	return key, false
}

// IsKnownOption returns true if the key resolves to a markdown option.
func IsKnownOption(key string) bool {
	_, ok := ResolveOptionKey(key)
	return ok
}

// toSnakeCase lowercases key, turning dashes and case changes into underscores.
// Runs of capitals stay together, so "URLBaseLocation" becomes "url_base_location".
func toSnakeCase(key string) string {
	runes := []rune(strings.ReplaceAll(key, "-", "_"))

	var out strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 && runes[i-1] != '_' {
			prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				out.WriteByte('_')
			}
		}
		out.WriteRune(unicode.ToLower(r))
	}

	return out.String()
}
