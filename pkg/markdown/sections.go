package markdown

import "strings"

// scanTopLevel scans markdown with opts and returns its top-level blocks.
// Offsets in the returned blocks index into markdown itself.
func scanTopLevel(markdown string, opts Options) []*block {
	// NUL is swapped for a byte of the same width so offsets stay valid.
	src := strings.ReplaceAll(markdown, "\x00", "\x1a")
	return New(opts).processBlocks(src)
}

// SplitSections splits markdown before every h1, h2 and h3 heading. The
// first section holds whatever precedes the first heading and may be empty.
// JoinSections reverses the split.
func SplitSections(markdown string) []string {
	var sections []string
	offset := 0

	for _, blk := range scanTopLevel(markdown, DefaultOptions()) {
		if !isSectionHeading(blk) {
			continue
		}
		sections = append(sections, markdown[offset:blk.lineStart])
		offset = blk.lineStart
	}

	if len(markdown) > offset {
		sections = append(sections, markdown[offset:])
	}
	return sections
}

// JoinSections concatenates sections, adding a line break after any
// non-empty section that does not already end with one.
func JoinSections(sections []string) string {
	var b strings.Builder
	for i, section := range sections {
		if i > 0 && needsLineBreak(sections[i-1]) {
			b.WriteByte('\n')
		}
		b.WriteString(section)
	}
	return b.String()
}

// SplitUserSections splits markdown at user break lines ("===" and
// horizontal rules). Each section is trimmed of surrounding whitespace.
func SplitUserSections(markdown string) []string {
	opts := DefaultOptions()
	opts.UserBreaks = true

	var sections []string
	offset := 0

	for _, blk := range scanTopLevel(markdown, opts) {
		if blk.kind != kindUserBreak {
			continue
		}
		sections = append(sections, strings.TrimSpace(markdown[offset:blk.lineStart]))

		offset = blk.lineStart + blk.lineLen
		if offset < len(markdown) && markdown[offset] == '\r' {
			offset++
		}
		if offset < len(markdown) && markdown[offset] == '\n' {
			offset++
		}
	}

	if len(markdown) > offset {
		sections = append(sections, strings.TrimSpace(markdown[offset:]))
	}
	return sections
}

// JoinUserSections joins sections with "===" break lines.
func JoinUserSections(sections []string) string {
	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			if needsLineBreak(sections[i-1]) {
				b.WriteByte('\n')
			}
			b.WriteString("\n===\n\n")
		}
		b.WriteString(section)
	}
	return b.String()
}

func needsLineBreak(section string) bool {
	if section == "" {
		return false
	}
	last := section[len(section)-1]
	return last != '\n' && last != '\r'
}
