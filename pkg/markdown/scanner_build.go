package markdown

import "slices"

// joinWrappedLines merges plain lines into the line before them when that
// line is a paragraph or one of the given run kinds.
func joinWrappedLines(lines []*block, kinds ...blockKind) []*block {
	for i := 1; i < len(lines); i++ {
		prev := lines[i-1]
		if lines[i].kind != kindP || (prev.kind != kindP && !slices.Contains(kinds, prev.kind)) {
			continue
		}
		prev.setContentEnd(lines[i].contentEnd())
		lines = slices.Delete(lines, i, i+1)
		i--
	}
	return lines
}

// buildList builds one <ol> or <ul>. Lines indented deeper than the first
// item continue the item they follow. An item spanning several lines is
// scanned again as its own document; without blank lines inside it the
// paragraphs render tight.
func (s *blockScanner) buildList(lines []*block) *block {
	listKind := lines[0].kind
	leading := lines[0].leadingSpaces()

	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if line.kind == kindP {
			if prev := lines[i-1].kind; prev == kindP || prev.isListItem() {
				lines[i-1].setContentEnd(line.contentEnd())
				lines = slices.Delete(lines, i, i+1)
				i--
				continue
			}
		}

		if line.kind == kindIndent || line.kind == kindBlank {
			continue
		}

		if spaces := line.leadingSpaces(); spaces > leading {
			end := line.contentEnd()
			line.kind = kindIndent
			line.contentStart = line.lineStart + spaces
			line.setContentEnd(end)
		}
	}

	list := &block{kind: kindUl, buf: lines[0].buf, lineStart: lines[0].lineStart}
	if listKind == kindOlLi {
		list.kind = kindOl
	}

	for i := 0; i < len(lines); i++ {
		start := i
		for start > 0 && lines[start-1].kind == kindBlank {
			start--
		}

		end := i
		for end < len(lines)-1 && !lines[end+1].kind.isListItem() {
			end++
		}

		if start == end {
			list.children = append(list.children, lines[i].copyLine())
			i = end
			continue
		}

		anyBlanks := false
		for _, line := range lines[start : end+1] {
			if line.kind == kindBlank {
				anyBlanks = true
				break
			}
		}

		item := &block{
			kind:      kindLi,
			buf:       lines[i].buf,
			lineStart: lines[i].lineStart,
			children:  s.nested(listKind, s.markdownInHTML).process(renderLines(lines[start : end+1])),
		}
		if !anyBlanks {
			for _, child := range item.children {
				if child.kind == kindP {
					child.kind = kindSpan
				}
			}
		}
		list.children = append(list.children, item)

		i = end
	}

	return list
}

// buildDefinition builds one <dd>. A single line not preceded by a blank
// line stays inline.
func (s *blockScanner) buildDefinition(lines []*block) *block {
	lines = joinWrappedLines(lines, kindDd)

	if len(lines) == 1 && !lines[0].precededByBlank {
		return lines[0]
	}

	return &block{
		kind:      kindDd,
		buf:       lines[0].buf,
		lineStart: lines[0].lineStart,
		children:  s.nested(kindDd, s.markdownInHTML).process(renderLines(lines)),
	}
}

// buildDefinitionLists wraps each run of dt and dd blocks in a dl.
func buildDefinitionLists(blocks []*block) []*block {
	out := blocks[:0:0]
	var current *block

	for _, b := range blocks {
		if b.kind != kindDt && b.kind != kindDd {
			current = nil
			out = append(out, b)
			continue
		}
		if current == nil {
			current = &block{kind: kindDl, buf: b.buf, lineStart: b.lineStart}
			out = append(out, current)
		}
		current.children = append(current.children, b)
	}
	return out
}

func (s *blockScanner) buildFootnote(lines []*block) *block {
	lines = joinWrappedLines(lines, kindFootnote)

	return &block{
		kind:       kindFootnote,
		buf:        lines[0].buf,
		lineStart:  lines[0].lineStart,
		footnoteID: lines[0].footnoteID,
		children:   s.nested(kindFootnote, s.markdownInHTML).process(renderLines(lines)),
	}
}
