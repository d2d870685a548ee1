package markdown

import (
	"strings"

	"github.com/yaklabco/gomddeep/pkg/htmltag"
	"github.com/yaklabco/gomddeep/pkg/scan"
)

// LinkDefinition is a reference-style link target.
type LinkDefinition struct {
	ID    string
	URL   string
	Title string
}

// ParseLinkDefinition parses a single "[id]: url "title"" line.
func ParseLinkDefinition(line string, extraMode bool) (*LinkDefinition, bool) {
	def := parseLinkDefinition(scan.New(line), extraMode)
	return def, def != nil
}

func parseLinkDefinition(c *scan.Cursor, extraMode bool) *LinkDefinition {
	var def *LinkDefinition
	c.Try(func() bool {
		c.SkipWhitespace()
		if !c.SkipChar('[') {
			return false
		}

		c.Mark()
		if !c.Find(']') {
			return false
		}
		id := c.Extract()
		if id == "" || !c.SkipString("]:") {
			return false
		}

		def = parseLinkTarget(c, id, false, extraMode)
		c.SkipLineSpace()
		if def == nil || !c.EOL() {
			def = nil
			return false
		}
		return true
	})
	return def
}

// parseLinkTarget parses the url and optional title following "[id]:" or
// inside the parentheses of an inline link.
func parseLinkTarget(c *scan.Cursor, id string, inline, extraMode bool) *LinkDefinition {
	c.SkipWhitespace()
	if c.EOL() {
		return nil
	}

	def := &LinkDefinition{ID: id}

	if c.SkipChar('<') {
		c.Mark()
		for c.Current() != '>' {
			if c.EOF() {
				return nil
			}
			c.SkipEscapableChar(extraMode)
		}
		url := c.Extract()
		c.Advance(1)
		def.URL = scan.Unescape(strings.TrimSpace(url), extraMode)
		c.SkipWhitespace()
	} else {
		c.Mark()
		depth := 1
		for !c.EOL() {
			ch := c.Current()
			if scan.IsWhitespace(ch) {
				break
			}
			if inline {
				if ch == '(' {
					depth++
				} else if ch == ')' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			c.SkipEscapableChar(extraMode)
		}
		def.URL = scan.Unescape(strings.TrimSpace(c.Extract()), extraMode)
	}

	c.SkipLineSpace()
	if c.Current() == ')' {
		return def
	}

	onNewLine := c.EOL()
	lineEnd := c.Pos()
	if onNewLine {
		c.SkipEOL()
		c.SkipLineSpace()
	}

	var delim byte
	switch c.Current() {
	case '\'', '"':
		delim = c.Current()
	case '(':
		delim = ')'
	default:
		if !onNewLine {
			return nil
		}
		c.SetPos(lineEnd)
		return def
	}

	c.Advance(1)
	c.Mark()
	for {
		if c.EOL() {
			return nil
		}
		if c.Current() == delim {
			if delim == ')' {
				break
			}

			// A quote followed by more title text is part of the title.
			save := c.Pos()
			c.Advance(1)
			c.SkipLineSpace()
			if (inline && c.Current() != ')') || (!inline && !c.EOL()) {
				continue
			}
			c.SetPos(save)
			break
		}
		c.SkipEscapableChar(extraMode)
	}

	def.Title = scan.Unescape(c.Extract(), extraMode)
	c.Advance(1)
	return def
}

func (d *Document) renderLink(b *strings.Builder, def *LinkDefinition, text string) {
	if strings.HasPrefix(def.URL, "mailto:") {
		b.WriteString(`<a href="`)
		htmlRandomize(b, def.URL)
		b.WriteByte('"')
		if def.Title != "" {
			b.WriteString(` title="`)
			smartEncodeAmpsAndAngles(b, def.Title)
			b.WriteByte('"')
		}
		b.WriteByte('>')
		htmlRandomize(b, text)
		b.WriteString("</a>")
		return
	}

	tag := htmltag.New("a")
	tag.Set("href", SmartEncodeAmpsAndAngles(def.URL))
	if def.Title != "" {
		tag.Set("title", SmartEncodeAmpsAndAngles(def.Title))
	}

	d.prepareLink(tag)

	tag.RenderOpening(b)
	b.WriteString(text)
	b.WriteString("</a>")
}

func (d *Document) renderImg(b *strings.Builder, def *LinkDefinition, alt string) {
	tag := htmltag.New("img")
	tag.Set("src", SmartEncodeAmpsAndAngles(def.URL))
	if alt != "" {
		tag.Set("alt", SmartEncodeAmpsAndAngles(alt))
	}
	if def.Title != "" {
		tag.Set("title", SmartEncodeAmpsAndAngles(def.Title))
	}
	tag.Closed = true

	d.prepareImage(tag, d.renderingTitledImage)

	tag.RenderOpening(b)
}
