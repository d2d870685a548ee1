package htmltag

import "github.com/yaklabco/gomddeep/pkg/scan"

// Parse reads one tag starting at the '<' under the cursor. Comments parse as
// a closed tag named "!" whose "content" attribute holds the comment body.
// On failure the cursor is rewound and ok is false.
func Parse(c *scan.Cursor) (*Tag, bool) {
	var tag *Tag
	ok := c.Try(func() bool {
		tag = parse(c)
		return tag != nil
	})
	return tag, ok
}

// ParseString parses a tag at src[pos:] and returns the offset after it.
func ParseString(src string, pos int) (*Tag, int, bool) {
	c := scan.NewRange(src, pos, len(src)-pos)
	tag, ok := Parse(c)
	if !ok {
		return nil, pos, false
	}
	return tag, c.Pos(), true
}

func parse(c *scan.Cursor) *Tag {
	if !c.SkipChar('<') {
		return nil
	}

	if c.SkipString("!--") {
		c.Mark()
		if c.FindString("-->") {
			tag := &Tag{Name: "!", Closed: true}
			tag.Set("content", c.Extract())
			c.Advance(3)
			return tag
		}
		return nil
	}

	closing := c.SkipChar('/')
	name, ok := c.SkipIdentifier()
	if !ok {
		return nil
	}

	tag := &Tag{Name: name, Closing: closing}
	if closing {
		if !c.SkipChar('>') {
			return nil
		}
		return tag
	}

	for !c.EOF() {
		c.SkipWhitespace()

		if c.SkipString("/>") {
			tag.Closed = true
			return tag
		}
		if c.SkipChar('>') {
			return tag
		}

		attr, ok := c.SkipIdentifier()
		if !ok {
			return nil
		}

		c.SkipWhitespace()
		if !c.SkipChar('=') {
			tag.Set(attr, "")
			continue
		}

		c.SkipWhitespace()
		if c.SkipChar('"') {
			c.Mark()
			if !c.Find('"') {
				return nil
			}
			tag.Set(attr, c.Extract())
			c.Advance(1)
			continue
		}

		c.Mark()
		for !c.EOF() {
			ch := c.Current()
			if scan.IsWhitespace(ch) || ch == '>' || ch == '/' {
				break
			}
			c.Advance(1)
		}
		if !c.EOF() {
			tag.Set(attr, c.Extract())
		}
	}

	return nil
}
