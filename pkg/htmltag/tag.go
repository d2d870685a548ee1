// Package htmltag parses single HTML tags and judges their safety.
package htmltag

import (
	"slices"
	"strings"
)

// Flags classify how a tag participates in block scanning.
type Flags uint8

const (
	// Block tags may start an HTML block.
	Block Flags = 1 << iota

	// Inline tags may appear inside a paragraph.
	Inline

	// NoClosing tags never take a closing tag (hr, comments).
	NoClosing

	// ContentAsSpan tags treat markdown="1" content as span-level text.
	ContentAsSpan
)

// Has reports whether all bits of want are set.
func (f Flags) Has(want Flags) bool { return f&want == want }

//nolint:gochecknoglobals // static lookup tables
var (
	tagFlags = map[string]Flags{
		"p":          Block | ContentAsSpan,
		"div":        Block,
		"h1":         Block | ContentAsSpan,
		"h2":         Block | ContentAsSpan,
		"h3":         Block | ContentAsSpan,
		"h4":         Block | ContentAsSpan,
		"h5":         Block | ContentAsSpan,
		"h6":         Block | ContentAsSpan,
		"blockquote": Block,
		"pre":        Block,
		"table":      Block,
		"dl":         Block,
		"ol":         Block,
		"ul":         Block,
		"form":       Block,
		"fieldset":   Block,
		"iframe":     Block,
		"script":     Block | Inline,
		"noscript":   Block | Inline,
		"math":       Block | Inline,
		"ins":        Block | Inline,
		"del":        Block | Inline,
		"img":        Block | Inline,
		"li":         ContentAsSpan,
		"dd":         ContentAsSpan,
		"dt":         ContentAsSpan,
		"td":         ContentAsSpan,
		"th":         ContentAsSpan,
		"legend":     ContentAsSpan,
		"address":    ContentAsSpan,
		"hr":         Block | NoClosing,
		"!":          Block | NoClosing,
		"head":       Block,
	}

	allowedTags = map[string]bool{
		"b": true, "blockquote": true, "code": true, "dd": true, "dt": true, "dl": true,
		"del": true, "em": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
		"h6": true, "i": true, "kbd": true, "li": true, "ol": true, "ul": true, "p": true,
		"pre": true, "s": true, "sub": true, "sup": true, "strong": true, "strike": true,
		"img": true, "a": true,
	}

	allowedAttrs = map[string][]string{
		"a":   {"href", "title", "class"},
		"img": {"src", "width", "height", "alt", "title", "class"},
	}
)

// Attr is a single name/value pair.
type Attr struct {
	Name  string
	Value string
}

// Tag is a parsed HTML tag.
type Tag struct {
	Name    string
	Attrs   []Attr
	Closed  bool
	Closing bool
}

// New returns an opening tag with no attributes.
func New(name string) *Tag {
	return &Tag{Name: name}
}

// Flags returns the classification of the tag, Inline for unknown names.
func (t *Tag) Flags() Flags {
	if f, ok := tagFlags[strings.ToLower(t.Name)]; ok {
		return f
	}
	return Inline
}

// Get returns an attribute value, matching the name case-insensitively.
func (t *Tag) Get(name string) (string, bool) {
	for _, a := range t.Attrs {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}
	return "", false
}

// Set adds or replaces an attribute, keeping the original order.
func (t *Tag) Set(name, value string) {
	for i := range t.Attrs {
		if strings.EqualFold(t.Attrs[i].Name, name) {
			t.Attrs[i].Value = value
			return
		}
	}
	t.Attrs = append(t.Attrs, Attr{Name: name, Value: value})
}

// Remove deletes an attribute if present.
func (t *Tag) Remove(name string) {
	for i := range t.Attrs {
		if strings.EqualFold(t.Attrs[i].Name, name) {
			t.Attrs = append(t.Attrs[:i], t.Attrs[i+1:]...)
			return
		}
	}
}

// IsSafe reports whether the tag is on the safe-mode whitelist: a known tag
// name, only whitelisted attributes, and http, https or ftp URLs.
func (t *Tag) IsSafe() bool {
	name := strings.ToLower(t.Name)
	if !allowedTags[name] {
		return false
	}

	allowed, ok := allowedAttrs[name]
	if !ok {
		return len(t.Attrs) == 0
	}

	for _, a := range t.Attrs {
		if !slices.Contains(allowed, strings.ToLower(a.Name)) {
			return false
		}
	}

	if href, ok := t.Get("href"); ok && !IsSafeURL(href) {
		return false
	}
	if src, ok := t.Get("src"); ok && !IsSafeURL(src) {
		return false
	}
	return true
}

// IsSafeURL reports whether url uses an http, https or ftp scheme.
func IsSafeURL(url string) bool {
	return strings.HasPrefix(url, "http://") ||
		strings.HasPrefix(url, "https://") ||
		strings.HasPrefix(url, "ftp://")
}

// RenderOpening writes the opening tag with its attributes verbatim.
func (t *Tag) RenderOpening(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(t.Name)
	for _, a := range t.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteByte('"')
	}
	if t.Closed {
		b.WriteString(" />")
	} else {
		b.WriteByte('>')
	}
}

// RenderClosing writes the closing tag.
func (t *Tag) RenderClosing(b *strings.Builder) {
	b.WriteString("</")
	b.WriteString(t.Name)
	b.WriteByte('>')
}
