// Package markdown converts MarkdownDeep flavored markdown to HTML.
//
// A Document holds the per-conversion tables (link definitions, footnotes,
// abbreviations and heading ids). Documents are not safe for concurrent use;
// convert different inputs concurrently with separate Documents.
package markdown

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/yaklabco/gomddeep/pkg/htmltag"
	"github.com/yaklabco/gomddeep/pkg/imagesize"
	"github.com/yaklabco/gomddeep/pkg/scan"
)

// Document converts markdown to HTML with a fixed set of options.
type Document struct {
	opts   Options
	folder cases.Caser

	linkDefs  map[string]*LinkDefinition
	linkOrder []string

	footnotes     map[string]*block
	usedFootnotes []*block
	claimed       map[string]int

	usedHeaderIDs map[string]bool
	abbrs         []*abbreviation
	headBlock     strings.Builder

	renderingTitledImage bool
}

// New returns a Document for opts. Unset footnote class and nesting limit
// take their defaults.
func New(opts Options) *Document {
	opts.applyDefaults()
	d := &Document{
		opts:   opts,
		folder: cases.Fold(),
	}
	d.reset()
	return d
}

// Transform converts src with opts.
func Transform(src string, opts Options) string {
	return New(opts).Transform(src)
}

// Options returns the options the Document was created with.
func (d *Document) Options() Options { return d.opts }

func (d *Document) reset() {
	d.linkDefs = make(map[string]*LinkDefinition)
	d.linkOrder = nil
	d.footnotes = make(map[string]*block)
	d.usedFootnotes = nil
	d.claimed = make(map[string]int)
	d.usedHeaderIDs = make(map[string]bool)
	d.abbrs = nil
	d.headBlock.Reset()
	d.renderingTitledImage = false
}

// normalizeInput converts line ends to \n and replaces NUL bytes.
func normalizeInput(src string) string {
	src = scan.NormalizeLineEnds(src)
	if strings.IndexByte(src, 0) >= 0 {
		src = strings.ReplaceAll(src, "\x00", "\uFFFD")
	}
	return src
}

func (d *Document) processBlocks(src string) []*block {
	d.reset()
	s := &blockScanner{doc: d, markdownInHTML: d.opts.MarkdownInHTML, parent: kindBlank}
	return s.process(src)
}

// Transform converts src to HTML. Link definitions, footnotes and head
// content from the previous call are discarded.
func (d *Document) Transform(src string) string {
	blocks := d.processBlocks(normalizeInput(src))

	slices.SortStableFunc(d.abbrs, func(a, b *abbreviation) int {
		return len(b.abbr) - len(a.abbr)
	})

	var b strings.Builder

	if d.opts.SummaryLength != 0 {
		for _, blk := range blocks {
			d.renderPlain(&b, blk)
			if d.opts.SummaryLength > 0 && b.Len() > d.opts.SummaryLength {
				break
			}
		}
		return b.String()
	}

	d.renderSections(&b, blocks)
	d.renderFootnotes(&b)
	return b.String()
}

func isSectionHeading(blk *block) bool {
	return blk.kind >= kindH1 && blk.kind <= kindH3
}

// renderSections renders the top-level blocks, wrapping each h1-h3
// delimited section with the section format strings.
func (d *Document) renderSections(b *strings.Builder, blocks []*block) {
	section := -1

	if len(blocks) > 0 && !isSectionHeading(blocks[0]) {
		section = 0
		d.writeSectionFormat(b, d.opts.SectionHeader, 0)
		d.writeSectionFormat(b, d.opts.SectionHeadingSuffix, 0)
	}

	for _, blk := range blocks {
		if !isSectionHeading(blk) {
			d.renderBlock(b, blk)
			continue
		}

		if section >= 0 {
			d.writeSectionFormat(b, d.opts.SectionFooter, section)
		}
		if section < 0 {
			section = 1
		} else {
			section++
		}

		d.writeSectionFormat(b, d.opts.SectionHeader, section)
		d.renderBlock(b, blk)
		d.writeSectionFormat(b, d.opts.SectionHeadingSuffix, section)
	}

	if len(blocks) > 0 {
		d.writeSectionFormat(b, d.opts.SectionFooter, section)
	}
}

func (d *Document) writeSectionFormat(b *strings.Builder, format string, index int) {
	if format == "" {
		return
	}
	b.WriteString(strings.ReplaceAll(format, "{0}", strconv.Itoa(index)))
}

func (d *Document) renderFootnotes(b *strings.Builder) {
	if len(d.usedFootnotes) == 0 {
		return
	}

	b.WriteString("\n<div class=\"")
	b.WriteString(d.opts.HTMLClassFootnotes)
	b.WriteString("\">\n<hr />\n<ol>\n")

	// Rendering a footnote may claim further footnotes, so the list can grow.
	for i := 0; i < len(d.usedFootnotes); i++ {
		fn := d.usedFootnotes[i]

		b.WriteString(`<li id="fn:`)
		b.WriteString(fn.footnoteID)
		b.WriteString("\">\n")

		returnLink := `<a href="#fnref:` + fn.footnoteID + `" rev="footnote">&#8617;</a>`
		if last := lastBlock(fn.children); last != nil && last.kind == kindP {
			last.kind = kindPFootnote
			last.returnLink = returnLink
		} else {
			fn.children = append(fn.children, &block{kind: kindPFootnote, returnLink: returnLink})
		}

		d.renderBlock(b, fn)
		b.WriteString("</li>\n")
	}

	b.WriteString("</ol>\n</div>\n")
}

// LinkDefinitions returns the reference definitions of the last Transform
// in definition order.
func (d *Document) LinkDefinitions() []LinkDefinition {
	defs := make([]LinkDefinition, 0, len(d.linkOrder))
	for _, key := range d.linkOrder {
		defs = append(defs, *d.linkDefs[key])
	}
	return defs
}

// LinkDefinition looks up a reference definition by id, ignoring case.
func (d *Document) LinkDefinition(id string) (LinkDefinition, bool) {
	def := d.lookupLink(id)
	if def == nil {
		return LinkDefinition{}, false
	}
	return *def, true
}

// HeadBlockContent returns the content of <head> blocks diverted by the last
// Transform when ExtractHeadBlocks is set.
func (d *Document) HeadBlockContent() string {
	return d.headBlock.String()
}

func (d *Document) foldKey(s string) string {
	return d.folder.String(s)
}

func (d *Document) addLinkDefinition(def *LinkDefinition) {
	key := d.foldKey(def.ID)
	if _, ok := d.linkDefs[key]; !ok {
		d.linkOrder = append(d.linkOrder, key)
	}
	d.linkDefs[key] = def
}

func (d *Document) lookupLink(id string) *LinkDefinition {
	return d.linkDefs[d.foldKey(id)]
}

func (d *Document) addFootnote(fn *block) {
	d.footnotes[fn.footnoteID] = fn
}

// claimFootnote returns the display index of footnote id, assigning the next
// index on first use. It returns -1 for an undefined footnote.
func (d *Document) claimFootnote(id string) int {
	if idx, ok := d.claimed[id]; ok {
		return idx
	}
	fn, ok := d.footnotes[id]
	if !ok {
		return -1
	}
	d.usedFootnotes = append(d.usedFootnotes, fn)
	idx := len(d.usedFootnotes) - 1
	d.claimed[id] = idx
	return idx
}

func (d *Document) addAbbreviation(abbr, title string) {
	for _, a := range d.abbrs {
		if a.abbr == abbr {
			a.title = title
			return
		}
	}
	d.abbrs = append(d.abbrs, &abbreviation{abbr: abbr, title: title})
}

// resolveHeaderID returns the id of a heading: an explicit {#id} suffix, or
// a generated unique id when AutoHeadingIDs is set.
func (d *Document) resolveHeaderID(blk *block) string {
	if blk.headerIDResolved {
		return blk.headerID
	}
	blk.headerIDResolved = true

	id := blk.headerID
	if id == "" {
		if stripped, end, ok := stripHTMLID(blk.buf, blk.contentStart, blk.contentEnd()); ok {
			id = stripped
			blk.setContentEnd(end)
		}
	}

	if id != "" {
		d.usedHeaderIDs[d.foldKey(id)] = true
	} else {
		id = d.makeUniqueHeaderID(blk.buf, blk.contentStart, blk.contentLen)
	}

	blk.headerID = id
	return id
}

func (d *Document) makeUniqueHeaderID(src string, start, length int) string {
	if !d.opts.AutoHeadingIDs {
		return ""
	}

	base := d.makeID(src, start, length)
	if base == "" {
		base = "section"
	}

	id := base
	for counter := 1; d.usedHeaderIDs[d.foldKey(id)]; counter++ {
		id = base + "-" + strconv.Itoa(counter)
	}
	d.usedHeaderIDs[d.foldKey(id)] = true
	return id
}

// qualifyURL makes a relative URL absolute against URLBaseLocation, or
// against URLRootLocation for root-relative URLs.
func (d *Document) qualifyURL(url string) string {
	if hook := d.opts.Hooks.QualifyURL; hook != nil {
		if qualified, ok := hook(url); ok {
			return qualified
		}
	}

	base := d.opts.URLBaseLocation
	if base == "" || strings.HasPrefix(url, "#") || isURLFullyQualified(url) {
		return url
	}

	if strings.HasPrefix(url, "/") {
		if root := d.opts.URLRootLocation; root != "" {
			return root + url
		}

		pos := strings.Index(base, "://")
		if pos < 0 {
			pos = 0
		} else {
			pos += 3
		}
		domain := base
		if slash := strings.IndexByte(base[pos:], '/'); slash >= 0 {
			domain = base[:pos+slash]
		}
		return domain + url
	}

	if !strings.HasSuffix(base, "/") {
		return base + "/" + url
	}
	return base + url
}

func (d *Document) prepareLink(tag *htmltag.Tag) {
	if hook := d.opts.Hooks.PrepareLink; hook != nil && hook(tag) {
		return
	}

	url, ok := tag.Get("href")
	if !ok {
		return
	}
	external := isURLFullyQualified(url)

	if d.opts.NoFollowLinks || (d.opts.NoFollowExternalLinks && external) {
		tag.Set("rel", "nofollow")
	}

	if (d.opts.NewWindowForExternalLinks && external) || (d.opts.NewWindowForLocalLinks && !external) {
		tag.Set("target", "_blank")
	}

	tag.Set("href", d.qualifyURL(url))
}

func (d *Document) prepareImage(tag *htmltag.Tag, titled bool) {
	if hook := d.opts.Hooks.PrepareImage; hook != nil && hook(tag, titled) {
		return
	}

	src, ok := tag.Get("src")
	if !ok {
		return
	}

	if width, height, ok := d.imageSize(src, titled); ok {
		tag.Set("width", strconv.Itoa(width))
		tag.Set("height", strconv.Itoa(height))
	}

	tag.Set("src", d.qualifyURL(src))
}

// imageSize asks the GetImageSize hook, then falls back to reading local
// image files under DocumentRoot or DocumentLocation.
func (d *Document) imageSize(url string, titled bool) (int, int, bool) {
	if hook := d.opts.Hooks.GetImageSize; hook != nil {
		if width, height, ok := hook(url, titled); ok {
			return width, height, true
		}
	}

	if isURLFullyQualified(url) {
		return 0, 0, false
	}

	dir, rel := d.opts.DocumentLocation, url
	if strings.HasPrefix(url, "/") {
		dir, rel = d.opts.DocumentRoot, url[1:]
	}
	if dir == "" {
		return 0, 0, false
	}

	width, height, err := imagesize.File(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		return 0, 0, false
	}

	if maxWidth := d.opts.MaxImageWidth; maxWidth > 0 && width > maxWidth {
		height = int(float64(height) * float64(maxWidth) / float64(width))
		width = maxWidth
	}
	return width, height, true
}
