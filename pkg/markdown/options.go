package markdown

import "github.com/yaklabco/gomddeep/pkg/htmltag"

// Default values applied by DefaultOptions and by New for unset fields.
const (
	DefaultFootnotesClass = "footnotes"
	DefaultMaxNesting     = 32
)

// Options configures a Document. The zero value disables extra mode; use
// DefaultOptions for the usual dialect.
type Options struct {
	// SafeMode encodes HTML that is not on the safe whitelist.
	SafeMode bool

	// ExtraMode enables tables, footnotes, definition lists, fenced code,
	// header ids, abbreviations and markdown-in-html.
	ExtraMode bool

	// MarkdownInHTML treats every block-level HTML tag as markdown="deep".
	MarkdownInHTML bool

	// AutoHeadingIDs generates an id for every heading without an explicit one.
	AutoHeadingIDs bool

	// URLBaseLocation qualifies relative link and image URLs.
	URLBaseLocation string

	// URLRootLocation qualifies root-relative URLs ("/path").
	// When empty, the scheme and host of URLBaseLocation are used.
	URLRootLocation string

	NewWindowForExternalLinks bool
	NewWindowForLocalLinks    bool
	NoFollowLinks             bool
	NoFollowExternalLinks     bool

	// MaxImageWidth scales down local images wider than this. Zero disables scaling.
	MaxImageWidth int

	// DocumentRoot resolves root-relative image paths for size lookups.
	DocumentRoot string

	// DocumentLocation resolves relative image paths for size lookups.
	DocumentLocation string

	// HTMLClassFootnotes is the class of the footnotes div.
	HTMLClassFootnotes string

	// HTMLClassTitledImages, when set, wraps paragraphs holding a single image
	// in a div of this class with the title as caption.
	HTMLClassTitledImages string

	// ExtractHeadBlocks diverts <head> content to Document.HeadBlockContent.
	ExtractHeadBlocks bool

	// UserBreaks turns lines of three or more '=' into section breaks.
	UserBreaks bool

	// SummaryLength switches output to plain text. A positive value stops
	// after the block that crosses this length; a negative value renders
	// the whole document as plain text.
	SummaryLength int

	// SectionHeader, SectionHeadingSuffix and SectionFooter wrap each
	// h1-h3 delimited section. "{0}" is replaced by the section index.
	SectionHeader        string
	SectionHeadingSuffix string
	SectionFooter        string

	// MaxNesting caps recursive block scanning. Content nested deeper is
	// rendered as a plain paragraph.
	MaxNesting int

	// DetectCodeLanguage guesses the language of code blocks without one.
	DetectCodeLanguage bool

	Hooks Hooks
}

// Hooks are optional callbacks consulted before the built-in behavior.
type Hooks struct {
	// QualifyURL rewrites a link or image URL. When ok is false the built-in
	// qualification applies.
	QualifyURL func(url string) (qualified string, ok bool)

	// GetImageSize reports image dimensions. When ok is false the built-in
	// local file lookup applies.
	GetImageSize func(url string, titled bool) (width, height int, ok bool)

	// PrepareLink may mutate an <a> tag. Returning true skips the built-in
	// rel, target and href handling.
	PrepareLink func(tag *htmltag.Tag) bool

	// PrepareImage may mutate an <img> tag. Returning true skips the built-in
	// size and src handling.
	PrepareImage func(tag *htmltag.Tag, titled bool) bool

	// FormatCodeBlock returns the HTML placed inside <pre><code>. It receives
	// the raw code and the language, which may be empty.
	FormatCodeBlock func(code, language string) string

	// CodeBlockAttributes returns attributes appended to the <code> tag,
	// including a leading space.
	CodeBlockAttributes func(language string) string
}

// DefaultOptions returns the options of a plain MarkdownDeep transform:
// extra mode on, everything else off.
func DefaultOptions() Options {
	return Options{
		ExtraMode:          true,
		HTMLClassFootnotes: DefaultFootnotesClass,
		MaxNesting:         DefaultMaxNesting,
	}
}

func (o *Options) applyDefaults() {
	if o.HTMLClassFootnotes == "" {
		o.HTMLClassFootnotes = DefaultFootnotesClass
	}
	if o.MaxNesting <= 0 {
		o.MaxNesting = DefaultMaxNesting
	}
}
