package markdown

type tokenKind int

const (
	tokText    tokenKind = iota // encoded on output
	tokHTMLTag                  // passthrough, bare ampersands encoded
	tokHTML                     // passthrough
	tokOpenEm
	tokCloseEm
	tokOpenStrong
	tokCloseStrong
	tokCodeSpan
	tokBreak
	tokLink
	tokImage
	tokFootnote
	tokAbbreviation

	// Emphasis marks awaiting pairing.
	tokOpeningMark
	tokClosingMark
	tokInternalMark
)

type token struct {
	kind   tokenKind
	start  int
	length int

	link     *linkInfo
	footnote footnoteRef
	abbr     *abbreviation
}

type linkInfo struct {
	def  *LinkDefinition
	text string
}

type footnoteRef struct {
	index int
	id    string
}

type abbreviation struct {
	abbr  string
	title string
}
