package markdown

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode"

	"github.com/yaklabco/gomddeep/pkg/scan"
)

const tabStop = 4

// HTMLEncode escapes &, <, > and ".
func HTMLEncode(s string) string {
	var b strings.Builder
	htmlEncode(&b, s)
	return b.String()
}

// SmartEncodeAmps escapes bare ampersands, leaving well-formed entities intact.
func SmartEncodeAmps(s string) string {
	var b strings.Builder
	smartEncodeAmps(&b, s)
	return b.String()
}

// SmartEncodeAmpsAndAngles escapes bare ampersands, angle brackets and
// quotes, leaving well-formed entities intact.
func SmartEncodeAmpsAndAngles(s string) string {
	var b strings.Builder
	smartEncodeAmpsAndAngles(&b, s)
	return b.String()
}

func htmlEncode(b *strings.Builder, s string) {
	for i := range len(s) {
		switch ch := s[i]; ch {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteByte(ch)
		}
	}
}

// htmlEncodeTabs encodes s, expanding tabs to the next tab stop and
// normalizing line ends.
func htmlEncodeTabs(b *strings.Builder, s string) {
	col := 0
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '\t':
			b.WriteByte(' ')
			col++
			for col%tabStop != 0 {
				b.WriteByte(' ')
				col++
			}
			continue
		case '\r', '\n':
			b.WriteByte('\n')
			col = 0
			if i+1 < len(s) && (s[i+1] == '\r' || s[i+1] == '\n') && s[i+1] != ch {
				i++
			}
			continue
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteByte(ch)
		}
		col++
	}
}

func smartEncodeAmps(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		if s[i] != '&' {
			b.WriteByte(s[i])
			continue
		}
		if n := scan.EntityLength(s[i:]); n > 0 {
			b.WriteString(s[i : i+n])
			i += n - 1
			continue
		}
		b.WriteString("&amp;")
	}
}

func smartEncodeAmpsAndAngles(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			if n := scan.EntityLength(s[i:]); n > 0 {
				b.WriteString(s[i : i+n])
				i += n - 1
				continue
			}
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteByte(s[i])
		}
	}
}

// htmlRandomize writes s as a mix of literal characters and decimal or hex
// character references. The mix is seeded from s so output is stable.
func htmlRandomize(b *strings.Builder, s string) {
	var seed uint64
	for _, r := range s {
		seed += uint64(r)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // obfuscation, not security
	for _, r := range s {
		x := rng.IntN(100)
		switch {
		case x > 90 && r != '@':
			b.WriteRune(r)
		case x > 45:
			b.WriteString("&#")
			b.WriteString(strconv.Itoa(int(r)))
			b.WriteByte(';')
		default:
			b.WriteString("&#x")
			b.WriteString(strconv.FormatInt(int64(r), 16))
			b.WriteByte(';')
		}
	}
}

func isURLFullyQualified(url string) bool {
	return strings.Contains(url, "://") || strings.HasPrefix(url, "mailto:")
}

func isEmailAddress(s string) bool {
	at := strings.IndexByte(s, '@')
	if at < 0 {
		return false
	}
	return strings.LastIndexByte(s, '.') >= at
}

func isWebAddress(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "ftp://") ||
		strings.HasPrefix(s, "file://")
}

func isValidHTMLID(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("_-:.", r) {
			return false
		}
	}
	return true
}

// stripHTMLID looks for a trailing "{#id}" in src[start:end]. On success it
// returns the id and the new end with the suffix and its leading space removed.
func stripHTMLID(src string, start, end int) (string, int, bool) {
	pos := end - 1
	for pos >= start && scan.IsWhitespace(src[pos]) {
		pos--
	}
	if pos < start || src[pos] != '}' {
		return "", end, false
	}

	endID := pos
	pos--
	for pos >= start && src[pos] != '{' {
		pos--
	}
	if pos < start || src[pos+1] != '#' {
		return "", end, false
	}

	id := src[pos+2 : endID]
	if !isValidHTMLID(id) {
		return "", end, false
	}

	for pos > start && scan.IsWhitespace(src[pos-1]) {
		pos--
	}
	return id, pos, true
}
