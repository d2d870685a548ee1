// Package langdetect guesses the language of unlabelled code blocks so the
// renderer can emit a language-X class for them. Detection is built on
// go-enry with a table of cheap textual rules in front of its classifier.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// fallback is what Detect reports when no rule or classifier is confident.
const fallback = "text"

// classifierCandidates bounds the enry classifier to languages that commonly
// show up in documentation.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "C#", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// fenceNames maps enry language names whose lowercase form is not the
// conventional fence tag.
var fenceNames = map[string]string{
	"Shell":       "bash",
	"C#":          "csharp",
	"C++":         "cpp",
	"Objective-C": "objectivec",
	"Emacs Lisp":  "elisp",
	"Vim Script":  "vim",
}

// sample holds the views of a code block that the rules inspect.
type sample struct {
	raw     []byte
	text    string
	trimmed []byte
	lines   [][]byte
}

func newSample(content []byte) sample {
	return sample{
		raw:     content,
		text:    string(content),
		trimmed: bytes.TrimSpace(content),
		lines:   bytes.Split(content, []byte("\n")),
	}
}

// rule reports whether a sample is written in lang.
type rule struct {
	lang  string
	match func(s sample) bool
}

// rules run in order; the first match wins.
var rules = []rule{
	{lang: "go", match: looksLikeGo},
	{lang: "python", match: looksLikePython},
	{lang: "diff", match: looksLikeDiff},
	{lang: "xml", match: looksLikeXML},
	{lang: "html", match: looksLikeHTML},
	{lang: "json", match: looksLikeJSON},
	{lang: "css", match: looksLikeCSS},
	{lang: "dockerfile", match: looksLikeDockerfile},
	{lang: "sql", match: looksLikeSQL},
	{lang: "rust", match: looksLikeRust},
	{lang: "javascript", match: looksLikeJavaScript},
	{lang: "yaml", match: looksLikeYAML},
}

// Guess returns the fence tag for a code block, or "" when nothing
// matches with confidence.
func Guess(code string) string {
	if strings.TrimSpace(code) == "" {
		return ""
	}
	if lang := Detect([]byte(code)); lang != fallback {
		return lang
	}
	return ""
}

// Detect returns the fence tag for content, or "text" when detection fails
// or the classifier is unsure.
func Detect(content []byte) string {
	if len(content) == 0 {
		return fallback
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return fenceName(lang)
	}

	s := newSample(content)
	for _, r := range rules {
		if r.match(s) {
			return r.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return fenceName(lang)
	}

	return fallback
}

func fenceName(lang string) string {
	if name, ok := fenceNames[lang]; ok {
		return name
	}
	return strings.ReplaceAll(strings.ToLower(lang), " ", "-")
}

func looksLikeGo(s sample) bool {
	return bytes.HasPrefix(s.trimmed, []byte("package "))
}

func looksLikePython(s sample) bool {
	if strings.Contains(s.text, "def ") && strings.Contains(s.text, "):") {
		return true
	}
	if strings.Contains(s.text, "__name__") || strings.Contains(s.text, "__main__") {
		return true
	}
	// Go groups imports in parentheses; Python never does.
	if !strings.Contains(s.text, "import ") || strings.Contains(s.text, "import (") {
		return false
	}
	return strings.Contains(s.text, "from ") || bytes.HasPrefix(s.trimmed, []byte("import "))
}

func looksLikeDiff(s sample) bool {
	return bytes.HasPrefix(s.trimmed, []byte("--- ")) && bytes.Contains(s.raw, []byte("\n+++ "))
}

func looksLikeXML(s sample) bool {
	return bytes.HasPrefix(s.trimmed, []byte("<?xml"))
}

func looksLikeHTML(s sample) bool {
	lower := bytes.ToLower(s.trimmed)
	for _, marker := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
		if bytes.Contains(lower, []byte(marker)) {
			return true
		}
	}
	return false
}

func looksLikeJSON(s sample) bool {
	if len(s.trimmed) == 0 {
		return false
	}
	first := s.trimmed[0]
	return (first == '{' || first == '[') && bytes.IndexByte(s.trimmed, '"') >= 0
}

// looksLikeCSS matches a stylesheet that opens with a selector block.
func looksLikeCSS(s sample) bool {
	open := bytes.IndexByte(s.trimmed, '{')
	if open <= 0 || bytes.ContainsAny(s.trimmed[:open], "()=;\n") {
		return false
	}
	body := s.trimmed[open:]
	return bytes.Contains(body, []byte(": ")) &&
		bytes.IndexByte(body, ';') >= 0 &&
		bytes.HasSuffix(body, []byte("}"))
}

func looksLikeDockerfile(s sample) bool {
	if bytes.HasPrefix(s.trimmed, []byte("FROM ")) {
		return true
	}
	if bytes.Contains(s.raw, []byte("\nFROM ")) && bytes.Contains(s.raw, []byte("\nRUN ")) {
		return true
	}
	return bytes.Contains(s.raw, []byte("WORKDIR ")) && bytes.Contains(s.raw, []byte("COPY "))
}

var sqlVerbs = []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE ", "ALTER ", "DROP "}

func looksLikeSQL(s sample) bool {
	head := strings.ToUpper(string(s.trimmed))
	for _, verb := range sqlVerbs {
		if strings.HasPrefix(head, verb) {
			return true
		}
	}
	return false
}

func looksLikeRust(s sample) bool {
	return containsAny(s.text, "fn main()", "println!", "let mut ")
}

func looksLikeJavaScript(s sample) bool {
	return containsAny(s.text, "=>", "const ", "let ", "console.log")
}

// looksLikeYAML counts "key: value" lines and list items; two or more
// lines that do not look like code are enough.
func looksLikeYAML(s sample) bool {
	score := 0
	for _, line := range s.lines {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) && line[0] != '"' && !bytes.ContainsAny(line, "({") {
			score++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			score++
		}
		if score >= 2 {
			return true
		}
	}
	return false
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
