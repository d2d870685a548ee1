package markdown_test

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/yaklabco/gomddeep/pkg/htmltag"
	"github.com/yaklabco/gomddeep/pkg/markdown"
)

func attr(node *html.Node, name string) string {
	for _, a := range node.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func firstNode(t *testing.T, out, selector string) *html.Node {
	t.Helper()

	node := cascadia.Query(parseHTML(t, out), cascadia.MustCompile(selector))
	require.NotNil(t, node, "no %q in %q", selector, out)
	return node
}

func TestDocument_LinkDefinitions(t *testing.T) {
	t.Parallel()

	doc := markdown.New(markdown.DefaultOptions())
	out := doc.Transform("[b]: http://b.com\n[A]: http://a.com \"Title\"\n\nSee [a][] and [B].\n")

	want := []markdown.LinkDefinition{
		{ID: "b", URL: "http://b.com"},
		{ID: "A", URL: "http://a.com", Title: "Title"},
	}
	if diff := cmp.Diff(want, doc.LinkDefinitions()); diff != "" {
		t.Errorf("LinkDefinitions() mismatch (-want +got):\n%s", diff)
	}

	def, ok := doc.LinkDefinition("a")
	require.True(t, ok)
	assert.Equal(t, "http://a.com", def.URL)

	assert.Equal(t, "<p>See <a href=\"http://a.com\" title=\"Title\">a</a> and <a href=\"http://b.com\">B</a>.</p>\n", out)
}

func TestParseLinkDefinition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want *markdown.LinkDefinition
	}{
		{
			name: "url only",
			line: "[id]: http://example.com",
			want: &markdown.LinkDefinition{ID: "id", URL: "http://example.com"},
		},
		{
			name: "angle brackets and title",
			line: "[id]: <http://example.com>  'A title'",
			want: &markdown.LinkDefinition{ID: "id", URL: "http://example.com", Title: "A title"},
		},
		{
			name: "parenthesized title",
			line: "[id]: /path (Paren)",
			want: &markdown.LinkDefinition{ID: "id", URL: "/path", Title: "Paren"},
		},
		{
			name: "trailing junk",
			line: "[id]: /path junk",
		},
		{
			name: "empty id",
			line: "[]: /path",
		},
		{
			name: "not a definition",
			line: "plain text",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, ok := markdown.ParseLinkDefinition(testCase.line, true)
			if testCase.want == nil {
				assert.False(t, ok)
				assert.Nil(t, got)
				return
			}
			require.True(t, ok)
			if diff := cmp.Diff(testCase.want, got); diff != "" {
				t.Errorf("ParseLinkDefinition() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransform_InlineLinks(t *testing.T) {
	t.Parallel()

	out := markdown.Transform("[Go](https://go.dev \"Gopher\") and ![Logo](/logo.png)\n", markdown.DefaultOptions())

	link := firstNode(t, out, "p > a")
	assert.Equal(t, "https://go.dev", attr(link, "href"))
	assert.Equal(t, "Gopher", attr(link, "title"))

	img := firstNode(t, out, "p > img")
	assert.Equal(t, "/logo.png", attr(img, "src"))
	assert.Equal(t, "Logo", attr(img, "alt"))
}

func TestTransform_EmailLinksAreObfuscated(t *testing.T) {
	t.Parallel()

	out := markdown.Transform("Mail <me@example.com>\n", markdown.DefaultOptions())
	assert.NotContains(t, out, "me@example.com")

	link := firstNode(t, out, "a")
	assert.Equal(t, "mailto:me@example.com", attr(link, "href"))
	assert.Equal(t, "me@example.com", link.FirstChild.Data)
}

func TestTransform_QualifyURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		root string
		url  string
		want string
	}{
		{name: "no base", url: "page.html", want: "page.html"},
		{name: "relative", base: "http://site.com/docs", url: "page.html", want: "http://site.com/docs/page.html"},
		{name: "base with slash", base: "http://site.com/docs/", url: "page.html", want: "http://site.com/docs/page.html"},
		{name: "root relative uses host", base: "http://site.com/docs", url: "/img.png", want: "http://site.com/img.png"},
		{name: "root relative uses root", base: "http://site.com/docs", root: "http://cdn.com", url: "/img.png", want: "http://cdn.com/img.png"},
		{name: "fragment untouched", base: "http://site.com/docs", url: "#top", want: "#top"},
		{name: "absolute untouched", base: "http://site.com/docs", url: "https://other.com/x", want: "https://other.com/x"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			opts := markdown.DefaultOptions()
			opts.URLBaseLocation = testCase.base
			opts.URLRootLocation = testCase.root

			out := markdown.Transform("[x]("+testCase.url+")\n", opts)
			assert.Equal(t, testCase.want, attr(firstNode(t, out, "a"), "href"))
		})
	}
}

func TestTransform_LinkOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		configure  func(*markdown.Options)
		url        string
		wantRel    string
		wantTarget string
	}{
		{
			name:      "nofollow all",
			configure: func(o *markdown.Options) { o.NoFollowLinks = true },
			url:       "/local",
			wantRel:   "nofollow",
		},
		{
			name:      "nofollow external only skips local",
			configure: func(o *markdown.Options) { o.NoFollowExternalLinks = true },
			url:       "/local",
		},
		{
			name:      "nofollow external",
			configure: func(o *markdown.Options) { o.NoFollowExternalLinks = true },
			url:       "http://far.away",
			wantRel:   "nofollow",
		},
		{
			name:       "new window for external",
			configure:  func(o *markdown.Options) { o.NewWindowForExternalLinks = true },
			url:        "http://far.away",
			wantTarget: "_blank",
		},
		{
			name:       "new window for local",
			configure:  func(o *markdown.Options) { o.NewWindowForLocalLinks = true },
			url:        "/local",
			wantTarget: "_blank",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			opts := markdown.DefaultOptions()
			testCase.configure(&opts)

			link := firstNode(t, markdown.Transform("[x]("+testCase.url+")\n", opts), "a")
			assert.Equal(t, testCase.wantRel, attr(link, "rel"))
			assert.Equal(t, testCase.wantTarget, attr(link, "target"))
		})
	}
}

func TestTransform_Hooks(t *testing.T) {
	t.Parallel()

	opts := markdown.DefaultOptions()
	opts.Hooks.QualifyURL = func(url string) (string, bool) {
		if strings.HasPrefix(url, "wiki:") {
			return "/wiki/" + strings.TrimPrefix(url, "wiki:"), true
		}
		return "", false
	}
	opts.Hooks.PrepareLink = func(tag *htmltag.Tag) bool {
		tag.Set("class", "ext")
		return false
	}
	opts.Hooks.GetImageSize = func(string, bool) (int, int, bool) { return 10, 20, true }

	out := markdown.Transform("[Page](wiki:Home) ![i](pic.png)\n", opts)

	link := firstNode(t, out, "a.ext")
	assert.Equal(t, "/wiki/Home", attr(link, "href"))

	img := firstNode(t, out, "img")
	assert.Equal(t, "10", attr(img, "width"))
	assert.Equal(t, "20", attr(img, "height"))
}

func TestTransform_LocalImageSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 400, 100))))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wide.png"), buf.Bytes(), 0o600))

	opts := markdown.DefaultOptions()
	opts.DocumentLocation = dir
	opts.DocumentRoot = dir
	opts.MaxImageWidth = 200

	for _, src := range []string{"wide.png", "/wide.png"} {
		img := firstNode(t, markdown.Transform("![w]("+src+")\n", opts), "img")
		assert.Equal(t, "200", attr(img, "width"), src)
		assert.Equal(t, "50", attr(img, "height"), src)
	}

	img := firstNode(t, markdown.Transform("![w](missing.png)\n", opts), "img")
	assert.Empty(t, attr(img, "width"))
}

func TestTransform_TitledImage(t *testing.T) {
	t.Parallel()

	opts := markdown.DefaultOptions()
	opts.HTMLClassTitledImages = "figure"

	out := markdown.Transform("![Alt](/a.png \"A caption\")\n", opts)
	assert.Equal(t, "<div class=\"figure\">\n<img src=\"/a.png\" alt=\"Alt\" title=\"A caption\" />\n<p>A caption</p>\n</div>\n", out)
}

func TestTransform_CodeBlockHooks(t *testing.T) {
	t.Parallel()

	opts := markdown.DefaultOptions()
	opts.Hooks.FormatCodeBlock = func(code, language string) string {
		return "[" + language + "]" + strings.ToUpper(code)
	}
	opts.Hooks.CodeBlockAttributes = func(language string) string {
		return ` data-lang="` + language + `"`
	}

	out := markdown.Transform("```sh\necho hi\n```\n", opts)
	assert.Equal(t, "<pre><code data-lang=\"sh\">[sh]ECHO HI\n</code></pre>\n\n", out)
}

func TestTransform_IndentedCodeLanguage(t *testing.T) {
	t.Parallel()

	out := markdown.Transform("    {{python}}\n    print(1)\n", markdown.DefaultOptions())
	assert.Equal(t, "<pre><code class=\"language-python\">print(1)\n</code></pre>\n\n", out)
}

func TestTransform_DetectCodeLanguage(t *testing.T) {
	t.Parallel()

	opts := markdown.DefaultOptions()
	opts.DetectCodeLanguage = true

	out := markdown.Transform("```\npackage main\n```\n", opts)
	assert.Contains(t, out, `<code class="language-go">`)

	out = markdown.Transform("```\nplain words here\n```\n", opts)
	assert.Contains(t, out, "<pre><code>")
}
