// Package content converts between the Markdown and HTML forms of generated
// articles and extracts titles and plain text from them.
package content

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	htmlTagPattern = regexp.MustCompile(`(?i)<(?:p|h[1-6]|div|ul|ol|li|a|strong|em|br|article|section|blockquote)\b`)
	dotBullet      = regexp.MustCompile(`(?m)^(\s*)•\s+`)
)

// markdown renders generator output. Raw HTML blocks pass through unchanged.
var markdown = goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))

// toMarkdown emits the Markdown accepted by blogging platforms. List items
// use "•" bullets.
var toMarkdown = md.NewConverter("", true, &md.Options{
	HeadingStyle:     "atx",
	BulletListMarker: "-",
	EmDelimiter:      "*",
	StrongDelimiter:  "**",
	LinkStyle:        "inlined",
}).Remove("script", "style").AddRules(md.Rule{
	Filter: []string{"li"},
	Replacement: func(text string, _ *goquery.Selection, _ *md.Options) *string {
		return md.String("• " + strings.TrimSpace(whitespace.ReplaceAllString(text, " ")) + "\n")
	},
})

// IsHTML reports whether s already contains block or inline HTML markup.
func IsHTML(s string) bool {
	return htmlTagPattern.MatchString(s)
}

// MarkdownToHTML renders Markdown as HTML. "•" bullets, which generators
// emit in place of "-", are read as list items.
func MarkdownToHTML(src string) string {
	src = dotBullet.ReplaceAllString(strings.ReplaceAll(src, "\r\n", "\n"), "$1- ")

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "<p>" + html.EscapeString(strings.TrimSpace(src)) + "</p>"
	}
	return strings.TrimSpace(buf.String())
}

// ToHTML returns s as HTML, converting from Markdown when needed.
func ToHTML(s string) string {
	if IsHTML(s) {
		return strings.TrimSpace(s)
	}
	return MarkdownToHTML(s)
}

// HTMLToMarkdown converts article HTML into Markdown with headings,
// paragraphs, bold, emphasis, links and "•" list items. Unparseable input
// falls back to its plain text.
func HTMLToMarkdown(s string) string {
	out, err := toMarkdown.ConvertString(s)
	if err != nil {
		return PlainText(s)
	}
	return strings.TrimSpace(blankLines.ReplaceAllString(out, "\n\n"))
}
