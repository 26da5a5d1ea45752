package content

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// MaxTitleLength bounds extracted titles, in runes.
const MaxTitleLength = 120

var (
	whitespace      = regexp.MustCompile(`\s+`)
	mdHeadingPrefix = regexp.MustCompile(`^#{1,6}\s+`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "blockquote": true, "tr": true, "td": true,
	"details": true, "summary": true,
}

func parse(s string) *goquery.Selection {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return nil
	}
	return doc.Find("body")
}

// PlainText returns the visible text of an HTML fragment with block
// boundaries turned into spaces and whitespace collapsed. Script and style
// contents are dropped.
func PlainText(s string) string {
	body := parse(s)
	if body == nil {
		return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	}
	var b strings.Builder
	collectText(body, &b)
	return strings.TrimSpace(whitespace.ReplaceAllString(b.String(), " "))
}

func collectText(sel *goquery.Selection, b *strings.Builder) {
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		name := goquery.NodeName(node)
		switch {
		case name == "#text":
			b.WriteString(node.Text())
		case name == "script" || name == "style" || name == "#comment":
		default:
			if blockElements[name] {
				b.WriteByte(' ')
			}
			collectText(node, b)
			if blockElements[name] {
				b.WriteByte(' ')
			}
		}
	})
}

// ExtractTitle picks a title from generated content: the first <h1>, else a
// Markdown "# " heading, else the first non-empty line. The result is plain
// text of at most MaxTitleLength runes.
func ExtractTitle(s string) string {
	if IsHTML(s) {
		if body := parse(s); body != nil {
			if h1 := strings.TrimSpace(body.Find("h1").First().Text()); h1 != "" {
				return truncate(whitespace.ReplaceAllString(h1, " "))
			}
		}
	}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return truncate(strings.TrimSpace(line[2:]))
		}
	}
	for _, line := range strings.Split(s, "\n") {
		line = mdHeadingPrefix.ReplaceAllString(strings.TrimSpace(line), "")
		if text := PlainText(line); text != "" {
			return truncate(text)
		}
	}
	return ""
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxTitleLength {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:MaxTitleLength]))
}
