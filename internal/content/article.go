package content

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// MinArticleLength is the shortest generated body accepted before the
// fallback article is used.
const MinArticleLength = 50

// FallbackArticle builds a deterministic guide around keyword carrying a
// single backlink to targetURL.
func FallbackArticle(keyword, anchorText, targetURL string) string {
	kw := html.EscapeString(strings.TrimSpace(keyword))
	anchor := html.EscapeString(strings.TrimSpace(anchorText))
	if anchor == "" {
		anchor = kw
	}
	link := fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener">%s</a>`, html.EscapeString(targetURL), anchor)
	title := titleCase(kw)

	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s: A Practical Guide</h1>\n", title)
	fmt.Fprintf(&b, "<p>%s is a topic many people research before making a decision. "+
		"This guide covers the essentials so you can move forward with confidence.</p>\n", title)
	fmt.Fprintf(&b, "<h2>Why %s Matters</h2>\n", title)
	fmt.Fprintf(&b, "<p>Understanding %s helps you compare options, avoid common mistakes "+
		"and spend your budget where it counts.</p>\n", kw)
	fmt.Fprintf(&b, "<h2>Getting Started</h2>\n<ul>\n<li>Define what you need from %s.</li>\n"+
		"<li>Compare providers on quality, support and price.</li>\n"+
		"<li>Start small, measure results and adjust.</li>\n</ul>\n", kw)
	fmt.Fprintf(&b, "<p>For a trusted starting point, see %s.</p>\n", link)
	fmt.Fprintf(&b, "<h2>Conclusion</h2>\n<p>With the right preparation, %s becomes far "+
		"easier to get right.</p>", kw)
	return b.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// EnsureBacklink guarantees body links to targetURL. The first occurrence
// of anchorText outside a tag is linked; otherwise a closing paragraph with
// the link is appended.
func EnsureBacklink(body, anchorText, targetURL string) string {
	if targetURL == "" {
		return body
	}
	escapedURL := html.EscapeString(targetURL)
	if strings.Contains(body, `href="`+targetURL+`"`) || strings.Contains(body, `href="`+escapedURL+`"`) {
		return body
	}
	anchorText = strings.TrimSpace(anchorText)
	link := func(text string) string {
		return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener">%s</a>`, escapedURL, text)
	}

	if anchorText != "" {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(html.EscapeString(anchorText)))
		for _, loc := range re.FindAllStringIndex(body, -1) {
			if insideTag(body, loc[0]) || insideAnchor(body, loc[0]) {
				continue
			}
			return body[:loc[0]] + link(body[loc[0]:loc[1]]) + body[loc[1]:]
		}
	} else {
		anchorText = targetURL
	}
	return body + "\n<p>Learn more: " + link(html.EscapeString(anchorText)) + "</p>"
}

func insideTag(s string, i int) bool {
	return strings.LastIndexByte(s[:i], '<') > strings.LastIndexByte(s[:i], '>')
}

func insideAnchor(s string, i int) bool {
	lower := strings.ToLower(s[:i])
	return strings.LastIndex(lower, "<a ") > strings.LastIndex(lower, "</a>")
}
