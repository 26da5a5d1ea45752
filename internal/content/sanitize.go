package content

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the UGC policy without forced rel="nofollow"; backlinks keep
// their own target and rel attributes.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowStyling()
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("rel").Matching(regexp.MustCompile(`^[a-z]+( [a-z]+)*$`)).OnElements("a")
	return p
}()

// Sanitize removes active content from generated HTML: script-like
// elements, inline event handlers and javascript: URLs.
func Sanitize(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
