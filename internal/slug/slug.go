// Package slug builds URL slugs for published posts. A post slug has the form
// "<theme>/<inner>", and inner slugs are unique per domain.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is used when a title reduces to nothing.
const Fallback = "post"

// MaxLength bounds the inner slug.
const MaxLength = 80

// DefaultTheme is the theme segment used when none is configured.
const DefaultTheme = "minimal"

var (
	urlPattern    = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	domainPattern = regexp.MustCompile(`(?i)\b[a-z0-9-]+(?:\.[a-z0-9-]+)*\.[a-z]{2,}\b`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9]+`)
)

// Make reduces title to a lowercase ASCII slug of [a-z0-9-]. URLs and
// domain-like tokens are removed first so a title naming a site does not
// leak the hostname into the path.
func Make(title string) string {
	s := urlPattern.ReplaceAllString(title, " ")
	s = domainPattern.ReplaceAllString(s, " ")
	s = fold(s)
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxLength {
		s = s[:MaxLength]
		if i := strings.LastIndexByte(s, '-'); i > MaxLength/2 {
			s = s[:i]
		}
		s = strings.Trim(s, "-")
	}
	if s == "" {
		return Fallback
	}
	return s
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Theme normalizes a theme name into a path segment.
func Theme(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	switch name {
	case "":
		return DefaultTheme
	case "random-ai-generated":
		return "random"
	}
	if s := Make(name); s != Fallback || name == Fallback {
		return s
	}
	return DefaultTheme
}

// Join builds "<theme>/<inner>".
func Join(theme, inner string) string {
	return theme + "/" + inner
}

// Inner strips the theme segment.
func Inner(full string) string {
	if _, inner, ok := strings.Cut(full, "/"); ok {
		return inner
	}
	return full
}

// ExistsFunc reports whether a full slug is taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique returns the first free candidate of theme/base, theme/base-1 ...
// theme/base-maxSuffix. If all are taken it falls back to a base36
// millisecond timestamp suffix from now.
func Unique(ctx context.Context, theme, base string, maxSuffix int, exists ExistsFunc, now func() time.Time) (string, error) {
	for i := 0; i <= maxSuffix; i++ {
		candidate := base
		if i > 0 {
			candidate = base + "-" + strconv.Itoa(i)
		}
		full := Join(theme, candidate)
		taken, err := exists(ctx, full)
		if err != nil {
			return "", fmt.Errorf("check slug %s: %w", full, err)
		}
		if !taken {
			return full, nil
		}
	}
	if now == nil {
		now = time.Now
	}
	return Join(theme, base+"-"+strconv.FormatInt(now().UnixMilli(), 36)), nil
}
