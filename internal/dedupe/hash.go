// Package dedupe finds blog posts that repeat an earlier post's title or
// body and archives or deletes the extra copies.
package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/content"
)

var urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)

// NormalizeText lowercases s, replaces every run of non letters and digits
// with one space and trims the result.
func NormalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// TitleHash is the hex SHA-256 of the normalized title, or "" when nothing
// remains after normalization.
func TitleHash(title string) string {
	return hash(NormalizeText(title))
}

// ContentHash hashes the visible text of an HTML body with URLs removed.
func ContentHash(body string) string {
	text := urlPattern.ReplaceAllString(content.PlainText(body), " ")
	return hash(NormalizeText(text))
}

func hash(s string) string {
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
