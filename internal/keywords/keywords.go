// Package keywords turns loosely formatted model or user output into a
// clean keyword list.
package keywords

import (
	"encoding/json"
	"regexp"
	"strings"
)

// MaxKeywords caps every parsed list.
const MaxKeywords = 10

var (
	fencePattern  = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	// "1.", "1:" and "1-" count as numbering only when followed by a space.
	numberPrefix  = regexp.MustCompile(`^\(?\d+(?:[)\]]|[.:-]\s)\s*`)
	bulletPrefix  = regexp.MustCompile(`^[-*•+]\s*`)
	splitPattern  = regexp.MustCompile(`[\n,;]+`)
	quoteTrimset  = "\"'`“”‘’"
	arrayBrackets = "[]"
)

// Parse accepts a JSON array of strings, a JSON array of objects with a
// "keyword" field, or a comma, newline or numbered list. The result is
// trimmed, deduplicated case-insensitively in first-seen order and capped at
// MaxKeywords.
func Parse(raw string) []string {
	s := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	if s == "" {
		return []string{}
	}

	candidates, ok := parseJSON(s)
	if !ok {
		candidates = splitPattern.Split(strings.Trim(s, arrayBrackets), -1)
	}
	return clean(candidates)
}

func parseJSON(s string) ([]string, bool) {
	if !strings.HasPrefix(s, "[") {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, false
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		var str string
		if err := json.Unmarshal(item, &str); err == nil {
			out = append(out, str)
			continue
		}
		var obj struct {
			Keyword string `json:"keyword"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Keyword != "" {
			out = append(out, obj.Keyword)
		}
	}
	return out, true
}

func clean(candidates []string) []string {
	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, MaxKeywords)
	for _, c := range candidates {
		kw := strings.TrimSpace(c)
		kw = numberPrefix.ReplaceAllString(kw, "")
		kw = bulletPrefix.ReplaceAllString(kw, "")
		kw = strings.TrimSpace(strings.Trim(strings.TrimSpace(kw), quoteTrimset))
		if kw == "" {
			continue
		}
		key := strings.ToLower(kw)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, kw)
		if len(out) == MaxKeywords {
			break
		}
	}
	return out
}
