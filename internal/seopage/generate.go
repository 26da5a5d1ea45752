// Package seopage renders keyword landing pages from an HTML template.
package seopage

import (
	"bufio"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/keywords"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/slug"
)

// Page is the data passed to the template.
type Page struct {
	Keyword string
	Slug    string
	Title   string
	Lower   string
}

// NewPage derives page data from a keyword phrase or slug.
func NewPage(keyword string) Page {
	keyword = strings.TrimSpace(keyword)
	s := slug.Make(keyword)
	title := TitleFromSlug(s)
	if strings.ContainsAny(keyword, " ") {
		title = titleWords(keyword)
	}
	return Page{Keyword: keyword, Slug: s, Title: title, Lower: strings.ToLower(title)}
}

// TitleFromSlug turns "link-building-tips" into "Link Building Tips".
func TitleFromSlug(s string) string {
	return titleWords(strings.ReplaceAll(s, "-", " "))
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Options control Generate.
type Options struct {
	OutDir    string
	Overwrite bool
}

// Result lists the files Generate wrote and skipped.
type Result struct {
	Written []string `json:"written"`
	Skipped []string `json:"skipped"`
}

// Generate renders tmpl once per keyword into <OutDir>/<slug>.html.
// Existing files are skipped unless Overwrite is set.
func Generate(kws []string, tmpl string, opts Options) (*Result, error) {
	t, err := template.New("page").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	if err = os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	result := &Result{Written: []string{}, Skipped: []string{}}
	seen := make(map[string]bool, len(kws))
	for _, kw := range kws {
		if strings.TrimSpace(kw) == "" {
			continue
		}
		page := NewPage(kw)
		if seen[page.Slug] {
			continue
		}
		seen[page.Slug] = true

		name := page.Slug + ".html"
		path := filepath.Join(opts.OutDir, name)
		if !opts.Overwrite {
			if _, statErr := os.Stat(path); statErr == nil {
				result.Skipped = append(result.Skipped, name)
				continue
			}
		}

		var b strings.Builder
		if err = t.Execute(&b, page); err != nil {
			return result, fmt.Errorf("render %s: %w", name, err)
		}
		if err = os.WriteFile(path, []byte(b.String()), 0o644); err != nil { //nolint:gosec // generated pages are public
			return result, fmt.Errorf("write %s: %w", name, err)
		}
		result.Written = append(result.Written, name)
	}
	return result, nil
}

// ReadKeywords reads one keyword per line. Lines may also hold LLM-style
// lists, which are parsed with keywords.Parse; there is no 10-item cap here.
func ReadKeywords(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, keywords.Parse(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read keywords: %w", err)
	}
	return out, nil
}
