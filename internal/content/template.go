package content

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var placeholders = []string{"{{content}}", "{{body}}", "<!-- CONTENT -->"}

// Inject places body into a theme template at the first known placeholder,
// else just before </body>, else appends it.
func Inject(tmpl, body string) string {
	for _, p := range placeholders {
		if strings.Contains(tmpl, p) {
			return strings.Replace(tmpl, p, body, 1)
		}
	}
	if i := strings.LastIndex(strings.ToLower(tmpl), "</body>"); i >= 0 {
		return tmpl[:i] + body + tmpl[i:]
	}
	return tmpl + body
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<meta name="description" content="{{.Description}}">
{{if .Canonical}}<link rel="canonical" href="{{.Canonical}}">{{end}}
</head>
<body class="theme-{{.Theme}}">
<main class="post">
{{.HTML}}
</main>
</body>
</html>
`))

// Page describes a rendered post page.
type Page struct {
	Title       string
	Description string
	Canonical   string
	Theme       string
	Body        string
}

// Render produces a standalone HTML document for a post. When themeTemplate
// is non-empty the body is injected into it instead of the built-in layout.
// Body is trusted HTML produced by this package.
func Render(p Page, themeTemplate string) (string, error) {
	if themeTemplate != "" {
		return Inject(themeTemplate, p.Body), nil
	}
	if p.Description == "" {
		p.Description = truncateDescription(PlainText(p.Body))
	}
	data := struct {
		Page
		HTML template.HTML
	}{Page: p, HTML: template.HTML(p.Body)} //nolint:gosec // stored bodies pass through Sanitize

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}

func truncateDescription(s string) string {
	const maxDescription = 160
	r := []rune(s)
	if len(r) <= maxDescription {
		return s
	}
	return strings.TrimSpace(string(r[:maxDescription-1])) + "…"
}
