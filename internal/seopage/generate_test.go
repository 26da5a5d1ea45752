package seopage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/seopage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tmpl = `<h1>{{.Title}}</h1><p>Learn about {{.Lower}}.</p>`

func TestNewPage(t *testing.T) {
	p := seopage.NewPage("backlink-pricing-guide")
	assert.Equal(t, "backlink-pricing-guide", p.Slug)
	assert.Equal(t, "Backlink Pricing Guide", p.Title)

	p = seopage.NewPage("cheap SEO services")
	assert.Equal(t, "cheap-seo-services", p.Slug)
	assert.Equal(t, "Cheap SEO Services", p.Title)
	assert.Equal(t, "cheap seo services", p.Lower)
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pages")

	res, err := seopage.Generate([]string{"link-building-tips", "Link Building Tips", "", "<b>x</b> & y"}, tmpl, seopage.Options{OutDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"link-building-tips.html", "b-x-b-y.html"}, res.Written)

	data, err := os.ReadFile(filepath.Join(dir, "link-building-tips.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Link Building Tips</h1><p>Learn about link building tips.</p>", string(data))

	escaped, err := os.ReadFile(filepath.Join(dir, "b-x-b-y.html"))
	require.NoError(t, err)
	assert.Contains(t, string(escaped), "&lt;b&gt;x&lt;/b&gt;")

	res, err = seopage.Generate([]string{"link-building-tips"}, tmpl, seopage.Options{OutDir: dir})
	require.NoError(t, err)
	assert.Empty(t, res.Written)
	assert.Equal(t, []string{"link-building-tips.html"}, res.Skipped)

	res, err = seopage.Generate([]string{"link-building-tips"}, tmpl, seopage.Options{OutDir: dir, Overwrite: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"link-building-tips.html"}, res.Written)
}

func TestGenerate_BadTemplate(t *testing.T) {
	_, err := seopage.Generate([]string{"a"}, "{{.Title", seopage.Options{OutDir: t.TempDir()})
	require.Error(t, err)
}

func TestReadKeywords(t *testing.T) {
	in := "# landing pages\nbacklink-pricing-guide\n\n1. cheap seo services\n- niche edits\n"
	kws, err := seopage.ReadKeywords(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"backlink-pricing-guide", "cheap seo services", "niche edits"}, kws)
}
