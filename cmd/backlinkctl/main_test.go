package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/bootstrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func execute(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestKeywordsParse(t *testing.T) {
	code, out, _ := execute(t, `["SEO Tools", "seo tools", "link building"]`, "keywords", "parse", "-")
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "SEO Tools\nlink building\n", out)

	path := filepath.Join(t.TempDir(), "kw.txt")
	require.NoError(t, os.WriteFile(path, []byte("1. alpha\n2. beta\n"), 0o600))
	code, out, _ = execute(t, "", "keywords", "parse", path)
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "alpha\nbeta\n", out)
}

func TestPagesGenerate(t *testing.T) {
	dir := t.TempDir()
	kwPath := filepath.Join(dir, "keywords.txt")
	tmplPath := filepath.Join(dir, "page.html")
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(kwPath, []byte("# comment\nlink building tips\n"), 0o600))
	require.NoError(t, os.WriteFile(tmplPath, []byte("<h1>{{.Title}}</h1>"), 0o600))

	code, out, stderr := execute(t, "", "pages", "generate", "--keywords", kwPath, "--template", tmplPath, "--out", outDir)
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, out, "1 written, 0 skipped")

	page, err := os.ReadFile(filepath.Join(outDir, "link-building-tips.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Link Building Tips</h1>", string(page))

	code, _, stderr = execute(t, "", "pages", "generate", "--template", tmplPath)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "keywords")
}

func TestDiversify_DryRun(t *testing.T) {
	dir := t.TempDir()
	page := `<p><a href="1">a</a><a href="2">b</a><a href="3">c</a><a href="4">d</a></p>`
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o600))

	code, out, stderr := execute(t, "", "diversify", "--dir", dir, "--max-links", "2")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, out, "index.html")
	assert.Contains(t, out, "would change 1")

	unchanged, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, page, string(unchanged))
}

func TestDomainsImport_DryRun(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "domain"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Example.com"))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "bad_host"))
	path := filepath.Join(t.TempDir(), "domains.xlsx")
	require.NoError(t, f.SaveAs(path))

	code, out, stderr := execute(t, "", "domains", "import", "--file", path, "--dry-run")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, out, "1 valid domains, 1 rejected")
}

func TestDatabaseCommandsReportConnectFailure(t *testing.T) {
	var out bytes.Buffer
	c := newCLI(strings.NewReader(""), &out)
	c.newApp = func() (*bootstrap.App, error) { return nil, errors.New("connection refused") }

	root := c.rootCommand()
	root.SetArgs([]string{"dedupe"})
	root.SetOut(&out)
	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestUnknownCommandFails(t *testing.T) {
	code, _, stderr := execute(t, "", "nope")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "unknown command")
}
