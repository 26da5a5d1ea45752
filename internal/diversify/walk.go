package diversify

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileResult is the outcome for one page.
type FileResult struct {
	Path    string  `json:"path"`
	Changes Changes `json:"changes"`
}

// Report summarizes a Walk.
type Report struct {
	Applied bool         `json:"applied"`
	Scanned int          `json:"scanned"`
	Changed []FileResult `json:"changed"`
}

// Walk transforms every file under dir whose base name matches glob.
// Files are rewritten only when apply is set. Page names passed to Apply
// are slash-separated paths relative to dir.
func (t *Transformer) Walk(ctx context.Context, dir, glob string, apply bool) (*Report, error) {
	if glob == "" {
		glob = "*.html"
	}
	if _, err := filepath.Match(glob, ""); err != nil {
		return nil, fmt.Errorf("bad glob %q: %w", glob, err)
	}

	report := &Report{Applied: apply, Changed: []FileResult{}}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(glob, d.Name()); !ok {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		report.Scanned++

		out, changes := t.Apply(filepath.ToSlash(rel), string(data))
		if !changes.Any() {
			return nil
		}
		report.Changed = append(report.Changed, FileResult{Path: filepath.ToSlash(rel), Changes: changes})
		if !apply {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if err = os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
