// Package importer reads domain lists from spreadsheets.
package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/hostname"
	"github.com/xuri/excelize/v2"
)

const (
	colDomain = 0 // Column A
	colUserID = 1 // Column B, optional
)

// DomainRow is one data row of the spreadsheet.
type DomainRow struct {
	Row    int // Excel row number (for error reporting)
	Raw    string
	Domain string
	UserID string
}

// ImportError represents a validation error for a specific row.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ParseDomains reads the first column of sheet (the first sheet when
// empty). A header row whose first cell is "domain" is skipped, as are
// blank rows. Hostnames are normalized; invalid and repeated ones are
// reported as errors.
func ParseDomains(r io.Reader, sheet string) ([]DomainRow, []ImportError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	out := make([]DomainRow, 0, len(rows))
	var importErrs []ImportError
	seen := make(map[string]int, len(rows))
	for i, cells := range rows {
		rowNum := i + 1
		raw := cell(cells, colDomain)
		if raw == "" {
			continue
		}
		if rowNum == 1 && strings.EqualFold(raw, "domain") {
			continue
		}

		host := hostname.Normalize(raw)
		if err := hostname.Validate(host); err != nil {
			importErrs = append(importErrs, ImportError{Row: rowNum, Error: fmt.Sprintf("invalid domain %q", raw)})
			continue
		}
		if first, dup := seen[host]; dup {
			importErrs = append(importErrs, ImportError{Row: rowNum, Error: fmt.Sprintf("duplicate of row %d", first)})
			continue
		}
		seen[host] = rowNum
		out = append(out, DomainRow{Row: rowNum, Raw: raw, Domain: host, UserID: cell(cells, colUserID)})
	}
	return out, importErrs, nil
}

// Hosts returns the normalized hostnames of rows.
func Hosts(rows []DomainRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Domain
	}
	return out
}

func cell(cells []string, idx int) string {
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}
