package database

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/lib/pq"
)

// Postgres error codes handled explicitly.
const (
	codeUniqueViolation = "23505"
	codeUndefinedColumn = "42703"
	codeUndefinedTable  = "42P01"
)

var (
	columnPattern   = regexp.MustCompile(`column "([^"]+)"`)
	relationPattern = regexp.MustCompile(`relation "([^"]+)"`)
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// classify maps driver errors for table onto typed errors: unique
// violations to models.ErrAlreadyExists and undefined columns to
// *models.SchemaMismatchError. It returns nil for anything else.
func classify(table string, err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	switch string(pqErr.Code) {
	case codeUniqueViolation:
		if pqErr.Constraint != "" {
			return fmt.Errorf("%w: %s", models.ErrAlreadyExists, pqErr.Constraint)
		}
		return models.ErrAlreadyExists
	case codeUndefinedColumn:
		mismatch := &models.SchemaMismatchError{Table: table, Err: err}
		if m := columnPattern.FindStringSubmatch(pqErr.Message); m != nil {
			mismatch.Column = m[1]
		}
		if m := relationPattern.FindStringSubmatch(pqErr.Message); m != nil {
			mismatch.Table = m[1]
		}
		return mismatch
	default:
		return nil
	}
}
