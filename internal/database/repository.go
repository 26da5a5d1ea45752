// Package database holds the sqlx repositories for campaigns, posts,
// domains, blog posts and activity logs.
package database

import (
	"fmt"
	"sort"
	"strings"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository provides database operations for all entities
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new repository instance
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the handle for health checks.
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// buildUpdateQuery renders UPDATE table SET ... WHERE id = $1 RETURNING returning.
// Columns are sorted so the statement is stable.
func buildUpdateQuery(table string, id uuid.UUID, updates map[string]any, returning string) (string, []any, error) {
	if len(updates) == 0 {
		return "", nil, models.ErrNoFieldsToUpdate
	}

	columns := make([]string, 0, len(updates))
	for col := range updates {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	sets := make([]string, 0, len(columns)+1)
	args := []any{id}
	for _, col := range columns {
		args = append(args, updates[col])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 RETURNING %s",
		table, strings.Join(sets, ", "), returning)
	return query, args, nil
}
