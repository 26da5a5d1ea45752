package database

import (
	"context"
	"fmt"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
)

// InsertActivity stores one activity log row. ID and CreatedAt come from the database.
func (r *Repository) InsertActivity(ctx context.Context, entry *models.ActivityLog) error {
	details := entry.Details
	if len(details) == 0 {
		details = []byte("{}")
	}
	query := `
		INSERT INTO activity_logs (activity_type, message, details)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, entry.Type, entry.Message, details).
		Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// ListActivity returns the newest entries, optionally of one type.
func (r *Repository) ListActivity(ctx context.Context, activityType string, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	entries := []models.ActivityLog{}
	query := `
		SELECT id, activity_type, message, details, created_at
		FROM activity_logs
		WHERE ($1 = '' OR activity_type = $1)
		ORDER BY created_at DESC
		LIMIT $2`
	if err := r.db.SelectContext(ctx, &entries, query, activityType, limit); err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return entries, nil
}
