// Package activity records notable service events in activity_logs.
package activity

import (
	"context"
	"encoding/json"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
)

// Store persists activity rows.
type Store interface {
	InsertActivity(ctx context.Context, entry *models.ActivityLog) error
	ListActivity(ctx context.Context, activityType string, limit int) ([]models.ActivityLog, error)
}

// Recorder writes activity entries. Write failures are logged and never
// returned, so recording cannot fail the operation being recorded.
type Recorder struct {
	store Store
	log   logger.Logger
}

// NewRecorder creates a Recorder. A nil store disables recording.
func NewRecorder(store Store, log logger.Logger) *Recorder {
	return &Recorder{store: store, log: log}
}

// Record stores one entry.
func (r *Recorder) Record(ctx context.Context, activityType, message string, details map[string]any) {
	if r == nil || r.store == nil {
		return
	}
	entry := &models.ActivityLog{Type: activityType, Message: message}
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			r.log.Warn("Failed to encode activity details",
				logger.String("activity_type", activityType),
				logger.Error(err),
			)
		} else {
			entry.Details = raw
		}
	}
	if err := r.store.InsertActivity(ctx, entry); err != nil {
		r.log.Warn("Failed to record activity",
			logger.String("activity_type", activityType),
			logger.Error(err),
		)
	}
}

// List returns recent entries, optionally of one type.
func (r *Recorder) List(ctx context.Context, activityType string, limit int) ([]models.ActivityLog, error) {
	if r == nil || r.store == nil {
		return []models.ActivityLog{}, nil
	}
	return r.store.ListActivity(ctx, activityType, limit)
}
