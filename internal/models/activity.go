package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

// Activity types recorded by the service
const (
	ActivityPostPublished    = "post_published"
	ActivityPostSyndicated   = "post_syndicated"
	ActivityDomainsSynced    = "domains_synced"
	ActivityDomainRemoved    = "domain_removed"
	ActivityDuplicatesPurged = "duplicates_removed"
	ActivityBlogPostClaimed  = "blog_post_claimed"
	ActivityTrialsExpired    = "trial_posts_expired"
)

// ActivityLog is a row of activity_logs
type ActivityLog struct {
	ID        uuid.UUID      `db:"id"            json:"id"`
	Type      string         `db:"activity_type" json:"activity_type"`
	Message   string         `db:"message"       json:"message"`
	Details   types.JSONText `db:"details"       json:"details"`
	CreatedAt time.Time      `db:"created_at"    json:"created_at"`
}
