package models

import (
	"time"

	"github.com/google/uuid"
)

// Blog post statuses
const (
	BlogPostStatusPublished = "published"
	BlogPostStatusDraft     = "draft"
	BlogPostStatusArchived  = "archived"
)

// BlogPost is a row of blog_posts (or published_blog_posts, same shape).
// Trial posts have no owner and an expiry until claimed.
type BlogPost struct {
	ID          uuid.UUID  `db:"id"            json:"id"`
	UserID      *string    `db:"user_id"       json:"user_id,omitempty"`
	DomainID    *uuid.UUID `db:"domain_id"     json:"domain_id,omitempty"`
	Slug        string     `db:"slug"          json:"slug"`
	Title       string     `db:"title"         json:"title"`
	Content     string     `db:"content"       json:"content"`
	Status      string     `db:"status"        json:"status"`
	IsTrialPost bool       `db:"is_trial_post" json:"is_trial_post"`
	ExpiresAt   *time.Time `db:"expires_at"    json:"expires_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at"    json:"created_at"`
	PublishedAt *time.Time `db:"published_at"  json:"published_at,omitempty"`
}

// ClaimRequest carries the claiming user when the route is not JWT-protected
type ClaimRequest struct {
	UserID string `json:"user_id"`
}
