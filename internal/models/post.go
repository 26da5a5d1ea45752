package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostStatusPublished is the status the publisher writes
const PostStatusPublished = "published"

// Post is a row of automation_posts. One per (automation_id, domain_id).
type Post struct {
	ID           uuid.UUID      `db:"id"            json:"id"`
	AutomationID uuid.UUID      `db:"automation_id" json:"automation_id"`
	DomainID     uuid.UUID      `db:"domain_id"     json:"domain_id"`
	UserID       string         `db:"user_id"       json:"user_id"`
	Slug         string         `db:"slug"          json:"slug"`
	Title        string         `db:"title"         json:"title"`
	Content      string         `db:"content"       json:"content"`
	URL          string         `db:"url"           json:"url"`
	Status       string         `db:"status"        json:"status"`
	BlogTheme    *string        `db:"blog_theme"    json:"blog_theme,omitempty"`
	BlogThemeID  *string        `db:"blog_theme_id" json:"blog_theme_id,omitempty"`
	Keywords     pq.StringArray `db:"keywords"      json:"keywords,omitempty"`
	AnchorTexts  pq.StringArray `db:"anchor_texts"  json:"anchor_texts,omitempty"`
	CreatedAt    time.Time      `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"    json:"updated_at"`
}

// PublishRequest is the payload for POST /campaigns/:id/publish.
// DomainID, Title and Content are optional.
type PublishRequest struct {
	CampaignID uuid.UUID  `json:"-"`
	DomainID   *uuid.UUID `json:"domain_id"`
	Title      string     `binding:"omitempty,max=300" json:"title"`
	Content    string     `json:"content"`
}

// PublishResult is returned by the publisher
type PublishResult struct {
	Post             *Post     `json:"post"`
	Domain           *Domain   `json:"domain"`
	Campaign         *Campaign `json:"campaign"`
	PublishedURL     string    `json:"published_url"`
	AlreadyPublished bool      `json:"already_published"`
}
