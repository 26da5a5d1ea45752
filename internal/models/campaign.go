package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// Campaign statuses written by the service. Other values are accepted as-is.
const (
	CampaignStatusPending = "pending"
	CampaignStatusActive  = "active"
	CampaignStatusPaused  = "paused"
)

// Campaign is a row of automation_campaigns
type Campaign struct {
	ID                uuid.UUID      `db:"id"                 json:"id"`
	UserID            string         `db:"user_id"            json:"user_id"`
	Name              string         `db:"name"               json:"name"`
	Keywords          pq.StringArray `db:"keywords"           json:"keywords"`
	AnchorTexts       pq.StringArray `db:"anchor_texts"       json:"anchor_texts"`
	TargetURL         string         `db:"target_url"         json:"target_url"`
	Status            string         `db:"status"             json:"status"`
	PublishedArticles types.JSONText `db:"published_articles" json:"published_articles"`
	LastPostedAt      *time.Time     `db:"last_posted_at"     json:"last_posted_at,omitempty"`
	CreatedAt         time.Time      `db:"created_at"         json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"         json:"updated_at"`
}

// PrimaryKeyword returns the first keyword, falling back to the name.
func (c *Campaign) PrimaryKeyword() string {
	for _, k := range c.Keywords {
		if k != "" {
			return k
		}
	}
	return c.Name
}

// PrimaryAnchor returns the first anchor text, falling back to the keyword.
func (c *Campaign) PrimaryAnchor() string {
	for _, a := range c.AnchorTexts {
		if a != "" {
			return a
		}
	}
	return c.PrimaryKeyword()
}

// PublishedArticle is one entry of Campaign.PublishedArticles
type PublishedArticle struct {
	PostID      uuid.UUID `json:"post_id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Domain      string    `json:"domain"`
	PublishedAt time.Time `json:"published_at"`
}

// CampaignCreateRequest is the payload for creating a campaign
type CampaignCreateRequest struct {
	UserID      string   `json:"user_id"`
	Name        string   `binding:"required,min=1,max=255" json:"name"`
	Keywords    []string `binding:"required,min=1"         json:"keywords"`
	AnchorTexts []string `json:"anchor_texts"`
	TargetURL   string   `binding:"required,url"           json:"target_url"`
	Status      string   `json:"status"`
}

// CampaignUpdateRequest is the payload for a partial campaign update
type CampaignUpdateRequest struct {
	Name        *string   `binding:"omitempty,min=1,max=255" json:"name"`
	Keywords    *[]string `json:"keywords"`
	AnchorTexts *[]string `json:"anchor_texts"`
	TargetURL   *string   `binding:"omitempty,url"           json:"target_url"`
	Status      *string   `binding:"omitempty,min=1,max=64"  json:"status"`
}

// Validate trims list fields and applies the default status
func (r *CampaignCreateRequest) Validate() error {
	r.Keywords = CleanList(r.Keywords)
	r.AnchorTexts = CleanList(r.AnchorTexts)
	if len(r.Keywords) == 0 {
		return ErrNoKeywords
	}
	if r.Status == "" {
		r.Status = CampaignStatusPending
	}
	return nil
}

// Validate requires at least one field
func (r *CampaignUpdateRequest) Validate() error {
	if r.Name == nil && r.Keywords == nil && r.AnchorTexts == nil && r.TargetURL == nil && r.Status == nil {
		return ErrNoFieldsToUpdate
	}
	if r.Keywords != nil {
		cleaned := CleanList(*r.Keywords)
		r.Keywords = &cleaned
	}
	if r.AnchorTexts != nil {
		cleaned := CleanList(*r.AnchorTexts)
		r.AnchorTexts = &cleaned
	}
	return nil
}

// CampaignFilter narrows ListCampaigns
type CampaignFilter struct {
	UserID string
	Status string
	Limit  int
	Offset int
}
