package models

import (
	"time"

	"github.com/google/uuid"
)

// Domain statuses
const (
	DomainStatusPending  = "pending"
	DomainStatusDNSReady = "dns_ready"
	DomainStatusActive   = "active"
	DomainStatusError    = "error"
)

// Domain is a row of domains: a user-owned hostname attached to the hosting site
type Domain struct {
	ID              uuid.UUID  `db:"id"               json:"id"`
	UserID          *string    `db:"user_id"          json:"user_id,omitempty"`
	Domain          string     `db:"domain"           json:"domain"`
	Status          string     `db:"status"           json:"status"`
	NetlifySiteID   *string    `db:"netlify_site_id"  json:"netlify_site_id,omitempty"`
	NetlifyVerified bool       `db:"netlify_verified" json:"netlify_verified"`
	DNSVerified     bool       `db:"dns_verified"     json:"dns_verified"`
	BlogEnabled     bool       `db:"blog_enabled"     json:"blog_enabled"`
	SelectedTheme   *string    `db:"selected_theme"   json:"selected_theme,omitempty"`
	PostCount       int        `db:"post_count"       json:"post_count"`
	LastPostedAt    *time.Time `db:"last_posted_at"   json:"last_posted_at,omitempty"`
	ErrorMessage    *string    `db:"error_message"    json:"error_message,omitempty"`
	CreatedAt       time.Time  `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"       json:"updated_at"`
}

// Theme returns the selected theme, or fallback when none is set.
func (d *Domain) Theme(fallback string) string {
	if d.SelectedTheme != nil && *d.SelectedTheme != "" {
		return *d.SelectedTheme
	}
	return fallback
}

// DomainUpsert carries the fields written when a hostname is attached
type DomainUpsert struct {
	Domain          string
	UserID          string
	Status          string
	NetlifySiteID   string
	NetlifyVerified bool
}

// DomainRequest is the payload for single-domain operations
type DomainRequest struct {
	Domain string `binding:"required,max=253" json:"domain"`
	UserID string `json:"user_id"`
}

// DomainsRequest is the payload for batch operations.
// Domain is accepted alongside Domains for single-item callers.
type DomainsRequest struct {
	Domain  string   `json:"domain"`
	Domains []string `json:"domains"`
	UserID  string   `json:"user_id"`
}

// All merges Domain and Domains.
func (r *DomainsRequest) All() []string {
	out := make([]string, 0, len(r.Domains)+1)
	if r.Domain != "" {
		out = append(out, r.Domain)
	}
	return append(out, r.Domains...)
}

// Publishable reports whether posts may be placed on the domain.
func (d *Domain) Publishable() bool {
	return d.BlogEnabled && (d.DNSVerified || d.NetlifyVerified)
}
