package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/google/uuid"
)

const postColumns = `id, automation_id, domain_id, user_id, slug, title, content, url, status,
	blog_theme, blog_theme_id, keywords, anchor_texts, created_at, updated_at`

// Optional automation_posts columns. Older deployments may lack them; the
// publisher drops them from the insert when Postgres reports them missing.
const (
	ColumnBlogTheme   = "blog_theme"
	ColumnBlogThemeID = "blog_theme_id"
	ColumnKeywords    = "keywords"
	ColumnAnchorTexts = "anchor_texts"
)

// GetPost retrieves an automation post by ID
func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post := &models.Post{}
	query := `SELECT ` + postColumns + ` FROM automation_posts WHERE id = $1`
	if err := r.db.GetContext(ctx, post, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// GetPostByCampaignDomain returns the single post a campaign has on a domain.
// Only core columns are read so the lookup works on any schema revision.
func (r *Repository) GetPostByCampaignDomain(ctx context.Context, campaignID, domainID uuid.UUID) (*models.Post, error) {
	post := &models.Post{}
	query := `
		SELECT id, automation_id, domain_id, user_id, slug, title, content, url, status, created_at, updated_at
		FROM automation_posts
		WHERE automation_id = $1 AND domain_id = $2
		LIMIT 1`
	if err := r.db.GetContext(ctx, post, query, campaignID, domainID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post for campaign and domain: %w", err)
	}
	return post, nil
}

// ListPostsByCampaign returns a campaign's posts newest first.
func (r *Repository) ListPostsByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Post, error) {
	posts := []models.Post{}
	query := `
		SELECT id, automation_id, domain_id, user_id, slug, title, content, url, status, created_at, updated_at
		FROM automation_posts
		WHERE automation_id = $1
		ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &posts, query, campaignID); err != nil {
		return nil, fmt.Errorf("failed to list campaign posts: %w", err)
	}
	return posts, nil
}

// SlugExists reports whether slug is taken on domainID by an automation
// post or a blog post.
func (r *Repository) SlugExists(ctx context.Context, domainID uuid.UUID, slug string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (SELECT 1 FROM automation_posts WHERE domain_id = $1 AND slug = $2)
			OR EXISTS (SELECT 1 FROM blog_posts WHERE domain_id = $1 AND slug = $2)`
	if err := r.db.GetContext(ctx, &exists, query, domainID, slug); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

// InsertPost inserts post without the columns in omit. It returns
// *models.SchemaMismatchError when a column is missing from the table and
// an error wrapping models.ErrAlreadyExists on a unique violation. ID,
// CreatedAt and UpdatedAt are filled from the database.
func (r *Repository) InsertPost(ctx context.Context, post *models.Post, omit map[string]bool) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	values := []struct {
		column string
		value  any
	}{
		{"id", post.ID},
		{"automation_id", post.AutomationID},
		{"domain_id", post.DomainID},
		{"user_id", post.UserID},
		{"slug", post.Slug},
		{"title", post.Title},
		{"content", post.Content},
		{"url", post.URL},
		{"status", post.Status},
		{ColumnBlogTheme, post.BlogTheme},
		{ColumnBlogThemeID, post.BlogThemeID},
		{ColumnKeywords, post.Keywords},
		{ColumnAnchorTexts, post.AnchorTexts},
	}

	columns := make([]string, 0, len(values))
	placeholders := make([]string, 0, len(values))
	args := make([]any, 0, len(values))
	for _, v := range values {
		if omit[v.column] {
			continue
		}
		args = append(args, v.value)
		columns = append(columns, v.column)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf(
		"INSERT INTO automation_posts (%s) VALUES (%s) RETURNING id, created_at, updated_at",
		strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)
	err := r.db.QueryRowxContext(ctx, query, args...).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if mapped := classify("automation_posts", err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// IncrementDomainPostCount bumps post_count and last_posted_at.
func (r *Repository) IncrementDomainPostCount(ctx context.Context, domainID uuid.UUID, at time.Time) error {
	query := `
		UPDATE domains
		SET post_count = COALESCE(post_count, 0) + 1, last_posted_at = $2, updated_at = NOW()
		WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, domainID, at); err != nil {
		return fmt.Errorf("failed to increment domain post count: %w", err)
	}
	return nil
}
