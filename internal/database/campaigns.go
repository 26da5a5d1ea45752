package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const campaignColumns = `id, user_id, name, keywords, anchor_texts, target_url, status,
	published_articles, last_posted_at, created_at, updated_at`

// CreateCampaign inserts a campaign for req.UserID.
func (r *Repository) CreateCampaign(ctx context.Context, req *models.CampaignCreateRequest) (*models.Campaign, error) {
	now := time.Now()
	campaign := &models.Campaign{}
	query := `
		INSERT INTO automation_campaigns
			(id, user_id, name, keywords, anchor_texts, target_url, status, published_articles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, '[]'::jsonb, $8, $8)
		RETURNING ` + campaignColumns

	err := r.db.QueryRowxContext(ctx, query,
		uuid.New(), req.UserID, req.Name, pq.StringArray(req.Keywords), pq.StringArray(req.AnchorTexts),
		req.TargetURL, req.Status, now,
	).StructScan(campaign)
	if err != nil {
		if pqCode(err) == codeUniqueViolation {
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return campaign, nil
}

// GetCampaign retrieves a campaign by ID
func (r *Repository) GetCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	campaign := &models.Campaign{}
	query := `SELECT ` + campaignColumns + ` FROM automation_campaigns WHERE id = $1`

	if err := r.db.GetContext(ctx, campaign, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

// ListCampaigns returns campaigns newest first, optionally filtered by owner and status.
func (r *Repository) ListCampaigns(ctx context.Context, filter models.CampaignFilter) ([]models.Campaign, error) {
	campaigns := []models.Campaign{}
	query := `SELECT ` + campaignColumns + ` FROM automation_campaigns
		WHERE ($1 = '' OR user_id = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if err := r.db.SelectContext(ctx, &campaigns, query, filter.UserID, filter.Status, limit, filter.Offset); err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

// UpdateCampaign applies the non-nil fields of req.
func (r *Repository) UpdateCampaign(ctx context.Context, id uuid.UUID, req *models.CampaignUpdateRequest) (*models.Campaign, error) {
	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Keywords != nil {
		updates["keywords"] = pq.StringArray(*req.Keywords)
	}
	if req.AnchorTexts != nil {
		updates["anchor_texts"] = pq.StringArray(*req.AnchorTexts)
	}
	if req.TargetURL != nil {
		updates["target_url"] = *req.TargetURL
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	query, args, err := buildUpdateQuery("automation_campaigns", id, updates, campaignColumns)
	if err != nil {
		return nil, err
	}

	campaign := &models.Campaign{}
	if err = r.db.QueryRowxContext(ctx, query, args...).StructScan(campaign); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}
	return campaign, nil
}

// DeleteCampaign deletes a campaign and, by cascade, its posts.
func (r *Repository) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM automation_campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AppendPublishedArticle adds article to published_articles and stamps last_posted_at.
func (r *Repository) AppendPublishedArticle(ctx context.Context, id uuid.UUID, article models.PublishedArticle) error {
	entry, err := json.Marshal([]models.PublishedArticle{article})
	if err != nil {
		return fmt.Errorf("marshal published article: %w", err)
	}
	query := `
		UPDATE automation_campaigns
		SET published_articles = COALESCE(published_articles, '[]'::jsonb) || $2::jsonb,
			last_posted_at = $3,
			updated_at = NOW()
		WHERE id = $1`
	if _, err = r.db.ExecContext(ctx, query, id, string(entry), article.PublishedAt); err != nil {
		return fmt.Errorf("failed to append published article: %w", err)
	}
	return nil
}
