package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const domainColumns = `id, user_id, domain, status, netlify_site_id, netlify_verified, dns_verified,
	blog_enabled, selected_theme, post_count, last_posted_at, error_message, created_at, updated_at`

// publishableClause matches domains that can receive posts. It must agree
// with models.Domain.Publishable.
const publishableClause = `blog_enabled AND (dns_verified OR netlify_verified)`

// UpsertDomain inserts host or updates the existing row. Empty fields of u
// leave the stored value unchanged.
func (r *Repository) UpsertDomain(ctx context.Context, u models.DomainUpsert) (*models.Domain, error) {
	domain := &models.Domain{}
	query := `
		INSERT INTO domains (domain, user_id, status, netlify_site_id, netlify_verified)
		VALUES ($1, NULLIF($2, ''), COALESCE(NULLIF($3, ''), 'pending'), NULLIF($4, ''), $5)
		ON CONFLICT (domain) DO UPDATE SET
			user_id = COALESCE(NULLIF($2, ''), domains.user_id),
			status = COALESCE(NULLIF($3, ''), domains.status),
			netlify_site_id = COALESCE(NULLIF($4, ''), domains.netlify_site_id),
			netlify_verified = domains.netlify_verified OR $5,
			updated_at = NOW()
		RETURNING ` + domainColumns

	err := r.db.QueryRowxContext(ctx, query, u.Domain, u.UserID, u.Status, u.NetlifySiteID, u.NetlifyVerified).
		StructScan(domain)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert domain %s: %w", u.Domain, err)
	}
	return domain, nil
}

// EnsureBlogSetup enables blogging on a domain, assigns theme when none is
// selected and records an active theme row. A missing domain_blog_themes
// table is tolerated.
func (r *Repository) EnsureBlogSetup(ctx context.Context, domainID uuid.UUID, theme, themeName string) error {
	query := `
		UPDATE domains
		SET blog_enabled = TRUE, selected_theme = COALESCE(NULLIF(selected_theme, ''), $2), updated_at = NOW()
		WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, domainID, theme); err != nil {
		return fmt.Errorf("failed to enable blog: %w", err)
	}

	themeQuery := `
		INSERT INTO domain_blog_themes (domain_id, theme_id, theme_name, is_active)
		SELECT $1, $2, $3, TRUE
		WHERE NOT EXISTS (SELECT 1 FROM domain_blog_themes WHERE domain_id = $1 AND is_active)
		ON CONFLICT (domain_id, theme_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, themeQuery, domainID, theme, themeName); err != nil {
		if pqCode(err) == codeUndefinedTable {
			return nil
		}
		return fmt.Errorf("failed to record blog theme: %w", err)
	}
	return nil
}

// MarkDomainsAttached sets status and netlify_verified for hosts.
func (r *Repository) MarkDomainsAttached(ctx context.Context, hosts []string, status string) (int64, error) {
	if len(hosts) == 0 {
		return 0, nil
	}
	query := `
		UPDATE domains
		SET status = $2, netlify_verified = TRUE, error_message = NULL, updated_at = NOW()
		WHERE domain = ANY($1)`
	result, err := r.db.ExecContext(ctx, query, pq.Array(hosts), status)
	if err != nil {
		return 0, fmt.Errorf("failed to mark domains attached: %w", err)
	}
	return result.RowsAffected()
}

// MarkDomainsFailed records msg on hosts and sets status error.
func (r *Repository) MarkDomainsFailed(ctx context.Context, hosts []string, msg string) error {
	if len(hosts) == 0 {
		return nil
	}
	query := `
		UPDATE domains
		SET status = $2, error_message = $3, updated_at = NOW()
		WHERE domain = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(hosts), models.DomainStatusError, msg); err != nil {
		return fmt.Errorf("failed to mark domains failed: %w", err)
	}
	return nil
}

// StampSiteID sets netlify_site_id on every row of hosts.
func (r *Repository) StampSiteID(ctx context.Context, hosts []string, siteID string) error {
	if len(hosts) == 0 {
		return nil
	}
	query := `UPDATE domains SET netlify_site_id = $2, updated_at = NOW() WHERE domain = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(hosts), siteID); err != nil {
		return fmt.Errorf("failed to stamp site id: %w", err)
	}
	return nil
}

// GetDomain retrieves a domain by ID
func (r *Repository) GetDomain(ctx context.Context, id uuid.UUID) (*models.Domain, error) {
	domain := &models.Domain{}
	query := `SELECT ` + domainColumns + ` FROM domains WHERE id = $1`
	if err := r.db.GetContext(ctx, domain, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get domain: %w", err)
	}
	return domain, nil
}

// ListDomains returns every domain row ordered by hostname.
func (r *Repository) ListDomains(ctx context.Context) ([]models.Domain, error) {
	domains := []models.Domain{}
	query := `SELECT ` + domainColumns + ` FROM domains ORDER BY domain ASC`
	if err := r.db.SelectContext(ctx, &domains, query); err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	return domains, nil
}

// NextPublishableDomain picks the owner's least-used publishable domain:
// fewest posts, then longest since the last post.
func (r *Repository) NextPublishableDomain(ctx context.Context, userID string) (*models.Domain, error) {
	domain := &models.Domain{}
	query := `SELECT ` + domainColumns + ` FROM domains
		WHERE user_id = $1 AND ` + publishableClause + `
		ORDER BY post_count ASC, last_posted_at ASC NULLS FIRST, created_at ASC
		LIMIT 1`
	if err := r.db.GetContext(ctx, domain, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNoEligibleDomain
		}
		return nil, fmt.Errorf("failed to select domain: %w", err)
	}
	return domain, nil
}

// DeleteDomainByName deletes the row for host. A missing row is not an error.
func (r *Repository) DeleteDomainByName(ctx context.Context, host string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM domains WHERE domain = $1`, host)
	if err != nil {
		return false, fmt.Errorf("failed to delete domain: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}
