package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const blogPostColumns = `id, user_id, domain_id, slug, title, content, status, is_trial_post,
	expires_at, created_at, published_at`

// ErrUnknownTable is returned for a blog post table outside the allow list.
var ErrUnknownTable = errors.New("unknown blog post table")

// BlogPostTables are the tables with the blog_posts shape.
var BlogPostTables = []string{"blog_posts", "published_blog_posts"}

func checkBlogTable(table string) error {
	for _, t := range BlogPostTables {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownTable, table)
}

// ClaimBlogPost assigns an unowned post to userID and clears its trial
// state. It returns models.ErrAlreadyClaimed when the post has an owner.
func (r *Repository) ClaimBlogPost(ctx context.Context, id uuid.UUID, userID string) (*models.BlogPost, error) {
	post := &models.BlogPost{}
	query := `
		UPDATE blog_posts
		SET user_id = $2, is_trial_post = FALSE, expires_at = NULL
		WHERE id = $1 AND user_id IS NULL
		RETURNING ` + blogPostColumns

	err := r.db.QueryRowxContext(ctx, query, id, userID).StructScan(post)
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to claim blog post: %w", err)
	}

	var exists bool
	if err = r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM blog_posts WHERE id = $1)`, id); err != nil {
		return nil, fmt.Errorf("failed to check blog post: %w", err)
	}
	if !exists {
		return nil, models.ErrNotFound
	}
	return nil, models.ErrAlreadyClaimed
}

// ListUnclaimedBlogPosts returns unowned posts newest first.
func (r *Repository) ListUnclaimedBlogPosts(ctx context.Context, limit int) ([]models.BlogPost, error) {
	if limit <= 0 {
		limit = 50
	}
	posts := []models.BlogPost{}
	query := `SELECT ` + blogPostColumns + ` FROM blog_posts
		WHERE user_id IS NULL
		ORDER BY created_at DESC
		LIMIT $1`
	if err := r.db.SelectContext(ctx, &posts, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list unclaimed blog posts: %w", err)
	}
	return posts, nil
}

// DeleteExpiredTrialPosts removes unclaimed trial posts that expired before now.
func (r *Repository) DeleteExpiredTrialPosts(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM blog_posts
		WHERE is_trial_post AND user_id IS NULL AND expires_at IS NOT NULL AND expires_at < $1`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired trial posts: %w", err)
	}
	return result.RowsAffected()
}

// ListBlogPostPage reads one page of non-archived rows of table in a stable order.
func (r *Repository) ListBlogPostPage(ctx context.Context, table string, limit, offset int) ([]models.BlogPost, error) {
	if err := checkBlogTable(table); err != nil {
		return nil, err
	}
	posts := []models.BlogPost{}
	query := `SELECT ` + blogPostColumns + ` FROM ` + table + `
		WHERE status IS DISTINCT FROM 'archived'
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &posts, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	return posts, nil
}

// ArchiveBlogPosts sets status archived on ids.
func (r *Repository) ArchiveBlogPosts(ctx context.Context, table string, ids []uuid.UUID) (int64, error) {
	if err := checkBlogTable(table); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE ` + table + ` SET status = 'archived' WHERE id = ANY($1::uuid[])`
	result, err := r.db.ExecContext(ctx, query, pq.Array(uuidStrings(ids)))
	if err != nil {
		return 0, fmt.Errorf("failed to archive %s rows: %w", table, err)
	}
	return result.RowsAffected()
}

// DeleteBlogPosts deletes ids from table.
func (r *Repository) DeleteBlogPosts(ctx context.Context, table string, ids []uuid.UUID) (int64, error) {
	if err := checkBlogTable(table); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	query := `DELETE FROM ` + table + ` WHERE id = ANY($1::uuid[])`
	result, err := r.db.ExecContext(ctx, query, pq.Array(uuidStrings(ids)))
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s rows: %w", table, err)
	}
	return result.RowsAffected()
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
