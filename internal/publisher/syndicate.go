package publisher

import (
	"context"
	"errors"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/content"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/writeas"
	"github.com/google/uuid"
)

// ErrSyndicationDisabled is returned when no blogging platform is configured.
var ErrSyndicationDisabled = errors.New("syndication is not configured")

// Blog publishes Markdown to an external blogging platform.
type Blog interface {
	Publish(ctx context.Context, title, markdown string) (*writeas.Post, error)
}

// Syndicate republishes a stored post on the blogging platform.
func (s *Service) Syndicate(ctx context.Context, postID uuid.UUID) (*writeas.Post, error) {
	if s.blog == nil {
		return nil, ErrSyndicationDisabled
	}
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	external, err := s.blog.Publish(ctx, post.Title, content.HTMLToMarkdown(post.Content))
	if err != nil {
		return nil, err
	}

	s.log.Info("Post syndicated",
		logger.String("post_id", post.ID.String()),
		logger.String("url", external.URL),
	)
	s.recorder.Record(ctx, models.ActivityPostSyndicated, "Syndicated "+post.Title, map[string]any{
		"post_id":      post.ID.String(),
		"external_id":  external.ID,
		"external_url": external.URL,
	})
	return external, nil
}
