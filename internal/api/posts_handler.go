package api

import (
	"net/http"
	"strings"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/content"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/slug"
	"github.com/gin-gonic/gin"
)

// renderPost serves a stored automation post as a standalone HTML page
// GET /api/v1/posts/:id/html
func (r *Router) renderPost(c *gin.Context) {
	id, ok := parseUUID(c, "id", "post")
	if !ok {
		return
	}

	post, err := r.deps.Store.GetPost(c.Request.Context(), id)
	if err == nil && !ownedBy(c, post.UserID) {
		err = models.ErrNotFound
	}
	if err != nil {
		r.handleError(c, err, "get post")
		return
	}

	theme, _, _ := strings.Cut(post.Slug, "/")
	if post.BlogTheme != nil {
		theme = *post.BlogTheme
	}
	doc, err := content.Render(content.Page{
		Title:     post.Title,
		Canonical: post.URL,
		Theme:     slug.Theme(theme),
		Body:      post.Content,
	}, "")
	if err != nil {
		r.handleError(c, err, "render post")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc))
}
