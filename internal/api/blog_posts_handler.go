package api

import (
	"net/http"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/gin-gonic/gin"
)

// listUnclaimedBlogPosts returns trial posts without an owner
// GET /api/v1/blog-posts/unclaimed?limit=
func (r *Router) listUnclaimedBlogPosts(c *gin.Context) {
	posts, err := r.deps.Store.ListUnclaimedBlogPosts(c.Request.Context(), queryInt(c, "limit", defaultListLimit, maxListLimit))
	if err != nil {
		r.handleError(c, err, "list blog posts")
		return
	}
	respond(c, http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// claimBlogPost assigns an unowned post to the caller
// POST /api/v1/blog-posts/:id/claim
func (r *Router) claimBlogPost(c *gin.Context) {
	id, ok := parseUUID(c, "id", "blog post")
	if !ok {
		return
	}

	var req models.ClaimRequest
	if !bindJSON(c, &req, true) {
		return
	}
	owner := userID(c, req.UserID)
	if owner == "" {
		fail(c, http.StatusBadRequest, "user_id is required")
		return
	}

	post, err := r.deps.Store.ClaimBlogPost(c.Request.Context(), id, owner)
	if err != nil {
		r.handleError(c, err, "claim blog post")
		return
	}

	if r.deps.Activity != nil {
		r.deps.Activity.Record(c.Request.Context(), models.ActivityBlogPostClaimed, "Blog post claimed", map[string]any{
			"post_id": post.ID,
			"user_id": owner,
		})
	}
	respond(c, http.StatusOK, gin.H{"post": post})
}
