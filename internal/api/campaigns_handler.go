package api

import (
	"math"
	"net/http"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/gin-gonic/gin"
)

// listCampaigns returns campaigns newest first
// GET /api/v1/campaigns?user_id=&status=&limit=&offset=
func (r *Router) listCampaigns(c *gin.Context) {
	filter := models.CampaignFilter{
		UserID: userID(c, c.Query("user_id")),
		Status: c.Query("status"),
		Limit:  queryInt(c, "limit", defaultListLimit, maxListLimit),
		Offset: queryInt(c, "offset", 0, math.MaxInt),
	}

	campaigns, err := r.deps.Store.ListCampaigns(c.Request.Context(), filter)
	if err != nil {
		r.handleError(c, err, "list campaigns")
		return
	}
	respond(c, http.StatusOK, gin.H{"campaigns": campaigns, "count": len(campaigns)})
}

// createCampaign creates a campaign
// POST /api/v1/campaigns
func (r *Router) createCampaign(c *gin.Context) {
	var req models.CampaignCreateRequest
	if !bindJSON(c, &req, false) {
		return
	}
	req.UserID = userID(c, req.UserID)
	if req.UserID == "" {
		fail(c, http.StatusBadRequest, "user_id is required")
		return
	}
	if err := req.Validate(); err != nil {
		r.handleError(c, err, "create campaign")
		return
	}

	campaign, err := r.deps.Store.CreateCampaign(c.Request.Context(), &req)
	if err != nil {
		r.handleError(c, err, "create campaign")
		return
	}
	respond(c, http.StatusCreated, gin.H{"campaign": campaign})
}

// getCampaign retrieves a campaign by ID
// GET /api/v1/campaigns/:id
func (r *Router) getCampaign(c *gin.Context) {
	id, ok := parseUUID(c, "id", "campaign")
	if !ok {
		return
	}

	campaign, err := r.deps.Store.GetCampaign(c.Request.Context(), id)
	if err == nil && !ownedBy(c, campaign.UserID) {
		err = models.ErrNotFound
	}
	if err != nil {
		r.handleError(c, err, "get campaign")
		return
	}
	respond(c, http.StatusOK, gin.H{"campaign": campaign})
}

// updateCampaign applies a partial update
// PUT /api/v1/campaigns/:id
func (r *Router) updateCampaign(c *gin.Context) {
	id, ok := parseUUID(c, "id", "campaign")
	if !ok {
		return
	}

	if !r.authorizeCampaign(c, id, "update campaign") {
		return
	}

	var req models.CampaignUpdateRequest
	if !bindJSON(c, &req, false) {
		return
	}
	if err := req.Validate(); err != nil {
		r.handleError(c, err, "update campaign")
		return
	}

	campaign, err := r.deps.Store.UpdateCampaign(c.Request.Context(), id, &req)
	if err != nil {
		r.handleError(c, err, "update campaign")
		return
	}
	respond(c, http.StatusOK, gin.H{"campaign": campaign})
}

// deleteCampaign deletes a campaign and its posts
// DELETE /api/v1/campaigns/:id
func (r *Router) deleteCampaign(c *gin.Context) {
	id, ok := parseUUID(c, "id", "campaign")
	if !ok {
		return
	}

	if !r.authorizeCampaign(c, id, "delete campaign") {
		return
	}

	if err := r.deps.Store.DeleteCampaign(c.Request.Context(), id); err != nil {
		r.handleError(c, err, "delete campaign")
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}

// listCampaignPosts returns the posts placed for a campaign
// GET /api/v1/campaigns/:id/posts
func (r *Router) listCampaignPosts(c *gin.Context) {
	id, ok := parseUUID(c, "id", "campaign")
	if !ok {
		return
	}

	if !r.authorizeCampaign(c, id, "list posts") {
		return
	}

	posts, err := r.deps.Store.ListPostsByCampaign(c.Request.Context(), id)
	if err != nil {
		r.handleError(c, err, "list posts")
		return
	}
	respond(c, http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// publishCampaign places one post for the campaign. Publishing an already
// placed (campaign, domain) pair returns the existing post with 200.
// POST /api/v1/campaigns/:id/publish
func (r *Router) publishCampaign(c *gin.Context) {
	id, ok := parseUUID(c, "id", "campaign")
	if !ok {
		return
	}

	if !r.authorizeCampaign(c, id, "publish") {
		return
	}

	var req models.PublishRequest
	if !bindJSON(c, &req, true) {
		return
	}
	req.CampaignID = id

	result, err := r.deps.Publisher.Publish(c.Request.Context(), req)
	if err != nil {
		r.handleError(c, err, "publish")
		return
	}

	status := http.StatusCreated
	if result.AlreadyPublished {
		status = http.StatusOK
	}
	respond(c, status, gin.H{
		"post":              result.Post,
		"domain":            result.Domain,
		"campaign":          result.Campaign,
		"published_url":     result.PublishedURL,
		"already_published": result.AlreadyPublished,
	})
}

// syndicatePost republishes a post to Write.as
// POST /api/v1/posts/:id/syndicate
func (r *Router) syndicatePost(c *gin.Context) {
	id, ok := parseUUID(c, "id", "post")
	if !ok {
		return
	}

	if !r.authorizePost(c, id, "syndicate post") {
		return
	}

	post, err := r.deps.Publisher.Syndicate(c.Request.Context(), id)
	if err != nil {
		r.handleError(c, err, "syndicate post")
		return
	}
	r.log.Debug("Post syndicated", logger.String("post_id", id.String()), logger.String("url", post.URL))
	respond(c, http.StatusOK, gin.H{"syndicated": post})
}
