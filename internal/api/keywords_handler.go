package api

import (
	"net/http"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/keywords"
	"github.com/gin-gonic/gin"
)

type parseKeywordsRequest struct {
	Input string `binding:"required" json:"input"`
}

type suggestKeywordsRequest struct {
	Seed string `binding:"required,max=200" json:"seed"`
}

// parseKeywords normalizes free-form keyword input
// POST /api/v1/keywords/parse
func (r *Router) parseKeywords(c *gin.Context) {
	var req parseKeywordsRequest
	if !bindJSON(c, &req, false) {
		return
	}
	kws := keywords.Parse(req.Input)
	respond(c, http.StatusOK, gin.H{"keywords": kws, "count": len(kws)})
}

// suggestKeywords asks the language model for related keywords
// POST /api/v1/keywords/suggest
func (r *Router) suggestKeywords(c *gin.Context) {
	var req suggestKeywordsRequest
	if !bindJSON(c, &req, false) {
		return
	}
	if r.deps.Keywords == nil {
		r.handleError(c, keywords.ErrNoGenerator, "suggest keywords")
		return
	}

	kws, err := r.deps.Keywords.Suggest(c.Request.Context(), req.Seed)
	if err != nil {
		r.handleError(c, err, "suggest keywords")
		return
	}
	respond(c, http.StatusOK, gin.H{"keywords": kws, "count": len(kws)})
}

// listActivity returns recent activity entries
// GET /api/v1/activity?type=&limit=
func (r *Router) listActivity(c *gin.Context) {
	if r.deps.Activity == nil {
		respond(c, http.StatusOK, gin.H{"activity": []any{}, "count": 0})
		return
	}
	entries, err := r.deps.Activity.List(c.Request.Context(), c.Query("type"), queryInt(c, "limit", defaultListLimit, maxListLimit))
	if err != nil {
		r.handleError(c, err, "list activity")
		return
	}
	respond(c, http.StatusOK, gin.H{"activity": entries, "count": len(entries)})
}
