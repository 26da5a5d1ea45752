package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	infraerrors "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/errors"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/jwt"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/domainsync"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/keywords"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/netlify"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/publisher"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// respond writes a success body: {"success": true, ...fields}.
func respond(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// parseUUID parses a UUID path parameter.
func parseUUID(c *gin.Context, paramName, entityType string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(paramName))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid "+entityType+" id")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the body into dst. An empty body is allowed when
// optional is set.
func bindJSON(c *gin.Context, dst any, optional bool) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		fail(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return false
	}
	return true
}

// queryInt reads a non-negative integer query parameter, capped at maxVal.
func queryInt(c *gin.Context, name string, fallback, maxVal int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n <= 0 {
		return fallback
	}
	return min(n, maxVal)
}

// userID prefers the authenticated subject over a body field.
func userID(c *gin.Context, fromBody string) string {
	if sub := jwt.UserID(c); sub != "" {
		return sub
	}
	return fromBody
}

// ownedBy reports whether a token-authenticated caller owns a row. Requests
// without a token subject are not scoped.
func ownedBy(c *gin.Context, owner string) bool {
	sub := jwt.UserID(c)
	return sub == "" || sub == owner
}

// authorizeCampaign answers 404 when the caller's token subject does not own
// campaign id. Without a subject nothing is loaded.
func (r *Router) authorizeCampaign(c *gin.Context, id uuid.UUID, operation string) bool {
	if jwt.UserID(c) == "" {
		return true
	}
	campaign, err := r.deps.Store.GetCampaign(c.Request.Context(), id)
	if err == nil && !ownedBy(c, campaign.UserID) {
		err = models.ErrNotFound
	}
	if err != nil {
		r.handleError(c, err, operation)
		return false
	}
	return true
}

// authorizePost is authorizeCampaign for automation posts.
func (r *Router) authorizePost(c *gin.Context, id uuid.UUID, operation string) bool {
	if jwt.UserID(c) == "" {
		return true
	}
	post, err := r.deps.Store.GetPost(c.Request.Context(), id)
	if err == nil && !ownedBy(c, post.UserID) {
		err = models.ErrNotFound
	}
	if err != nil {
		r.handleError(c, err, operation)
		return false
	}
	return true
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	var invalid *models.InvalidDomainsError
	switch {
	case errors.As(err, &invalid),
		errors.Is(err, models.ErrInvalidDomain),
		errors.Is(err, models.ErrNoFieldsToUpdate),
		errors.Is(err, models.ErrNoKeywords):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrNoEligibleDomain):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyExists),
		errors.Is(err, models.ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, models.ErrDomainNotEligible),
		errors.Is(err, netlify.ErrDomainOwnedElsewhere):
		return http.StatusUnprocessableEntity
	case errors.Is(err, netlify.ErrNotConfigured),
		errors.Is(err, publisher.ErrSyndicationDisabled),
		errors.Is(err, keywords.ErrNoGenerator),
		errors.Is(err, domainsync.ErrLockTimeout):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	if _, ok := infraerrors.StatusCode(err); ok {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// handleError writes the mapped status. Internal errors are logged and
// replaced with a generic message.
func (r *Router) handleError(c *gin.Context, err error, operation string) {
	status := statusFor(err)
	if status < http.StatusInternalServerError {
		fail(c, status, err.Error())
		return
	}
	r.log.Error("Request failed",
		logger.String("operation", operation),
		logger.String("path", c.FullPath()),
		logger.Int("status", status),
		logger.Error(err),
	)
	msg := "failed to " + operation
	if status != http.StatusInternalServerError {
		msg += ": " + err.Error()
	}
	fail(c, status, msg)
}
