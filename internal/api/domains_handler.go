package api

import (
	"net/http"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/gin-gonic/gin"
)

// listDomains returns the site's primary domain and aliases
// GET /api/v1/domains
func (r *Router) listDomains(c *gin.Context) {
	result, err := r.deps.Domains.List(c.Request.Context())
	if err != nil {
		r.handleError(c, err, "list domains")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"site_id":       result.SiteID,
		"custom_domain": result.CustomDomain,
		"aliases":       result.Aliases,
		"count":         len(result.Aliases),
	})
}

// addDomain attaches one domain as primary or alias
// POST /api/v1/domains
func (r *Router) addDomain(c *gin.Context) {
	var req models.DomainRequest
	if !bindJSON(c, &req, false) {
		return
	}

	result, err := r.deps.Domains.Add(c.Request.Context(), req.Domain, userID(c, req.UserID))
	if err != nil {
		r.handleError(c, err, "add domain")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"domain":   result.Domain,
		"mode":     result.Mode,
		"aliases":  result.Aliases,
		"site_url": result.SiteURL,
	})
}

// addDomainsBulk attaches many domains with one alias update
// POST /api/v1/domains/bulk
func (r *Router) addDomainsBulk(c *gin.Context) {
	var req models.DomainsRequest
	if !bindJSON(c, &req, false) {
		return
	}

	result, err := r.deps.Domains.AddBulk(c.Request.Context(), req.All(), userID(c, req.UserID))
	if err != nil {
		r.handleError(c, err, "add domains")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"attached": result.Attached,
		"added":    result.Added,
		"invalid":  result.Invalid,
		"aliases":  result.Aliases,
	})
}

// syncDomains merges the given domains into the alias list
// POST /api/v1/domains/sync
func (r *Router) syncDomains(c *gin.Context) {
	var req models.DomainsRequest
	if !bindJSON(c, &req, false) {
		return
	}

	result, err := r.deps.Domains.Sync(c.Request.Context(), req.All(), userID(c, req.UserID))
	if err != nil {
		r.handleError(c, err, "sync domains")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"aliases":  result.Aliases,
		"added":    result.Added,
		"patched":  result.Patched,
		"site_url": result.SiteURL,
	})
}

// syncDomainsFromDB pushes every stored domain to the hosting site
// POST /api/v1/domains/sync-from-db
func (r *Router) syncDomainsFromDB(c *gin.Context) {
	result, err := r.deps.Domains.SyncFromDB(c.Request.Context())
	if err != nil {
		r.handleError(c, err, "sync domains from database")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"total":   result.Total,
		"added":   result.Added,
		"skipped": result.Skipped,
		"patched": result.Patched,
		"aliases": result.Aliases,
	})
}

// removeDomain detaches an alias and deletes its row
// DELETE /api/v1/domains/:domain
func (r *Router) removeDomain(c *gin.Context) {
	result, err := r.deps.Domains.Remove(c.Request.Context(), c.Param("domain"))
	if err != nil {
		r.handleError(c, err, "remove domain")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"domain":        result.Domain,
		"removed_alias": result.RemovedAlias,
		"deleted_row":   result.DeletedRow,
		"aliases":       result.Aliases,
	})
}
