package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/jwt"
	inframetrics "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/metrics"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/api"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/config"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/domainsync"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/netlify"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/writeas"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeDomains struct {
	addErr    error
	lastUser  string
	lastInput []string
}

func (f *fakeDomains) List(context.Context) (*domainsync.ListResult, error) {
	return &domainsync.ListResult{SiteID: "site-1", CustomDomain: "main.com", Aliases: []string{"a.com"}}, nil
}

func (f *fakeDomains) Add(_ context.Context, raw, userID string) (*domainsync.AddResult, error) {
	f.lastUser = userID
	f.lastInput = []string{raw}
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &domainsync.AddResult{Mode: domainsync.ModeAlias, Aliases: []string{"a.com", "example.com"}}, nil
}

func (f *fakeDomains) AddBulk(_ context.Context, raws []string, userID string) (*domainsync.BulkResult, error) {
	f.lastUser = userID
	f.lastInput = raws
	return &domainsync.BulkResult{Attached: raws, Added: raws, Aliases: raws}, nil
}

func (f *fakeDomains) Sync(_ context.Context, raws []string, _ string) (*domainsync.SyncResult, error) {
	f.lastInput = raws
	return &domainsync.SyncResult{Aliases: []string{"example.com"}, Added: []string{"example.com"}, Patched: true}, nil
}

func (f *fakeDomains) SyncFromDB(context.Context) (*domainsync.DBSyncResult, error) {
	return &domainsync.DBSyncResult{Total: 2, Skipped: []string{"bad"}}, nil
}

func (f *fakeDomains) Remove(_ context.Context, raw string) (*domainsync.RemoveResult, error) {
	return &domainsync.RemoveResult{Domain: raw, RemovedAlias: true, DeletedRow: true, Aliases: []string{}}, nil
}

type fakePublisher struct {
	result *models.PublishResult
	err    error
	last   models.PublishRequest
}

func (f *fakePublisher) Publish(_ context.Context, req models.PublishRequest) (*models.PublishResult, error) {
	f.last = req
	return f.result, f.err
}

func (f *fakePublisher) Syndicate(context.Context, uuid.UUID) (*writeas.Post, error) {
	return nil, errors.New("writeas publish: connection refused")
}

type fakeStore struct {
	api.Store
	campaigns []models.Campaign
	created   *models.CampaignCreateRequest
	claimUser string
	claimErr  error
	posts     map[uuid.UUID]*models.Post
	deleted   []uuid.UUID
}

func (f *fakeStore) GetPost(_ context.Context, id uuid.UUID) (*models.Post, error) {
	if p, ok := f.posts[id]; ok {
		return p, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeStore) ListCampaigns(context.Context, models.CampaignFilter) ([]models.Campaign, error) {
	return f.campaigns, nil
}

func (f *fakeStore) CreateCampaign(_ context.Context, req *models.CampaignCreateRequest) (*models.Campaign, error) {
	f.created = req
	return &models.Campaign{ID: uuid.New(), UserID: req.UserID, Name: req.Name, Keywords: req.Keywords}, nil
}

func (f *fakeStore) GetCampaign(_ context.Context, id uuid.UUID) (*models.Campaign, error) {
	for i := range f.campaigns {
		if f.campaigns[i].ID == id {
			return &f.campaigns[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeStore) UpdateCampaign(_ context.Context, id uuid.UUID, _ *models.CampaignUpdateRequest) (*models.Campaign, error) {
	return f.GetCampaign(context.Background(), id)
}

func (f *fakeStore) DeleteCampaign(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) ListPostsByCampaign(context.Context, uuid.UUID) ([]models.Post, error) {
	return []models.Post{}, nil
}

func (f *fakeStore) ClaimBlogPost(_ context.Context, id uuid.UUID, userID string) (*models.BlogPost, error) {
	f.claimUser = userID
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	return &models.BlogPost{ID: id, UserID: &userID}, nil
}

type fakeActivity struct {
	recorded []string
}

func (f *fakeActivity) Record(_ context.Context, activityType, _ string, _ map[string]any) {
	f.recorded = append(f.recorded, activityType)
}

func (f *fakeActivity) List(context.Context, string, int) ([]models.ActivityLog, error) {
	return []models.ActivityLog{{Type: models.ActivityPostPublished}}, nil
}

type harness struct {
	domains   *fakeDomains
	publisher *fakePublisher
	store     *fakeStore
	activity  *fakeActivity
	handler   http.Handler
}

func newHarness(t *testing.T, secret string) *harness {
	t.Helper()

	h := &harness{
		domains:   &fakeDomains{},
		publisher: &fakePublisher{},
		store:     &fakeStore{},
		activity:  &fakeActivity{},
	}
	reg := prometheus.NewRegistry()
	router := api.NewRouter(api.Deps{
		Domains:   h.domains,
		Publisher: h.publisher,
		Store:     h.store,
		Activity:  h.activity,
		Metrics:   inframetrics.NewHTTPMetrics("backlink", reg, reg),
		DBPing:    func(context.Context) error { return nil },
	}, config.ServiceConfig{Name: "backlink-automation", Version: "test", Port: 8095, JWTSecret: secret})
	h.handler = router.NewServer().Router()
	return h
}

func (h *harness) do(t *testing.T, method, path, body, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func TestDomains(t *testing.T) {
	h := newHarness(t, "")

	code, body := h.do(t, http.MethodGet, "/api/v1/domains", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "site-1", body["site_id"])
	assert.InDelta(t, 1, body["count"], 0)

	code, body = h.do(t, http.MethodPost, "/api/v1/domains", `{"domain":"Example.com/","user_id":"u-1"}`, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alias", body["mode"])
	assert.Equal(t, "u-1", h.domains.lastUser)
	assert.Equal(t, []string{"Example.com/"}, h.domains.lastInput)

	code, _ = h.do(t, http.MethodPost, "/api/v1/domains/sync", `{"domain":"a.com","domains":["b.com"]}`, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"a.com", "b.com"}, h.domains.lastInput)

	code, body = h.do(t, http.MethodPost, "/api/v1/domains/sync-from-db", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 2, body["total"], 0)

	code, body = h.do(t, http.MethodDelete, "/api/v1/domains/example.com", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "example.com", body["domain"])
}

func TestDomains_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", &models.InvalidDomainsError{Inputs: []string{"ex"}}, http.StatusBadRequest},
		{"owned elsewhere", netlify.ErrDomainOwnedElsewhere, http.StatusUnprocessableEntity},
		{"not configured", netlify.ErrNotConfigured, http.StatusServiceUnavailable},
		{"lock timeout", domainsync.ErrLockTimeout, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "")
			h.domains.addErr = tt.err

			code, body := h.do(t, http.MethodPost, "/api/v1/domains", `{"domain":"example.com"}`, "")
			assert.Equal(t, tt.want, code)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}

	h := newHarness(t, "")
	code, _ := h.do(t, http.MethodPost, "/api/v1/domains", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPublish(t *testing.T) {
	h := newHarness(t, "")
	id := uuid.New()

	h.publisher.result = &models.PublishResult{PublishedURL: "https://blog.com/minimal/hi/"}
	code, body := h.do(t, http.MethodPost, "/api/v1/campaigns/"+id.String()+"/publish", "", "")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "https://blog.com/minimal/hi/", body["published_url"])
	assert.Equal(t, id, h.publisher.last.CampaignID)

	h.publisher.result = &models.PublishResult{AlreadyPublished: true}
	code, body = h.do(t, http.MethodPost, "/api/v1/campaigns/"+id.String()+"/publish", `{"title":"Hi"}`, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["already_published"])
	assert.Equal(t, "Hi", h.publisher.last.Title)

	h.publisher.err = models.ErrNoEligibleDomain
	code, _ = h.do(t, http.MethodPost, "/api/v1/campaigns/"+id.String()+"/publish", "", "")
	assert.Equal(t, http.StatusNotFound, code)

	h.publisher.err = models.ErrDomainNotEligible
	code, _ = h.do(t, http.MethodPost, "/api/v1/campaigns/"+id.String()+"/publish", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = h.do(t, http.MethodPost, "/api/v1/campaigns/not-a-uuid/publish", "", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCampaigns(t *testing.T) {
	h := newHarness(t, "")
	h.store.campaigns = []models.Campaign{{Name: "one"}}

	code, body := h.do(t, http.MethodGet, "/api/v1/campaigns?limit=5", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 1, body["count"], 0)

	payload := `{"user_id":"u-1","name":"Spring","keywords":[" seo tools ",""],"target_url":"https://target.example"}`
	code, _ = h.do(t, http.MethodPost, "/api/v1/campaigns", payload, "")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, []string{"seo tools"}, h.store.created.Keywords)
	assert.Equal(t, models.CampaignStatusPending, h.store.created.Status)

	code, _ = h.do(t, http.MethodPost, "/api/v1/campaigns", `{"name":"x","keywords":["a"],"target_url":"https://t.example"}`, "")
	assert.Equal(t, http.StatusBadRequest, code, "missing user")

	code, body = h.do(t, http.MethodPost, "/api/v1/campaigns", `{"user_id":"u","name":"x","keywords":["  "],"target_url":"https://t.example"}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, models.ErrNoKeywords.Error(), body["error"])

	code, _ = h.do(t, http.MethodGet, "/api/v1/campaigns/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCampaignsByID_ScopedToTokenSubject(t *testing.T) {
	h := newHarness(t, testSecret)
	mine, theirs := uuid.New(), uuid.New()
	h.store.campaigns = []models.Campaign{{ID: mine, UserID: "user-42"}, {ID: theirs, UserID: "user-7"}}
	postID := uuid.New()
	h.store.posts = map[uuid.UUID]*models.Post{postID: {ID: postID, UserID: "user-7", Slug: "minimal/x"}}
	h.publisher.result = &models.PublishResult{}

	token, err := jwt.NewToken(testSecret, "user-42", time.Hour)
	require.NoError(t, err)

	requests := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/api/v1/campaigns/%s", ""},
		{http.MethodPut, "/api/v1/campaigns/%s", `{"name":"renamed"}`},
		{http.MethodGet, "/api/v1/campaigns/%s/posts", ""},
		{http.MethodPost, "/api/v1/campaigns/%s/publish", ""},
		{http.MethodDelete, "/api/v1/campaigns/%s", ""},
	}
	for _, req := range requests {
		code, body := h.do(t, req.method, fmt.Sprintf(req.path, theirs), req.body, token)
		assert.Equal(t, http.StatusNotFound, code, "%s %s", req.method, req.path)
		assert.Equal(t, false, body["success"])

		code, _ = h.do(t, req.method, fmt.Sprintf(req.path, mine), req.body, token)
		assert.Less(t, code, http.StatusBadRequest, "%s %s", req.method, req.path)
	}
	assert.Equal(t, []uuid.UUID{mine}, h.store.deleted)

	code, _ := h.do(t, http.MethodPost, "/api/v1/posts/"+postID.String()+"/syndicate", "", token)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = h.do(t, http.MethodGet, "/api/v1/posts/"+postID.String()+"/html", "", token)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSyndicate_UpstreamFailureIs500(t *testing.T) {
	h := newHarness(t, "")

	code, body := h.do(t, http.MethodPost, "/api/v1/posts/"+uuid.NewString()+"/syndicate", "", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "failed to syndicate post", body["error"])
}

func TestRenderPost(t *testing.T) {
	h := newHarness(t, "")
	id := uuid.New()
	h.store.posts = map[uuid.UUID]*models.Post{id: {
		ID:      id,
		Slug:    "elegant/link-building-tips",
		Title:   "Link Building Tips",
		Content: "<p>Read <a href=\"https://target.example\">this</a>.</p>",
		URL:     "https://blog.example/elegant/link-building-tips/",
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts/"+id.String()+"/html", http.NoBody)
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	page := w.Body.String()
	assert.Contains(t, page, "<title>Link Building Tips</title>")
	assert.Contains(t, page, `class="theme-elegant"`)
	assert.Contains(t, page, `<link rel="canonical" href="https://blog.example/elegant/link-building-tips/">`)
	assert.Contains(t, page, `<a href="https://target.example">this</a>`)

	code, body := h.do(t, http.MethodGet, "/api/v1/posts/"+uuid.NewString()+"/html", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
}

func TestClaim_UsesTokenSubject(t *testing.T) {
	h := newHarness(t, testSecret)
	id := uuid.NewString()

	code, _ := h.do(t, http.MethodPost, "/api/v1/blog-posts/"+id+"/claim", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	token, err := jwt.NewToken(testSecret, "user-42", time.Hour)
	require.NoError(t, err)

	code, body := h.do(t, http.MethodPost, "/api/v1/blog-posts/"+id+"/claim", `{"user_id":"spoofed"}`, token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "user-42", h.store.claimUser)
	assert.Equal(t, []string{models.ActivityBlogPostClaimed}, h.activity.recorded)

	h.store.claimErr = models.ErrAlreadyClaimed
	code, _ = h.do(t, http.MethodPost, "/api/v1/blog-posts/"+id+"/claim", "", token)
	assert.Equal(t, http.StatusConflict, code)
}

func TestClaim_RequiresUser(t *testing.T) {
	h := newHarness(t, "")

	code, _ := h.do(t, http.MethodPost, "/api/v1/blog-posts/"+uuid.NewString()+"/claim", "", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestKeywordsAndActivity(t *testing.T) {
	h := newHarness(t, "")

	code, body := h.do(t, http.MethodPost, "/api/v1/keywords/parse", `{"input":"1. seo tools\n2. link building\n3. SEO tools"}`, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"seo tools", "link building"}, body["keywords"])

	code, _ = h.do(t, http.MethodPost, "/api/v1/keywords/suggest", `{"seed":"seo"}`, "")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	code, body = h.do(t, http.MethodGet, "/api/v1/activity?limit=10", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 1, body["count"], 0)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t, testSecret)

	code, body := h.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "backlink_http_requests_total")
}
