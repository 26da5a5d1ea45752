// Package netlify manages the custom domains of one hosting site through the
// Netlify REST API.
package netlify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	infraerrors "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/errors"
	infrahttp "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/http"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/retry"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/metrics"
	"golang.org/x/time/rate"
)

// DefaultAPIURL is the public API root.
const DefaultAPIURL = "https://api.netlify.com/api/v1"

var (
	// ErrNotConfigured is returned when the site id or token is missing.
	ErrNotConfigured = errors.New("netlify site id or access token missing")
	// ErrDomainOwnedElsewhere means another Netlify account already holds
	// the hostname. Retrying or falling back to an alias will not help.
	ErrDomainOwnedElsewhere = errors.New("domain is owned by another Netlify account")
)

var ownedElsewhere = regexp.MustCompile(`(?i)owned by another account`)

// Config configures the client.
type Config struct {
	APIURL            string        `env:"NETLIFY_API_URL"      yaml:"api_url"`
	SiteID            string        `env:"NETLIFY_SITE_ID"      yaml:"site_id"`
	Token             string        `env:"NETLIFY_ACCESS_TOKEN" yaml:"access_token"`
	RequestsPerSecond float64       `env:"NETLIFY_RPS"          yaml:"requests_per_second"`
	Burst             int           `env:"NETLIFY_BURST"        yaml:"burst"`
	Timeout           time.Duration `env:"NETLIFY_TIMEOUT"      yaml:"timeout"`
}

// Configured reports whether requests can be made.
func (c Config) Configured() bool {
	return c.SiteID != "" && c.Token != ""
}

// Site is the subset of the site resource used here.
type Site struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	URL           string   `json:"url"`
	SSLURL        string   `json:"ssl_url"`
	CustomDomain  string   `json:"custom_domain"`
	DomainAliases []string `json:"domain_aliases"`
}

// PublicURL prefers the TLS URL.
func (s *Site) PublicURL() string {
	if s.SSLURL != "" {
		return s.SSLURL
	}
	return s.URL
}

// Client is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	retry   retry.Config
	metrics *metrics.Metrics
}

// NewClient creates a client. m may be nil.
func NewClient(cfg Config, m *metrics.Metrics) *Client {
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:     cfg,
		http:    infrahttp.NewClient(&infrahttp.ClientConfig{Timeout: cfg.Timeout}),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		retry:   retry.DefaultConfig(),
		metrics: m,
	}
}

// SiteID returns the managed site id.
func (c *Client) SiteID() string { return c.cfg.SiteID }

// GetSite fetches the site configuration.
func (c *Client) GetSite(ctx context.Context) (*Site, error) {
	return c.siteRequest(ctx, "get_site", http.MethodGet, nil)
}

// PatchAliases replaces the alias list with aliases.
func (c *Client) PatchAliases(ctx context.Context, aliases []string) (*Site, error) {
	if aliases == nil {
		aliases = []string{}
	}
	return c.siteRequest(ctx, "patch_aliases", http.MethodPatch, map[string]any{"domain_aliases": aliases})
}

// SetCustomDomain makes host the site's primary domain.
func (c *Client) SetCustomDomain(ctx context.Context, host string) (*Site, error) {
	return c.siteRequest(ctx, "set_custom_domain", http.MethodPatch, map[string]any{"custom_domain": host})
}

func (c *Client) siteRequest(ctx context.Context, op, method string, body any) (*Site, error) {
	if !c.cfg.Configured() {
		return nil, ErrNotConfigured
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("marshal %s body: %w", op, err)
		}
	}

	start := time.Now()
	var site *Site
	err := retry.Retry(ctx, c.retry, func() error {
		s, callErr := c.do(ctx, method, "/sites/"+c.cfg.SiteID, payload)
		site = s
		return callErr
	})
	c.metrics.ObserveVendor("netlify", op, start, err)
	if err != nil {
		if isOwnedElsewhere(err) {
			return nil, fmt.Errorf("%w: %w", ErrDomainOwnedElsewhere, err)
		}
		return nil, fmt.Errorf("netlify %s: %w", op, err)
	}
	return site, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (*Site, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, infraerrors.ParseHTTPError(resp)
	}

	var site Site
	if err = json.NewDecoder(resp.Body).Decode(&site); err != nil {
		return nil, fmt.Errorf("decode site: %w", err)
	}
	return &site, nil
}

func isOwnedElsewhere(err error) bool {
	var httpErr *infraerrors.HTTPError
	if errors.As(err, &httpErr) {
		return ownedElsewhere.MatchString(httpErr.Body) || ownedElsewhere.MatchString(httpErr.Message)
	}
	return ownedElsewhere.MatchString(err.Error())
}
