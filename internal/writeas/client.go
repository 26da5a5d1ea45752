// Package writeas publishes Markdown posts to Write.as.
package writeas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	infraerrors "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/errors"
	infrahttp "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/http"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/retry"
)

const (
	// DefaultAPIURL is the public Write.as API.
	DefaultAPIURL = "https://write.as"
	// PublicBaseURL prefixes post ids in returned URLs.
	PublicBaseURL = "https://write.as"
)

// Config configures the client. Token is optional; anonymous posts are
// accepted by the API.
type Config struct {
	APIURL  string        `env:"WRITEAS_API_URL" yaml:"api_url"`
	Token   string        `env:"WRITEAS_TOKEN"   yaml:"token"`
	Timeout time.Duration `env:"WRITEAS_TIMEOUT" yaml:"timeout"`
}

// Post is a published Write.as post.
type Post struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Token string `json:"token"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type publishRequest struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body"`
}

type publishResponse struct {
	Code int  `json:"code"`
	Data Post `json:"data"`
}

// Client is safe for concurrent use.
type Client struct {
	apiURL string
	token  string
	http   *http.Client
	retry  retry.Config
}

// NewClient creates a client, filling defaults.
func NewClient(cfg Config) *Client {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiURL: apiURL,
		token:  cfg.Token,
		http:   infrahttp.NewClient(&infrahttp.ClientConfig{Timeout: timeout}),
		retry:  retry.DefaultConfig(),
	}
}

// Publish creates a post and returns it with its public URL.
func (c *Client) Publish(ctx context.Context, title, markdown string) (*Post, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, errors.New("writeas: body is required")
	}
	payload, err := json.Marshal(publishRequest{Title: title, Body: markdown})
	if err != nil {
		return nil, fmt.Errorf("marshal post: %w", err)
	}

	cfg := c.retry
	cfg.IsRetryable = rejectedBeforeStore

	var post *Post
	err = retry.Retry(ctx, cfg, func() error {
		p, callErr := c.publish(ctx, payload)
		post = p
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("writeas publish: %w", err)
	}
	return post, nil
}

// rejectedBeforeStore reports responses that guarantee no post was created.
// Creating a post is not idempotent, so timeouts and other 5xx are final.
func rejectedBeforeStore(err error) bool {
	status, ok := infraerrors.StatusCode(err)
	return ok && (status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable)
}

func (c *Client) publish(ctx context.Context, payload []byte) (*Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/api/posts", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, infraerrors.ParseHTTPError(resp)
	}

	var body publishResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode post response: %w", err)
	}
	if body.Code != http.StatusCreated || body.Data.ID == "" {
		return nil, fmt.Errorf("unexpected response code %d", body.Code)
	}
	post := body.Data
	post.URL = PublicBaseURL + "/" + post.ID
	return &post, nil
}
