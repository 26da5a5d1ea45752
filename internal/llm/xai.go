package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	infraerrors "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/errors"
	infrahttp "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/http"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/retry"
)

const (
	defaultXAIBaseURL = "https://api.x.ai"
	defaultXAIModel   = "grok-2-latest"
	defaultMaxTokens  = 2048
	defaultTimeout    = 90 * time.Second
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// XAIClient talks to an OpenAI-compatible chat completion endpoint.
type XAIClient struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	http      *http.Client
	retry     retry.Config
}

// NewXAIClient creates a client from cfg, filling defaults.
func NewXAIClient(cfg Config) *XAIClient {
	c := &XAIClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		retry:     retry.DefaultConfig(),
	}
	if c.baseURL == "" {
		c.baseURL = defaultXAIBaseURL
	}
	if c.model == "" {
		c.model = defaultXAIModel
	}
	if c.maxTokens <= 0 {
		c.maxTokens = defaultMaxTokens
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c.http = infrahttp.NewClient(&infrahttp.ClientConfig{Timeout: timeout})
	return c
}

// Complete implements Generator.
func (c *XAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	var out string
	err = retry.Retry(ctx, c.retry, func() error {
		text, callErr := c.do(ctx, payload)
		if callErr != nil {
			return callErr
		}
		out = text
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("xai completion: %w", err)
	}
	return out, nil
}

func (c *XAIClient) do(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", infraerrors.ParseHTTPError(resp)
	}

	var body chatResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(body.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(body.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
