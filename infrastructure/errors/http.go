// Package errors turns non-2xx vendor responses into typed errors.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MinErrorStatusCode is the lowest status treated as a failure.
const MinErrorStatusCode = 400

// maxBodyBytes bounds how much of an error body is kept.
const maxBodyBytes = 64 << 10

// HTTPError is a failed response from an upstream API.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error (%d %s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Status)
}

// Temporary reports whether the failure is worth retrying (429 or 5xx).
func (e *HTTPError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// ParseHTTPError reads resp.Body and returns an *HTTPError for status >= 400,
// or nil otherwise. The caller still owns closing the body.
func ParseHTTPError(resp *http.Response) error {
	if resp.StatusCode < MinErrorStatusCode {
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    fmt.Sprintf("read error body: %v", err),
		}
	}

	body := string(raw)
	msg := extractMessage(raw)
	if msg == "" {
		msg = strings.TrimSpace(body)
	}
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       body,
		Message:    msg,
	}
}

// extractMessage understands the shapes returned by the hosting, LLM and
// blogging APIs: {"error": "..."}, {"error": {"message": "..."}},
// {"message": "..."}, {"errors": [{"title","detail"}]} and {"error_msg": "..."}.
func extractMessage(raw []byte) string {
	var body struct {
		Error    json.RawMessage `json:"error"`
		Message  string          `json:"message"`
		ErrorMsg string          `json:"error_msg"`
		Errors   []struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}

	if len(body.Error) > 0 {
		var s string
		if json.Unmarshal(body.Error, &s) == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}
	if body.Message != "" {
		return body.Message
	}
	if body.ErrorMsg != "" {
		return body.ErrorMsg
	}
	if len(body.Errors) > 0 {
		parts := make([]string, 0, len(body.Errors))
		for _, e := range body.Errors {
			if e.Detail != "" {
				parts = append(parts, e.Title+": "+e.Detail)
			} else {
				parts = append(parts, e.Title)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

// StatusCode returns the status of the first *HTTPError in err's chain.
func StatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if stderrors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}

// IsTemporary reports whether err wraps a retryable *HTTPError.
func IsTemporary(err error) bool {
	var httpErr *HTTPError
	return stderrors.As(err, &httpErr) && httpErr.Temporary()
}
