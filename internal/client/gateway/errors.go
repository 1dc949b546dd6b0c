package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dm0114/capacitor-push-prototype/internal/domain"
)

// APIError is a non-2xx response. It matches domain.ErrNotFound for 404 and
// domain.ErrUnauthorized for 401 under errors.Is.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *APIError) StatusCode() int { return e.Status }

func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case domain.ErrValidation:
		return e.Status == http.StatusBadRequest
	case domain.ErrConflict:
		return e.Status == http.StatusConflict
	}
	return false
}

// NetworkError wraps a transport failure where no response arrived.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsRetryable reports whether a read failing with err may succeed on retry:
// network failures, 429 and 5xx. Other 4xx responses are final.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= 500
	}
	return true
}

// Message returns the human readable part of err for display.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// errorMessage digs the message out of a problem+json, {"error": ...} or
// plain body, falling back to the status text.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && text != "null" && !strings.HasPrefix(text, "{") {
		return text
	}
	return http.StatusText(status)
}
