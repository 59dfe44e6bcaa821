package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for conditions the UI renders with specific messages.
// The backend signals these through the "detail" field of error bodies.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// newAPIError builds the error for a failed response, mapping known
// backend detail strings to sentinel errors.
func newAPIError(status int, body []byte) error {
	detail := extractDetail(body)

	switch {
	case strings.Contains(detail, "Invalid credentials"):
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, detail)
	case strings.Contains(detail, "Email already registered"):
		return fmt.Errorf("%w: %s", ErrEmailTaken, detail)
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", ErrInvalidCredentials, status)
	}

	return &APIError{Status: status, Detail: detail}
}

// extractDetail pulls the "detail" field from a JSON error body, falling
// back to the trimmed raw body for non-JSON responses.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return strings.TrimSpace(string(body))
}
