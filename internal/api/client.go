package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// DefaultBaseURL is the development backend address used when
// HQUEST_API_URL is not set.
const DefaultBaseURL = "http://localhost:8000"

const defaultTimeout = 10 * time.Second

// Client talks JSON over HTTP to the Harmony Quest backend. Auth
// endpoints take credentials; authenticated endpoints take an explicit
// bearer token — the client itself holds no credential state.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New creates a Client for the given base URL. An empty baseURL falls
// back to HQUEST_API_URL, then DefaultBaseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("HQUEST_API_URL")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: defaultTimeout},
	}
}

// User is the backend's view of an account, including gamification totals.
type User struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	XP          int    `json:"xp"`
	StreakCount int    `json:"streak_count"`
}

// LessonStatus is one entry of the authenticated per-lesson progress list.
type LessonStatus struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Completed bool   `json:"completed"`
	Progress  int    `json:"progress"`
}

// Completion is the backend's confirmation of a lesson completion.
type Completion struct {
	Correct   bool   `json:"correct"`
	XPAwarded int    `json:"xp_awarded"`
	NewStreak int    `json:"new_streak"`
	TotalXP   int    `json:"total_xp"`
	Feedback  string `json:"feedback"`
}

// AuthResult is the login/oauth response: a bearer token plus the user.
type AuthResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// Me fetches the authenticated user's account and totals.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyLessons fetches the authenticated per-lesson completion list.
func (c *Client) MyLessons(ctx context.Context, token string) ([]LessonStatus, error) {
	var out []LessonStatus
	if err := c.doJSON(ctx, http.MethodGet, "/users/me/lessons", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CompleteLesson mirrors a local lesson completion to the backend.
func (c *Client) CompleteLesson(ctx context.Context, token, slug string, xpEarned int) (*Completion, error) {
	body := map[string]int{"xpEarned": xpEarned}
	path := "/users/me/lessons/" + url.PathEscape(slug) + "/complete"
	var out Completion
	if err := c.doJSON(ctx, http.MethodPost, path, token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Lessons fetches the public lesson catalog as raw JSON. Validation and
// decoding happen at the lessons boundary, not here.
func (c *Client) Lessons(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/lessons", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LessonBySlug fetches a single lesson definition as raw JSON.
func (c *Client) LessonBySlug(ctx context.Context, slug string) (json.RawMessage, error) {
	var out json.RawMessage
	path := "/lessons/slug/" + url.PathEscape(slug)
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// loginRequest mirrors the backend's combined login/register payload.
type loginRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token and user.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := loginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/users/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account. The caller is expected to Login
// afterwards; registration itself returns no token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	var out User
	body := loginRequest{Name: name, Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/users/register", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OAuthUpsert creates or refreshes an account from an external identity
// provider and returns a session token.
func (c *Client) OAuthUpsert(ctx context.Context, name, email string) (*AuthResult, error) {
	var out AuthResult
	body := loginRequest{Name: name, Email: email}
	if err := c.doJSON(ctx, http.MethodPost, "/users/oauth_upsert", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON performs a request with retry, decoding the response into out
// when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	makeReq := func() (*http.Request, error) {
		var reader *bytes.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		} else {
			reader = bytes.NewReader(nil)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return req, nil
	}

	resp, err := doWithRetry(ctx, c.hc, makeReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
