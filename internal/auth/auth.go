package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/harmonyquest/harmonyquest/internal/api"
	"github.com/harmonyquest/harmonyquest/internal/store"
)

// Session is the signed-in user as seen by the rest of the app.
type Session struct {
	UserID int
	Name   string
	Email  string
	Token  string
}

// Client is the subset of the API client the auth service needs.
type Client interface {
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*api.User, error)
	OAuthUpsert(ctx context.Context, name, email string) (*api.AuthResult, error)
}

// Service handles sign-in, sign-up, and sign-out against the backend,
// persisting the resulting session locally so later launches skip the
// login screen.
type Service struct {
	client Client
	repo   store.SessionRepo
}

// NewService creates an auth Service.
func NewService(client Client, repo store.SessionRepo) *Service {
	return &Service{client: client, repo: repo}
}

// Current returns the persisted session, or nil when signed out.
func (s *Service) Current(ctx context.Context) (*Session, error) {
	rec, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return &Session{UserID: rec.UserID, Name: rec.Name, Email: rec.Email, Token: rec.Token}, nil
}

// Login authenticates with email and password and persists the session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.saveSession(ctx, res)
}

// Register creates an account, then signs in with the same credentials
// so the caller ends up with a usable session in one step.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Session, error) {
	if _, err := s.client.Register(ctx, name, email, password); err != nil {
		return nil, err
	}
	return s.Login(ctx, email, password)
}

// LoginOAuth upserts an externally-authenticated user and persists the
// session.
func (s *Service) LoginOAuth(ctx context.Context, name, email string) (*Session, error) {
	res, err := s.client.OAuthUpsert(ctx, name, email)
	if err != nil {
		return nil, err
	}
	return s.saveSession(ctx, res)
}

// Logout clears the persisted session. Safe to call when already
// signed out.
func (s *Service) Logout(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

func (s *Service) saveSession(ctx context.Context, res *api.AuthResult) (*Session, error) {
	sess := &Session{
		UserID: res.User.ID,
		Name:   res.User.Name,
		Email:  res.User.Email,
		Token:  res.AccessToken,
	}
	rec := store.SessionRecord{
		UserID: sess.UserID,
		Name:   sess.Name,
		Email:  sess.Email,
		Token:  sess.Token,
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return sess, nil
}

// UserMessage turns an auth error into a sentence suitable for the
// login and register screens.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, api.ErrInvalidCredentials):
		return "Email or password is incorrect."
	case errors.Is(err, api.ErrEmailTaken):
		return "That email is already registered. Try signing in instead."
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return "Could not reach the server. Check your connection and try again."
}
