package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/harmonyquest/harmonyquest/internal/api"
	"github.com/harmonyquest/harmonyquest/internal/store"
)

type fakeClient struct {
	loginRes    *api.AuthResult
	loginErr    error
	loginCalls  int
	registerErr error
	oauthRes    *api.AuthResult
	oauthErr    error
}

func (f *fakeClient) Login(_ context.Context, _, _ string) (*api.AuthResult, error) {
	f.loginCalls++
	return f.loginRes, f.loginErr
}

func (f *fakeClient) Register(_ context.Context, _, _, _ string) (*api.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &api.User{ID: 1, Name: "Asha", Email: "asha@example.com"}, nil
}

func (f *fakeClient) OAuthUpsert(_ context.Context, _, _ string) (*api.AuthResult, error) {
	return f.oauthRes, f.oauthErr
}

type memSessionRepo struct {
	rec *store.SessionRecord
}

func (m *memSessionRepo) Save(_ context.Context, rec store.SessionRecord) error {
	m.rec = &rec
	return nil
}

func (m *memSessionRepo) Load(_ context.Context) (*store.SessionRecord, error) {
	return m.rec, nil
}

func (m *memSessionRepo) Clear(_ context.Context) error {
	m.rec = nil
	return nil
}

func authResult() *api.AuthResult {
	return &api.AuthResult{
		AccessToken: "tok-123",
		TokenType:   "bearer",
		User:        api.User{ID: 7, Name: "Asha", Email: "asha@example.com"},
	}
}

func TestLogin_PersistsSession(t *testing.T) {
	client := &fakeClient{loginRes: authResult()}
	repo := &memSessionRepo{}
	svc := NewService(client, repo)

	sess, err := svc.Login(context.Background(), "asha@example.com", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if sess.UserID != 7 || sess.Token != "tok-123" {
		t.Errorf("session = %+v, want UserID 7 and token tok-123", sess)
	}
	if repo.rec == nil || repo.rec.Token != "tok-123" {
		t.Errorf("persisted session = %+v, want token tok-123", repo.rec)
	}
}

func TestLogin_ErrorDoesNotPersist(t *testing.T) {
	client := &fakeClient{loginErr: api.ErrInvalidCredentials}
	repo := &memSessionRepo{}
	svc := NewService(client, repo)

	_, err := svc.Login(context.Background(), "asha@example.com", "wrong")
	if !errors.Is(err, api.ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if repo.rec != nil {
		t.Error("session persisted despite login failure")
	}
}

func TestRegister_AutoLogsIn(t *testing.T) {
	client := &fakeClient{loginRes: authResult()}
	repo := &memSessionRepo{}
	svc := NewService(client, repo)

	sess, err := svc.Register(context.Background(), "Asha", "asha@example.com", "secret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if client.loginCalls != 1 {
		t.Errorf("login calls = %d, want 1 (auto sign-in after register)", client.loginCalls)
	}
	if sess.Token != "tok-123" {
		t.Errorf("token = %q, want tok-123", sess.Token)
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	client := &fakeClient{registerErr: api.ErrEmailTaken}
	svc := NewService(client, &memSessionRepo{})

	_, err := svc.Register(context.Background(), "Asha", "asha@example.com", "secret")
	if !errors.Is(err, api.ErrEmailTaken) {
		t.Fatalf("Register() error = %v, want ErrEmailTaken", err)
	}
	if client.loginCalls != 0 {
		t.Errorf("login calls = %d, want 0 after failed register", client.loginCalls)
	}
}

func TestLoginOAuth_PersistsSession(t *testing.T) {
	client := &fakeClient{oauthRes: authResult()}
	repo := &memSessionRepo{}
	svc := NewService(client, repo)

	sess, err := svc.LoginOAuth(context.Background(), "Asha", "asha@example.com")
	if err != nil {
		t.Fatalf("LoginOAuth() error = %v", err)
	}
	if sess.UserID != 7 || sess.Token != "tok-123" {
		t.Errorf("session = %+v, want UserID 7 and token tok-123", sess)
	}
	if repo.rec == nil || repo.rec.Token != "tok-123" {
		t.Errorf("persisted session = %+v, want token tok-123", repo.rec)
	}
}

func TestLoginOAuth_ErrorDoesNotPersist(t *testing.T) {
	client := &fakeClient{oauthErr: errors.New("upstream identity provider down")}
	repo := &memSessionRepo{}
	svc := NewService(client, repo)

	if _, err := svc.LoginOAuth(context.Background(), "Asha", "asha@example.com"); err == nil {
		t.Fatal("LoginOAuth() succeeded despite upsert failure")
	}
	if repo.rec != nil {
		t.Error("session persisted despite OAuth failure")
	}
}

func TestLogout(t *testing.T) {
	repo := &memSessionRepo{rec: &store.SessionRecord{UserID: 7, Token: "tok"}}
	svc := NewService(&fakeClient{}, repo)

	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if repo.rec != nil {
		t.Error("session not cleared")
	}

	// Idempotent.
	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("second Logout() error = %v", err)
	}
}

func TestCurrent(t *testing.T) {
	repo := &memSessionRepo{}
	svc := NewService(&fakeClient{}, repo)
	ctx := context.Background()

	sess, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if sess != nil {
		t.Errorf("Current() = %+v, want nil when signed out", sess)
	}

	repo.rec = &store.SessionRecord{UserID: 7, Name: "Asha", Email: "asha@example.com", Token: "tok"}
	sess, err = svc.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if sess == nil || sess.UserID != 7 {
		t.Errorf("Current() = %+v, want UserID 7", sess)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"invalid credentials", api.ErrInvalidCredentials, "Email or password is incorrect."},
		{"email taken", api.ErrEmailTaken, "That email is already registered. Try signing in instead."},
		{"api detail", &api.APIError{Status: 422, Detail: "Password too short"}, "Password too short"},
		{"network", errors.New("dial tcp: connection refused"), "Could not reach the server. Check your connection and try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
