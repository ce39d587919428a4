package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/Josecau2/njfinish-sub001/internal/auth"
	"github.com/Josecau2/njfinish-sub001/internal/shared"
)

type stubRepo struct {
	user *auth.User
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func newAuthHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(redisClient, "secret", time.Hour)
	handler := auth.NewHandler(testLogger(), auth.NewService(repo, sessions))
	return handler, sessions
}

func activeUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &auth.User{
		ID:           "u-1",
		Email:        "user@test.local",
		PasswordHash: string(hashed),
		GroupID:      "g-1",
		IsActive:     true,
	}
}

func TestLoginIssuesToken(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{user: activeUser(t, "correctpass")})

	body := `{"email":"user@test.local","password":"correctpass"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	res := httptest.NewRecorder()

	r := newTestRouter(handler)
	r.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var payload struct {
		Token   string `json:"token"`
		UserID  string `json:"user_id"`
		GroupID string `json:"group_id"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Token == "" {
		t.Fatal("expected non-empty token")
	}
	if payload.GroupID != "g-1" {
		t.Fatalf("expected group g-1, got %q", payload.GroupID)
	}

	identity, err := sessions.Resolve(context.Background(), payload.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity.UserID != "u-1" {
		t.Fatalf("expected user u-1, got %q", identity.UserID)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	handler, _ := newAuthHandler(t, &stubRepo{user: activeUser(t, "correctpass")})

	body := `{"email":"user@test.local","password":"wrongpass1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	res := httptest.NewRecorder()

	newTestRouter(handler).ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestLoginRejectsShortPassword(t *testing.T) {
	handler, _ := newAuthHandler(t, &stubRepo{})

	body := `{"email":"user@test.local","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	res := httptest.NewRecorder()

	newTestRouter(handler).ServeHTTP(res, req)

	if res.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.Code)
	}
}

func TestInactiveUserCannotLogin(t *testing.T) {
	user := activeUser(t, "correctpass")
	user.IsActive = false
	handler, _ := newAuthHandler(t, &stubRepo{user: user})

	body := `{"email":"user@test.local","password":"correctpass"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	res := httptest.NewRecorder()

	newTestRouter(handler).ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestRequireSession(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{})

	token, err := sessions.Issue(context.Background(), shared.Identity{UserID: "u-9", GroupID: "g-2"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var got shared.Identity
	protected := handler.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = shared.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/proposals", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	protected.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if got.UserID != "u-9" || got.GroupID != "g-2" {
		t.Fatalf("unexpected identity: %+v", got)
	}

	// Missing token gets 401.
	res = httptest.NewRecorder()
	protected.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/proposals", nil))
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := auth.RequireAdmin(ok)

	req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), shared.Identity{UserID: "u-1"}))
	res := httptest.NewRecorder()
	guarded.ServeHTTP(res, req)
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", res.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/catalog", nil)
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), shared.Identity{UserID: "u-1", IsAdmin: true}))
	res = httptest.NewRecorder()
	guarded.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", res.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{user: activeUser(t, "correctpass")})

	token, err := sessions.Issue(context.Background(), shared.Identity{UserID: "u-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(res, req)

	if res.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.Code)
	}
	if _, err := sessions.Resolve(context.Background(), token); err == nil {
		t.Fatal("expected token to be revoked")
	}
}
