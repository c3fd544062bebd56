package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/codedocs/snippets-api/internal/api/middleware"
	"github.com/codedocs/snippets-api/internal/core/domain"
	"github.com/codedocs/snippets-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn   func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn      func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	logoutFn     func(ctx context.Context, userID, refreshToken string) error
	currentFn    func(ctx context.Context, userID string) (*domain.User, error)
	listFn       func(ctx context.Context) ([]domain.User, error)
	deleteUserFn func(ctx context.Context, actorID, targetID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, userID, refreshToken string) error {
	return s.logoutFn(ctx, userID, refreshToken)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.currentFn(ctx, userID)
}

func (s *stubAuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubAuthService) DeleteUser(ctx context.Context, actorID, targetID string) (*domain.User, error) {
	return s.deleteUserFn(ctx, actorID, targetID)
}

type stubTokenService struct {
	refreshFn func(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}

func (s *stubTokenService) IssuePair(user *domain.User) (*domain.TokenPair, error) {
	return testPair(), nil
}

func (s *stubTokenService) ValidateAccess(string) (*domain.AccessClaims, error) {
	return nil, domain.ErrInvalidToken
}

func (s *stubTokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubTokenService) Revoke(context.Context, string) error { return nil }

func testPair() *domain.TokenPair {
	now := time.Now()
	return &domain.TokenPair{
		Access:           "access-token-value",
		AccessExpiresAt:  now.Add(15 * time.Minute),
		Refresh:          "refresh-token-value",
		RefreshExpiresAt: now.Add(7 * 24 * time.Hour),
	}
}

func newAuthTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func cookieByName(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Username != "alice" || input.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "u1", Username: "alice", Email: input.Email, Role: domain.RoleUser, Active: true}, nil
		},
	}
	h := NewAuthHandler(stub, &stubTokenService{}, CookieConfig{})

	c, rec := newAuthTestContext(t, http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"s3cret-pass"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["detail"] != "Registration successful" {
		t.Fatalf("unexpected detail: %v", resp["detail"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" {
		t.Fatalf("unexpected user payload: %v", resp["user"])
	}
	// Registration must not hand out tokens.
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no cookies on register")
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubTokenService{}, CookieConfig{})

	c, _ := newAuthTestContext(t, http.MethodPost, "/api/auth/register", `{"username":"bob"}`)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Register_WeakPassword(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrWeakPassword
		},
	}
	h := NewAuthHandler(stub, &stubTokenService{}, CookieConfig{})

	c, _ := newAuthTestContext(t, http.MethodPost, "/api/auth/register",
		`{"username":"bob","email":"bob@example.com","password":"12345678"}`)

	if err := h.Register(c); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword passed through, got %v", err)
	}
}

func TestAuthHandler_Login_SetsCookies(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "alice" || password != "s3cret-pass" {
				t.Fatalf("unexpected credentials: %s %s", username, password)
			}
			return &ports.LoginResult{
				User:   &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser, Active: true},
				Tokens: testPair(),
			}, nil
		},
	}
	h := NewAuthHandler(stub, &stubTokenService{}, CookieConfig{})

	c, rec := newAuthTestContext(t, http.MethodPost, "/api/auth/login",
		`{"username":"alice","password":"s3cret-pass"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	access := cookieByName(t, rec, AccessTokenCookie)
	refresh := cookieByName(t, rec, RefreshTokenCookie)
	if access == nil || refresh == nil {
		t.Fatalf("expected both token cookies")
	}
	if access.Value != "access-token-value" || refresh.Value != "refresh-token-value" {
		t.Fatalf("unexpected cookie values: %q %q", access.Value, refresh.Value)
	}
	for _, cookie := range []*http.Cookie{access, refresh} {
		if !cookie.HttpOnly || cookie.Path != "/" || cookie.SameSite != http.SameSiteLaxMode {
			t.Fatalf("cookie %s missing required attributes: %+v", cookie.Name, cookie)
		}
		if cookie.Secure {
			t.Fatalf("cookie %s should not be Secure outside production", cookie.Name)
		}
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	expiresIn, ok := resp["access_token_expires_in"].(float64)
	if !ok || expiresIn <= 0 || expiresIn > 15*60 {
		t.Fatalf("unexpected access_token_expires_in: %v", resp["access_token_expires_in"])
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, &stubTokenService{}, CookieConfig{})

	c, rec := newAuthTestContext(t, http.MethodPost, "/api/auth/login",
		`{"username":"alice","password":"wrong"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials passed through, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no cookies on failed login")
	}
}

func TestAuthHandler_Refresh_NoCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubTokenService{}, CookieConfig{})

	c, _ := newAuthTestContext(t, http.MethodPost, "/api/auth/refresh", "")

	err := h.Refresh(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Refresh_RotatesBothCookies(t *testing.T) {
	rotated := testPair()
	rotated.Access = "new-access"
	rotated.Refresh = "new-refresh"

	tokens := &stubTokenService{
		refreshFn: func(_ context.Context, refreshToken string) (*domain.TokenPair, error) {
			if refreshToken != "old-refresh" {
				t.Fatalf("unexpected refresh token: %q", refreshToken)
			}
			return rotated, nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, tokens, CookieConfig{})

	c, rec := newAuthTestContext(t, http.MethodPost, "/api/auth/refresh", "")
	c.Request().AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "old-refresh"})

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// The old refresh token is blacklisted by the exchange, so the
	// response must carry the rotated one alongside the new access token.
	access := cookieByName(t, rec, AccessTokenCookie)
	refresh := cookieByName(t, rec, RefreshTokenCookie)
	if access == nil || access.Value != "new-access" {
		t.Fatalf("expected new access cookie, got %+v", access)
	}
	if refresh == nil || refresh.Value != "new-refresh" {
		t.Fatalf("expected rotated refresh cookie, got %+v", refresh)
	}
}

func TestAuthHandler_Refresh_Invalid(t *testing.T) {
	tokens := &stubTokenService{
		refreshFn: func(context.Context, string) (*domain.TokenPair, error) {
			return nil, domain.ErrInvalidToken
		},
	}
	h := NewAuthHandler(&stubAuthService{}, tokens, CookieConfig{})

	c, _ := newAuthTestContext(t, http.MethodPost, "/api/auth/refresh", "")
	c.Request().AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "burned"})

	if err := h.Refresh(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken passed through, got %v", err)
	}
}

func TestAuthHandler_Logout_ClearsCookies(t *testing.T) {
	var gotUserID, gotRefresh string
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, userID, refreshToken string) error {
			gotUserID = userID
			gotRefresh = refreshToken
			return nil
		},
	}
	h := NewAuthHandler(stub, &stubTokenService{}, CookieConfig{})

	c, rec := newAuthTestContext(t, http.MethodPost, "/api/auth/logout", "")
	c.Set(middleware.CtxUserID, "u1")
	c.Set(middleware.CtxRole, domain.RoleUser)
	c.Request().AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "refresh-token-value"})

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserID != "u1" || gotRefresh != "refresh-token-value" {
		t.Fatalf("unexpected logout args: %q %q", gotUserID, gotRefresh)
	}

	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		cookie := cookieByName(t, rec, name)
		if cookie == nil || cookie.MaxAge >= 0 {
			t.Fatalf("expected %s cookie cleared, got %+v", name, cookie)
		}
	}
}

func TestAuthHandler_DeleteUser(t *testing.T) {
	stub := &stubAuthService{
		deleteUserFn: func(_ context.Context, actorID, targetID string) (*domain.User, error) {
			if actorID != "admin-1" || targetID != "u2" {
				t.Fatalf("unexpected args: %s %s", actorID, targetID)
			}
			return &domain.User{ID: "u2", Username: "bob"}, nil
		},
	}
	h := NewAuthHandler(stub, &stubTokenService{}, CookieConfig{})

	c, rec := newAuthTestContext(t, http.MethodDelete, "/api/auth/users/u2", "")
	c.SetParamNames("id")
	c.SetParamValues("u2")
	c.Set(middleware.CtxUserID, "admin-1")
	c.Set(middleware.CtxRole, domain.RoleAdmin)

	if err := h.DeleteUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bob") {
		t.Fatalf("expected username in detail, got %s", rec.Body.String())
	}
}
