package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/codedocs/snippets-api/internal/core/domain"
)

type stubTokenService struct {
	validateFn func(token string) (*domain.AccessClaims, error)
}

func (s *stubTokenService) IssuePair(*domain.User) (*domain.TokenPair, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTokenService) ValidateAccess(token string) (*domain.AccessClaims, error) {
	return s.validateFn(token)
}

func (s *stubTokenService) Refresh(context.Context, string) (*domain.TokenPair, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTokenService) Revoke(context.Context, string) error {
	return errors.New("not implemented")
}

func validClaims() *domain.AccessClaims {
	return &domain.AccessClaims{UserID: "u1", Username: "alice", Role: domain.RoleAdmin}
}

func runAuth(t *testing.T, tokens *stubTokenService, mutate func(*http.Request)) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := Auth(tokens, "access_token")(next)(c)
	return c, err
}

func TestAuth_MissingCredentials(t *testing.T) {
	tokens := &stubTokenService{
		validateFn: func(string) (*domain.AccessClaims, error) {
			t.Fatalf("validator should not run without a token")
			return nil, nil
		},
	}

	_, err := runAuth(t, tokens, nil)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuth_CookieToken(t *testing.T) {
	tokens := &stubTokenService{
		validateFn: func(token string) (*domain.AccessClaims, error) {
			if token != "cookie-token" {
				t.Fatalf("unexpected token: %q", token)
			}
			return validClaims(), nil
		},
	}

	c, err := runAuth(t, tokens, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
	})
	if err != nil {
		t.Fatalf("middleware error: %v", err)
	}

	if c.Get(CtxUserID) != "u1" || c.Get(CtxUsername) != "alice" {
		t.Fatalf("identity not injected: %v %v", c.Get(CtxUserID), c.Get(CtxUsername))
	}
	role, ok := c.Get(CtxRole).(domain.Role)
	if !ok || role != domain.RoleAdmin {
		t.Fatalf("expected typed role in context, got %v", c.Get(CtxRole))
	}
}

func TestAuth_BearerFallback(t *testing.T) {
	tokens := &stubTokenService{
		validateFn: func(token string) (*domain.AccessClaims, error) {
			if token != "header-token" {
				t.Fatalf("unexpected token: %q", token)
			}
			return validClaims(), nil
		},
	}

	_, err := runAuth(t, tokens, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer header-token")
	})
	if err != nil {
		t.Fatalf("middleware error: %v", err)
	}
}

func TestAuth_CookieWinsOverHeader(t *testing.T) {
	tokens := &stubTokenService{
		validateFn: func(token string) (*domain.AccessClaims, error) {
			if token != "cookie-token" {
				t.Fatalf("expected cookie token preferred, got %q", token)
			}
			return validClaims(), nil
		},
	}

	_, err := runAuth(t, tokens, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
		req.Header.Set("Authorization", "Bearer header-token")
	})
	if err != nil {
		t.Fatalf("middleware error: %v", err)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	tokens := &stubTokenService{
		validateFn: func(string) (*domain.AccessClaims, error) {
			return nil, domain.ErrInvalidToken
		},
	}

	_, err := runAuth(t, tokens, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "expired"})
	})

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuth_MalformedAuthorizationHeader(t *testing.T) {
	tokens := &stubTokenService{
		validateFn: func(string) (*domain.AccessClaims, error) {
			t.Fatalf("validator should not run for malformed header")
			return nil, nil
		},
	}

	_, err := runAuth(t, tokens, func(req *http.Request) {
		req.Header.Set("Authorization", "Token abc")
	})

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
