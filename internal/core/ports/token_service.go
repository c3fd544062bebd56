package ports

import (
	"context"

	"github.com/codedocs/snippets-api/internal/core/domain"
)

// TokenService issues, validates, rotates, and revokes the two-token
// credential pair.
type TokenService interface {
	// IssuePair mints a fresh access/refresh pair for user.
	IssuePair(user *domain.User) (*domain.TokenPair, error)

	// ValidateAccess checks signature and expiry only. It never touches
	// the blacklist, so access validation stays stateless.
	ValidateAccess(token string) (*domain.AccessClaims, error)

	// Refresh exchanges a refresh token for a new pair. The presented
	// token is blacklisted as part of the exchange, so it is accepted
	// at most once. Expired, malformed, and blacklisted tokens all fail
	// with domain.ErrInvalidToken.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)

	// Revoke blacklists the refresh token unconditionally. Revoking a
	// token that is already invalid or blacklisted is not an error.
	Revoke(ctx context.Context, refreshToken string) error
}
