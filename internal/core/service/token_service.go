package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/codedocs/snippets-api/internal/core/domain"
	"github.com/codedocs/snippets-api/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type accessTokenClaims struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type refreshTokenClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService implements issuance, validation, rotation, and
// revocation of the access/refresh pair. Access tokens are stateless:
// their validity is signature + expiry only. Refresh tokens carry a
// JTI that is blacklisted on every use, so each one is good for at
// most one exchange.
type TokenService struct {
	users         ports.UserRepository
	blacklist     ports.BlacklistRepository
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	// now is swapped out in tests to control expiry.
	now func() time.Time
}

func NewTokenService(users ports.UserRepository, blacklist ports.BlacklistRepository, accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenService{
		users:         users,
		blacklist:     blacklist,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// AccessTTL reports the configured access token lifetime. The login
// and refresh responses expose it as access_token_expires_in.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL reports the configured refresh token lifetime.
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *TokenService) IssuePair(user *domain.User) (*domain.TokenPair, error) {
	now := s.now().UTC()
	accessExp := now.Add(s.accessTTL)
	refreshExp := now.Add(s.refreshTTL)

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, accessTokenClaims{
		Username:  user.Username,
		Role:      string(user.Role),
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	})
	signedAccess, err := access.SignedString(s.accessSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshTokenClaims{
		TokenType: tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExp),
		},
	})
	signedRefresh, err := refresh.SignedString(s.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &domain.TokenPair{
		Access:           signedAccess,
		AccessExpiresAt:  accessExp,
		Refresh:          signedRefresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *TokenService) ValidateAccess(token string) (*domain.AccessClaims, error) {
	claims := &accessTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFunc(s.accessSecret),
		jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.TokenType != tokenTypeAccess {
		return nil, domain.ErrInvalidToken
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	return &domain.AccessClaims{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     role,
	}, nil
}

func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.parseRefresh(refreshToken, true)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	listed, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("blacklist lookup: %w", err)
	}
	if listed {
		return nil, domain.ErrInvalidToken
	}

	// Rotation-on-use: the presented token is burned before the new
	// pair exists, so a replayed copy can never win a race.
	if err := s.blacklist.Add(ctx, claims.ID, claims.Subject, claims.ExpiresAt.Time); err != nil {
		return nil, fmt.Errorf("blacklist add: %w", err)
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	if !user.Active {
		return nil, domain.ErrAccountDisabled
	}

	return s.IssuePair(user)
}

func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	// Expired tokens are still revocable: logout must be able to burn
	// whatever the cookie holds.
	claims, err := s.parseRefresh(refreshToken, false)
	if err != nil {
		return domain.ErrInvalidToken
	}

	expiresAt := s.now().UTC().Add(s.refreshTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.blacklist.Add(ctx, claims.ID, claims.Subject, expiresAt); err != nil {
		return fmt.Errorf("blacklist add: %w", err)
	}
	return nil
}

func (s *TokenService) parseRefresh(token string, validateExpiry bool) (*refreshTokenClaims, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now)}
	if !validateExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &refreshTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFunc(s.refreshSecret), opts...)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.TokenType != tokenTypeRefresh || claims.ID == "" || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	if validateExpiry && claims.ExpiresAt == nil {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) keyFunc(secret []byte) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	}
}
