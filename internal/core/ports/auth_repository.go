package ports

import (
	"context"
	"time"

	"github.com/codedocs/snippets-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindAll returns every user ordered by join date, newest first.
	FindAll(ctx context.Context) ([]domain.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// BlacklistRepository is the append-only set of revoked refresh token
// identifiers. Add is idempotent; entries are never removed.
type BlacklistRepository interface {
	Add(ctx context.Context, jti, userID string, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}
