package ports

import (
	"context"

	"github.com/codedocs/snippets-api/internal/core/domain"
)

// RegisterInput carries a registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User   *domain.User
	Tokens *domain.TokenPair
}

// AuthService implements the account-facing use cases of the auth API.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Logout best-effort revokes the refresh token, clears the user's
	// presence flag, and broadcasts the change. It never fails the
	// request over an already-invalid token.
	Logout(ctx context.Context, userID, refreshToken string) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	// DeleteUser removes target on behalf of actor. Self-deletion and
	// superuser targets are rejected before any mutation.
	DeleteUser(ctx context.Context, actorID, targetID string) (*domain.User, error)
}
