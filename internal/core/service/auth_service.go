package service

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/codedocs/snippets-api/internal/core/domain"
	"github.com/codedocs/snippets-api/internal/core/ports"
)

const minPasswordLength = 8

// AuthService implements registration, login, logout, and the admin
// user-management operations.
type AuthService struct {
	users     ports.UserRepository
	tokens    ports.TokenService
	presence  ports.PresenceStore
	broadcast ports.PresenceBroadcaster
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, presence ports.PresenceStore, broadcast ports.PresenceBroadcaster, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		presence:  presence,
		broadcast: broadcast,
		log:       log,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Active:       true,
		JoinedAt:     time.Now().UTC(),
	}

	return s.users.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		// An unknown username reads the same as a wrong password.
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domain.ErrAccountDisabled
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	} else {
		user.LastLogin = &now
	}

	// Presence is NOT set here: the user is only "online" once their
	// realtime connection is up. The gateway owns that transition.
	return &ports.LoginResult{User: user, Tokens: pair}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken != "" {
		if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
			// Already invalid or blacklisted means already logged out.
			s.log.Debug().Err(err).Str("user_id", userID).Msg("refresh token revoke skipped")
		}
	}

	if err := s.presence.ClearPresent(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to clear presence on logout")
	}
	if err := s.broadcast.Publish(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to broadcast presence change on logout")
	}
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.FindAll(ctx)
}

func (s *AuthService) DeleteUser(ctx context.Context, actorID, targetID string) (*domain.User, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	// Guards run before any mutation.
	if target.ID == actorID {
		return nil, domain.ErrSelfDelete
	}
	if target.Superuser {
		return nil, domain.ErrSuperuserDelete
	}

	if err := s.presence.ClearPresent(ctx, target.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", target.ID).Msg("failed to clear presence for deleted user")
	}
	if err := s.users.Delete(ctx, target.ID); err != nil {
		return nil, err
	}
	if err := s.broadcast.Publish(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to broadcast presence change after user delete")
	}
	return target, nil
}

// validatePassword applies the registration password policy: at least
// eight characters and not entirely numeric.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return domain.ErrWeakPassword
	}
	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return domain.ErrWeakPassword
	}
	return nil
}
