package service

import (
	"context"
	"fmt"

	"github.com/codedocs/snippets-api/internal/core/domain"
	"github.com/codedocs/snippets-api/internal/core/ports"
)

// PresenceService joins the presence flags against the credential
// store so the realtime channel can push display-ready views. The
// list is always computed fresh from the store: broadcast events never
// carry it.
type PresenceService struct {
	users ports.UserRepository
	store ports.PresenceStore
}

func NewPresenceService(users ports.UserRepository, store ports.PresenceStore) *PresenceService {
	return &PresenceService{users: users, store: store}
}

func (s *PresenceService) ListOnline(ctx context.Context) ([]domain.OnlineUser, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	present, err := s.store.PresentAmong(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("presence lookup: %w", err)
	}

	online := make([]domain.OnlineUser, 0, len(present))
	for _, u := range users {
		if present[u.ID] {
			online = append(online, domain.OnlineUser{
				ID:       u.ID,
				Username: u.Username,
				Role:     u.Role,
			})
		}
	}
	return online, nil
}
