package account

import (
	"context"

	"github.com/baechuer/account-portal/internal/domain"
)

// ResolveSession maps a session token to its account id.
func (s *Service) ResolveSession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrSessionInvalid()
	}
	return s.sessions.Lookup(ctx, token)
}

func (s *Service) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	return s.accounts.GetByID(ctx, id)
}
