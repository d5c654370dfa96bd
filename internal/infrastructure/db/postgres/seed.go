package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/baechuer/account-portal/internal/domain"
	"github.com/baechuer/account-portal/internal/logger"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	Create(ctx context.Context, a domain.Account) (domain.Account, error)
}

// DemoAccount is the development login seeded by SeedAccounts.
var DemoAccount = struct {
	Email, Phone, FullName, Password string
}{
	Email:    "demo@example.com",
	Phone:    "0400000000",
	FullName: "Demo User",
	Password: "DemoPassword123!",
}

// SeedAccounts creates the demo account. Restart safe: duplicates are ignored.
func SeedAccounts(ctx context.Context, repo SeederRepo, hasher SeederHasher) {
	hash, err := hasher.Hash(DemoAccount.Password)
	if err != nil {
		logger.Logger.Warn().Err(err).Str("email", DemoAccount.Email).Msg("seed hash failed")
		return
	}

	_, err = repo.Create(ctx, domain.Account{
		ID:           uuid.NewString(),
		Email:        DemoAccount.Email,
		PhoneNumber:  DemoAccount.Phone,
		FullName:     DemoAccount.FullName,
		PasswordHash: hash,
	})
	if err != nil {
		if domain.KindOf(err) != domain.KindConflict {
			logger.Logger.Warn().Err(err).Msg("seed create failed")
		}
		return
	}

	logger.Logger.Info().Str("email", DemoAccount.Email).Msg("demo account seeded")
}
