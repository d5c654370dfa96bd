package account

import (
	"context"
	"strings"

	"github.com/baechuer/account-portal/internal/domain"
	"github.com/baechuer/account-portal/internal/logger"
	"github.com/baechuer/account-portal/internal/tracing"
)

type LoginResult struct {
	Account      domain.Account
	SessionToken string
}

// Login authenticates by email and password and opens a session.
// Unknown email, wrong password and empty input all return
// invalid_credentials so callers cannot tell which one failed.
func (s *Service) Login(ctx context.Context, form LoginForm) (LoginResult, error) {
	ctx, span := tracing.StartSpan(ctx, "account.Login")
	defer span.End()

	email := strings.TrimSpace(form.Username)
	if email == "" || form.Password == "" {
		s.audit.LoginFailed(ctx, email)
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "account_not_found") {
			s.compareDecoy(ctx, form.Password)
			s.audit.LoginFailed(ctx, email)
			return LoginResult{}, domain.ErrInvalidCredentials()
		}
		span.RecordError(err)
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(a.PasswordHash, form.Password); err != nil {
		s.audit.LoginFailed(ctx, email)
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	token, err := s.sessions.Create(ctx, a.ID, s.sessionTTL)
	if err != nil {
		span.RecordError(err)
		return LoginResult{}, err
	}

	s.audit.LoginSucceeded(ctx, a.ID, a.Email)
	return LoginResult{Account: a, SessionToken: token}, nil
}

// decoyPassword is never accepted; it only gives unknown emails a hash to
// be compared against.
const decoyPassword = "account-portal/decoy"

// compareDecoy spends one full hash comparison so an unknown email costs
// the same as a wrong password. The decoy is hashed on first use with the
// service's hasher, so it carries the configured cost.
func (s *Service) compareDecoy(ctx context.Context, password string) {
	s.decoyOnce.Do(func() {
		h, err := s.hasher.Hash(decoyPassword)
		if err != nil {
			logger.WithCtx(ctx).Warn().Err(err).Msg("decoy hash unavailable")
			return
		}
		s.decoyHash = h
	})
	if s.decoyHash == "" {
		return
	}
	_ = s.hasher.Compare(s.decoyHash, password)
}
