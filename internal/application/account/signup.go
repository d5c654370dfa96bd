package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/account-portal/internal/domain"
	"github.com/baechuer/account-portal/internal/logger"
	"github.com/baechuer/account-portal/internal/tracing"
)

// MsgSignupFailed is shown when the form was valid but storage failed.
const MsgSignupFailed = "An unexpected server error occurred during signup."

type SignupResult struct {
	Check   SignupCheck
	Account domain.Account
	Created bool
}

// Signup validates form and, when every field passes, stores a new account.
//
// Check is always populated so callers can re-render the form. A non-nil
// error means storage failed; Check then carries MsgSignupFailed.
func (s *Service) Signup(ctx context.Context, form SignupForm) (SignupResult, error) {
	ctx, span := tracing.StartSpan(ctx, "account.Signup")
	defer span.End()

	check, err := s.validator.Check(ctx, form, s.accounts)
	if err != nil {
		span.RecordError(err)
		check.Messages = append(check.Messages, MsgSignupFailed)
		return SignupResult{Check: check}, err
	}
	if !check.Valid() {
		s.audit.SignupRejected(ctx, check.InvalidFields())
		return SignupResult{Check: check}, nil
	}

	hash, err := s.hasher.Hash(form.Password)
	if err != nil {
		span.RecordError(err)
		check.Messages = append(check.Messages, MsgSignupFailed)
		var de *domain.Error
		if !errors.As(err, &de) {
			err = domain.ErrHashFailed(err)
		}
		return SignupResult{Check: check}, err
	}

	created, err := s.accounts.Create(ctx, domain.Account{
		ID:           uuid.NewString(),
		Email:        form.Email,
		PhoneNumber:  form.PhoneNumber,
		FullName:     form.FullName,
		PasswordHash: hash,
	})
	if err != nil {
		// Duplicates that slipped past the pre-check land here too.
		span.RecordError(err)
		check.Messages = append(check.Messages, MsgSignupFailed)
		return SignupResult{Check: check}, err
	}

	s.audit.SignupCompleted(ctx, created.ID, created.Email)
	s.publishRegistered(ctx, created)

	return SignupResult{Check: check, Account: created, Created: true}, nil
}

func (s *Service) publishRegistered(ctx context.Context, a domain.Account) {
	if s.pub == nil {
		return
	}
	at := a.CreatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	err := s.pub.PublishAccountRegistered(ctx, AccountRegisteredEvent{
		AccountID:    a.ID,
		Email:        a.Email,
		FullName:     a.FullName,
		RegisteredAt: at,
	})
	if err != nil {
		logger.WithCtx(ctx).Warn().
			Err(err).
			Str("account_id", a.ID).
			Msg("publish account.registered failed")
	}
}
