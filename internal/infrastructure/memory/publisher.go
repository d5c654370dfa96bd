package memory

import (
	"context"

	"github.com/baechuer/account-portal/internal/application/account"
	"github.com/baechuer/account-portal/internal/logger"
)

// NoopPublisher logs events instead of sending them; used when RabbitMQ
// is not configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishAccountRegistered(ctx context.Context, evt account.AccountRegisteredEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("account_id", evt.AccountID).
		Msg("noop publish account.registered")
	return nil
}
