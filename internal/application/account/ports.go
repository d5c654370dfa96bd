package account

import (
	"context"
	"time"

	"github.com/baechuer/account-portal/internal/domain"
)

/*
Repo
----
Persistence port for accounts. Email look-ups are case-insensitive;
implementations normalise before comparing. Create reports duplicates as
email_already_exists / phone_already_exists conflicts.
*/
type Repo interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	Create(ctx context.Context, a domain.Account) (domain.Account, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
SessionStore
------------
Opaque browser sessions, keyed by a random token held in a cookie.
Backed by Redis, or memory when Redis is absent.
*/
type SessionStore interface {
	Create(ctx context.Context, accountID string, ttl time.Duration) (token string, err error)
	Lookup(ctx context.Context, token string) (accountID string, err error)
	Revoke(ctx context.Context, token string) error
}

/*
EventPublisher
--------------
Publishes account lifecycle events to RabbitMQ. Delivery is best-effort
from the caller's point of view.
*/
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, evt AccountRegisteredEvent) error
}

type AccountRegisteredEvent struct {
	AccountID    string    `json:"account_id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Auditor receives security-relevant outcomes. *audit.Logger satisfies it.
type Auditor interface {
	SignupCompleted(ctx context.Context, accountID, email string)
	SignupRejected(ctx context.Context, fields []string)
	LoginSucceeded(ctx context.Context, accountID, email string)
	LoginFailed(ctx context.Context, email string)
	LoggedOut(ctx context.Context, accountID string)
}

type noopAuditor struct{}

func (noopAuditor) SignupCompleted(context.Context, string, string) {}
func (noopAuditor) SignupRejected(context.Context, []string)        {}
func (noopAuditor) LoginSucceeded(context.Context, string, string)  {}
func (noopAuditor) LoginFailed(context.Context, string)             {}
func (noopAuditor) LoggedOut(context.Context, string)               {}
