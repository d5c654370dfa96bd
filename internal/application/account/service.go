package account

import (
	"sync"
	"time"
)

type Service struct {
	accounts  Repo
	hasher    PasswordHasher
	sessions  SessionStore
	pub       EventPublisher
	validator *Validator
	audit     Auditor

	sessionTTL time.Duration

	// decoyOnce guards decoyHash, a hash of a throwaway password that
	// unknown-email logins are compared against.
	decoyOnce sync.Once
	decoyHash string
}

type Config struct {
	SessionTTL time.Duration
}

func NewService(
	accounts Repo,
	hasher PasswordHasher,
	sessions SessionStore,
	pub EventPublisher,
	cfg Config,
) *Service {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &Service{
		accounts:   accounts,
		hasher:     hasher,
		sessions:   sessions,
		pub:        pub,
		validator:  NewValidator(),
		audit:      noopAuditor{},
		sessionTTL: ttl,
	}
}

func (s *Service) WithAudit(a Auditor) *Service {
	if a != nil {
		s.audit = a
	}
	return s
}

func (s *Service) SessionTTL() time.Duration { return s.sessionTTL }
