package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/baechuer/account-portal/internal/domain"
	"github.com/baechuer/account-portal/internal/infrastructure/security"
)

type sessionEntry struct {
	accountID string
	expiresAt time.Time
}

// SessionStore keeps sessions in a map; used when Redis is unavailable.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

func (s *SessionStore) Create(ctx context.Context, accountID string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(accountID) == "" {
		return "", domain.ErrMissingField("account_id")
	}
	if ttl <= 0 {
		return "", domain.ErrInvalidField("ttl", "must be positive")
	}

	tok, err := security.NewOpaqueToken(security.SessionTokenBytes)
	if err != nil {
		return "", domain.ErrRandomFailed(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.sessions[tok] = sessionEntry{
		accountID: accountID,
		expiresAt: s.now().Add(ttl),
	}
	return tok, nil
}

func (s *SessionStore) Lookup(ctx context.Context, token string) (string, error) {
	s.mu.RLock()
	e, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return "", domain.ErrSessionInvalid()
	}
	if !s.now().Before(e.expiresAt) {
		_ = s.Revoke(ctx, token)
		return "", domain.ErrSessionInvalid()
	}
	return e.accountID, nil
}

func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token) // idempotent
	return nil
}

// sweepLocked drops expired entries so abandoned sessions do not pile up.
// Caller holds the write lock.
func (s *SessionStore) sweepLocked() {
	now := s.now()
	for tok, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, tok)
		}
	}
}
