package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/account-portal/internal/domain"
	"github.com/baechuer/account-portal/internal/infrastructure/security"
)

// SessionStore implements account.SessionStore on Redis:
// sess:<token> -> <accountID>, expiring with the session.
type SessionStore struct {
	rdb    *goredis.Client
	prefix string
}

func NewSessionStore(c *Client) *SessionStore {
	var rdb *goredis.Client
	if c != nil {
		rdb = c.rdb
	}
	return &SessionStore{rdb: rdb, prefix: "sess:"}
}

func (s *SessionStore) Create(ctx context.Context, accountID string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(accountID) == "" {
		return "", domain.ErrMissingField("account_id")
	}
	if s.rdb == nil {
		return "", domain.ErrRedisUnavailable(errors.New("redis session store not configured"))
	}
	if ttl <= 0 {
		return "", domain.ErrInvalidField("ttl", "must be positive")
	}

	token, err := security.NewOpaqueToken(security.SessionTokenBytes)
	if err != nil {
		return "", domain.ErrRandomFailed(err)
	}

	// NX guards the (practically impossible) token collision.
	ok, err := s.rdb.SetNX(ctx, s.prefix+token, accountID, ttl).Result()
	if err != nil {
		return "", domain.ErrRedisUnavailable(err)
	}
	if !ok {
		return "", domain.ErrInternal(errors.New("session token collision"))
	}
	return token, nil
}

func (s *SessionStore) Lookup(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrSessionInvalid()
	}
	if s.rdb == nil {
		return "", domain.ErrRedisUnavailable(errors.New("redis session store not configured"))
	}

	id, err := s.rdb.Get(ctx, s.prefix+token).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", domain.ErrSessionInvalid()
		}
		return "", domain.ErrRedisUnavailable(err)
	}
	if id == "" {
		return "", domain.ErrSessionInvalid()
	}
	return id, nil
}

// Revoke deletes the session. Unknown or empty tokens are not an error.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" || s.rdb == nil {
		return nil
	}
	if err := s.rdb.Del(ctx, s.prefix+token).Err(); err != nil {
		return domain.ErrRedisUnavailable(err)
	}
	return nil
}
