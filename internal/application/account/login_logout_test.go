package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/account-portal/internal/domain"
)

func seedAccount(t *testing.T, d svcDeps) domain.Account {
	t.Helper()
	a := domain.Account{
		ID:           "acc-1",
		Email:        "jane@example.com",
		PhoneNumber:  "0123456789",
		FullName:     "Jane Doe",
		PasswordHash: "hashed:s3cretpass",
	}
	d.repo.put(a)
	return a
}

func TestLogin_EmptyFields_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)

	_, err := svc.Login(context.Background(), LoginForm{})
	requireErrCode(t, err, "invalid_credentials")
	assert.Equal(t, []string{"login_failed"}, d.audit.actions())
}

func TestLogin_UnknownEmail_NonEnumerating(t *testing.T) {
	t.Parallel()

	svc, _ := newSvcForTest(t)

	_, err := svc.Login(context.Background(), LoginForm{Username: "missing@x.com", Password: "whatever1"})
	requireErrCode(t, err, "invalid_credentials")
}

func TestLogin_UnknownEmail_SpendsOneCompare(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	seedAccount(t, d)

	_, err := svc.Login(context.Background(), LoginForm{Username: "missing@x.com", Password: "whatever1"})
	requireErrCode(t, err, "invalid_credentials")
	hashes, compares := d.hasher.counts()
	assert.Equal(t, 1, compares)
	assert.Equal(t, 1, hashes)

	// the decoy is hashed once and reused
	_, err = svc.Login(context.Background(), LoginForm{Username: "other@x.com", Password: "whatever2"})
	requireErrCode(t, err, "invalid_credentials")
	hashes, compares = d.hasher.counts()
	assert.Equal(t, 2, compares)
	assert.Equal(t, 1, hashes)

	// a known email with the wrong password costs the same single compare
	_, err = svc.Login(context.Background(), LoginForm{Username: "jane@example.com", Password: "nope-nope"})
	requireErrCode(t, err, "invalid_credentials")
	_, compares = d.hasher.counts()
	assert.Equal(t, 3, compares)
}

func TestLogin_UnknownEmail_DecoyHashFailureStillInvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	d.hasher.hashFn = func(string) (string, error) { return "", errors.New("boom") }

	_, err := svc.Login(context.Background(), LoginForm{Username: "missing@x.com", Password: "whatever1"})
	requireErrCode(t, err, "invalid_credentials")
	_, compares := d.hasher.counts()
	assert.Equal(t, 0, compares)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	seedAccount(t, d)

	_, err := svc.Login(context.Background(), LoginForm{Username: "jane@example.com", Password: "nope-nope"})
	requireErrCode(t, err, "invalid_credentials")
	assert.Empty(t, d.sessions.byToken)
}

func TestLogin_Success_CreatesSession(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	acc := seedAccount(t, d)

	res, err := svc.Login(context.Background(), LoginForm{Username: "  Jane@Example.com ", Password: "s3cretpass"})
	require.NoError(t, err)

	assert.Equal(t, acc.ID, res.Account.ID)
	require.NotEmpty(t, res.SessionToken)
	assert.Equal(t, acc.ID, d.sessions.byToken[res.SessionToken])
	assert.Equal(t, time.Hour, d.sessions.lastTTL)
	assert.Equal(t, []string{"login_success"}, d.audit.actions())
}

func TestLogin_StoreFailurePropagates(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	d.repo.getByEmailErr = domain.ErrDBUnavailable(errors.New("down"))

	_, err := svc.Login(context.Background(), LoginForm{Username: "jane@example.com", Password: "s3cretpass"})
	requireErrCode(t, err, "db_unavailable")
}

func TestLogin_SessionCreateFailure(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	seedAccount(t, d)
	d.sessions.createErr = domain.ErrRedisUnavailable(errors.New("down"))

	_, err := svc.Login(context.Background(), LoginForm{Username: "jane@example.com", Password: "s3cretpass"})
	requireErrCode(t, err, "redis_unavailable")
}

func TestLogout_EmptyToken_NoOp(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)

	require.NoError(t, svc.Logout(context.Background(), ""))
	assert.Empty(t, d.sessions.revoked)
}

func TestLogout_RevokesAndAudits(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	seedAccount(t, d)

	res, err := svc.Login(context.Background(), LoginForm{Username: "jane@example.com", Password: "s3cretpass"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), res.SessionToken))

	_, err = svc.ResolveSession(context.Background(), res.SessionToken)
	requireErrCode(t, err, "session_invalid")
	assert.Equal(t, []string{"login_success", "logout"}, d.audit.actions())
}

func TestLogout_UnknownTokenIsIdempotent(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)

	require.NoError(t, svc.Logout(context.Background(), "stale"))
	require.NoError(t, svc.Logout(context.Background(), "stale"))
	assert.Empty(t, d.audit.actions())
}

func TestLogout_RevokeError(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	d.sessions.revokeErr = errors.New("down")

	assert.Error(t, svc.Logout(context.Background(), "tok"))
}

func TestResolveSession_EmptyToken(t *testing.T) {
	t.Parallel()

	svc, _ := newSvcForTest(t)

	_, err := svc.ResolveSession(context.Background(), "")
	requireErrCode(t, err, "session_invalid")
}

func TestGetAccount(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t)
	acc := seedAccount(t, d)

	got, err := svc.GetAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.GreetingName())

	_, err = svc.GetAccount(context.Background(), "missing")
	requireErrCode(t, err, "account_not_found")
}

func TestNewService_DefaultSessionTTL(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &fakeHasher{}, newFakeSessions(), nil, Config{})
	assert.Equal(t, 14*24*time.Hour, svc.SessionTTL())
}
