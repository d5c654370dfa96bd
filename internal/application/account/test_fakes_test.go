package account

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/account-portal/internal/domain"
)

/*
Fakes for ports
*/

type fakeRepo struct {
	mu sync.Mutex

	byID    map[string]domain.Account
	byEmail map[string]domain.Account
	byPhone map[string]domain.Account

	// injected errors
	existsErr     error
	getByEmailErr error
	createErr     error

	creates int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    map[string]domain.Account{},
		byEmail: map[string]domain.Account{},
		byPhone: map[string]domain.Account{},
	}
}

func (f *fakeRepo) put(a domain.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[a.ID] = a
	f.byEmail[strings.ToLower(a.Email)] = a
	f.byPhone[a.PhoneNumber] = a
}

func (f *fakeRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byEmail[strings.ToLower(email)]
	return ok, nil
}

func (f *fakeRepo) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byPhone[phone]
	return ok, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getByEmailErr != nil {
		return domain.Account{}, f.getByEmailErr
	}
	a, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return a, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return a, nil
}

func (f *fakeRepo) Create(_ context.Context, a domain.Account) (domain.Account, error) {
	f.mu.Lock()
	f.creates++
	if f.createErr != nil {
		f.mu.Unlock()
		return domain.Account{}, f.createErr
	}
	f.mu.Unlock()

	a.Email = strings.ToLower(a.Email)
	a.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.put(a)
	return a, nil
}

// fakeHasher prefixes instead of hashing so tests can inspect the stored value.
type fakeHasher struct {
	hashFn func(string) (string, error)

	mu       sync.Mutex
	hashes   int
	compares int
}

func (h *fakeHasher) counts() (hashes, compares int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hashes, h.compares
}

func (h *fakeHasher) Hash(pw string) (string, error) {
	h.mu.Lock()
	h.hashes++
	h.mu.Unlock()
	if h.hashFn != nil {
		return h.hashFn(pw)
	}
	return "hashed:" + pw, nil
}

func (h *fakeHasher) Compare(hash, pw string) error {
	h.mu.Lock()
	h.compares++
	h.mu.Unlock()
	if hash != "hashed:"+pw {
		return errors.New("mismatch")
	}
	return nil
}

type fakeSessions struct {
	mu        sync.Mutex
	byToken   map[string]string
	lastTTL   time.Duration
	createErr error
	revokeErr error
	revoked   []string
	n         int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byToken: map[string]string{}}
}

func (f *fakeSessions) Create(_ context.Context, accountID string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.n++
	tok := "tok-" + accountID + "-" + string(rune('a'+f.n))
	f.byToken[tok] = accountID
	f.lastTTL = ttl
	return tok, nil
}

func (f *fakeSessions) Lookup(_ context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byToken[token]
	if !ok {
		return "", domain.ErrSessionInvalid()
	}
	return id, nil
}

func (f *fakeSessions) Revoke(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revokeErr != nil {
		return f.revokeErr
	}
	delete(f.byToken, token)
	f.revoked = append(f.revoked, token)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []AccountRegisteredEvent
	err    error
}

func (p *fakePublisher) PublishAccountRegistered(_ context.Context, evt AccountRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields []string
}

type fakeAuditor struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *fakeAuditor) add(action string, fields ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{action: action, fields: fields})
}

func (a *fakeAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.action)
	}
	return out
}

func (a *fakeAuditor) SignupCompleted(_ context.Context, id, email string) {
	a.add("signup_completed", id, email)
}
func (a *fakeAuditor) SignupRejected(_ context.Context, fields []string) {
	a.add("signup_rejected", fields...)
}
func (a *fakeAuditor) LoginSucceeded(_ context.Context, id, email string) {
	a.add("login_success", id, email)
}
func (a *fakeAuditor) LoginFailed(_ context.Context, email string) { a.add("login_failed", email) }
func (a *fakeAuditor) LoggedOut(_ context.Context, id string)      { a.add("logout", id) }

type svcDeps struct {
	repo     *fakeRepo
	hasher   *fakeHasher
	sessions *fakeSessions
	pub      *fakePublisher
	audit    *fakeAuditor
}

func newSvcForTest(t *testing.T) (*Service, svcDeps) {
	t.Helper()
	d := svcDeps{
		repo:     newFakeRepo(),
		hasher:   &fakeHasher{},
		sessions: newFakeSessions(),
		pub:      &fakePublisher{},
		audit:    &fakeAuditor{},
	}
	svc := NewService(d.repo, d.hasher, d.sessions, d.pub, Config{SessionTTL: time.Hour}).WithAudit(d.audit)
	return svc, d
}

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}

func validForm() SignupForm {
	return SignupForm{
		FullName:        "Jane Doe",
		Email:           "jane@example.com",
		PhoneNumber:     "0123456789",
		Password:        "s3cretpass",
		ConfirmPassword: "s3cretpass",
	}
}
