package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/baechuer/account-portal/internal/domain"
)

// AccountRepo is an in-process account.Repo for tests and DB-less dev runs.
type AccountRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.Account
	byEmail map[string]string // normalised email -> id
	byPhone map[string]string // phone -> id
}

func NewAccountRepo() *AccountRepo {
	return &AccountRepo{
		byID:    make(map[string]domain.Account),
		byEmail: make(map[string]string),
		byPhone: make(map[string]string),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *AccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[normalizeEmail(email)]
	return ok, nil
}

func (r *AccountRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byPhone[phone]
	return ok, nil
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return r.byID[id], nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return a, nil
}

// Create enforces the same uniqueness rules as the accounts table, under
// one lock so concurrent signups cannot both win.
func (r *AccountRepo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	if a.ID == "" {
		return domain.Account{}, domain.ErrMissingField("id")
	}
	a.Email = normalizeEmail(a.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[a.Email]; exists {
		return domain.Account{}, domain.ErrEmailAlreadyExists()
	}
	if _, exists := r.byPhone[a.PhoneNumber]; exists {
		return domain.Account{}, domain.ErrPhoneAlreadyExists()
	}

	a.CreatedAt = time.Now().UTC()
	r.byID[a.ID] = a
	r.byEmail[a.Email] = a.ID
	r.byPhone[a.PhoneNumber] = a.ID
	return a, nil
}

// Ping lets the memory repo stand in for the database in readiness checks.
func (r *AccountRepo) Ping(context.Context) error { return nil }
