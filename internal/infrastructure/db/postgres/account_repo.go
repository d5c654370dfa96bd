package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baechuer/account-portal/internal/domain"
)

const (
	uniqueViolation = "23505"

	emailConstraint = "accounts_email_key"
	phoneConstraint = "accounts_phone_number_key"
)

const accountColumns = `id, email, phone_number, full_name, password_hash, created_at`

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// ---------- helpers ----------

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (accountRow, error) {
	var ar accountRow
	err := row.Scan(
		&ar.ID,
		&ar.Email,
		&ar.PhoneNumber,
		&ar.FullName,
		&ar.PasswordHash,
		&ar.CreatedAt,
	)
	return ar, err
}

func toDomainAccount(ar accountRow) domain.Account {
	return domain.Account{
		ID:           ar.ID,
		Email:        ar.Email,
		PhoneNumber:  ar.PhoneNumber,
		FullName:     ar.FullName,
		PasswordHash: ar.PasswordHash,
		CreatedAt:    ar.CreatedAt,
	}
}

// mapCreateErr turns unique violations into typed conflicts.
func mapCreateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case emailConstraint:
			return domain.ErrEmailAlreadyExists()
		case phoneConstraint:
			return domain.ErrPhoneAlreadyExists()
		}
	}
	return domain.ErrDBUnavailable(err)
}

// ---------- account.Repo ----------

func (r *AccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, nil
	}

	const q = `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1);`

	var ok bool
	if err := r.db.QueryRowContext(ctx, q, email).Scan(&ok); err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return ok, nil
}

func (r *AccountRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	if phone == "" {
		return false, nil
	}

	const q = `SELECT EXISTS (SELECT 1 FROM accounts WHERE phone_number = $1);`

	var ok bool
	if err := r.db.QueryRowContext(ctx, q, phone).Scan(&ok); err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return ok, nil
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.Account{}, domain.ErrMissingField("email")
	}

	const q = `
SELECT ` + accountColumns + `
FROM accounts
WHERE email = $1
LIMIT 1;
`
	ar, err := scanAccount(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound()
		}
		return domain.Account{}, domain.ErrDBUnavailable(err)
	}
	return toDomainAccount(ar), nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Account{}, domain.ErrMissingField("id")
	}

	const q = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1
LIMIT 1;
`
	ar, err := scanAccount(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound()
		}
		return domain.Account{}, domain.ErrDBUnavailable(err)
	}
	return toDomainAccount(ar), nil
}

func (r *AccountRepo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	a.Email = normalizeEmail(a.Email)
	if a.ID == "" {
		return domain.Account{}, domain.ErrMissingField("id")
	}
	if a.Email == "" {
		return domain.Account{}, domain.ErrMissingField("email")
	}
	if a.PhoneNumber == "" {
		return domain.Account{}, domain.ErrMissingField("phone_number")
	}
	if a.PasswordHash == "" {
		return domain.Account{}, domain.ErrMissingField("password_hash")
	}

	const q = `
INSERT INTO accounts (id, email, phone_number, full_name, password_hash)
VALUES ($1,$2,$3,$4,$5)
RETURNING ` + accountColumns + `;
`
	ar, err := scanAccount(r.db.QueryRowContext(ctx, q,
		a.ID, a.Email, a.PhoneNumber, a.FullName, a.PasswordHash,
	))
	if err != nil {
		return domain.Account{}, mapCreateErr(err)
	}
	return toDomainAccount(ar), nil
}

// Ping is used by the readiness probe.
func (r *AccountRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
