package postgres

import "time"

type accountRow struct {
	ID           string
	Email        string
	PhoneNumber  string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
}
