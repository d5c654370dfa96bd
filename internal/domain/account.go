package domain

import (
	"strings"
	"time"
)

// Account is a registered user's stored identity record.
// The email doubles as the login identifier.
type Account struct {
	ID           string
	Email        string
	PhoneNumber  string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
}

// GreetingName returns the first word of the full name, falling back to the
// login identifier when no name is set.
func (a Account) GreetingName() string {
	if parts := strings.Fields(a.FullName); len(parts) > 0 {
		return parts[0]
	}
	return a.Email
}
