package dto

import (
	"net/http"

	"github.com/baechuer/account-portal/internal/application/account"
	"github.com/baechuer/account-portal/internal/domain"
)

// MaxFormBytes caps urlencoded form bodies.
const MaxFormBytes = 64 << 10

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxFormBytes)
	if err := r.ParseForm(); err != nil {
		return domain.ErrInvalidForm(err)
	}
	return nil
}

// DecodeSignupForm reads the signup fields from the POST body.
// Values are taken verbatim; validation happens in the service.
func DecodeSignupForm(w http.ResponseWriter, r *http.Request) (account.SignupForm, error) {
	if err := parseForm(w, r); err != nil {
		return account.SignupForm{}, err
	}
	return account.SignupForm{
		FullName:        r.PostForm.Get("full_name"),
		Email:           r.PostForm.Get("email"),
		PhoneNumber:     r.PostForm.Get("phone_number"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
	}, nil
}

// LoginRequest is the login form plus the post-login redirect target.
type LoginRequest struct {
	Form account.LoginForm
	Next string
}

func DecodeLoginForm(w http.ResponseWriter, r *http.Request) (LoginRequest, error) {
	if err := parseForm(w, r); err != nil {
		return LoginRequest{}, err
	}
	next := r.PostForm.Get("next")
	if next == "" {
		next = r.URL.Query().Get("next")
	}
	return LoginRequest{
		Form: account.LoginForm{
			Username: r.PostForm.Get("username"),
			Password: r.PostForm.Get("password"),
		},
		Next: next,
	}, nil
}
