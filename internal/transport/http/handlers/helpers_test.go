package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/baechuer/account-portal/internal/application/account"
	"github.com/baechuer/account-portal/internal/domain"
)

type fakeService struct {
	signupRes account.SignupResult
	signupErr error

	loginRes account.LoginResult
	loginErr error
	gotLogin account.LoginForm

	logoutErr error
	loggedOut []string

	account    domain.Account
	getErr     error
	gotAccount string
}

func (f *fakeService) Signup(_ context.Context, _ account.SignupForm) (account.SignupResult, error) {
	return f.signupRes, f.signupErr
}

func (f *fakeService) Login(_ context.Context, form account.LoginForm) (account.LoginResult, error) {
	f.gotLogin = form
	return f.loginRes, f.loginErr
}

func (f *fakeService) Logout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return f.logoutErr
}

func (f *fakeService) GetAccount(_ context.Context, id string) (domain.Account, error) {
	f.gotAccount = id
	return f.account, f.getErr
}

func (f *fakeService) SessionTTL() time.Duration { return time.Hour }

type writeErrRecorder struct {
	calls int
	last  error
}

func (w *writeErrRecorder) fn(rw http.ResponseWriter, _ *http.Request, err error) {
	w.calls++
	w.last = err
	rw.WriteHeader(http.StatusServiceUnavailable)
}

func postForm(target string, v url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(v.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func cookieNamed(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
