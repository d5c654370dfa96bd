package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/baechuer/account-portal/internal/application/account"
	"github.com/baechuer/account-portal/internal/domain"
	"github.com/baechuer/account-portal/internal/infrastructure/security"
	"github.com/baechuer/account-portal/internal/logger"
	"github.com/baechuer/account-portal/internal/transport/http/dto"
	"github.com/baechuer/account-portal/internal/transport/http/flash"
	"github.com/baechuer/account-portal/internal/transport/http/middleware"
	"github.com/baechuer/account-portal/internal/transport/http/views"
)

const (
	MsgInvalidLogin = "Error: Invalid email or password."
	MsgLoggedOut    = "You have been logged out."
	MsgWelcomeBack  = "Welcome back, %s!"
	SuccessPath     = "/success/"
)

type AccountService interface {
	Signup(ctx context.Context, form account.SignupForm) (account.SignupResult, error)
	Login(ctx context.Context, form account.LoginForm) (account.LoginResult, error)
	Logout(ctx context.Context, token string) error
	GetAccount(ctx context.Context, id string) (domain.Account, error)
	SessionTTL() time.Duration
}

// Pages serves the HTML account pages.
type Pages struct {
	svc      AccountService
	flash    *flash.Store
	secure   bool
	writeErr middleware.WriteErrFunc
}

func NewPages(svc AccountService, secure bool, writeErr middleware.WriteErrFunc) *Pages {
	return &Pages{
		svc:      svc,
		flash:    flash.NewStore(secure),
		secure:   secure,
		writeErr: writeErr,
	}
}

func (h *Pages) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	if err := views.Render(w, http.StatusOK, page, data); err != nil {
		h.writeErr(w, r, domain.ErrInternal(err))
	}
}

// LoginPage handles GET /
func (h *Pages) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.PageLogin, views.LoginPage{
		Messages: h.flash.Pop(w, r),
		Next:     r.URL.Query().Get("next"),
	})
}

// Login handles POST /
func (h *Pages) Login(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeLoginForm(w, r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Form)
	if err != nil {
		if domain.Is(err, "invalid_credentials") {
			middleware.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			h.render(w, r, views.PageLogin, views.LoginPage{
				Messages:      append(h.flash.Pop(w, r), flash.Error(MsgInvalidLogin)),
				UsernameValue: strings.TrimSpace(req.Form.Username),
				UsernameClass: account.FlagInvalid.Class(),
				PasswordClass: account.FlagInvalid.Class(),
				Next:          req.Next,
			})
			return
		}
		middleware.LoginAttemptsTotal.WithLabelValues("error").Inc()
		h.writeErr(w, r, err)
		return
	}

	middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()
	security.SetSessionCookie(w, res.SessionToken, h.svc.SessionTTL(), h.secure)
	h.flash.Add(w, r, flash.Success(welcome(res.Account)))
	http.Redirect(w, r, dto.SafeNext(req.Next), http.StatusSeeOther)
}

// SignupPage handles GET /signup/
func (h *Pages) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.PageSignup, views.SignupPage{Messages: h.flash.Pop(w, r)})
}

// Signup handles POST /signup/
func (h *Pages) Signup(w http.ResponseWriter, r *http.Request) {
	form, err := dto.DecodeSignupForm(w, r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	res, err := h.svc.Signup(r.Context(), form)
	switch {
	case err != nil:
		middleware.SignupsTotal.WithLabelValues("error").Inc()
		logger.WithCtx(r.Context()).Error().Err(err).Msg("signup failed")
	case !res.Created:
		middleware.SignupsTotal.WithLabelValues("rejected").Inc()
	default:
		middleware.SignupsTotal.WithLabelValues("created").Inc()
		http.Redirect(w, r, SuccessPath, http.StatusSeeOther)
		return
	}

	msgs := h.flash.Pop(w, r)
	for _, m := range res.Check.Messages {
		msgs = append(msgs, flash.Error(m))
	}
	h.render(w, r, views.PageSignup, views.SignupPage{
		Messages:    msgs,
		FullName:    form.FullName,
		Email:       form.Email,
		PhoneNumber: form.PhoneNumber,
		Flags:       res.Check.Flags,
	})
}

// Success handles GET /success/
func (h *Pages) Success(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.PageSuccess, views.SuccessPage{Messages: h.flash.Pop(w, r)})
}

// Dashboard handles GET /dashboard/. It sits behind RequireSession.
func (h *Pages) Dashboard(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		h.writeErr(w, r, domain.ErrSessionInvalid())
		return
	}

	a, err := h.svc.GetAccount(r.Context(), accountID)
	if err != nil {
		if domain.Is(err, "account_not_found") {
			security.ClearSessionCookie(w, h.secure)
			http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
			return
		}
		h.writeErr(w, r, err)
		return
	}

	h.render(w, r, views.PageDashboard, views.DashboardPage{
		Messages: h.flash.Pop(w, r),
		Name:     a.GreetingName(),
		Email:    a.Email,
	})
}

// Logout handles GET and POST /logout/. The cookie is cleared even when
// the session store cannot be reached.
func (h *Pages) Logout(w http.ResponseWriter, r *http.Request) {
	if token, err := security.ReadSessionCookie(r); err == nil {
		if err := h.svc.Logout(r.Context(), token); err != nil {
			logger.WithCtx(r.Context()).Warn().Err(err).Msg("session revoke failed")
		}
	}

	security.ClearSessionCookie(w, h.secure)
	h.flash.Add(w, r, flash.Info(MsgLoggedOut))
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

func welcome(a domain.Account) string {
	return fmt.Sprintf(MsgWelcomeBack, a.GreetingName())
}
