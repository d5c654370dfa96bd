package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/baechuer/account-portal/internal/domain"
	"github.com/baechuer/account-portal/internal/transport/http/middleware"
	"github.com/baechuer/account-portal/internal/transport/http/response"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type PagesHandler interface {
	LoginPage(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	SignupPage(w http.ResponseWriter, r *http.Request)
	Signup(w http.ResponseWriter, r *http.Request)
	Success(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health HealthHandler
	Pages  PagesHandler

	RequireSession func(http.Handler) http.Handler
	CSRF           func(http.Handler) http.Handler

	// Optional.
	LoginLimit  func(http.Handler) http.Handler
	SignupLimit func(http.Handler) http.Handler
	Tracing     func(http.Handler) http.Handler
	Metrics     http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Pages == nil {
		return nil, fmt.Errorf("nil Pages handler")
	}
	if deps.RequireSession == nil {
		return nil, fmt.Errorf("nil RequireSession middleware")
	}
	if deps.CSRF == nil {
		return nil, fmt.Errorf("nil CSRF middleware")
	}

	r := chi.NewRouter()

	if deps.Tracing != nil {
		r.Use(deps.Tracing)
	}
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)
	// "/signup/" and "/signup" route the same.
	r.Use(chimw.StripSlashes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, r, domain.ErrPageNotFound())
	})

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(deps.CSRF)

		r.With(optional(deps.LoginLimit)...).Get("/", deps.Pages.LoginPage)
		r.With(optional(deps.LoginLimit)...).Post("/", deps.Pages.Login)

		r.With(optional(deps.SignupLimit)...).Get("/signup", deps.Pages.SignupPage)
		r.With(optional(deps.SignupLimit)...).Post("/signup", deps.Pages.Signup)

		r.Get("/success", deps.Pages.Success)
		r.With(deps.RequireSession).Get("/dashboard", deps.Pages.Dashboard)

		r.Get("/logout", deps.Pages.Logout)
		r.Post("/logout", deps.Pages.Logout)
	})

	return r, nil
}

func optional(mws ...func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	out := make([]func(http.Handler) http.Handler, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}
