package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/baechuer/account-portal/internal/domain"
	"github.com/baechuer/account-portal/internal/infrastructure/security"
)

type ctxKey int

const accountIDKey ctxKey = iota

func WithAccountID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, accountIDKey, id)
}

func AccountIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(accountIDKey).(string)
	return v, ok && v != ""
}

type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (string, error)
}

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/"

// RequireSession lets the request through only with a live session cookie.
// Anyone else is redirected to the login page with the requested URL in
// ?next= and any stale cookie is cleared.
func RequireSession(resolver SessionResolver, secure bool, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := security.ReadSessionCookie(r)
			if err != nil || token == "" {
				redirectToLogin(w, r)
				return
			}

			accountID, err := resolver.ResolveSession(r.Context(), token)
			if err != nil {
				if domain.Is(err, "session_invalid") {
					security.ClearSessionCookie(w, secure)
					redirectToLogin(w, r)
					return
				}
				writeErr(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), accountID)))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusFound)
}
