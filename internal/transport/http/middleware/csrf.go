package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/baechuer/account-portal/internal/domain"
)

// CSRFProtection checks Origin (or Referer) on state-changing requests.
// The request's own Host is always accepted; allowedOrigins adds more,
// e.g. the public URL when running behind a proxy that rewrites Host.
func CSRFProtection(allowedOrigins []string, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	allowedHosts := make(map[string]struct{})
	for _, origin := range allowedOrigins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			allowedHosts[strings.ToLower(u.Host)] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				origin = r.Header.Get("Referer")
			}
			if origin == "" {
				writeErr(w, r, domain.ErrCSRFRejected("missing_origin"))
				return
			}

			u, err := url.Parse(origin)
			if err != nil || u.Host == "" {
				writeErr(w, r, domain.ErrCSRFRejected("invalid_origin"))
				return
			}

			host := strings.ToLower(u.Host)
			if host != strings.ToLower(r.Host) {
				if _, ok := allowedHosts[host]; !ok {
					writeErr(w, r, domain.ErrCSRFRejected("origin_mismatch"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
