package response

import (
	"errors"
	"net/http"

	"github.com/baechuer/account-portal/internal/domain"
	"github.com/baechuer/account-portal/internal/logger"
	appCtx "github.com/baechuer/account-portal/internal/pkg/context"
	"github.com/baechuer/account-portal/internal/transport/http/views"
)

// WriteError renders the error page for err. Non-domain errors are
// treated as internal errors (500) and their details stay in the log.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong. Please try again later."

	var de *domain.Error
	if errors.As(err, &de) {
		status = statusFromKind(de.Kind)
		if status < http.StatusInternalServerError {
			message = de.Message
		}
	}

	l := logger.WithCtx(r.Context())
	if status >= http.StatusInternalServerError {
		l.Error().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")
	} else {
		l.Debug().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request rejected")
	}

	page := views.ErrorPage{
		Status:    status,
		Title:     http.StatusText(status),
		Message:   message,
		RequestID: appCtx.GetRequestID(r.Context()),
	}
	if rerr := views.Render(w, status, views.PageError, page); rerr != nil {
		http.Error(w, http.StatusText(status), status)
	}
}

var kindStatus = map[domain.ErrKind]int{
	domain.KindValidation:     http.StatusBadRequest,
	domain.KindAuth:           http.StatusUnauthorized,
	domain.KindForbidden:      http.StatusForbidden,
	domain.KindNotFound:       http.StatusNotFound,
	domain.KindConflict:       http.StatusConflict,
	domain.KindRateLimited:    http.StatusTooManyRequests,
	domain.KindInfrastructure: http.StatusServiceUnavailable,
	domain.KindInternal:       http.StatusInternalServerError,
}

func statusFromKind(kind domain.ErrKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}
