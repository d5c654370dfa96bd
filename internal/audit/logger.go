package audit

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	appCtx "github.com/baechuer/account-portal/internal/pkg/context"
)

// Logger writes one audit=true line per account event. Emails are masked.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

func (l *Logger) entry(ctx context.Context, lvl zerolog.Level, action string) *zerolog.Event {
	return l.log.WithLevel(lvl).
		Str("action", action).
		Str("request_id", appCtx.GetRequestID(ctx))
}

func (l *Logger) SignupCompleted(ctx context.Context, accountID, email string) {
	l.entry(ctx, zerolog.InfoLevel, "signup_completed").
		Str("account_id", accountID).
		Str("email", maskEmail(email)).
		Msg("account created")
}

// SignupRejected records which fields failed, never their values.
func (l *Logger) SignupRejected(ctx context.Context, fields []string) {
	l.entry(ctx, zerolog.InfoLevel, "signup_rejected").
		Strs("fields", fields).
		Msg("signup rejected")
}

func (l *Logger) LoginSucceeded(ctx context.Context, accountID, email string) {
	l.entry(ctx, zerolog.InfoLevel, "login_success").
		Str("account_id", accountID).
		Str("email", maskEmail(email)).
		Msg("login succeeded")
}

func (l *Logger) LoginFailed(ctx context.Context, email string) {
	l.entry(ctx, zerolog.WarnLevel, "login_failed").
		Str("email", maskEmail(email)).
		Msg("login failed")
}

func (l *Logger) LoggedOut(ctx context.Context, accountID string) {
	l.entry(ctx, zerolog.InfoLevel, "logout").
		Str("account_id", accountID).
		Msg("logged out")
}

// maskEmail keeps the first two characters of the local part and the domain.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 5 || at < 0 {
		return "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
