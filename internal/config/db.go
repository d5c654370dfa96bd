package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/baechuer/account-portal/internal/logger"
)

// Pool sizing for a single portal instance. Form traffic is light and
// each request holds a connection only for one or two statements.
const (
	dbMaxOpen     = 20
	dbMaxIdle     = 10
	dbMaxIdleTime = 5 * time.Minute
	dbMaxLifetime = time.Hour
	dbPingTimeout = 3 * time.Second
)

// NewDB opens a pgx-backed *sql.DB and pings it before returning.
func NewDB(dsn string, debug bool) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("empty DB DSN")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(dbMaxOpen)
	db.SetMaxIdleConns(dbMaxIdle)
	db.SetConnMaxIdleTime(dbMaxIdleTime)
	db.SetConnMaxLifetime(dbMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if debug {
		var user, name, version string
		err := db.QueryRowContext(ctx,
			"SELECT current_user, current_database(), current_setting('server_version')",
		).Scan(&user, &name, &version)
		logger.Logger.Debug().
			Err(err).
			Str("user", user).
			Str("db", name).
			Str("version", version).
			Msg("db connected")
	}

	return db, nil
}
