package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/account-portal/internal/application/account"
	"github.com/baechuer/account-portal/internal/audit"
	"github.com/baechuer/account-portal/internal/config"
	"github.com/baechuer/account-portal/internal/infrastructure/db/migrations"
	"github.com/baechuer/account-portal/internal/infrastructure/db/postgres"
	"github.com/baechuer/account-portal/internal/infrastructure/memory"
	"github.com/baechuer/account-portal/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/account-portal/internal/infrastructure/redis"
	"github.com/baechuer/account-portal/internal/infrastructure/security"
	"github.com/baechuer/account-portal/internal/logger"
	"github.com/baechuer/account-portal/internal/tracing"
	"github.com/baechuer/account-portal/internal/transport/http/handlers"
	"github.com/baechuer/account-portal/internal/transport/http/middleware"
	"github.com/baechuer/account-portal/internal/transport/http/response"
	"github.com/baechuer/account-portal/internal/transport/http/router"
)

const (
	ServiceName    = "account-portal"
	ServiceVersion = "0.1.0"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB   func(addr string, debug bool) (*sql.DB, error)
	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(addr, password string, db int) *redis.Client

	NewPublisher func(url, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)

	InitTracing func(ctx context.Context, cfg tracing.Config) (*tracing.TracerProvider, error)
}

type Publisher interface {
	account.EventPublisher
	Close() error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 1) tracing
	if deps.InitTracing != nil {
		tp, err := deps.InitTracing(context.Background(), tracing.Config{
			ServiceName:    ServiceName,
			ServiceVersion: ServiceVersion,
			OTLPEndpoint:   cfg.OTelEndpoint,
			Enabled:        cfg.OTelEnabled,
		})
		if err != nil {
			return fail(fmt.Errorf("tracing: %w", err))
		}
		cleanupFns = append(cleanupFns, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(ctx)
		})
	}

	// 2) db
	sqlDB, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return fail(err)
	}
	cleanupFns = append(cleanupFns, func() { _ = sqlDB.Close() })

	if cfg.DBAutoMigrate && deps.Migrate != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := deps.Migrate(ctx, sqlDB)
		cancel()
		if err != nil {
			return fail(fmt.Errorf("migrate: %w", err))
		}
	}

	accounts := postgres.NewAccountRepo(sqlDB)

	// 3) redis (best-effort)
	var redisCli *redis.Client
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := c.Ping(context.Background()); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-memory sessions")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 4) session store
	var sessions account.SessionStore
	if redisCli != nil {
		sessions = redis.NewSessionStore(redisCli)
	} else {
		sessions = memory.NewSessionStore()
	}

	// 5) publisher
	var pub account.EventPublisher = memory.NewNoopPublisher()
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		switch {
		case err == nil:
			pub = p
			cleanupFns = append(cleanupFns, func() { _ = p.Close() })
		case cfg.IsDev():
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		default:
			return fail(err)
		}
	}

	// 6) security
	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	// seed (dev only)
	if cfg.IsDev() {
		postgres.SeedAccounts(context.Background(), accounts, hasher)
	}

	// 7) service
	svc := account.NewService(accounts, hasher, sessions, pub, account.Config{
		SessionTTL: cfg.SessionTTL,
	}).WithAudit(audit.New(logger.Logger))

	// 8) handlers + middleware
	secureCookies := !cfg.IsDev()

	pagesH := handlers.NewPages(svc, secureCookies, response.WriteError)

	var redisPing handlers.Pinger
	if redisCli != nil {
		redisPing = redisCli
	}
	healthH := handlers.NewHealthHandler(accounts, redisPing)

	// rate limit: Redis fixed window, in-process fallback
	var fwLimiter *redis.FixedWindowLimiter
	if redisCli != nil {
		fwLimiter = redis.NewFixedWindowLimiter(redisCli)
	}
	rl := func(key string, limit int) func(http.Handler) http.Handler {
		fw := middleware.FixedWindowConfig{RouteKey: key, Limit: limit, Window: cfg.RLWindow}
		if fwLimiter == nil {
			return middleware.RateLimitByIP(fw, response.WriteError)
		}
		return middleware.RateLimitFixedWindow(fwLimiter, fw, response.WriteError)
	}

	var tracingMW func(http.Handler) http.Handler
	if cfg.OTelEnabled {
		tracingMW = middleware.Tracing(ServiceName)
	}

	// 9) router
	mux, err := deps.NewRouter(router.Deps{
		Health:         healthH,
		Pages:          pagesH,
		RequireSession: middleware.RequireSession(svc, secureCookies, response.WriteError),
		CSRF:           middleware.CSRFProtection(cfg.AllowedOrigins, response.WriteError),
		LoginLimit:     rl("account.login", cfg.RLLoginLimit),
		SignupLimit:    rl("account.signup", cfg.RLSignupLimit),
		Tracing:        tracingMW,
		Metrics:        promhttp.Handler(),
	})
	if err != nil {
		return fail(err)
	}

	// 10) server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	return srv, func() { runCleanup(cleanupFns) }, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		Migrate:    migrations.Up,
		NewRedis:   redis.New,
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq.NewPublisher(url, exchange)
		},
		NewRouter:   router.New,
		InitTracing: tracing.Init,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
