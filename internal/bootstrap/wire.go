package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/mealmate/mealmate-api/internal/application/auth"
	"github.com/mealmate/mealmate-api/internal/application/meals"
	"github.com/mealmate/mealmate-api/internal/config"
	"github.com/mealmate/mealmate-api/internal/infrastructure/db/postgres"
	"github.com/mealmate/mealmate-api/internal/infrastructure/memory"
	"github.com/mealmate/mealmate-api/internal/infrastructure/messaging/rabbitmq"
	"github.com/mealmate/mealmate-api/internal/infrastructure/redis"
	"github.com/mealmate/mealmate-api/internal/infrastructure/security"
	"github.com/mealmate/mealmate-api/internal/logger"
	http_handlers "github.com/mealmate/mealmate-api/internal/transport/http/handlers"
	"github.com/mealmate/mealmate-api/internal/transport/http/middleware"
	"github.com/mealmate/mealmate-api/internal/transport/http/response"
	"github.com/mealmate/mealmate-api/internal/transport/http/router"
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

	NewDB func(addr string, debug bool) (*sql.DB, error)

	NewRedis func(addr, password string, db int) *redis.Client

	NewPublisher func(rabbitURL, exchange string) (auth.EventPublisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
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

	// 1) db
	db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	// 2) repos
	userRepo := postgres.NewUserRepo(db)
	mealRepo := postgres.NewMealRepo(db)

	// 3) redis backs the TOTP replay guard; when it is absent or down
	// we fall back to the in-process guard rather than refusing to boot.
	var replay auth.ReplayGuard = memory.NewReplayGuard()
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-process replay guard")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			replay = redis.NewReplayGuard(c)
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 4) event publisher
	var pub auth.EventPublisher = memory.NewNoopPublisher()
	if deps.NewPublisher != nil && cfg.RabbitURL != "" {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			if cfg.Env != "dev" {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		} else {
			pub = p
			if c, ok := p.(interface{ Close() error }); ok {
				cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			}
		}
	}

	// 5) security primitives
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, "mealmate-api")
	totp := security.NewTOTPProvider(cfg.TOTPIssuer)

	// 6) services
	authSvc := auth.NewService(
		userRepo,
		hasher,
		signer,
		totp,
		replay,
		pub,
		auth.Config{
			SessionTokenTTL: cfg.SessionTokenTTL,
			StagedTokenTTL:  cfg.StagedTokenTTL,
		},
	).WithAudit(auditLog)

	mealSvc := meals.NewService(mealRepo)

	// 7) handlers + middleware
	authMW := middleware.Auth(signer, response.WriteError)

	mux, err := deps.NewRouter(router.Deps{
		Health:      http_handlers.NewHealthHandler(db),
		Auth:        http_handlers.NewAuthHandler(authSvc),
		MFA:         http_handlers.NewMFAHandler(authSvc),
		Meals:       http_handlers.NewMealsHandler(mealSvc),
		RequestIDMW: middleware.RequestID,
		AuthMW:      authMW,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

func auditLog(action string, fields map[string]string) {
	evt := logger.Logger.Info().
		Bool("audit", true).
		Str("action", action)
	for k, v := range fields {
		evt = evt.Str(k, v)
	}
	evt.Msg("audit")
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
		NewRedis:   redis.New,
		NewPublisher: func(url, exchange string) (auth.EventPublisher, error) {
			p, err := rabbitmq.NewPublisher(url)
			if err != nil {
				return nil, err
			}
			p.SetExchange(exchange)
			return p, nil
		},
		NewRouter: router.New,
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
