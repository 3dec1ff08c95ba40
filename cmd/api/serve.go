// AngelaMos | 2026
// serve.go

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/carterperez-dev/eatme/internal/admin"
	"github.com/carterperez-dev/eatme/internal/auth"
	"github.com/carterperez-dev/eatme/internal/config"
	"github.com/carterperez-dev/eatme/internal/core"
	"github.com/carterperez-dev/eatme/internal/health"
	"github.com/carterperez-dev/eatme/internal/mail"
	"github.com/carterperez-dev/eatme/internal/middleware"
	"github.com/carterperez-dev/eatme/internal/migrations"
	"github.com/carterperez-dev/eatme/internal/record"
	"github.com/carterperez-dev/eatme/internal/role"
	"github.com/carterperez-dev/eatme/internal/server"
	"github.com/carterperez-dev/eatme/internal/user"
)

const (
	drainDelay = 5 * time.Second

	loginRequestsPerMinute = 10
	loginBurst             = 5
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(rootFlags.ConfigFile)
	if err != nil {
		return err
	}
	return run(cmd.Context(), cfg)
}

//nolint:funlen // bootstrap code is inherently verbose
func run(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("telemetry disabled", "error", err)
		cfg.Otel.Enabled = false
		if telemetry, err = core.NewTelemetry(ctx, cfg.Otel, cfg.App); err != nil {
			return err
		}
	} else if cfg.Otel.Enabled {
		logger.Info("OpenTelemetry tracer initialized", "endpoint", cfg.Otel.Endpoint)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, db.DB.DB); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	jwtManager, err := auth.NewJWTManager(cfg.Auth)
	if err != nil {
		return err
	}
	logger.Info("token signer initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	notifier := mail.NewNotifier(cfg.Mail, cfg.App.Name, logger)

	userRepo := user.NewRepository(db.DB)
	roleRepo := role.NewRepository(db.DB)
	recordRepo := record.NewRepository(db.DB)

	userSvc := user.NewService(userRepo, roleRepo, notifier, logger)
	roleSvc := role.NewService(roleRepo, userSvc, logger)
	recordSvc := record.NewService(recordRepo, userSvc, logger)

	authRepo := auth.NewRepository(redis.Client)
	authSvc := auth.NewService(
		authRepo,
		jwtManager,
		user.NewAuthProvider(userRepo),
		cfg.Auth.SessionTTL,
		logger,
	)

	if err := userSvc.EnsureAdmin(ctx, cfg.Bootstrap); err != nil {
		return err
	}

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)
	healthHandler.SetReady(false)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Users:      userSvc,
		Records:    recordSvc,
		DBStats:    db.Stats,
		RedisStats: redis.Stats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Tracing(telemetry.Tracer))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen:   true,
			BypassFunc: isProbe,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(authSvc, cfg.Auth)
	loginLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(loginRequestsPerMinute, loginBurst),
		KeyFunc:  middleware.KeyByRoute(middleware.KeyByIP),
		FailOpen: true,
	}).Handler

	userLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.UserRequests,
			cfg.RateLimit.UserBurst,
			cfg.RateLimit.Window,
		),
		KeyFunc:  middleware.KeyByUser,
		FailOpen: true,
	}).Handler
	authenticated := chi.Chain(authenticator, userLimit).Handler

	router.Route("/api/v1", func(r chi.Router) {
		auth.NewHandler(authSvc, cfg.Auth).RegisterRoutes(r, authenticated, loginLimit)
		user.NewHandler(userSvc).RegisterRoutes(r, authenticated)
		role.NewHandler(roleSvc).RegisterRoutes(r, authenticated)
		record.NewHandler(recordSvc).RegisterRoutes(r, authenticated)
		adminHandler.RegisterRoutes(r, authenticated, middleware.RequireAdmin)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()
	healthHandler.SetReady(true)

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func isProbe(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/livez", "/readyz":
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/.well-known/")
}
