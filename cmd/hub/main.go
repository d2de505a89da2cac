package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/app"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/auth"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/delivery"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/inventory"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/observability"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/platform/cache"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/platform/db"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/roles"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/sales"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/shared"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/users"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Sessions and the role matrix cache live in Redis.
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "hub_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(pool)
	metrics := observability.NewMetrics()

	rolesRepo := roles.NewRepository(pool)
	rolesService := roles.NewService(rolesRepo, redisClient, auditLogger, logger, cfg.RoleMatrixTTL)
	if err := rolesService.Refresh(ctx); err != nil {
		// The static table still answers; persisted overrides arrive on
		// the next successful refresh.
		logger.Warn("initial role matrix refresh", slog.Any("error", err))
	}

	policy := authz.NewPolicy(authz.ChainSource{rolesService, authz.StaticSource{}}, logger)
	authzMiddleware := authz.Middleware{Policy: policy, Logger: logger, Metrics: metrics}

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager, policy)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, auditLogger)
	usersHandler := users.NewHandler(logger, usersService, authzMiddleware)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	rolesHandler := roles.NewHandler(logger, rolesService, authzMiddleware, jobsClient)

	salesRepo := sales.NewRepository(pool)
	salesService := sales.NewService(salesRepo, policy)
	salesHandler := sales.NewHandler(logger, salesService, authzMiddleware)

	inventoryRepo := inventory.NewRepository(pool)
	inventoryService := inventory.NewService(inventoryRepo, policy, auditLogger)
	inventoryHandler := inventory.NewHandler(logger, inventoryService, authzMiddleware)

	deliveryRepo := delivery.NewRepository(pool)
	deliveryService := delivery.NewService(deliveryRepo, policy)
	deliveryHandler := delivery.NewHandler(logger, deliveryService, authzMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		IdentityLoader:   usersService,
		AuthHandler:      authHandler,
		SalesHandler:     salesHandler,
		InventoryHandler: inventoryHandler,
		DeliveryHandler:  deliveryHandler,
		UsersHandler:     usersHandler,
		RolesHandler:     rolesHandler,
		JobsHandler:      jobsHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
