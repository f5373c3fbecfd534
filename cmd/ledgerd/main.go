package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portssvc "github.com/finlytics/ledger-core/internal/core/ports/services"
	"github.com/finlytics/ledger-core/internal/core/services"
	"github.com/finlytics/ledger-core/internal/handlers"
	"github.com/finlytics/ledger-core/internal/middleware"
	"github.com/finlytics/ledger-core/internal/platform/config"
	"github.com/finlytics/ledger-core/internal/repositories/database/pgsql"
	"github.com/finlytics/ledger-core/pkg/database"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	svcs := buildServices(dbPool)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(corsMiddleware(cfg))
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r.GET("/health", handlers.GetHealth)

	v1 := r.Group("/api/v1")
	if rl := rateLimiter(cfg, logger); rl != nil {
		v1.Use(middleware.RateLimit(rl))
	}
	handlers.RegisterHandlers(v1, svcs)

	// Retry sweep: periodically reprocess stale PENDING events so a crash
	// between append and post never loses an accounting effect.
	go runRetrySweeper(ctx, svcs.Processor, cfg, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
	}
}

func buildServices(dbPool *pgxpool.Pool) handlers.Services {
	accountRepo := pgsql.NewAccountRepository(dbPool)
	eventRepo := pgsql.NewEventRepository(dbPool)
	txnRepo := pgsql.NewTransactionRepository(dbPool)
	reportingRepo := pgsql.NewReportingRepository(dbPool)

	accountSvc := services.NewAccountService(accountRepo)
	eventSvc := services.NewEventService(eventRepo)
	posterSvc := services.NewPosterService(txnRepo, accountSvc)
	processorSvc := services.NewProcessorService(accountSvc, eventSvc, posterSvc)
	reportingSvc := services.NewReportingService(reportingRepo)

	return handlers.Services{
		Accounts:  accountSvc,
		Events:    eventSvc,
		Poster:    posterSvc,
		Processor: processorSvc,
		Reporting: reportingSvc,
	}
}

func runMigrations(databaseURL string, logger *slog.Logger) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSAllowOrigins) == 1 && cfg.CORSAllowOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	return cors.New(corsCfg)
}

func rateLimiter(cfg *config.Config, logger *slog.Logger) *limiter.Limiter {
	if cfg.RateLimit == "" {
		return nil
	}
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Warn("Invalid RATE_LIMIT value, rate limiting disabled", slog.String("value", cfg.RateLimit))
		return nil
	}
	return limiter.New(memorystore.NewStore(), rate)
}

func runRetrySweeper(ctx context.Context, processor portssvc.ProcessorSvcFacade, cfg *config.Config, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.RetrySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			attempted, err := processor.SweepPending(ctx, cfg.RetrySweepMinAge, cfg.RetrySweepBatch)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("Retry sweep failed", slog.String("error", err.Error()))
				continue
			}
			if attempted > 0 {
				logger.Info("Retry sweep completed", slog.Int("attempted", attempted))
			}
		}
	}
}
