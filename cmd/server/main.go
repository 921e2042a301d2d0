package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vitrola/internal/config"
	"vitrola/internal/database"
	"vitrola/internal/game"
	"vitrola/internal/handlers"
	"vitrola/internal/logger"
	"vitrola/internal/models"
	"vitrola/internal/security"
	"vitrola/internal/service"
)

func main() {
	if err := run(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	logger.Info("database connection established", zap.String("type", db.GetDialect().Name()))

	if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	wordService := service.NewWordService(db, cfg.DetectLanguage)

	if cfg.SeedDefaultWords {
		n, err := wordService.SeedDefaultWords(ctx)
		if err != nil {
			logger.Warn("failed to seed default words", zap.Error(err))
		} else if n > 0 {
			logger.Info("seeded default words", zap.Int("count", n))
		}
	}

	filter, err := models.ParseLanguageFilter(cfg.DefaultFilter)
	if err != nil {
		return err
	}

	logger.Info("session configured",
		zap.Duration("round_duration", cfg.RoundDuration()),
		zap.String("filter", string(filter)))

	hub := handlers.NewHub()
	session := game.NewSession(wordService, game.Options{
		RoundSeconds: cfg.RoundSeconds,
		Filter:       filter,
		Publisher:    hub,
	})
	defer session.Close()
	hub.SetStateSource(session.State)

	// a failed first load leaves an empty catalog; the operator can retry
	// by switching the filter
	if err := session.ChangeFilter(ctx, filter); err != nil {
		logger.Warn("initial catalog load failed", zap.Error(err))
	}

	var limiter *security.RateLimiter
	if cfg.AdminRateLimit > 0 {
		limiter = security.NewRateLimiter(cfg.AdminRateLimit, cfg.AdminRateWindow, nil)
		defer limiter.Close()
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handlers.NewRouter(session, hub, limiter),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
