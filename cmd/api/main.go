package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/taskboardhq/taskboard/internal/config"
	taskhttp "github.com/taskboardhq/taskboard/internal/http"
	"github.com/taskboardhq/taskboard/internal/middleware"
	"github.com/taskboardhq/taskboard/internal/model"
	"github.com/taskboardhq/taskboard/internal/repository"
	"github.com/taskboardhq/taskboard/internal/service"
	"github.com/taskboardhq/taskboard/internal/token"
)

// userResolverAdapter adapts a user repository to the middleware.UserResolver interface.
type userResolverAdapter struct {
	repo repository.UserRepository
}

func (a *userResolverAdapter) ResolveUser(ctx context.Context, userID string) (model.User, error) {
	user, err := a.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, middleware.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("failed to resolve user: %w", err)
	}
	return user, nil
}

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"log_level", cfg.LogLevel,
	)

	// Database connection
	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected")

	if err := repository.InitSchema(ctx, db); err != nil {
		return err
	}

	// Repositories
	taskRepo := repository.NewPostgresTask(db)
	userRepo := repository.NewPostgresUser(db)

	// Token manager + services
	tokens := token.NewManager(cfg.JWTSecret, token.DefaultTTL)
	taskSvc := service.NewTaskService(taskRepo)
	authSvc := service.NewAuthService(userRepo, tokens)

	// Auth middleware
	auth, err := middleware.NewAuth(middleware.AuthConfig{
		Verifier: tokens,
		Resolver: &userResolverAdapter{repo: userRepo},
	})
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	// HTTP Server
	srv := taskhttp.NewServer(cfg.ServerPort, logger, taskSvc, authSvc, auth, cfg.CORSOrigins)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	logger.Info("server starting", "port", cfg.ServerPort)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
