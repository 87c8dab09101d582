// cmd/service/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"commit-scorer/internal/api"
	"commit-scorer/internal/collector"
	"commit-scorer/internal/config"
	"commit-scorer/internal/database"
	"commit-scorer/internal/job"
	"commit-scorer/internal/llm"
	"commit-scorer/internal/model"
	"commit-scorer/internal/sfera"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Application startup error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Initialize structured logger
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 2. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully")

	// 3. Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. Initialize database connection and run migrations
	dbpool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbpool.Close()
	logger.Info("Database connection established")

	if err := runMigrations(cfg.MigrationsPath, cfg.DBURL); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully")

	// 5. Initialize application components
	store := database.NewStore(dbpool)

	sferaOpts := sfera.Options{
		BaseURL:            cfg.SferaBaseURL,
		PageSize:           cfg.SferaPageSize,
		PageDelay:          cfg.SferaPageDelay,
		InsecureSkipVerify: cfg.SferaInsecureSkipVerify,
	}
	newRemote := func(creds model.Credentials) (collector.Remote, error) {
		return sfera.NewClient(creds, logger, sferaOpts)
	}
	newBrowser := func(creds model.Credentials) (api.Browser, error) {
		return sfera.NewClient(creds, logger, sferaOpts)
	}

	scorer, err := newScorer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create language model client: %w", err)
	}

	coll := collector.New(store, newRemote, scorer, logger)
	runner := job.NewRunner(ctx, coll, logger)

	scheduler, err := job.NewScheduler(runner, logger, cfg.CollectTargets, cfg.SyncInterval, cfg.DefaultSyncSinceTime, cfg.SferaCredentials())
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(store, runner, newBrowser, cfg.SferaCredentials(), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 6. Run the HTTP server and the scheduler until a shutdown signal arrives
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received. Stopping HTTP server.")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		scheduler.Start(gctx)
		return nil
	})

	err = g.Wait()
	cancel()
	runner.Wait()
	logger.Info("Application stopped")
	return err
}

// newScorer builds the language-model scorer. Without model settings every commit is
// scored deterministically.
func newScorer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*llm.Scorer, error) {
	chatCfg := llm.ChatConfig{
		BaseURL:            cfg.LLMBaseURL,
		Model:              cfg.LLMModel,
		TokenURL:           cfg.LLMTokenURL,
		ClientID:           cfg.LLMClientID,
		ClientSecret:       cfg.LLMClientSecret,
		Scope:              cfg.LLMScope,
		APIKey:             cfg.LLMAPIKey,
		Timeout:            cfg.LLMTimeout,
		InsecureSkipVerify: cfg.LLMInsecureSkipVerify,
	}
	if !chatCfg.Configured() {
		return llm.NewScorer(nil, logger), nil
	}
	client, err := llm.NewChatClient(ctx, chatCfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Language model scoring enabled", "model", cfg.LLMModel)
	return llm.NewScorer(client, logger), nil
}

func runMigrations(sourceURL, dbURL string) error {
	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
