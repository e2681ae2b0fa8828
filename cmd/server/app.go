package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/tasklink-api/internal/api"
	"github.com/phrazzld/tasklink-api/internal/config"
	"github.com/phrazzld/tasklink-api/internal/events"
	"github.com/phrazzld/tasklink-api/internal/notify"
	"github.com/phrazzld/tasklink-api/internal/platform/postgres"
	"github.com/phrazzld/tasklink-api/internal/platform/telegram"
	"github.com/phrazzld/tasklink-api/internal/scanner"
	"github.com/phrazzld/tasklink-api/internal/service"
	"github.com/phrazzld/tasklink-api/internal/service/auth"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// application holds the shared dependencies of the server process.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	hub        *events.Hub
	dispatcher *notify.Dispatcher
	router     http.Handler

	// scanner drops reminders when the queue is full; onceScanner waits for
	// space so a cron-driven -scan-once run delivers every reminder.
	scanner     *scanner.Scanner
	onceScanner *scanner.Scanner
}

// newApplication wires stores, services and handlers. Nothing is started.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{config: cfg, logger: logger, db: db}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	linkStore := postgres.NewPostgresIdentityLinkStore(db, logger)

	sender, err := newSender(cfg.Telegram, logger)
	if err != nil {
		return nil, err
	}

	registry := service.NewIdentityRegistry(linkStore, logger)

	app.hub = events.NewHub(logger)
	app.dispatcher = notify.NewDispatcher(cfg.Notify, registry, sender, logger)
	app.scanner = scanner.New(taskStore, registry, app.dispatcher, logger)
	app.onceScanner = scanner.New(taskStore, registry, app.dispatcher.Waiting(), logger)

	taskService := service.NewTaskService(taskStore, registry, app.hub, app.dispatcher, logger)
	userService := service.NewUserService(userStore, auth.NewBcryptVerifier(cfg.Auth.BCryptCost), logger)

	app.router = api.NewRouter(api.RouterDeps{
		Logger:         logger,
		JWTService:     jwtService,
		Users:          userService,
		Tasks:          taskService,
		Registry:       registry,
		Realtime:       events.NewWebsocketHandler(app.hub, logger),
		DB:             db,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second,
	})

	logger.Info("application initialized")
	return app, nil
}

// newSender returns the Bot API client, or a logging stand-in when no bot
// token is configured.
func newSender(cfg config.TelegramConfig, logger *slog.Logger) (notify.Sender, error) {
	if cfg.BotToken == "" {
		logger.Warn("telegram bot token not set, notifications will only be logged")
		return notify.LogSender{Logger: logger}, nil
	}
	client, err := telegram.NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram client: %w", err)
	}
	return client, nil
}

// Run serves HTTP and runs the background workers until ctx is cancelled,
// then shuts everything down in dependency order.
func (app *application) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	app.dispatcher.Start()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("starting server", slog.Int("port", app.config.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	if app.config.Scanner.Enabled {
		interval := time.Duration(app.config.Scanner.IntervalMinutes) * time.Minute
		g.Go(func() error {
			return app.scanner.Run(gctx, interval)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutting down server")
		return app.shutdown(server)
	})

	return g.Wait()
}

func (app *application) shutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown failed: %w", err))
	}
	app.hub.Close()
	if err := app.dispatcher.Stop(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	app.logger.Info("server shutdown completed")
	return errors.Join(errs...)
}

// scanOnce runs a single overdue scan and waits for the resulting
// notifications to be delivered. Enqueues wait for queue space, so no
// reminder is dropped while workers drain at the send rate limit.
func (app *application) scanOnce(ctx context.Context, now time.Time) error {
	app.dispatcher.Start()

	count, scanErr := app.onceScanner.Scan(ctx, now)

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	stopErr := app.dispatcher.Stop(stopCtx)

	if scanErr != nil {
		return scanErr
	}
	app.logger.Info("overdue scan complete", slog.Int("enqueued", count))
	return stopErr
}
