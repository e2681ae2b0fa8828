// Package main implements the entry point for the tasklink API server, which
// serves the task API, the realtime channel, chat notifications and the
// overdue task scanner.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrazzld/tasklink-api/internal/config"
	"github.com/phrazzld/tasklink-api/internal/platform/logger"
)

type options struct {
	migrate  string
	scanOnce bool
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.migrate, "migrate", "",
		"run a migration command (up, down, status, version, reset) and exit")
	fs.BoolVar(&opts.scanOnce, "scan-once", false,
		"run one overdue task scan, wait for notifications to drain, and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.migrate != "" && opts.scanOnce {
		return options{}, fmt.Errorf("-migrate and -scan-once are mutually exclusive")
	}
	return opts, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("telegram_enabled", cfg.Telegram.BotToken != ""),
		slog.Bool("scanner_enabled", cfg.Scanner.Enabled))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}()

	if opts.migrate != "" {
		return runMigrations(ctx, db, opts.migrate, log)
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		return err
	}

	if opts.scanOnce {
		return app.scanOnce(ctx, time.Now().UTC())
	}
	return app.Run(ctx)
}
