package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phrazzld/tasklink-api/internal/bot"
	"github.com/phrazzld/tasklink-api/internal/config"
	"github.com/phrazzld/tasklink-api/internal/platform/logger"
	"github.com/phrazzld/tasklink-api/internal/platform/telegram"
)

func runCmd() *cobra.Command {
	var apiURL string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Long-poll Telegram and answer commands until interrupted",
		Long: `Start the bot.

The bot reads its configuration from config.yaml and TASKLINK_* environment
variables. TASKLINK_TELEGRAM_BOT_TOKEN is required.

Examples:
  tasklink-bot run
  tasklink-bot run --api-url http://localhost:8080/api/`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(apiURL)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runBot(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides bot.api_url)")
	return cmd
}

func checkConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Validate bot configuration and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig("")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration ok: api_url=%s telegram_api=%s\n",
				cfg.Bot.APIURL, cfg.Telegram.APIURL)
			return nil
		},
	}
}

func loadConfig(apiURL string) (*config.Config, error) {
	cfg, err := config.LoadBot()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if apiURL != "" {
		cfg.Bot.APIURL = apiURL
	}
	return cfg, nil
}

func runBot(ctx context.Context, cfg *config.Config) error {
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	client, err := telegram.NewClient(cfg.Telegram, log)
	if err != nil {
		return err
	}
	api := bot.NewAPIClient(cfg.Bot.APIURL, nil)

	log.Info("starting bot", slog.String("api_url", cfg.Bot.APIURL))
	return bot.New(client, client, api, log).Run(ctx)
}
