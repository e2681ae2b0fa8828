package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "TASKLINK"

// setDefaults registers every default value with viper. Keys must be known to
// viper before Unmarshal so that environment overrides are picked up.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.request_timeout_seconds", 30)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.api_url", "https://api.telegram.org")
	v.SetDefault("telegram.messages_per_second", 25)
	v.SetDefault("telegram.poll_timeout_seconds", 30)

	v.SetDefault("notify.queue_size", 100)
	v.SetDefault("notify.worker_count", 2)
	v.SetDefault("notify.send_timeout_seconds", 10)

	v.SetDefault("scanner.enabled", true)
	v.SetDefault("scanner.interval_minutes", 60)

	v.SetDefault("bot.api_url", "http://127.0.0.1:8080/api/")
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// ErrBotTokenRequired is returned by LoadBot when no bot token is configured.
var ErrBotTokenRequired = errors.New("telegram.bot_token is required")

// LoadBot loads configuration for the chat bot process. Only the server
// (logging), telegram and bot sections are validated; database and auth
// settings are ignored.
func LoadBot() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	for _, section := range []interface{}{&cfg.Server, &cfg.Telegram, &cfg.Bot} {
		if err := validate.Struct(section); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}
	if strings.TrimSpace(cfg.Telegram.BotToken) == "" {
		return nil, ErrBotTokenRequired
	}

	return cfg, nil
}

func read() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
