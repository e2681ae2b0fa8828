package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Scanner  ScannerConfig  `mapstructure:"scanner"`
	Bot      BotConfig      `mapstructure:"bot"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                  int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel              string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// TelegramConfig configures the Bot API used for push notifications and polling.
// An empty BotToken disables outbound notifications on the server.
type TelegramConfig struct {
	BotToken           string  `mapstructure:"bot_token"`
	APIURL             string  `mapstructure:"api_url" validate:"required,url"`
	MessagesPerSecond  float64 `mapstructure:"messages_per_second" validate:"gt=0"`
	PollTimeoutSeconds int     `mapstructure:"poll_timeout_seconds" validate:"gte=0"`
}

// NotifyConfig sizes the deferred notification dispatcher.
type NotifyConfig struct {
	QueueSize          int `mapstructure:"queue_size" validate:"gt=0"`
	WorkerCount        int `mapstructure:"worker_count" validate:"gt=0"`
	SendTimeoutSeconds int `mapstructure:"send_timeout_seconds" validate:"gt=0"`
}

// ScannerConfig controls the in-process expiry scan schedule.
type ScannerConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes" validate:"gt=0"`
}

// BotConfig holds settings used only by the chat bot process.
type BotConfig struct {
	APIURL string `mapstructure:"api_url" validate:"required,url"`
}
