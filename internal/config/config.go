package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/MikeSquared-Agency/wrapped/internal/export"
)

type Config struct {
	Port           int           `env:"WRAPPED_PORT" envDefault:"8760"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	Timezone       string        `env:"WRAPPED_TIMEZONE" envDefault:"Australia/Melbourne"`
	PreciseTokens  bool          `env:"WRAPPED_PRECISE_TOKENS" envDefault:"true"`
	TokenEncoding  string        `env:"WRAPPED_TOKEN_ENCODING" envDefault:"cl100k_base"`
	Keywords       int           `env:"WRAPPED_KEYWORDS" envDefault:"25"`
	RequestTimeout time.Duration `env:"WRAPPED_REQUEST_TIMEOUT" envDefault:"60s"`
	MaxUploadMB    int           `env:"WRAPPED_MAX_UPLOAD_MB" envDefault:"256"`
	APIToken       string        `env:"WRAPPED_API_TOKEN"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL      time.Duration `env:"WRAPPED_CACHE_TTL" envDefault:"30m"`

	NatsURL   string `env:"NATS_URL"`
	NatsToken string `env:"NATS_TOKEN"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"exports"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	SlackBotToken string `env:"SLACK_BOT_TOKEN"`
	SlackChannel  string `env:"SLACK_CHANNEL"`

	WatchState string `env:"WRAPPED_WATCH_STATE" envDefault:"~/.wrapped/watch-state.json"`
}

// Load reads the environment. Call godotenv first if a .env file should count.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks values env parsing cannot. Timezone problems are export.ConfigError.
func (c Config) Validate() error {
	if _, err := export.LoadLocation(c.Timezone); err != nil {
		return err
	}
	if c.Port <= 0 || c.Port > 65535 {
		return &export.ConfigError{Key: "WRAPPED_PORT", Value: fmt.Sprint(c.Port), Err: fmt.Errorf("out of range")}
	}
	if c.Keywords <= 0 {
		return &export.ConfigError{Key: "WRAPPED_KEYWORDS", Value: fmt.Sprint(c.Keywords), Err: fmt.Errorf("must be positive")}
	}
	if c.MaxUploadMB <= 0 {
		return &export.ConfigError{Key: "WRAPPED_MAX_UPLOAD_MB", Value: fmt.Sprint(c.MaxUploadMB), Err: fmt.Errorf("must be positive")}
	}
	if c.RequestTimeout <= 0 {
		return &export.ConfigError{Key: "WRAPPED_REQUEST_TIMEOUT", Value: c.RequestTimeout.String(), Err: fmt.Errorf("must be positive")}
	}
	return nil
}

// MaxUploadBytes is the request body limit.
func (c Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }

func (c Config) RedisEnabled() bool { return strings.TrimSpace(c.RedisAddr) != "" }

func (c Config) NatsEnabled() bool { return strings.TrimSpace(c.NatsURL) != "" }

func (c Config) MinioEnabled() bool {
	return c.MinioEndpoint != "" && c.MinioAccessKey != "" && c.MinioSecretKey != ""
}

func (c Config) SlackEnabled() bool { return c.SlackBotToken != "" && c.SlackChannel != "" }
