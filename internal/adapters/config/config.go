package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"hermes/pkg/errors"
)

type Config struct {
	App           AppConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	Ebay          EbayConfig
	SerpApi       SerpApiConfig
	HuggingFace   HuggingFaceConfig
	Telegram      TelegramConfig
	Watch         WatchConfig
	Metrics       MetricsConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"hermes"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"hermes"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	Database string `envconfig:"POSTGRES_DB" default:"hermes"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int           `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL time.Duration `envconfig:"REDIS_SEARCH_CACHE_TTL" default:"10m"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// EbayConfig configures the eBay Buy Browse provider.
// Env selects between the production and sandbox API hosts.
type EbayConfig struct {
	Env          string `envconfig:"EBAY_ENV" default:"production"`
	ClientID     string `envconfig:"EBAY_CLIENT_ID"`
	ClientSecret string `envconfig:"EBAY_CLIENT_SECRET"`
	Scopes       string `envconfig:"EBAY_OAUTH_SCOPES" default:"https://api.ebay.com/oauth/api_scope https://api.ebay.com/oauth/api_scope/buy.marketplace.readonly"`
	Marketplace  string `envconfig:"EBAY_MARKETPLACE" default:"EBAY_US"`
	ReqPerMin    int    `envconfig:"EBAY_REQUESTS_PER_MINUTE" default:"60"`
}

// ScopeList returns the space-separated OAuth scopes as a slice
func (c EbayConfig) ScopeList() []string {
	return strings.Fields(c.Scopes)
}

// Enabled reports whether eBay credentials are configured
func (c EbayConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type SerpApiConfig struct {
	APIKey    string `envconfig:"SERPAPI_API_KEY"`
	ReqPerMin int    `envconfig:"SERPAPI_REQUESTS_PER_MINUTE" default:"30"`
}

// Enabled reports whether a SerpApi key is configured
func (c SerpApiConfig) Enabled() bool {
	return c.APIKey != ""
}

type HuggingFaceConfig struct {
	APIToken string `envconfig:"HF_API_TOKEN"`
	Model    string `envconfig:"HF_SENTIMENT_MODEL" default:"distilbert-base-uncased-finetuned-sst-2-english"`
}

// Enabled reports whether sentiment analysis can be performed
func (c HuggingFaceConfig) Enabled() bool {
	return c.APIToken != ""
}

// TelegramConfig configures optional price-drop alerts
type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`
}

func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != 0
}

// WatchConfig configures the background price-watch worker
type WatchConfig struct {
	Queries    []string      `envconfig:"WATCH_QUERIES"`
	Interval   time.Duration `envconfig:"WATCH_INTERVAL" default:"1h"`
	MaxResults int           `envconfig:"WATCH_MAX_RESULTS" default:"10"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Addr    string `envconfig:"METRICS_ADDR" default:":9090"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables.
// It first tries to load a .env file (useful for local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
