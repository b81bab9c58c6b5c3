package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrEmptyToken = errors.New(
		"error getting SF_TELEGRAM_TOKEN: variable not specified or contains an empty string while Telegram is enabled",
	)
	ErrInvalidConcurrency = errors.New("SF_CONCURRENCY must be at least 1")
	ErrInvalidRetries     = errors.New("SF_MAX_RETRIES must be at least 1")
	ErrInvalidInterval    = errors.New("SF_CHECK_INTERVAL must be positive")
)

type Config struct {
	Env         string // Env is the current environment: local, development, production.
	StoragePath string
	MetricsAddr string
	Scraper     Scraper
	Polling     Polling
	Tg          Telegram
}

// Scraper holds the storefront and HTTP settings.
type Scraper struct {
	BaseURL        string
	Country        string
	Language       string
	RequestTimeout time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	RateLimit      float64 // requests per second, 0 disables pacing
	CacheEnabled   bool
	CacheTTL       time.Duration
}

// Polling holds the check cycle settings.
type Polling struct {
	Interval    time.Duration
	Concurrency int
}

type Telegram struct {
	Enabled bool
	Token   string        // Token is an unique telegram bot token.
	Timeout time.Duration // Timeout is a poller timeout duration.
}

// MustLoad loads the configuration from environment variables and returns a Config struct.
func MustLoad() *Config {
	v := viper.New()

	// Automatically binds environment variables to config keys
	v.SetEnvPrefix("SF")
	v.AutomaticEnv()

	v.SetDefault("ENV", "production")
	v.SetDefault("STORAGE_PATH", "./stock-flow.db")
	v.SetDefault("METRICS_ADDR", ":9090")
	v.SetDefault("BASE_URL", "https://www.zara.com")
	v.SetDefault("COUNTRY", "tr")
	v.SetDefault("LANGUAGE", "en")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("MAX_RETRIES", 3)
	v.SetDefault("RETRY_BASE_DELAY", "1s")
	v.SetDefault("RATE_LIMIT", 2)
	v.SetDefault("CACHE_ENABLED", true)
	v.SetDefault("CACHE_TTL", "300s")
	v.SetDefault("CHECK_INTERVAL", "5m")
	v.SetDefault("CONCURRENCY", 1)
	v.SetDefault("TELEGRAM_ENABLED", false)
	v.SetDefault("TELEGRAM_TIMEOUT", "15s")

	cfg := &Config{
		Env:         v.GetString("ENV"),
		StoragePath: v.GetString("STORAGE_PATH"),
		MetricsAddr: v.GetString("METRICS_ADDR"),
		Scraper: Scraper{
			BaseURL:        v.GetString("BASE_URL"),
			Country:        strings.ToLower(v.GetString("COUNTRY")),
			Language:       strings.ToLower(v.GetString("LANGUAGE")),
			RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
			MaxRetries:     v.GetInt("MAX_RETRIES"),
			RetryBaseDelay: v.GetDuration("RETRY_BASE_DELAY"),
			RateLimit:      v.GetFloat64("RATE_LIMIT"),
			CacheEnabled:   v.GetBool("CACHE_ENABLED"),
			CacheTTL:       v.GetDuration("CACHE_TTL"),
		},
		Polling: Polling{
			Interval:    v.GetDuration("CHECK_INTERVAL"),
			Concurrency: v.GetInt("CONCURRENCY"),
		},
		Tg: Telegram{
			Enabled: v.GetBool("TELEGRAM_ENABLED"),
			Token:   v.GetString("TELEGRAM_TOKEN"),
			Timeout: v.GetDuration("TELEGRAM_TIMEOUT"),
		},
	}

	if cfg.Tg.Enabled && cfg.Tg.Token == "" {
		panic(ErrEmptyToken)
	}
	if cfg.Polling.Concurrency < 1 {
		panic(ErrInvalidConcurrency)
	}
	if cfg.Scraper.MaxRetries < 1 {
		panic(ErrInvalidRetries)
	}
	if cfg.Polling.Interval <= 0 {
		panic(ErrInvalidInterval)
	}

	return cfg
}
