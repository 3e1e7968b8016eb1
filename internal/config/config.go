package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	Log struct {
		Level  string
		Format string
	}
	Links struct {
		// DefaultDomain is used when a link is created without a domain. Every
		// project may create links on it.
		DefaultDomain string
		QRBaseURL     string
	}
	RateLimit struct {
		// Rate is the sustained number of requests per second allowed per API
		// token. Zero disables rate limiting.
		Rate  float64
		Burst int64
	}
	Projects struct {
		CacheTTL time.Duration
	}
}

// Load reads config from environment (SHORTLINKS_ prefix) and optional shortlinks.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SHORTLINKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("shortlinks")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "file:shortlinks.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("links.default_domain", "sl.ink")
	v.SetDefault("links.qr_base_url", "https://api.sl.ink/qr")
	v.SetDefault("ratelimit.rate", 10)
	v.SetDefault("ratelimit.burst", 50)
	v.SetDefault("projects.cache_ttl", "1m")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.Links.DefaultDomain = strings.ToLower(v.GetString("links.default_domain"))
	cfg.Links.QRBaseURL = v.GetString("links.qr_base_url")
	cfg.RateLimit.Rate = v.GetFloat64("ratelimit.rate")
	cfg.RateLimit.Burst = v.GetInt64("ratelimit.burst")

	ttl, err := time.ParseDuration(v.GetString("projects.cache_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHORTLINKS_PROJECTS_CACHE_TTL: %w", err)
	}
	cfg.Projects.CacheTTL = ttl

	switch cfg.DB.Driver {
	case "sqlite3", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("SHORTLINKS_DB_DRIVER must be sqlite3, mysql, or postgres, got %q", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("SHORTLINKS_DB_DSN is required")
	}
	if cfg.Links.DefaultDomain == "" {
		return nil, fmt.Errorf("SHORTLINKS_LINKS_DEFAULT_DOMAIN is required")
	}
	switch cfg.Log.Format {
	case "json", "console":
	default:
		return nil, fmt.Errorf("SHORTLINKS_LOG_FORMAT must be json or console, got %q", cfg.Log.Format)
	}
	if cfg.RateLimit.Rate < 0 {
		return nil, fmt.Errorf("SHORTLINKS_RATELIMIT_RATE must not be negative")
	}
	if cfg.RateLimit.Rate > 0 && cfg.RateLimit.Burst < 1 {
		return nil, fmt.Errorf("SHORTLINKS_RATELIMIT_BURST must be at least 1 when rate limiting is enabled")
	}

	return cfg, nil
}
