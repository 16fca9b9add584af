package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the fully-resolved process configuration: coded defaults,
// overridden by the YAML file when present, overridden by environment.
type Config struct {
	Port      int
	RedisURL  string // empty selects the in-process cache
	DNSServer string // empty uses the system resolver

	WhoisTimeout     time.Duration
	DNSTimeout       time.Duration
	CacheTTL         time.Duration
	MaxBatchItems    int
	BatchConcurrency int

	RateLimitEnabled bool
	CheckPerMinute   int
	BulkPerMinute    int

	ShutdownGrace time.Duration
}

type configFile struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Dependencies struct {
		RedisURL  string `yaml:"redis_url"`
		DNSServer string `yaml:"dns_server"`
	} `yaml:"dependencies"`
	Checks struct {
		WhoisTimeoutSeconds int `yaml:"whois_timeout_seconds"`
		DNSTimeoutSeconds   int `yaml:"dns_timeout_seconds"`
		CacheTTLSeconds     int `yaml:"cache_ttl_seconds"`
		MaxBatchItems       int `yaml:"max_batch_items"`
		BatchConcurrency    int `yaml:"batch_concurrency"`
	} `yaml:"checks"`
	RateLimit struct {
		Enabled        *bool `yaml:"enabled"`
		CheckPerMinute int   `yaml:"check_per_minute"`
		BulkPerMinute  int   `yaml:"bulk_per_minute"`
	} `yaml:"rate_limit"`
}

// Load reads configuration from path. A missing file is not an error;
// the defaults stand. PORT and REDIS_URL environment variables win over
// everything.
func Load(path string) (Config, error) {
	cfg := Config{
		Port:             8080,
		WhoisTimeout:     5 * time.Second,
		DNSTimeout:       3 * time.Second,
		CacheTTL:         300 * time.Second,
		MaxBatchItems:    10,
		BatchConcurrency: 5,
		RateLimitEnabled: true,
		CheckPerMinute:   10,
		BulkPerMinute:    5,
		ShutdownGrace:    10 * time.Second,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Server.Port > 0 {
			cfg.Port = f.Server.Port
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Dependencies.DNSServer != "" {
			cfg.DNSServer = f.Dependencies.DNSServer
		}
		if f.Checks.WhoisTimeoutSeconds > 0 {
			cfg.WhoisTimeout = time.Duration(f.Checks.WhoisTimeoutSeconds) * time.Second
		}
		if f.Checks.DNSTimeoutSeconds > 0 {
			cfg.DNSTimeout = time.Duration(f.Checks.DNSTimeoutSeconds) * time.Second
		}
		if f.Checks.CacheTTLSeconds > 0 {
			cfg.CacheTTL = time.Duration(f.Checks.CacheTTLSeconds) * time.Second
		}
		if f.Checks.MaxBatchItems > 0 {
			cfg.MaxBatchItems = f.Checks.MaxBatchItems
		}
		if f.Checks.BatchConcurrency > 0 {
			cfg.BatchConcurrency = f.Checks.BatchConcurrency
		}
		if f.RateLimit.Enabled != nil {
			cfg.RateLimitEnabled = *f.RateLimit.Enabled
		}
		if f.RateLimit.CheckPerMinute > 0 {
			cfg.CheckPerMinute = f.RateLimit.CheckPerMinute
		}
		if f.RateLimit.BulkPerMinute > 0 {
			cfg.BulkPerMinute = f.RateLimit.BulkPerMinute
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		n, convErr := strconv.Atoi(port)
		if convErr != nil {
			return Config{}, fmt.Errorf("invalid PORT %q: %w", port, convErr)
		}
		cfg.Port = n
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.RedisURL = redisURL
	}

	return cfg, nil
}
