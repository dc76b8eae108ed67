package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port            string          `yaml:"port"`
	Debug           bool            `yaml:"debug"`
	DatabaseURL     string          `yaml:"database_url"`
	AdminSecret     string          `yaml:"admin_secret"`
	TokenSecret     string          `yaml:"token_secret"`
	TokenTTLMinutes int             `yaml:"token_ttl_minutes"`
	TrustedProxies  []string        `yaml:"trusted_proxies"`
	RateLimitAdmin  RateLimitConfig `yaml:"rate_limit_admin"`
	RateLimitPublic RateLimitConfig `yaml:"rate_limit_public"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	Enabled           bool          `yaml:"enabled"`
	CacheSize         int           `yaml:"cache_size"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
}

func Load() (Config, error) {
	return LoadFromPath("config.yaml")
}

func LoadFromPath(path string) (Config, error) {
	cfg := NewDefaultConfig()

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			return cfg, err
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	if err := cfg.ensureSecret(&cfg.TokenSecret, "Token secret"); err != nil {
		return cfg, err
	}
	if err := cfg.ensureSecret(&cfg.AdminSecret, "Admin secret"); err != nil {
		return cfg, err
	}

	cfg.LoadEnv()

	return cfg, nil
}

func NewDefaultConfig() Config {
	return Config{
		Port:            "8080",
		Debug:           false,
		TokenTTLMinutes: 60,
		RateLimitAdmin: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             10,
			Enabled:           true,
			CacheSize:         5000,
			CacheTTL:          1 * time.Hour,
		},
		RateLimitPublic: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             10,
			Enabled:           true,
			CacheSize:         5000,
			CacheTTL:          1 * time.Hour,
		},
	}
}

func (c *Config) LoadEnv() {
	if envPort := os.Getenv("PORT"); envPort != "" {
		c.Port = envPort
	}
	if envDB := os.Getenv("DATABASE_URL"); envDB != "" {
		c.DatabaseURL = envDB
	}
	if envSecret := os.Getenv("ADMIN_SECRET"); envSecret != "" {
		c.AdminSecret = envSecret
	}
	if envTokenSecret := os.Getenv("TOKEN_SECRET"); envTokenSecret != "" {
		c.TokenSecret = envTokenSecret
	}
}

// TokenTTL returns the configured session token lifetime.
func (c *Config) TokenTTL() time.Duration {
	if c.TokenTTLMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

func (c *Config) ensureSecret(field *string, name string) error {
	if *field != "" {
		return nil
	}

	slog.Warn(name + " not found, generating a random ephemeral one. THIS SECRET WILL BE LOST ON RESTART.")

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return fmt.Errorf("failed to generate %s: %w", name, err)
	}
	*field = base64.StdEncoding.EncodeToString(secretBytes)

	return nil
}
