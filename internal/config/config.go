package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultAddr             = ":8080"
	defaultAccessCookieName = "access_token"
	defaultAccessSecret     = "change-me-access-secret"
	defaultShareSecret      = "change-me-share-secret"
	defaultShareTTL         = "168h"
	defaultHTTPReadTimeout  = "15s"
)

// Config is everything the proxy reads from the environment. Secrets are
// shared with the dashboard backend, which mints the tokens this service
// only verifies.
type Config struct {
	AppEnv            string
	Addr              string
	DatabaseURL       string
	AccessTokenSecret string
	ShareTokenSecret  string
	AccessCookieName  string
	ShareTokenTTL     time.Duration // used only when minting demo tokens
	HTTPReadTimeout   time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Addr = getEnv("ADDR", defaultAddr)
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.AccessTokenSecret = strings.TrimSpace(getEnv("ACCESS_TOKEN_SECRET", defaultAccessSecret))
	cfg.ShareTokenSecret = strings.TrimSpace(getEnv("SHARE_TOKEN_SECRET", defaultShareSecret))
	cfg.AccessCookieName = strings.TrimSpace(getEnv("ACCESS_TOKEN_COOKIE", defaultAccessCookieName))

	var err error
	cfg.ShareTokenTTL, err = parseDurationEnv("SHARE_TOKEN_TTL", defaultShareTTL)
	if err != nil {
		return nil, err
	}
	cfg.HTTPReadTimeout, err = parseDurationEnv("HTTP_READ_TIMEOUT", defaultHTTPReadTimeout)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.AccessTokenSecret == cfg.ShareTokenSecret {
		// Two trust roots: one leaked secret must not compromise the other.
		return fmt.Errorf("ACCESS_TOKEN_SECRET and SHARE_TOKEN_SECRET must differ")
	}
	if isProdLike(cfg.AppEnv) {
		if cfg.AccessTokenSecret == defaultAccessSecret {
			return fmt.Errorf("in prod ACCESS_TOKEN_SECRET must be set and not default")
		}
		if cfg.ShareTokenSecret == defaultShareSecret {
			return fmt.Errorf("in prod SHARE_TOKEN_SECRET must be set and not default")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	switch env {
	case "prod", "production", "release":
		return true
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	return d, nil
}
