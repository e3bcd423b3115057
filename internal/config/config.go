package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const prefix = "EARNLEARN_"

type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	SpawnInterval time.Duration
	SessionTTL    time.Duration
	SecureCookie  bool

	LoginRateLimit  int
	LoginRatePeriod time.Duration

	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string
}

// PushEnabled reports whether both VAPID keys are configured.
func (c Config) PushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

// Load reads EARNLEARN_* variables. When envFile exists it is loaded first;
// variables already set in the environment win.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat %s: %w", envFile, err)
		}
	}

	var err error
	cfg := Config{
		Port:            get("PORT", "8080"),
		DBPath:          get("DB_PATH", "earnlearn.db"),
		LogLevel:        get("LOG_LEVEL", "info"),
		LogFormat:       get("LOG_FORMAT", "text"),
		VAPIDPublicKey:  get("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: get("VAPID_PRIVATE_KEY", ""),
		VAPIDSubscriber: get("VAPID_SUBSCRIBER", "mailto:noreply@earnlearn.app"),
	}
	if cfg.SpawnInterval, err = duration("SPAWN_INTERVAL", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = duration("SESSION_TTL", 30*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.LoginRatePeriod, err = duration("LOGIN_RATE_PERIOD", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.LoginRateLimit, err = integer("LOGIN_RATE_LIMIT", 10); err != nil {
		return Config{}, err
	}
	if cfg.SecureCookie, err = boolean("SECURE_COOKIE", false); err != nil {
		return Config{}, err
	}

	if cfg.SpawnInterval <= 0 {
		return Config{}, fmt.Errorf("%sSPAWN_INTERVAL must be positive", prefix)
	}
	if cfg.LoginRateLimit <= 0 {
		return Config{}, fmt.Errorf("%sLOGIN_RATE_LIMIT must be positive", prefix)
	}
	return cfg, nil
}

func get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(prefix + key)); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s%s: %w", prefix, key, err)
	}
	return d, nil
}

func integer(key string, fallback int) (int, error) {
	v := get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s%s: %w", prefix, key, err)
	}
	return n, nil
}

func boolean(key string, fallback bool) (bool, error) {
	v := get(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s%s: %w", prefix, key, err)
	}
	return b, nil
}
