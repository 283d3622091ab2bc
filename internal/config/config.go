// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the planner's runtime settings.
type Config struct {
	DatabaseURL        string
	LogLevel           slog.Level
	LookbackDays       int
	FrequentFoodsLimit int
	FallbackPoolSize   int
	PlanSeed           uint64
}

// Load reads .env files (when present) and then the environment. Variables
// already set in the environment win over .env values.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	cfg := &Config{DatabaseURL: os.Getenv("DATABASE_URL")}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(env("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	var err error
	if cfg.LookbackDays, err = positiveInt("HISTORY_LOOKBACK_DAYS", 30); err != nil {
		return nil, err
	}
	if cfg.FrequentFoodsLimit, err = positiveInt("FREQUENT_FOODS_LIMIT", 20); err != nil {
		return nil, err
	}
	if cfg.FallbackPoolSize, err = positiveInt("FALLBACK_POOL_SIZE", 50); err != nil {
		return nil, err
	}
	if cfg.PlanSeed, err = strconv.ParseUint(env("PLAN_SEED", "0"), 10, 64); err != nil {
		return nil, fmt.Errorf("PLAN_SEED: %w", err)
	}
	return cfg, nil
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func positiveInt(key string, fallback int) (int, error) {
	n, err := strconv.Atoi(env(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	return n, nil
}
