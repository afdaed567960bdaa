// Package config loads runtime configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the evaluation engine.
type Config struct {
	// Judge model settings.
	OllamaURL   string
	JudgeModel  string
	Temperature float64

	// Generation retry settings.
	RetryAttempts int
	RetryDelay    time.Duration
	TokenBudget   int

	// Persistence settings. SQLitePath is used when RedisURL is empty.
	SQLitePath string
	RedisURL   string

	// Batch settings.
	Concurrency int

	// Operational settings.
	LogLevel string
}

// Load reads configuration from a .env file (when present) and the
// environment, applying defaults for anything unset.
func Load() (Config, error) {
	// A missing .env file is not an error; real environments set
	// variables directly.
	_ = godotenv.Load()

	cfg := Config{
		OllamaURL:     envStr("ARBITER_OLLAMA_URL", "http://localhost:11434"),
		JudgeModel:    envStr("ARBITER_JUDGE_MODEL", "llama3.1:8b"),
		Temperature:   envFloat("ARBITER_TEMPERATURE", 0.0),
		RetryAttempts: envInt("ARBITER_RETRY_ATTEMPTS", 3),
		RetryDelay:    envDuration("ARBITER_RETRY_DELAY", 500*time.Millisecond),
		TokenBudget:   envInt("ARBITER_TOKEN_BUDGET", 768),
		SQLitePath:    envStr("ARBITER_SQLITE_PATH", "arbiter.db"),
		RedisURL:      envStr("ARBITER_REDIS_URL", ""),
		Concurrency:   envInt("ARBITER_CONCURRENCY", 4),
		LogLevel:      envStr("ARBITER_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.OllamaURL == "" {
		return fmt.Errorf("config: ARBITER_OLLAMA_URL is required")
	}
	if c.JudgeModel == "" {
		return fmt.Errorf("config: ARBITER_JUDGE_MODEL is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config: ARBITER_TEMPERATURE must be in [0, 2]")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("config: ARBITER_RETRY_ATTEMPTS must be at least 1")
	}
	if c.TokenBudget < 1 {
		return fmt.Errorf("config: ARBITER_TOKEN_BUDGET must be positive")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("config: ARBITER_CONCURRENCY must be at least 1")
	}
	return nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
