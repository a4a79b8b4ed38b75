package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the HTTP-side settings. LLM settings live in llm.Config.
type Config struct {
	Port              string
	CorsAllowedOrigin string
	OffloadWorkers    int
	MaxUploadBytes    int64
	ShutdownTimeout   time.Duration
}

func Default() Config {
	return Config{
		Port:              "8000",
		CorsAllowedOrigin: "*",
		OffloadWorkers:    8,
		MaxUploadBytes:    10 << 20,
		ShutdownTimeout:   15 * time.Second,
	}
}

// LoadDotEnv reads .env into the process environment when the file exists.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func Load() (Config, error) {
	cfg := Default()

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGIN"); v != "" {
		cfg.CorsAllowedOrigin = v
	}

	if v := os.Getenv("OFFLOAD_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("OFFLOAD_WORKERS must be a positive integer, got %q", v)
		}
		cfg.OffloadWorkers = n
	}

	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer, got %q", v)
		}
		cfg.MaxUploadBytes = n
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}

	return cfg, nil
}
