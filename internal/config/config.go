package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	StoragePath     string
	LogLevel        slog.Level
	DefaultPageSize int
	HTTPServer
}

type HTTPServer struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads ./.env, or files when given, then the environment. Set variables win.
func Load(files ...string) (*Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cfg := &Config{
		StoragePath: os.Getenv("POSTGRES_CONN"),
		HTTPServer: HTTPServer{
			Address: envString("SERVER_ADDRESS", ":8080"),
		},
	}
	if cfg.StoragePath == "" {
		return nil, fmt.Errorf("%s: POSTGRES_CONN is not set", op)
	}

	var err error
	if cfg.LogLevel, err = envLevel("LOG_LEVEL", slog.LevelInfo); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.DefaultPageSize, err = envInt("DEFAULT_PAGE_SIZE", 10); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.ReadTimeout, err = envDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.WriteTimeout, err = envDuration("HTTP_WRITE_TIMEOUT", 10*time.Second); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.IdleTimeout, err = envDuration("HTTP_IDLE_TIMEOUT", 60*time.Second); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return cfg, nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func envLevel(key string, def slog.Level) (slog.Level, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("%s must be one of debug, info, warn, error, got %q", key, v)
	}
	return level, nil
}
