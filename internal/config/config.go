// Package config loads the process configuration of the zoneplanner
// binary from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the process configuration.
type Config struct {
	Port       int
	LogLevel   string
	LogFormat  string
	ProjectDir string

	// CORSOrigins are the origins allowed to call the API. Empty allows any.
	CORSOrigins []string
}

// Defaults.
const (
	DefaultPort      = 3000
	DefaultLogLevel  = "info"
	DefaultLogFormat = "tint"
)

// Load reads configuration from the environment. The given .env files, or
// ./.env when none is given, seed variables that are not already set; a
// missing file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	port, err := getEnvAsInt("ZONEPLANNER_PORT", DefaultPort)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Port:       port,
		LogLevel:   getEnv("ZONEPLANNER_LOG_LEVEL", DefaultLogLevel),
		LogFormat:  getEnv("ZONEPLANNER_LOG_FORMAT", DefaultLogFormat),
		ProjectDir: getEnv("ZONEPLANNER_PROJECT", "."),

		CORSOrigins: getEnvAsList("ZONEPLANNER_CORS_ORIGINS"),
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("ZONEPLANNER_PORT %d out of range", cfg.Port)
	}
	return cfg, nil
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
