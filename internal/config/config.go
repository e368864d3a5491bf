// Package config handles configuration for the server:
// defaults, environment variables, and command-line flags, in that order.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime settings for the JSON Haven server.
type Config struct {
	Address        string        // bind address for the HTTP endpoint
	DatabasePath   string        // path to the SQLite database file
	JWTSecret      string        // HMAC secret for signing access tokens (HS256)
	AccessTokenTTL time.Duration // access token lifetime
	LogLevel       string        // debug, info, warn, error
	AuthRateLimit  int           // max auth requests per window per client IP
	AuthRateWindow time.Duration // rate limit window for auth endpoints
}

// DefaultJWTSecret используется только для локальной разработки
// Сервер пишет предупреждение в лог, если секрет не переопределен
const DefaultJWTSecret = "dev-secret-change-me"

// loadDefaults populates Config with development defaults.
// NOTE: the JWT secret default is insecure and must be overridden in production.
func (c *Config) loadDefaults() {
	c.Address = ":8000"
	c.DatabasePath = "jsonhaven.db"
	c.JWTSecret = DefaultJWTSecret
	c.AccessTokenTTL = 30 * time.Minute
	c.LogLevel = "info"
	c.AuthRateLimit = 10
	c.AuthRateWindow = time.Minute
}

// Load builds a Config by applying defaults, then overlaying values from
// environment variables and finally from command-line flags.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.loadDefaults()
	if err := cfg.parseEnv(); err != nil {
		return nil, err
	}
	if err := cfg.parseFlags(os.Args[1:]); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseEnv overlays configuration from JSONHAVEN_* environment variables.
func (c *Config) parseEnv() error {
	if v := os.Getenv("JSONHAVEN_ADDRESS"); v != "" {
		c.Address = v
	}
	if v := os.Getenv("JSONHAVEN_DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("JSONHAVEN_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("JSONHAVEN_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JSONHAVEN_TOKEN_TTL: %w", err)
		}
		c.AccessTokenTTL = ttl
	}
	if v := os.Getenv("JSONHAVEN_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("JSONHAVEN_AUTH_RATE_LIMIT"); v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JSONHAVEN_AUTH_RATE_LIMIT: %w", err)
		}
		c.AuthRateLimit = rate
	}
	return nil
}

// knownFlags flags handled by parseFlags; all others are left for the caller
var knownFlags = []string{"-a", "-d", "-s", "-t", "-l"}

// parseFlags overlays configuration from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g., ":8000")
//	-d string     SQLite database path
//	-s string     JWT HMAC secret
//	-t duration   access token TTL (e.g., "30m")
//	-l string     log level (debug, info, warn, error)
//
// Args are filtered to only the flags handled here, so flags owned by
// the main package (such as -version) pass through untouched.
func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)

	fs.StringVar(&c.Address, "a", c.Address, "address and port to run server")
	fs.StringVar(&c.DatabasePath, "d", c.DatabasePath, "SQLite database path")
	fs.StringVar(&c.JWTSecret, "s", c.JWTSecret, "JWT secret key")
	fs.DurationVar(&c.AccessTokenTTL, "t", c.AccessTokenTTL, "access token TTL")
	fs.StringVar(&c.LogLevel, "l", c.LogLevel, "log level")

	if err := fs.Parse(filterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	return nil
}

// filterArgs keeps only the known flags (with their values) from args.
func filterArgs(args, known []string) []string {
	knownSet := make(map[string]bool, len(known))
	for _, f := range known {
		knownSet[f] = true
	}

	var filtered []string
	for i := 0; i < len(args); i++ {
		arg := args[i]

		name := arg
		if idx := strings.Index(arg, "="); idx != -1 {
			name = arg[:idx]
		}

		if !knownSet[name] {
			continue
		}

		filtered = append(filtered, arg)

		// Значение может идти отдельным аргументом
		if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}
