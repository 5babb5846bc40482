package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/todmy/report-checker/internal/contradiction"
)

// Config holds the service configuration, read from the environment.
type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	JWTSecret   string
	AuthEnabled bool
	RulesFile   string
	CacheSize   int
	Engine      contradiction.Config

	// BootstrapClientID and BootstrapClientSecret register an API client at
	// startup when both are set.
	BootstrapClientID     string
	BootstrapClientSecret string
}

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function
func FromEnv(getenv func(string) string) (*Config, error) {
	port := strings.TrimSpace(getenv("PORT"))
	if port == "" {
		port = "8080"
	}
	port = strings.TrimPrefix(port, ":")

	env := strings.TrimSpace(getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	cfg := &Config{
		Port:        port,
		Env:         env,
		DatabaseURL: strings.TrimSpace(getenv("DATABASE_URL")),
		JWTSecret:   getenv("JWT_SECRET"),
		RulesFile:   strings.TrimSpace(getenv("RULES_FILE")),
		Engine:      contradiction.DefaultConfig(),

		BootstrapClientID:     strings.TrimSpace(getenv("BOOTSTRAP_CLIENT_ID")),
		BootstrapClientSecret: getenv("BOOTSTRAP_CLIENT_SECRET"),
	}

	authDisabled, err := parseBool(getenv("AUTH_DISABLED"), false)
	if err != nil {
		return nil, fmt.Errorf("AUTH_DISABLED: %w", err)
	}
	cfg.AuthEnabled = !authDisabled

	if cfg.CacheSize, err = parseInt(getenv("CACHE_SIZE"), 512); err != nil {
		return nil, fmt.Errorf("CACHE_SIZE: %w", err)
	}
	if cfg.Engine.MaxSentences, err = parseInt(getenv("MAX_SENTENCES"), 0); err != nil {
		return nil, fmt.Errorf("MAX_SENTENCES: %w", err)
	}
	if cfg.Engine.AllOccurrences, err = parseBool(getenv("ALL_OCCURRENCES"), false); err != nil {
		return nil, fmt.Errorf("ALL_OCCURRENCES: %w", err)
	}
	if cfg.Engine.FailurePolicy, err = contradiction.ParseFailurePolicy(getenv("RULE_FAILURE_POLICY")); err != nil {
		return nil, fmt.Errorf("RULE_FAILURE_POLICY: %w", err)
	}

	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required unless AUTH_DISABLED=true")
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Production reports whether the service runs in production mode
func (c *Config) Production() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	default:
		return false
	}
}

func parseInt(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative, got %d", n)
	}
	return n, nil
}

func parseBool(raw string, fallback bool) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseBool(raw)
}
