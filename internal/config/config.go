// Package config loads and validates application configuration.
// Sources are layered: built-in defaults, then an optional YAML file named by
// CONFIG_PATH, then environment variables. Empty environment variables are
// ignored so they never blank out a default.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar names the optional YAML config file.
const PathEnvVar = "CONFIG_PATH"

// Config holds all configuration values for the API server.
// Each field is set by the environment variable of the same name in upper
// case (e.g. database_url <- DATABASE_URL) or the same key in the YAML file.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `koanf:"port"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `koanf:"database_url"`

	// LogLevel controls the minimum log level: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// As an environment variable it is a comma-separated list.
	CORSOrigins []string `koanf:"cors_origins"`

	// JWTSecret signs access tokens. Required.
	JWTSecret string `koanf:"jwt_secret"`
	// JWTTTL is the lifetime of an access token.
	JWTTTL time.Duration `koanf:"jwt_ttl"`

	// MediaRoot is the directory photos are stored in and served from.
	MediaRoot string `koanf:"media_root"`
	// MaxUploadBytes caps the size of one photo.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// GoogleMapsAPIKey enables the places lookup. Optional: without it every
	// places call fails with an upstream error.
	GoogleMapsAPIKey string `koanf:"google_maps_api_key"`
	// PlacesTimeout bounds one call to the places provider.
	PlacesTimeout time.Duration `koanf:"places_timeout"`

	// RateLimitRequests per RateLimitWindow and client IP on the auth and
	// places routes. Zero disables limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`

	// AutoMigrate applies pending migrations at startup.
	AutoMigrate bool `koanf:"auto_migrate"`
}

// Defaults returns the configuration used when nothing overrides a value.
func Defaults() Config {
	return Config{
		Port:              "8080",
		LogLevel:          "info",
		CORSOrigins:       []string{"http://localhost:5173"},
		JWTTTL:            24 * time.Hour,
		MediaRoot:         "media",
		MaxUploadBytes:    10 << 20,
		PlacesTimeout:     10 * time.Second,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		AutoMigrate:       true,
	}
}

// Load reads configuration from defaults, the optional CONFIG_PATH file and
// environment variables, and returns a validated Config.
// Returns an error listing every required value that is not set.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := os.Getenv(PathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	known := knownKeys(k)
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		key = strings.ToLower(key)
		if !known[key] || strings.TrimSpace(value) == "" {
			return "", nil
		}
		if key == "cors_origins" {
			return key, splitCSV(value)
		}
		return key, value
	}), nil); err != nil {
		return Config{}, fmt.Errorf("config: load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports missing required values together, then invalid ones.
func (c Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var errs []error
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if c.PlacesTimeout <= 0 {
		errs = append(errs, errors.New("PLACES_TIMEOUT must be positive"))
	}
	if c.RateLimitRequests > 0 && c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive when rate limiting is on"))
	}
	return errors.Join(errs...)
}

// knownKeys returns the top-level keys of the loaded defaults, so unrelated
// environment variables such as PATH or HOME are never picked up.
func knownKeys(k *koanf.Koanf) map[string]bool {
	out := make(map[string]bool)
	for _, key := range k.Keys() {
		out[key] = true
	}
	return out
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
