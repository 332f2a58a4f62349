// Package config handles resolving configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable read by [Load].
const EnvPrefix = "TODO_"

// Config is the runtime configuration of the todo server and CLI.
type Config struct {
	LogLevel   slog.Level `yaml:"log_level"   env:"LOG_LEVEL"`
	WebAddress string     `yaml:"web_address" env:"WEB_ADDRESS" validate:"required"`
	DBFilepath string     `yaml:"db_filepath" env:"DB_FILEPATH" validate:"required"`
	DevMode    bool       `yaml:"dev_mode"    env:"DEV_MODE"`
	Auth       Auth       `yaml:"auth"        envPrefix:"AUTH_"`
}

// Auth configures credential hashing and token issuance.
type Auth struct {
	// SigningSecret is the HMAC key for access tokens. It is only read from
	// the TODO_AUTH_SIGNING_SECRET environment variable and has no default.
	SigningSecret    Secret        `yaml:"-"                 env:"SIGNING_SECRET"    validate:"required,min=32"`
	SigningAlgorithm string        `yaml:"signing_algorithm" env:"SIGNING_ALGORITHM" validate:"oneof=HS256 HS384 HS512"`
	TokenTTL         time.Duration `yaml:"token_ttl"         env:"TOKEN_TTL"         validate:"gt=0"`
	// ClockSkew is the leeway applied when validating token time claims.
	ClockSkew  time.Duration `yaml:"clock_skew"  env:"CLOCK_SKEW"  validate:"gte=0,lte=1m"`
	CookieName string        `yaml:"cookie_name" env:"COOKIE_NAME" validate:"required,printascii,excludesall=;=0x2C"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" validate:"gte=4,lte=31"`
}

// Secret is a string that never renders its value when printed or logged.
type Secret string

const redacted = "[REDACTED]"

// String satisfies [fmt.Stringer].
func (s Secret) String() string { return redacted }

// MarshalText satisfies [encoding.TextMarshaler], used by the JSON log handler.
func (s Secret) MarshalText() ([]byte, error) { return []byte(redacted), nil }

// Bytes returns the raw secret value.
func (s Secret) Bytes() []byte { return []byte(s) }

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultPath is the location of the configuration file when none is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "todo.yaml")
}

// Default returns a version of the config with all default values populated.
// Note that this configuration is _not_ valid, as the signing secret must be
// provided through the environment.
func Default() *Config {
	return &Config{
		LogLevel:   slog.LevelInfo,
		WebAddress: "localhost:9999",
		DBFilepath: filepath.Join(xdg.DataHome, "todo", "db.sqlite"),
		DevMode:    false,
		Auth: Auth{
			SigningSecret:    "", // must be set by the environment
			SigningAlgorithm: "HS256",
			TokenTTL:         20 * time.Minute,
			ClockSkew:        0,
			CookieName:       "access_token",
			BcryptCost:       bcrypt.DefaultCost,
		},
	}
}

// Load reads the YAML configuration file at path, merges it over the
// defaults, applies TODO_* environment overrides, and validates the result.
// A missing file is not an error; the defaults and environment are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	bytes, err := os.ReadFile(path) //nolint:gosec // allow the config file to be loaded from anywhere
	switch {
	case errors.Is(err, os.ErrNotExist):
		// environment only
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err = yaml.Unmarshal(bytes, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file at %s: %w", path, err)
		}
	}

	if err = env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the config for completeness.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
