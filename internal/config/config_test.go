package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = strings.Repeat("s", 32)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		secret  string
		wantErr string
	}{
		{
			name:   "valid config",
			yaml:   `web_address: "localhost:8080"`,
			secret: testSecret,
		},
		{
			name:    "missing secret fails validation",
			yaml:    `log_level: INFO`,
			wantErr: "config validation failed",
		},
		{
			name:    "short secret fails validation",
			yaml:    `log_level: INFO`,
			secret:  "too-short",
			wantErr: "config validation failed",
		},
		{
			name:    "secret in file is ignored",
			yaml:    "auth:\n  signing_secret: " + testSecret,
			wantErr: "config validation failed",
		},
		{
			name:    "unsupported algorithm fails validation",
			yaml:    "auth:\n  signing_algorithm: none",
			secret:  testSecret,
			wantErr: "config validation failed",
		},
		{
			name:    "excessive clock skew fails validation",
			yaml:    "auth:\n  clock_skew: 5m",
			secret:  testSecret,
			wantErr: "config validation failed",
		},
		{
			name:    "non-positive token ttl fails validation",
			yaml:    "auth:\n  token_ttl: 0s",
			secret:  testSecret,
			wantErr: "config validation failed",
		},
		{
			name:    "invalid yaml syntax",
			yaml:    `invalid: [yaml: content`,
			secret:  testSecret,
			wantErr: "failed to unmarshal config file",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv(EnvPrefix+"AUTH_SIGNING_SECRET", test.secret)

			path := writeTestConfig(t, test.yaml)
			cfg, err := Load(path)

			if test.wantErr != "" {
				require.ErrorContains(t, err, test.wantErr)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
		})
	}
}

func TestLoad_FileValues(t *testing.T) {
	t.Setenv(EnvPrefix+"AUTH_SIGNING_SECRET", testSecret)

	path := writeTestConfig(t, strings.Join([]string{
		"log_level: debug",
		"dev_mode: true",
		"auth:",
		"  signing_algorithm: HS512",
		"  token_ttl: 1h",
		"  clock_skew: 30s",
		"  cookie_name: session",
	}, "\n"))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "HS512", cfg.Auth.SigningAlgorithm)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.Auth.ClockSkew)
	assert.Equal(t, "session", cfg.Auth.CookieName)
	assert.Equal(t, Default().Auth.BcryptCost, cfg.Auth.BcryptCost)
	assert.Equal(t, testSecret, string(cfg.Auth.SigningSecret))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvPrefix+"AUTH_SIGNING_SECRET", testSecret)
	t.Setenv(EnvPrefix+"WEB_ADDRESS", "127.0.0.1:7000")
	t.Setenv(EnvPrefix+"AUTH_TOKEN_TTL", "5m")

	path := writeTestConfig(t, "web_address: localhost:8080\nauth:\n  token_ttl: 1h")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.WebAddress)
	assert.Equal(t, 5*time.Minute, cfg.Auth.TokenTTL)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Setenv(EnvPrefix+"AUTH_SIGNING_SECRET", testSecret)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().WebAddress, cfg.WebAddress)
}

func TestSecret_Redacted(t *testing.T) {
	t.Parallel()

	secret := Secret("hunter2")
	assert.Equal(t, redacted, secret.String())
	text, err := secret.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, redacted, string(text))
	assert.Equal(t, []byte("hunter2"), secret.Bytes())
}

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)
	return path
}
