package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/todo/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Auth.SigningSecret = "super-secret-signing-key-material!"

	t.Run("json when not a terminal", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		newLogger(cfg, buf, false).Info("configuration loaded", slog.Any("config", cfg))

		line := map[string]any{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "configuration loaded", line["msg"])
		assert.NotContains(t, buf.String(), string(cfg.Auth.SigningSecret))
	})

	t.Run("text on a terminal", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		newLogger(cfg, buf, true).Info("configuration loaded", slog.Any("config", cfg))

		assert.True(t, strings.HasPrefix(buf.String(), "time="))
		assert.NotContains(t, buf.String(), string(cfg.Auth.SigningSecret))
	})

	t.Run("level filters", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		newLogger(cfg, buf, false).Debug("hidden")
		assert.Empty(t, buf.String())
	})
}
