package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	grp, ctx := errgroup.WithContext(ctx)

	addr, err := Start(ctx, grp, slog.Default(), "127.0.0.1:0",
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "ok")
		}))
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, "http://"+addr.String()+"/", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	_ = res.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	cancel()
	require.NoError(t, grp.Wait())
}

func TestStart_ListenError(t *testing.T) {
	t.Parallel()

	grp, ctx := errgroup.WithContext(t.Context())
	_, err := Start(ctx, grp, slog.Default(), "not-an-address", http.NotFoundHandler())
	require.Error(t, err)
	require.Error(t, grp.Wait())
}
