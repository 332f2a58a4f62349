// Package server runs HTTP servers with graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Server timeouts.
const (
	ReadHeaderTimeout = 1 * time.Second
	ReadTimeout       = 5 * time.Second
	WriteTimeout      = 10 * time.Second
	IdleTimeout       = 60 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

// Listen creates a TCP listener on the given address.
// Use "127.0.0.1:0" for a random available port.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", addr)
}

// Serve starts srv on listener within grp. When ctx is canceled the server
// stops accepting connections and in-flight requests are given
// shutdownTimeout to complete.
func Serve(
	ctx context.Context,
	grp *errgroup.Group,
	srv *http.Server,
	listener net.Listener,
	shutdownTimeout time.Duration,
) {
	srv.ReadHeaderTimeout = ReadHeaderTimeout
	srv.ReadTimeout = ReadTimeout
	srv.WriteTimeout = WriteTimeout
	srv.IdleTimeout = IdleTimeout

	grp.Go(func() error {
		err := srv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	grp.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// Start listens on addr and serves handler within grp, returning the bound
// address. A failure to listen is reported through grp as well as returned.
func Start(
	ctx context.Context,
	grp *errgroup.Group,
	logger *slog.Logger,
	addr string,
	handler http.Handler,
) (net.Addr, error) {
	listener, err := Listen(ctx, addr)
	if err != nil {
		grp.Go(func() error { return err })
		return nil, err
	}

	srv := &http.Server{Handler: handler} //nolint:gosec // Serve() sets timeouts
	logger.InfoContext(ctx,
		"starting server...",
		slog.String("address", listener.Addr().String()),
	)
	Serve(ctx, grp, srv, listener, ShutdownTimeout)
	return listener.Addr(), nil
}
