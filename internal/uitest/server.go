// Package uitest provides UI testing utilities using Rod.
package uitest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/todo/internal/app"
	"github.com/stolasapp/todo/internal/app/devservice"
	"github.com/stolasapp/todo/internal/config"
	"github.com/stolasapp/todo/internal/server"
	"github.com/stolasapp/todo/internal/storage"
	"github.com/stolasapp/todo/internal/storage/db"
)

// TestSeed is the fixed seed used for reproducible test data.
const TestSeed uint64 = 12345

// Server is a test server running the app over a seeded in-memory database.
type Server struct {
	baseURL string
	creds   devservice.Credentials
	cancel  context.CancelFunc
	grp     *errgroup.Group
	store   storage.Store
}

// newTestServer creates and starts a new test server for use in TestMain.
// It panics on errors since TestMain cannot use testing.TB.
func newTestServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	grp, ctx := errgroup.WithContext(ctx)

	logger := slog.New(slog.DiscardHandler)

	// Create in-memory storage
	cfg := testConfig()
	store, err := storage.NewDB(ctx, cfg.DBFilepath, logger)
	if err != nil {
		cancel()
		panic(fmt.Sprintf("failed to create storage: %v", err))
	}

	fail := func(msg string, err error) {
		cancel()
		_ = store.Close()
		panic(fmt.Sprintf("%s: %v", msg, err))
	}

	deps, err := app.NewDeps(cfg, logger, store)
	if err != nil {
		fail("failed to create app services", err)
	}

	// Seed the demo account
	creds, _, err := devservice.New(deps.Users, deps.Todos, logger).Populate(ctx, TestSeed)
	if err != nil {
		fail("failed to seed demo account", err)
	}

	// Create and start app server
	addr, err := server.Start(ctx, grp, logger, cfg.WebAddress, app.New(cfg, logger, deps))
	if err != nil {
		fail("failed to start app server", err)
	}

	return &Server{
		baseURL: "http://" + addr.String(),
		creds:   creds,
		cancel:  cancel,
		grp:     grp,
		store:   store,
	}
}

// BaseURL returns the base URL of the test server.
func (s *Server) BaseURL() string {
	return s.baseURL
}

// Credentials returns the login details of the seeded demo account.
func (s *Server) Credentials() devservice.Credentials {
	return s.creds
}

// Close shuts down the test server.
// Errors are ignored since this runs during test cleanup where failures
// are typically unrecoverable and already logged by the errgroup.
func (s *Server) Close() {
	s.cancel()
	_ = s.grp.Wait()
	_ = s.store.Close()
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.LogLevel = slog.LevelDebug
	cfg.WebAddress = "127.0.0.1:0"
	cfg.DBFilepath = db.MemoryPath
	cfg.Auth.SigningSecret = config.Secret(strings.Repeat("u", 32))
	cfg.Auth.BcryptCost = bcrypt.MinCost
	return cfg
}

// URL constructs a full URL from the server base URL and a path.
func (s *Server) URL(path string) string {
	return fmt.Sprintf("%s%s", s.baseURL, path)
}
