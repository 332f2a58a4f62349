// Package db contains the sqlite queries, models and migrations used by the
// storage package.
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite" // sqlite sql.DB driver initialization
)

// MemoryPath opens a private, in-memory database.
const MemoryPath = ":memory:"

//go:embed migrations/*.sql
var migrations embed.FS

var registerHook sync.Once

// Open initializes a SQLite DB connection to the specified dbPath. If the
// database file does not exist, it attempts to create it, and then migrates the
// database to match the current state expected of the system.
func Open(ctx context.Context, logger *slog.Logger, dbPath string) (*sql.DB, error) {
	if dbPath == MemoryPath { //nolint:revive // for documentation
		// noop
	} else if _, err := os.Stat(dbPath); err != nil {
		const userOnlyDirPerms = 0o700
		if err = os.MkdirAll(filepath.Dir(dbPath), userOnlyDirPerms); err != nil {
			return nil, fmt.Errorf("failed to create db parent directory: %w", err)
		}
	}

	if strings.ContainsRune(dbPath, '?') {
		dbPath += "&"
	} else {
		dbPath += "?"
	}
	dbPath += "_time_format=sqlite"

	registerHook.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, _ string) error {
			const initSQL = `
			pragma journal_mode = WAL; -- allow concurrent writes
			pragma synchronous = normal; -- don't wait for fsync except on checkpointing
			pragma temp_store = memory; -- temporary indices
			pragma foreign_keys = on; -- cascade todo deletion with their owner
			pragma busy_timeout = 5000; -- wait on the write lock instead of failing
			`
			_, err := conn.ExecContext(context.Background(), initSQL, nil)
			return err
		})
	})

	handle, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create DB handler: %w", err)
	} else if err = handle.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	handle.SetMaxOpenConns(1)

	if err = migrate(ctx, logger.With(slog.String("db", dbPath)), handle); err != nil {
		return nil, errors.Join(err, handle.Close())
	}
	return handle, nil
}

var gooseMu sync.Mutex

// migrate applies the embedded migrations. goose keeps its configuration in
// package globals, so concurrent opens are serialized.
func migrate(ctx context.Context, logger *slog.Logger, handle *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, handle, "migrations"); err != nil {
		return fmt.Errorf("failed to migrate DB: %w", err)
	}
	return nil
}
