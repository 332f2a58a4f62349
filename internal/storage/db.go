package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"regexp"
	"time"

	"github.com/influxdata/influxdb/pkg/snowflake"

	"github.com/stolasapp/todo/internal/storage/db"
)

// Username validation constraints.
const (
	minUsernameLen = 3
	maxUsernameLen = 64
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidUsername reports whether a username meets the requirements:
// 3-64 characters, alphanumeric and underscores only.
func ValidUsername(name string) bool {
	return len(name) >= minUsernameLen &&
		len(name) <= maxUsernameLen &&
		usernameRegex.MatchString(name)
}

// DB is a [Store] backed by a SQLite database.
type DB struct {
	ids     *snowflake.Generator
	db      *sql.DB
	queries *db.Queries
	now     func() time.Time
}

// NewDB opens the SQLite database at path, migrating it if needed. Use
// [db.MemoryPath] for a private in-memory database.
func NewDB(ctx context.Context, path string, logger *slog.Logger) (*DB, error) {
	handle, err := db.Open(ctx, logger, path)
	if err != nil {
		return nil, err
	}
	return &DB{
		ids:     snowflake.New(rand.IntN(1023)), //nolint:gosec,mnd // this isn't for crypto
		db:      handle,
		queries: db.New(handle),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close satisfies the [Store] interface.
func (d *DB) Close() error {
	return d.db.Close()
}

// ListTodos satisfies the [Todos] interface.
func (d *DB) ListTodos(ctx context.Context, query TodoQuery) ([]db.Todo, error) {
	if query.OwnerID == 0 {
		return nil, ErrUnscoped
	}
	limit := int64(math.MaxInt64)
	if query.Limit > 0 {
		limit = int64(query.Limit)
	}
	return d.queries.GetTodos(ctx, db.GetTodosParams{
		OwnerID: query.OwnerID,
		AfterID: query.AfterID,
		Limit:   limit,
	})
}

// GetTodo satisfies the [Todos] interface.
func (d *DB) GetTodo(ctx context.Context, query TodoQuery) (db.Todo, error) {
	if query.OwnerID == 0 {
		return db.Todo{}, ErrUnscoped
	}
	todo, err := d.queries.GetTodo(ctx, db.GetTodoParams{
		ID:      query.ID,
		OwnerID: query.OwnerID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return todo, ErrNotFound
	}
	return todo, err
}

// CreateTodo satisfies the [Todos] interface.
func (d *DB) CreateTodo(ctx context.Context, todo db.Todo) (db.Todo, error) {
	if todo.OwnerID == 0 {
		return db.Todo{}, ErrUnscoped
	}
	if todo.ID == 0 {
		todo.ID = d.ids.Next()
	}
	now := d.now()
	todo.CreateTime, todo.UpdateTime = now, now
	created, err := d.queries.CreateTodo(ctx, db.CreateTodoParams(todo))
	if errors.Is(err, sql.ErrNoRows) {
		return created, ErrUnknownOwner
	}
	return created, err
}

// UpdateTodo satisfies the [Todos] interface.
func (d *DB) UpdateTodo(ctx context.Context, query TodoQuery, todo db.Todo) (db.Todo, error) {
	if query.OwnerID == 0 {
		return db.Todo{}, ErrUnscoped
	}
	updated, err := d.queries.UpdateTodo(ctx, db.UpdateTodoParams{
		ID:          query.ID,
		OwnerID:     query.OwnerID,
		Title:       todo.Title,
		Description: todo.Description,
		Priority:    todo.Priority,
		Complete:    todo.Complete,
		UpdateTime:  d.now(),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return updated, ErrNotFound
	}
	return updated, err
}

// DeleteTodo satisfies the [Todos] interface.
func (d *DB) DeleteTodo(ctx context.Context, query TodoQuery) error {
	if query.OwnerID == 0 {
		return ErrUnscoped
	}
	switch n, err := d.queries.DeleteTodo(ctx, db.DeleteTodoParams{
		ID:      query.ID,
		OwnerID: query.OwnerID,
	}); {
	case err != nil:
		return err
	case n == 0:
		return ErrNotFound
	default:
		return nil
	}
}

// ListUsers satisfies the [Users] interface.
func (d *DB) ListUsers(ctx context.Context, afterName string, limit int32) ([]db.User, error) {
	return d.queries.GetUsers(ctx, db.GetUsersParams{
		AfterName: afterName,
		Limit:     int64(limit),
	})
}

// GetUserByName satisfies the [Users] interface.
func (d *DB) GetUserByName(ctx context.Context, name string) (db.User, error) {
	user, err := d.queries.GetUserByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return user, ErrNotFound
	}
	return user, err
}

// CreateUser satisfies the [Users] interface.
func (d *DB) CreateUser(ctx context.Context, user db.User) (db.User, error) {
	if !ValidUsername(user.Username) {
		return db.User{}, ErrInvalidUsername
	}
	if user.ID == 0 {
		user.ID = d.ids.Next()
	}
	if user.CreateTime.IsZero() {
		user.CreateTime = d.now()
	}
	switch _, err := d.queries.CreateUser(ctx, db.CreateUserParams(user)); {
	case errors.Is(err, sql.ErrNoRows):
		return db.User{}, ErrAlreadyExists
	case err != nil:
		return db.User{}, err
	default:
		return user, nil
	}
}

// DeleteUser satisfies the [Users] interface.
func (d *DB) DeleteUser(ctx context.Context, userID uint64) error {
	return d.queries.DeleteUser(ctx, userID)
}

var _ Store = (*DB)(nil)
