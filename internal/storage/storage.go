// Package storage provides the state management for users and their todos.
package storage

import (
	"context"

	"github.com/stolasapp/todo/internal/storage/db"
)

const (
	// ErrNotFound is returned when a todo or user cannot be found. For todos
	// this includes records that exist but belong to another owner.
	ErrNotFound Error = "not found"
	// ErrAlreadyExists is returned if a unique user already exists.
	ErrAlreadyExists Error = "already exists"
	// ErrInvalidUsername is returned when a username fails validation.
	ErrInvalidUsername Error = "username must be 3-64 characters, alphanumeric and underscores only"
	// ErrUnscoped is returned when a todo query carries no owner.
	ErrUnscoped Error = "todo query is not scoped to an owner"
	// ErrUnknownOwner is returned when creating a todo for an owner that does
	// not exist, such as a user deleted while their token is still valid.
	ErrUnknownOwner Error = "todo owner does not exist"
	// ErrInternal is returned for any other type of error.
	ErrInternal Error = "internal error"
)

// Error is an error type returned by the storage implementation.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// TodoQuery selects todos. Every query must be scoped to an owner; the
// storage layer refuses queries without one.
type TodoQuery struct {
	// OwnerID restricts the query to todos with this owner key.
	OwnerID uint64
	// ID selects a single todo. Ignored by [Todos.ListTodos].
	ID uint64
	// AfterID starts a listing after this todo ID.
	AfterID uint64
	// Limit caps the number of todos listed. Zero means no limit.
	Limit int
}

// Todos are the methods on a storage implementation that are responsible for
// accessing and modifying todos. Every method is scoped by the query's owner;
// a todo belonging to another owner behaves exactly like a missing one.
type Todos interface {
	// ListTodos returns the owner's todos ordered by ID.
	ListTodos(ctx context.Context, query TodoQuery) ([]db.Todo, error)
	// GetTodo returns the todo selected by query. An [ErrNotFound] is returned
	// if it does not exist for the owner.
	GetTodo(ctx context.Context, query TodoQuery) (db.Todo, error)
	// CreateTodo inserts todo, assigning its ID and timestamps. The todo's
	// OwnerID must be set and name an existing user, otherwise
	// [ErrUnknownOwner] is returned.
	CreateTodo(ctx context.Context, todo db.Todo) (db.Todo, error)
	// UpdateTodo overwrites the title, description, priority and completion
	// of the todo selected by query. An [ErrNotFound] is returned if it does
	// not exist for the owner.
	UpdateTodo(ctx context.Context, query TodoQuery, todo db.Todo) (db.Todo, error)
	// DeleteTodo removes the todo selected by query. An [ErrNotFound] is
	// returned if it does not exist for the owner.
	DeleteTodo(ctx context.Context, query TodoQuery) error
}

// Users are the methods on a storage implementation that are responsible for
// accessing and modifying users.
type Users interface {
	// ListUsers returns the users in a list, paginated by the given name (if
	// provided) up to the given limit of records.
	ListUsers(ctx context.Context, afterName string, limit int32) ([]db.User, error)
	// GetUserByName returns a single user with the specified name. An
	// [ErrNotFound] is returned if the user name does not exist.
	GetUserByName(ctx context.Context, name string) (db.User, error)
	// CreateUser inserts the user, assigning its ID if unset, and returns the
	// stored record. An [ErrAlreadyExists] error is returned if the username
	// is already in use.
	CreateUser(ctx context.Context, user db.User) (db.User, error)
	// DeleteUser removes a user and all their todos. Note that this is a hard
	// delete; data is not recoverable.
	DeleteUser(ctx context.Context, userID uint64) error
}

// Store is the combination interface for [Todos] and [Users].
type Store interface {
	Todos
	Users
	// Close releases any resources held by the store. An error is returned if
	// the store cannot be cleanly closed.
	Close() error
}
