package db

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both [sql.DB] and [sql.Tx].
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries holds the prepared SQL used by the storage package.
type Queries struct {
	db DBTX
}

// New returns Queries running against db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const userColumns = `id, username, email, first_name, last_name, password_hash, role, phone_number, create_time`

func scanUser(row scanner) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.Role,
		&u.PhoneNumber,
		&u.CreateTime,
	)
	return u, err
}

const createUser = `INSERT INTO users (` + userColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (username) DO NOTHING
RETURNING id`

// CreateUserParams are the inputs to [Queries.CreateUser].
type CreateUserParams User

// CreateUser inserts a user. If the username is already taken no row is
// written and [sql.ErrNoRows] is returned.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (uint64, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.ID,
		arg.Username,
		arg.Email,
		arg.FirstName,
		arg.LastName,
		arg.PasswordHash,
		arg.Role,
		arg.PhoneNumber,
		arg.CreateTime,
	)
	var id uint64
	err := row.Scan(&id)
	return id, err
}

const getUserByName = `SELECT ` + userColumns + ` FROM users WHERE username = ?`

// GetUserByName returns the user with username.
func (q *Queries) GetUserByName(ctx context.Context, username string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByName, username))
}

const getUsers = `SELECT ` + userColumns + ` FROM users
WHERE username > ?
ORDER BY username
LIMIT ?`

// GetUsersParams are the inputs to [Queries.GetUsers].
type GetUsersParams struct {
	AfterName string
	Limit     int64
}

// GetUsers returns users ordered by name, after AfterName.
func (q *Queries) GetUsers(ctx context.Context, arg GetUsersParams) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, getUsers, arg.AfterName, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

const deleteUser = `DELETE FROM users WHERE id = ?`

// DeleteUser removes the user with id and, by cascade, their todos.
func (q *Queries) DeleteUser(ctx context.Context, id uint64) error {
	_, err := q.db.ExecContext(ctx, deleteUser, id)
	return err
}

const todoColumns = `id, owner_id, title, description, priority, complete, create_time, update_time`

func scanTodo(row scanner) (Todo, error) {
	var t Todo
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.Complete,
		&t.CreateTime,
		&t.UpdateTime,
	)
	return t, err
}

const getTodos = `SELECT ` + todoColumns + ` FROM todos
WHERE owner_id = ? AND id > ?
ORDER BY id
LIMIT ?`

// GetTodosParams are the inputs to [Queries.GetTodos].
type GetTodosParams struct {
	OwnerID uint64
	AfterID uint64
	Limit   int64
}

// GetTodos returns the owner's todos ordered by ID, after AfterID.
func (q *Queries) GetTodos(ctx context.Context, arg GetTodosParams) ([]Todo, error) {
	rows, err := q.db.QueryContext(ctx, getTodos, arg.OwnerID, arg.AfterID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const getTodo = `SELECT ` + todoColumns + ` FROM todos WHERE id = ? AND owner_id = ?`

// GetTodoParams are the inputs to [Queries.GetTodo].
type GetTodoParams struct {
	ID      uint64
	OwnerID uint64
}

// GetTodo returns the todo with ID if it belongs to OwnerID.
func (q *Queries) GetTodo(ctx context.Context, arg GetTodoParams) (Todo, error) {
	return scanTodo(q.db.QueryRowContext(ctx, getTodo, arg.ID, arg.OwnerID))
}

const createTodo = `INSERT INTO todos (` + todoColumns + `)
SELECT ?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8
WHERE EXISTS (SELECT 1 FROM users WHERE id = ?2)
RETURNING ` + todoColumns

// CreateTodoParams are the inputs to [Queries.CreateTodo].
type CreateTodoParams Todo

// CreateTodo inserts a todo. If the owner does not exist no row is written
// and [sql.ErrNoRows] is returned.
func (q *Queries) CreateTodo(ctx context.Context, arg CreateTodoParams) (Todo, error) {
	return scanTodo(q.db.QueryRowContext(ctx, createTodo,
		arg.ID,
		arg.OwnerID,
		arg.Title,
		arg.Description,
		arg.Priority,
		arg.Complete,
		arg.CreateTime,
		arg.UpdateTime,
	))
}

const updateTodo = `UPDATE todos
SET title = ?, description = ?, priority = ?, complete = ?, update_time = ?
WHERE id = ? AND owner_id = ?
RETURNING ` + todoColumns

// UpdateTodoParams are the inputs to [Queries.UpdateTodo].
type UpdateTodoParams struct {
	ID          uint64
	OwnerID     uint64
	Title       string
	Description string
	Priority    int64
	Complete    bool
	UpdateTime  time.Time
}

// UpdateTodo overwrites the mutable fields of the todo with ID if it belongs
// to OwnerID. [sql.ErrNoRows] is returned otherwise.
func (q *Queries) UpdateTodo(ctx context.Context, arg UpdateTodoParams) (Todo, error) {
	return scanTodo(q.db.QueryRowContext(ctx, updateTodo,
		arg.Title,
		arg.Description,
		arg.Priority,
		arg.Complete,
		arg.UpdateTime,
		arg.ID,
		arg.OwnerID,
	))
}

const deleteTodo = `DELETE FROM todos WHERE id = ? AND owner_id = ?`

// DeleteTodoParams are the inputs to [Queries.DeleteTodo].
type DeleteTodoParams struct {
	ID      uint64
	OwnerID uint64
}

// DeleteTodo removes the todo with ID if it belongs to OwnerID, returning the
// number of rows removed.
func (q *Queries) DeleteTodo(ctx context.Context, arg DeleteTodoParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTodo, arg.ID, arg.OwnerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
