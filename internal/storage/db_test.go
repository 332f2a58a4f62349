package storage

import (
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/todo/internal/storage/db"
)

func TestDB(t *testing.T) {
	t.Parallel()

	store, err := NewDB(t.Context(), filepath.Join(t.TempDir(), "db.sqlite"), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	const ownerID = 123
	const otherID = 456
	const userName = "test"
	_, err = store.CreateUser(t.Context(), db.User{
		ID:           ownerID,
		Username:     userName,
		Email:        "test@example.com",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: []byte{},
		Role:         "admin",
	})
	require.NoError(t, err)
	_, err = store.CreateUser(t.Context(), db.User{
		ID:           otherID,
		Username:     "other",
		PasswordHash: []byte{},
	})
	require.NoError(t, err)

	t.Run("TodoCRUD", func(t *testing.T) {
		t.Parallel()

		todo, err := store.CreateTodo(t.Context(), db.Todo{
			OwnerID:     ownerID,
			Title:       t.Name(),
			Description: "description",
			Priority:    3,
		})
		require.NoError(t, err)
		assert.NotZero(t, todo.ID)
		assert.Equal(t, uint64(ownerID), todo.OwnerID)
		assert.False(t, todo.CreateTime.IsZero())

		query := TodoQuery{OwnerID: ownerID, ID: todo.ID}
		actual, err := store.GetTodo(t.Context(), query)
		require.NoError(t, err)
		assert.Equal(t, todo.ID, actual.ID)
		assert.Equal(t, todo.Title, actual.Title)

		todo.Complete = true
		todo.Priority = 5
		actual, err = store.UpdateTodo(t.Context(), query, todo)
		require.NoError(t, err)
		assert.True(t, actual.Complete)
		assert.Equal(t, int64(5), actual.Priority)

		require.NoError(t, store.DeleteTodo(t.Context(), query))
		_, err = store.GetTodo(t.Context(), query)
		require.ErrorIs(t, err, ErrNotFound)
		require.ErrorIs(t, store.DeleteTodo(t.Context(), query), ErrNotFound)
	})

	t.Run("TodoOwnerScope", func(t *testing.T) {
		t.Parallel()

		todo, err := store.CreateTodo(t.Context(), db.Todo{
			OwnerID:     ownerID,
			Title:       t.Name(),
			Description: "description",
			Priority:    1,
		})
		require.NoError(t, err)

		foreign := TodoQuery{OwnerID: otherID, ID: todo.ID}
		_, err = store.GetTodo(t.Context(), foreign)
		require.ErrorIs(t, err, ErrNotFound)

		_, err = store.UpdateTodo(t.Context(), foreign, db.Todo{Title: "stolen", Description: "stolen", Priority: 1})
		require.ErrorIs(t, err, ErrNotFound)

		err = store.DeleteTodo(t.Context(), foreign)
		require.ErrorIs(t, err, ErrNotFound)

		actual, err := store.GetTodo(t.Context(), TodoQuery{OwnerID: ownerID, ID: todo.ID})
		require.NoError(t, err)
		assert.Equal(t, t.Name(), actual.Title)

		list, err := store.ListTodos(t.Context(), TodoQuery{OwnerID: otherID})
		require.NoError(t, err)
		for _, item := range list {
			assert.Equal(t, uint64(otherID), item.OwnerID)
		}
	})

	t.Run("TodoUnscoped", func(t *testing.T) {
		t.Parallel()

		_, err := store.ListTodos(t.Context(), TodoQuery{})
		require.ErrorIs(t, err, ErrUnscoped)
		_, err = store.GetTodo(t.Context(), TodoQuery{ID: 1})
		require.ErrorIs(t, err, ErrUnscoped)
		_, err = store.CreateTodo(t.Context(), db.Todo{Title: "x", Description: "x", Priority: 1})
		require.ErrorIs(t, err, ErrUnscoped)
		_, err = store.UpdateTodo(t.Context(), TodoQuery{ID: 1}, db.Todo{})
		require.ErrorIs(t, err, ErrUnscoped)
		require.ErrorIs(t, store.DeleteTodo(t.Context(), TodoQuery{ID: 1}), ErrUnscoped)
	})

	t.Run("TodoUnknownOwner", func(t *testing.T) {
		t.Parallel()

		_, err := store.CreateTodo(t.Context(), db.Todo{
			OwnerID:     999_999,
			Title:       t.Name(),
			Description: "x",
			Priority:    1,
		})
		require.ErrorIs(t, err, ErrUnknownOwner)

		list, err := store.ListTodos(t.Context(), TodoQuery{OwnerID: 999_999})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	// These operations are tested together since it needs to atomically handle
	// modifying the users in the system.
	t.Run("UserCRUD", func(t *testing.T) {
		t.Parallel()

		res, err := store.ListUsers(t.Context(), "", 100)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(res), 2)
		assert.Equal(t, "other", res[0].Username)

		res, err = store.ListUsers(t.Context(), userName, 100)
		require.NoError(t, err)
		for _, user := range res {
			assert.Greater(t, user.Username, userName)
		}

		actual, err := store.GetUserByName(t.Context(), userName)
		require.NoError(t, err)
		assert.Equal(t, uint64(ownerID), actual.ID)
		assert.Equal(t, "test@example.com", actual.Email)
		assert.Equal(t, "admin", actual.Role)
		assert.False(t, actual.PhoneNumber.Valid)

		_, err = store.GetUserByName(t.Context(), "not a real user")
		require.ErrorIs(t, err, ErrNotFound)

		_, err = store.CreateUser(t.Context(), db.User{
			Username:     userName,
			PasswordHash: []byte{},
		})
		require.ErrorIs(t, err, ErrAlreadyExists)

		_, err = store.CreateUser(t.Context(), db.User{Username: "ab", PasswordHash: []byte{}})
		require.ErrorIs(t, err, ErrInvalidUsername)

		_, err = store.CreateUser(t.Context(), db.User{Username: "invalid/name", PasswordHash: []byte{}})
		require.ErrorIs(t, err, ErrInvalidUsername)

		user, err := store.CreateUser(t.Context(), db.User{
			Username:     "user_crud_test",
			PasswordHash: []byte("foobar"),
			PhoneNumber:  sql.NullString{String: "+15555550100", Valid: true},
		})
		require.NoError(t, err)
		assert.NotZero(t, user.ID)

		user, err = store.GetUserByName(t.Context(), user.Username)
		require.NoError(t, err)
		assert.Equal(t, "+15555550100", user.PhoneNumber.String)
		assert.Equal(t, []byte("foobar"), user.PasswordHash)

		_, err = store.CreateTodo(t.Context(), db.Todo{
			OwnerID:     user.ID,
			Title:       "cascade",
			Description: "removed with its owner",
			Priority:    2,
		})
		require.NoError(t, err)

		err = store.DeleteUser(t.Context(), user.ID)
		require.NoError(t, err)
		_, err = store.GetUserByName(t.Context(), user.Username)
		require.ErrorIs(t, err, ErrNotFound)
		todos, err := store.ListTodos(t.Context(), TodoQuery{OwnerID: user.ID})
		require.NoError(t, err)
		assert.Empty(t, todos)

		err = store.DeleteUser(t.Context(), user.ID)
		require.NoError(t, err)
	})
}

func TestDB_ListTodosPaging(t *testing.T) {
	t.Parallel()

	store, err := NewDB(t.Context(), db.MemoryPath, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	user, err := store.CreateUser(t.Context(), db.User{Username: "pager", PasswordHash: []byte{}})
	require.NoError(t, err)

	var ids []uint64
	for range 5 {
		todo, err := store.CreateTodo(t.Context(), db.Todo{
			OwnerID:     user.ID,
			Title:       "paged",
			Description: "paged todo",
			Priority:    1,
		})
		require.NoError(t, err)
		ids = append(ids, todo.ID)
	}

	page, err := store.ListTodos(t.Context(), TodoQuery{OwnerID: user.ID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[0], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	page, err = store.ListTodos(t.Context(), TodoQuery{OwnerID: user.ID, AfterID: page[1].ID})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, ids[2], page[0].ID)
}

func TestValidUsername(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidUsername("bob"))
	assert.True(t, ValidUsername("alice_99"))
	assert.False(t, ValidUsername("ab"))
	assert.False(t, ValidUsername("has space"))
	assert.False(t, ValidUsername("a-b-c"))
}
