package todos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/todo/internal/sec"
	"github.com/stolasapp/todo/internal/storage"
	"github.com/stolasapp/todo/internal/storage/db"
)

func TestScope(t *testing.T) {
	t.Parallel()

	_, err := Scope(t.Context())
	require.ErrorIs(t, err, ErrUnauthenticated)

	ctx := sec.SetIdentity(t.Context(), sec.Identity{Username: "bob", OwnerID: 7, UserID: 7, Role: "admin"})
	owner, err := Scope(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), owner.ID())

	query := owner.Query(storage.TodoQuery{OwnerID: 99, ID: 3})
	assert.Equal(t, storage.TodoQuery{OwnerID: 7, ID: 3}, query)

	todo := owner.Claim(db.Todo{OwnerID: 99, Title: "smuggled"})
	assert.Equal(t, uint64(7), todo.OwnerID)
}

func TestParseID(t *testing.T) {
	t.Parallel()

	id, ok := ParseID("1234")
	assert.True(t, ok)
	assert.Equal(t, uint64(1234), id)

	for _, raw := range []string{"", "0", "-1", "abc", "18446744073709551616"} {
		_, ok := ParseID(raw)
		assert.False(t, ok, raw)
	}
}
