package devservice

import (
	"log/slog"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stolasapp/todo/internal/sec"
	"github.com/stolasapp/todo/internal/storage"
	"github.com/stolasapp/todo/internal/storage/db"
	"github.com/stolasapp/todo/internal/todos"
	"github.com/stolasapp/todo/internal/users"
)

func TestService_Populate(t *testing.T) {
	t.Parallel()

	store, err := storage.NewDB(t.Context(), db.MemoryPath, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	hasher := sec.NewHasher(bcrypt.MinCost)
	todoSvc, err := todos.NewService(store, slog.Default())
	require.NoError(t, err)
	svc := New(users.NewService(store, hasher, slog.Default()), todoSvc, slog.Default())

	creds, ok, err := svc.Populate(t.Context(), 42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, demoUsername, creds.Username)
	assert.Len(t, creds.Password, passwordLen)

	codec, err := sec.NewJWTCodec([]byte("0123456789abcdef0123456789abcdef"), "HS256")
	require.NoError(t, err)
	auth, err := sec.NewAuthenticator(store, hasher, codec, time.Minute)
	require.NoError(t, err)
	id, err := auth.Authenticate(t.Context(), creds.Username, creds.Password)
	require.NoError(t, err)

	res, err := todoSvc.List(sec.SetIdentity(t.Context(), id), todos.ListRequest{MaxPageSize: 1000})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(res.Results), minTodos)
	assert.Less(t, len(res.Results), minTodos+maxExtraTodos)

	again, ok, err := svc.Populate(t.Context(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, again)
}

func TestGenerateTodo(t *testing.T) {
	t.Parallel()

	for seed := range uint64(200) {
		in := generateTodo(gofakeit.New(seed))
		assert.GreaterOrEqual(t, utf8.RuneCountInString(in.Title), 3, in.Title)
		assert.LessOrEqual(t, utf8.RuneCountInString(in.Title), maxTitleLen, in.Title)
		assert.GreaterOrEqual(t, utf8.RuneCountInString(in.Description), 3, in.Description)
		assert.LessOrEqual(t, utf8.RuneCountInString(in.Description), maxDescriptionLen, in.Description)
		assert.GreaterOrEqual(t, in.Priority, int64(1))
		assert.LessOrEqual(t, in.Priority, int64(5))
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		n    int
		want string
	}{
		{in: "short", n: 10, want: "short"},
		{in: "one two three", n: 9, want: "one two"},
		{in: "unbroken", n: 4, want: "unbr"},
		{in: "héllo wörld", n: 7, want: "héllo"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, truncate(test.in, test.n))
	}
}
