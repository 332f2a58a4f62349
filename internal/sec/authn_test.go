package sec

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stolasapp/todo/internal/storage"
	"github.com/stolasapp/todo/internal/storage/db"
)

func newTestAuthenticator(t *testing.T) (*Authenticator, *JWTCodec, db.User) {
	t.Helper()

	store, err := storage.NewDB(t.Context(), db.MemoryPath, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	hasher := NewHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("pw123456")
	require.NoError(t, err)
	user, err := store.CreateUser(t.Context(), db.User{
		Username:     "bob",
		PasswordHash: hash,
		Role:         "user",
	})
	require.NoError(t, err)

	codec, err := NewJWTCodec(testSecret, "HS256")
	require.NoError(t, err)
	auth, err := NewAuthenticator(store, hasher, codec, 20*time.Minute)
	require.NoError(t, err)
	return auth, codec, user
}

func TestAuthenticator_Authenticate(t *testing.T) {
	t.Parallel()

	auth, _, user := newTestAuthenticator(t)

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		id, err := auth.Authenticate(t.Context(), "bob", "pw123456")
		require.NoError(t, err)
		assert.Equal(t, Identity{
			Username: "bob",
			OwnerID:  user.ID,
			UserID:   user.ID,
			Role:     "user",
		}, id)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		_, err := auth.Authenticate(t.Context(), "bob", "wrong")
		require.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		_, err := auth.Authenticate(t.Context(), "nobody", "pw123456")
		require.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("indistinguishable failures", func(t *testing.T) {
		t.Parallel()
		_, wrongPassword := auth.Authenticate(t.Context(), "bob", "wrong")
		_, unknownUser := auth.Authenticate(t.Context(), "nobody", "wrong")
		assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	})

	t.Run("dummy hash uses configured cost", func(t *testing.T) {
		t.Parallel()
		cost, err := bcrypt.Cost(auth.dummy)
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost, cost)
	})
}

func TestAuthenticator_IssueToken(t *testing.T) {
	t.Parallel()

	auth, codec, user := newTestAuthenticator(t)

	before := time.Now()
	token, err := auth.IssueToken(t.Context(), "bob", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, TokenTypeBearer, token.TokenType)
	assert.NotEmpty(t, token.AccessToken)
	assert.WithinDuration(t, before.Add(20*time.Minute), token.ExpiresAt, 5*time.Second)

	id, err := codec.Decode(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "bob", id.Username)
	assert.Equal(t, user.ID, id.OwnerID)

	_, err = auth.IssueToken(t.Context(), "bob", "wrong")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}
