package sec

import (
	"context"
	"strconv"

	"connectrpc.com/authn"

	"github.com/stolasapp/todo/internal/storage/db"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	// Username is the unique login name, carried as the token subject.
	Username string
	// OwnerID is the key that scopes the records this identity may access.
	OwnerID uint64
	// UserID is the numeric ID of the user record.
	UserID uint64
	// Role is the permission tier label of the user. It does not scope data.
	Role string
}

// IdentityOf returns the identity of a stored user. The owner key is the
// user's ID.
func IdentityOf(user db.User) Identity {
	return Identity{
		Username: user.Username,
		OwnerID:  user.ID,
		UserID:   user.ID,
		Role:     user.Role,
	}
}

// Valid reports whether the identity carries a subject, user ID and owner
// key. Invalid identities are treated as unauthenticated.
func (id Identity) Valid() bool {
	return id.Username != "" && id.UserID != 0 && id.OwnerID != 0
}

// Owner returns the owner key as a string, for logging.
func (id Identity) Owner() string {
	return strconv.FormatUint(id.OwnerID, 10)
}

// GetIdentity returns the identity bound to ctx by the session guards. The
// boolean is false if the context has no identity or the identity is invalid.
func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := authn.GetInfo(ctx).(Identity)
	if !ok || !id.Valid() {
		return Identity{}, false
	}
	return id, true
}

// SetIdentity binds id to ctx. The session guards call this automatically;
// it is exported for tests and the CLI.
func SetIdentity(ctx context.Context, id Identity) context.Context {
	return authn.SetInfo(ctx, id)
}
