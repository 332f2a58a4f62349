package todos

import (
	"context"
	"errors"

	"github.com/stolasapp/todo/internal/sec"
	"github.com/stolasapp/todo/internal/storage"
	"github.com/stolasapp/todo/internal/storage/db"
)

// ErrUnauthenticated is returned by [Scope] when the request carries no valid
// identity.
var ErrUnauthenticated = errors.New("request is not authenticated")

// Owner is the owner key of the authenticated caller. Every todo operation is
// restricted to records carrying this key.
type Owner struct {
	id uint64
}

// Scope resolves the owner of the request from its identity.
func Scope(ctx context.Context) (Owner, error) {
	id, ok := sec.GetIdentity(ctx)
	if !ok {
		return Owner{}, ErrUnauthenticated
	}
	return Owner{id: id.OwnerID}, nil
}

// ID returns the owner key.
func (o Owner) ID() uint64 { return o.id }

// Query constrains q to the owner's records, replacing any owner already set.
func (o Owner) Query(q storage.TodoQuery) storage.TodoQuery {
	q.OwnerID = o.id
	return q
}

// Claim stamps todo with the owner's key, discarding any key supplied by the
// client.
func (o Owner) Claim(todo db.Todo) db.Todo {
	todo.OwnerID = o.id
	return todo
}
