// Package todos implements the owner-scoped todo service consumed by the API
// and page surfaces.
package todos

import (
	"strconv"
	"time"

	"github.com/stolasapp/todo/internal/storage/db"
)

// Todo is the client view of a stored todo. IDs are rendered as strings so
// they survive JSON clients limited to 53-bit integers.
type Todo struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    int64     `json:"priority"`
	Complete    bool      `json:"complete"`
	CreateTime  time.Time `json:"create_time"`
	UpdateTime  time.Time `json:"update_time"`
}

func fromDB(todo db.Todo) Todo {
	return Todo{
		ID:          strconv.FormatUint(todo.ID, 10),
		OwnerID:     strconv.FormatUint(todo.OwnerID, 10),
		Title:       todo.Title,
		Description: todo.Description,
		Priority:    todo.Priority,
		Complete:    todo.Complete,
		CreateTime:  todo.CreateTime,
		UpdateTime:  todo.UpdateTime,
	}
}

// Input is the client-supplied content of a todo, used for both creation and
// full updates. It never carries an owner.
type Input struct {
	Title       string `json:"title"       form:"title"       validate:"min=3,max=50"`
	Description string `json:"description" form:"description" validate:"min=3,max=255"`
	Priority    int64  `json:"priority"    form:"priority"    validate:"gte=1,lte=5"`
	Complete    bool   `json:"complete"    form:"complete"`
}

func (in Input) toDB() db.Todo {
	return db.Todo{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Complete:    in.Complete,
	}
}

// InputOf returns the editable content of todo, used to pre-fill edit forms.
func InputOf(todo Todo) Input {
	return Input{
		Title:       todo.Title,
		Description: todo.Description,
		Priority:    todo.Priority,
		Complete:    todo.Complete,
	}
}

// ListRequest selects a page of the caller's todos.
type ListRequest struct {
	// Filter is an optional CEL expression over this.title, this.description,
	// this.priority and this.complete. Only todos it evaluates true for are
	// listed.
	Filter string `query:"filter" json:"filter"`
	// MaxPageSize caps the page. Zero lists every matching todo; values above
	// [MaxPageSize] are lowered to it.
	MaxPageSize int `query:"max_page_size" json:"max_page_size" validate:"gte=0"`
	// PageToken continues a previous listing.
	PageToken string `query:"page_token" json:"page_token"`
}

// ListResponse is a page of todos.
type ListResponse struct {
	Results       []Todo `json:"results"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

// ParseID parses a todo ID from a path parameter.
func ParseID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	return id, err == nil && id != 0
}
