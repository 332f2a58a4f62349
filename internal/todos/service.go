package todos

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/google/cel-go/cel"

	"github.com/stolasapp/todo/internal/pagination"
	"github.com/stolasapp/todo/internal/storage"
	"github.com/stolasapp/todo/internal/storage/db"
	"github.com/stolasapp/todo/internal/validation"
)

const (
	// MaxPageSize is the largest page [Service.List] returns when a page size
	// is requested.
	MaxPageSize = 1000

	// listBatchSize is how many todos are read from storage at a time while
	// filling a filtered page.
	listBatchSize = 100
)

type pageToken struct {
	AfterID uint64 `json:"a,string" validate:"required"`
	Filter  string `json:"f,omitempty"`
}

// Service provides owner-scoped todo operations. The owner is always resolved
// from the request identity via [Scope].
type Service struct {
	store  storage.Todos
	logger *slog.Logger
	env    *cel.Env
}

// NewService returns a Service over store.
func NewService(store storage.Todos, logger *slog.Logger) (*Service, error) {
	env, err := newFilterEnv()
	if err != nil {
		return nil, err
	}
	return &Service{
		store:  store,
		logger: logger,
		env:    env,
	}, nil
}

// List returns a page of the caller's todos in creation order.
func (s *Service) List(ctx context.Context, req ListRequest) (ListResponse, error) {
	owner, err := Scope(ctx)
	if err != nil {
		return ListResponse{}, s.toConnectError(ctx, err)
	}
	if err = validation.Struct(req); err != nil {
		return ListResponse{}, err
	}

	var afterID uint64
	if req.PageToken != "" {
		var tkn pageToken
		if err = pagination.FromToken(req.PageToken, &tkn); err != nil {
			return ListResponse{}, connect.NewError(connect.CodeInvalidArgument, err)
		}
		if tkn.Filter != req.Filter {
			return ListResponse{}, connect.NewError(connect.CodeInvalidArgument,
				errors.New("page token was issued for a different filter"))
		}
		afterID = tkn.AfterID
	}

	var prog cel.Program
	if req.Filter != "" {
		if prog, err = compileFilter(s.env, req.Filter); err != nil {
			return ListResponse{}, connect.NewError(connect.CodeInvalidArgument, err)
		}
	}

	// Read one more than the page to learn whether another page follows.
	size := min(req.MaxPageSize, MaxPageSize)
	var page []db.Todo
	for size <= 0 || len(page) <= size {
		batch, err := s.store.ListTodos(ctx, owner.Query(storage.TodoQuery{
			AfterID: afterID,
			Limit:   listBatchSize,
		}))
		if err != nil {
			return ListResponse{}, s.toConnectError(ctx, err)
		}
		for _, todo := range batch {
			afterID = todo.ID
			if prog != nil {
				match, err := filterMatches(ctx, prog, todo)
				if err != nil {
					return ListResponse{}, connect.NewError(connect.CodeInvalidArgument, err)
				}
				if !match {
					continue
				}
			}
			page = append(page, todo)
		}
		if len(batch) < listBatchSize {
			break
		}
	}

	res := ListResponse{Results: make([]Todo, 0, len(page))}
	if size > 0 && len(page) > size {
		page = page[:size]
		tkn, err := pagination.ToToken(pageToken{
			AfterID: page[size-1].ID,
			Filter:  req.Filter,
		})
		if err != nil {
			return ListResponse{}, connect.NewError(connect.CodeInternal, err)
		}
		res.NextPageToken = tkn
	}
	for _, todo := range page {
		res.Results = append(res.Results, fromDB(todo))
	}
	return res, nil
}

// Get returns the caller's todo with id. A todo owned by someone else is
// reported as not found.
func (s *Service) Get(ctx context.Context, id uint64) (Todo, error) {
	owner, err := Scope(ctx)
	if err != nil {
		return Todo{}, s.toConnectError(ctx, err)
	}
	todo, err := s.store.GetTodo(ctx, owner.Query(storage.TodoQuery{ID: id}))
	if err != nil {
		return Todo{}, s.toConnectError(ctx, err)
	}
	return fromDB(todo), nil
}

// Create stores a new todo owned by the caller.
func (s *Service) Create(ctx context.Context, in Input) (Todo, error) {
	owner, err := Scope(ctx)
	if err != nil {
		return Todo{}, s.toConnectError(ctx, err)
	}
	if err = validation.Struct(in); err != nil {
		return Todo{}, err
	}
	todo, err := s.store.CreateTodo(ctx, owner.Claim(in.toDB()))
	if err != nil {
		return Todo{}, s.toConnectError(ctx, err)
	}
	s.logger.DebugContext(ctx, "created todo",
		slog.Uint64("todo", todo.ID),
		slog.Uint64("owner", owner.ID()),
	)
	return fromDB(todo), nil
}

// Update replaces the content of the caller's todo with id.
func (s *Service) Update(ctx context.Context, id uint64, in Input) (Todo, error) {
	owner, err := Scope(ctx)
	if err != nil {
		return Todo{}, s.toConnectError(ctx, err)
	}
	if err = validation.Struct(in); err != nil {
		return Todo{}, err
	}
	todo, err := s.store.UpdateTodo(ctx, owner.Query(storage.TodoQuery{ID: id}), in.toDB())
	if err != nil {
		return Todo{}, s.toConnectError(ctx, err)
	}
	return fromDB(todo), nil
}

// Delete removes the caller's todo with id.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	owner, err := Scope(ctx)
	if err != nil {
		return s.toConnectError(ctx, err)
	}
	if err = s.store.DeleteTodo(ctx, owner.Query(storage.TodoQuery{ID: id})); err != nil {
		return s.toConnectError(ctx, err)
	}
	s.logger.DebugContext(ctx, "deleted todo",
		slog.Uint64("todo", id),
		slog.Uint64("owner", owner.ID()),
	)
	return nil
}

func (s *Service) toConnectError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, storage.ErrUnscoped):
		return connect.NewError(connect.CodeUnauthenticated, ErrUnauthenticated)
	case errors.Is(err, storage.ErrUnknownOwner):
		s.logger.InfoContext(ctx, "token refers to a deleted user", slog.Any("error", err))
		return connect.NewError(connect.CodeUnauthenticated, ErrUnauthenticated)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, errors.New("todo not found"))
	default:
		s.logger.ErrorContext(ctx, "todo storage failure", slog.Any("error", err))
		return connect.NewError(connect.CodeInternal, storage.ErrInternal)
	}
}
