// Package users handles account registration and removal.
package users

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/stolasapp/todo/internal/sec"
	"github.com/stolasapp/todo/internal/storage"
	"github.com/stolasapp/todo/internal/storage/db"
	"github.com/stolasapp/todo/internal/validation"
)

// DefaultRole is assigned when a registration does not name a role.
const DefaultRole = "user"

// RegisterRequest is the client-supplied content of a new account. It never
// carries an owner key; the owner key of a user is its ID.
type RegisterRequest struct {
	Username    string `json:"username"     form:"username"     validate:"username"`
	Email       string `json:"email"        form:"email"        validate:"required,email,max=254"`
	FirstName   string `json:"first_name"   form:"first_name"   validate:"min=1,max=50"`
	LastName    string `json:"last_name"    form:"last_name"    validate:"min=1,max=50"`
	Password    string `json:"password"     form:"password"     validate:"min=8,max=72"`
	Role        string `json:"role"         form:"role"         validate:"min=1,max=32"`
	PhoneNumber string `json:"phone_number" form:"phone_number" validate:"omitempty,max=15"`
}

// Service registers and removes users.
type Service struct {
	users  storage.Users
	hasher sec.Hasher
	logger *slog.Logger
}

// NewService returns a Service storing users in users and hashing their
// passwords with hasher.
func NewService(users storage.Users, hasher sec.Hasher, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		logger: logger,
	}
}

// Register validates req, hashes its password, and stores the new user. A
// taken username is reported as AlreadyExists.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (db.User, error) {
	if req.Role == "" {
		req.Role = DefaultRole
	}
	if err := validation.Struct(req); err != nil {
		return db.User{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if errors.Is(err, sec.ErrPasswordTooLong) {
		return db.User{}, connect.NewError(connect.CodeInvalidArgument, err)
	} else if err != nil {
		s.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		return db.User{}, connect.NewError(connect.CodeInternal, storage.ErrInternal)
	}

	user, err := s.users.CreateUser(ctx, db.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         req.Role,
		PhoneNumber: sql.NullString{
			String: req.PhoneNumber,
			Valid:  req.PhoneNumber != "",
		},
	})
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		return db.User{}, connect.NewError(connect.CodeAlreadyExists, errors.New("username is already taken"))
	case errors.Is(err, storage.ErrInvalidUsername):
		return db.User{}, connect.NewError(connect.CodeInvalidArgument, err)
	case err != nil:
		s.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		return db.User{}, connect.NewError(connect.CodeInternal, storage.ErrInternal)
	}

	s.logger.InfoContext(ctx, "registered user",
		slog.String("username", user.Username),
		slog.Uint64("id", user.ID),
	)
	return user, nil
}

// Delete removes the named user along with all of their todos.
func (s *Service) Delete(ctx context.Context, username string) error {
	user, err := s.users.GetUserByName(ctx, username)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, errors.New("user not found"))
	case err != nil:
		return connect.NewError(connect.CodeInternal, err)
	}
	if err = s.users.DeleteUser(ctx, user.ID); err != nil {
		return connect.NewError(connect.CodeInternal, err)
	}
	s.logger.InfoContext(ctx, "deleted user",
		slog.String("username", user.Username),
		slog.Uint64("id", user.ID),
	)
	return nil
}

// List returns up to limit users ordered by username, starting after the
// afterName user when it is set.
func (s *Service) List(ctx context.Context, afterName string, limit int32) ([]db.User, error) {
	if limit <= 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("limit must be positive"))
	}
	users, err := s.users.ListUsers(ctx, afterName, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		return nil, connect.NewError(connect.CodeInternal, storage.ErrInternal)
	}
	return users, nil
}
