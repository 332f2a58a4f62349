// Package devservice seeds a development database with a demo account and a
// corpus of fake todos.
package devservice

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"

	"connectrpc.com/connect"
	"github.com/brianvoe/gofakeit/v7"

	"github.com/stolasapp/todo/internal/sec"
	"github.com/stolasapp/todo/internal/todos"
	"github.com/stolasapp/todo/internal/users"
)

// Corpus generation constants.
const (
	minTodos      = 30
	maxExtraTodos = 40 // 30-69 todos total (ensures pagination with 25/page)
	demoUsername  = "demo"
	passwordLen   = 16
)

// Seed returns the dev seed from the TODO_DEV_SEED environment variable, or a
// random value if not set.
func Seed() uint64 {
	if env := os.Getenv("TODO_DEV_SEED"); env != "" {
		if seed, err := strconv.ParseUint(env, 10, 64); err == nil {
			return seed
		}
	}
	return rand.Uint64() //nolint:gosec // intentionally weak random for test data
}

// Credentials are the login details of the demo account.
type Credentials struct {
	Username string
	Password string
}

// Service populates the stores behind the user and todo services.
type Service struct {
	users  *users.Service
	todos  *todos.Service
	logger *slog.Logger
}

// New creates a seeder over the provided services.
func New(users *users.Service, todos *todos.Service, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		todos:  todos,
		logger: logger,
	}
}

// Populate creates the demo account and its todos. The corpus is
// deterministic for a given seed. If the demo account already exists the
// database is left untouched and ok is false.
func (s *Service) Populate(ctx context.Context, seed uint64) (creds Credentials, ok bool, err error) {
	faker := gofakeit.New(seed)
	creds = Credentials{
		Username: demoUsername,
		Password: faker.Password(true, true, true, false, false, passwordLen),
	}

	user, err := s.users.Register(ctx, users.RegisterRequest{
		Username:  creds.Username,
		Email:     faker.Email(),
		FirstName: faker.FirstName(),
		LastName:  faker.LastName(),
		Password:  creds.Password,
	})
	switch {
	case connect.CodeOf(err) == connect.CodeAlreadyExists:
		s.logger.InfoContext(ctx, "demo account already exists, skipping seed",
			slog.String("username", creds.Username))
		return Credentials{}, false, nil
	case err != nil:
		return Credentials{}, false, fmt.Errorf("failed to create demo account: %w", err)
	}

	ownerCtx := sec.SetIdentity(ctx, sec.IdentityOf(user))
	count := minTodos + faker.IntN(maxExtraTodos)
	for range count {
		if _, err = s.todos.Create(ownerCtx, generateTodo(faker)); err != nil {
			return Credentials{}, false, fmt.Errorf("failed to create demo todo: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "seeded demo account",
		slog.String("username", creds.Username),
		slog.Int("todos", count),
		slog.Uint64("seed", seed),
	)
	return creds, true, nil
}
