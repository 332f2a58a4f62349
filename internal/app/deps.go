package app

import (
	"log/slog"

	"github.com/stolasapp/todo/internal/config"
	"github.com/stolasapp/todo/internal/sec"
	"github.com/stolasapp/todo/internal/storage"
	"github.com/stolasapp/todo/internal/todos"
	"github.com/stolasapp/todo/internal/users"
)

// Deps are the services exposed by the web app.
type Deps struct {
	Auth  *sec.Authenticator
	Guard *sec.Guard
	Users *users.Service
	Todos *todos.Service
}

// NewDeps builds the app's services over store as configured by cfg.
func NewDeps(cfg *config.Config, logger *slog.Logger, store storage.Store) (Deps, error) {
	hasher := sec.NewHasher(cfg.Auth.BcryptCost)
	codec, err := sec.NewJWTCodec(
		cfg.Auth.SigningSecret.Bytes(),
		cfg.Auth.SigningAlgorithm,
		sec.WithLeeway(cfg.Auth.ClockSkew),
	)
	if err != nil {
		return Deps{}, err
	}
	auth, err := sec.NewAuthenticator(store, hasher, codec, cfg.Auth.TokenTTL)
	if err != nil {
		return Deps{}, err
	}
	todoSvc, err := todos.NewService(store, logger)
	if err != nil {
		return Deps{}, err
	}
	return Deps{
		Auth:  auth,
		Guard: sec.NewGuard(codec, logger),
		Users: users.NewService(store, hasher, logger),
		Todos: todoSvc,
	}, nil
}
