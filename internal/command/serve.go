package command

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/todo/internal/app"
	"github.com/stolasapp/todo/internal/app/devservice"
	"github.com/stolasapp/todo/internal/server"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the todo web app and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			deps, err := app.NewDeps(cfg, logger, store)
			if err != nil {
				return err
			}

			grp, ctx := errgroup.WithContext(cmd.Context())

			// In dev mode, seed a demo account
			if cfg.DevMode {
				seed := devservice.Seed()
				creds, created, err := devservice.New(deps.Users, deps.Todos, logger).Populate(ctx, seed)
				if err != nil {
					return err
				}
				if created {
					logger.InfoContext(ctx, "demo account ready",
						slog.String("username", creds.Username),
						slog.String("password", creds.Password),
					)
				}
			}

			if _, err = server.Start(ctx, grp, logger, cfg.WebAddress, app.New(cfg, logger, deps)); err != nil {
				return errors.Join(err, grp.Wait())
			}
			return grp.Wait()
		},
	}
}
