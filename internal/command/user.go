package command

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/stolasapp/todo/internal/sec"
	"github.com/stolasapp/todo/internal/users"
)

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}
	cmd.AddCommand(
		userCreateCommand(),
		userListCommand(),
		userDeleteCommand(),
	)
	return cmd
}

func userCreateCommand() *cobra.Command {
	var req users.RegisterRequest
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create user",
		Long: "Creates a user account for the provided username. Passwords may be\n" +
			"provided via stdin or through the interactive prompt.",

		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			cfg, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			passwd, err := prompt(cmd, "password: ", true)
			if err != nil {
				return err
			}
			req.Username = args[0]
			req.Password = string(passwd)

			svc := users.NewService(store, sec.NewHasher(cfg.Auth.BcryptCost), logger)
			user, err := svc.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "created user",
				slog.String("name", user.Username),
				slog.Uint64("id", user.ID),
			)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Email, "email", "", "email address")
	flags.StringVar(&req.FirstName, "first-name", "", "given name")
	flags.StringVar(&req.LastName, "last-name", "", "family name")
	flags.StringVar(&req.Role, "role", users.DefaultRole, "role recorded in access tokens")
	flags.StringVar(&req.PhoneNumber, "phone", "", "optional phone number")
	for _, name := range []string{"email", "first-name", "last-name"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func userListCommand() *cobra.Command {
	var pageSize int32
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long:  "Lists every user account, ordered by username.",
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

			svc := users.NewService(store, sec.NewHasher(cfg.Auth.BcryptCost), logger)
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "USERNAME\tID\tROLE\tEMAIL\tCREATED")
			after := ""
			for {
				page, err := svc.List(cmd.Context(), after, pageSize)
				if err != nil {
					return err
				}
				for _, user := range page {
					fmt.Fprintf(writer, "%s\t%d\t%s\t%s\t%s\n",
						user.Username,
						user.ID,
						user.Role,
						user.Email,
						user.CreateTime.Format(time.RFC3339),
					)
				}
				if len(page) < int(pageSize) {
					break
				}
				after = page[len(page)-1].Username
			}
			return writer.Flush()
		},
	}
	cmd.Flags().Int32Var(&pageSize, "page-size", 100, "users fetched per query")
	return cmd
}

func userDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete user",
		Long: "Permanently deletes the user and all of their todos. " +
			"This operation is permanent and irreversible.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			cfg, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			name := args[0]
			logger = logger.With(slog.String("name", name))
			if _, err = store.GetUserByName(cmd.Context(), name); err != nil {
				return err
			}
			resp, err := prompt(cmd, "Are you sure you want to delete this user? [y|N] ", false)
			if !bytes.Equal(resp, []byte{'y'}) || err != nil {
				logger.InfoContext(cmd.Context(), "aborted user deletion")
				return err
			}
			svc := users.NewService(store, sec.NewHasher(cfg.Auth.BcryptCost), logger)
			if err = svc.Delete(cmd.Context(), name); err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "user deleted")
			return nil
		},
	}
}
