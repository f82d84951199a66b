package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-cookie-auth/repository"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage the sqlite credential authority",
}

var usersMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the users table",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, closeDB, err := openUsers()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := users.CreateSchema(cmd.Context()); err != nil {
			return fmt.Errorf("creating users schema: %w", err)
		}

		log.Info().Str("dsn", cfg.Verifier.DSN).Msg("users table ready")
		return nil
	},
}

var usersAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Register a user, the password is read from --password or stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}

		users, closeDB, err := openUsers()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := users.CreateSchema(cmd.Context()); err != nil {
			return fmt.Errorf("creating users schema: %w", err)
		}

		user, err := users.Create(cmd.Context(), args[0], password)
		if err != nil {
			return fmt.Errorf("adding user %q: %w", args[0], err)
		}

		log.Info().
			Str("id", user.ID.String()).
			Str("username", user.Username).
			Msg("user added")
		return nil
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered usernames",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, closeDB, err := openUsers()
		if err != nil {
			return err
		}
		defer closeDB()

		list, err := users.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}

		for _, u := range list {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", u.ID, u.Username, u.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

func openUsers() (*repository.Users, func(), error) {
	db, err := repository.Open(cfg.Verifier.DSN)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewUsersRepository(db), func() { _ = db.Close() }, nil
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersMigrateCmd, usersAddCmd, usersListCmd)

	usersAddCmd.Flags().String("password", "", "password for the user (read from stdin if empty)")
}
