package main

import (
	"github.com/spf13/cobra"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/internal/user/repository"
	"github.com/tair/foodgram/internal/user/usecase/command"
	"github.com/tair/foodgram/pkg/logger"
)

var adminFlags command.RegisterUserCommand

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Register an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		db, closeDB, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer closeDB()
		if err := migrate(db); err != nil {
			return err
		}

		register := adminFlags
		register.Role = domain.RoleAdmin
		handler := command.NewRegisterUserHandler(repository.NewGormUserRepositoryWithTracing(db))
		user, err := handler.Handle(cmd.Context(), register)
		if err != nil {
			return err
		}

		logger.Logger.Info().
			Uint("user_id", user.ID).
			Str("email", user.Email).
			Msg("Administrator created")
		return nil
	},
}

func init() {
	flags := createAdminCmd.Flags()
	flags.StringVar(&adminFlags.Email, "email", "", "login email")
	flags.StringVar(&adminFlags.Username, "username", "", "unique username")
	flags.StringVar(&adminFlags.FirstName, "first-name", "", "first name")
	flags.StringVar(&adminFlags.LastName, "last-name", "", "last name")
	flags.StringVar(&adminFlags.Password, "password", "", "password")
	for _, name := range []string{"email", "username", "first-name", "last-name", "password"} {
		createAdminCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(createAdminCmd)
}
