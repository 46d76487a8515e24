package main

import (
	"github.com/spf13/cobra"

	"github.com/tair/foodgram/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
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
		logger.Logger.Info().Msg("Migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
