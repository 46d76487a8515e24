package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tair/foodgram/internal/recipe/repository"
	"github.com/tair/foodgram/internal/recipe/usecase/command"
	"github.com/tair/foodgram/pkg/logger"
)

var importIngredientsCmd = &cobra.Command{
	Use:   "import-ingredients [file]",
	Short: "Load ingredients from a name,measurement_unit CSV file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		path := cfg.IngredientsCSV
		if len(args) == 1 {
			path = args[0]
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open ingredients file: %w", err)
		}
		defer file.Close()

		db, closeDB, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer closeDB()
		if err := migrate(db); err != nil {
			return err
		}

		c, _, closeCache, err := newCache(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeCache()
		publisher, closePublisher, err := newPublisher(cfg)
		if err != nil {
			return err
		}
		defer closePublisher()

		handler := command.NewCatalogHandler(repository.NewGormRecipeRepositoryWithTracing(db), c, publisher)
		count, err := handler.ImportIngredients(ctx, command.ImportIngredientsCommand{Source: file})
		if err != nil {
			return err
		}

		logger.Logger.Info().
			Str("file", path).
			Int("count", count).
			Msg("Import finished")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importIngredientsCmd)
}
