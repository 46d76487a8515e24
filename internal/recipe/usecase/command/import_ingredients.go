package command

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/exceptions"
	"github.com/tair/foodgram/pkg/logger"
)

// ImportIngredientsCommand loads "name,measurement_unit" rows
type ImportIngredientsCommand struct {
	Source io.Reader
}

// ImportIngredients parses the CSV and bulk inserts its rows. Ids continue
// after the current maximum ingredient id.
func (h *CatalogHandler) ImportIngredients(ctx context.Context, cmd ImportIngredientsCommand) (int, error) {
	ingredients, err := parseIngredients(cmd.Source)
	if err != nil {
		return 0, err
	}

	count, err := h.catalog.ImportIngredients(ctx, ingredients)
	if err != nil {
		return 0, err
	}

	logger.Info(ctx).
		Int("count", count).
		Msg("Ingredients imported")
	h.changed(ctx, kafka.Event{EventType: kafka.EventTypeIngredientsImported, Count: count})
	return count, nil
}

func parseIngredients(source io.Reader) ([]domain.Ingredient, error) {
	reader := csv.NewReader(source)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var ingredients []domain.Ingredient
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ingredients csv: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) != 2 {
			return nil, exceptions.InvalidInputf("строка %d: ожидается название и единица измерения", line)
		}

		ingredient := domain.Ingredient{Name: record[0], MeasurementUnit: record[1]}
		if err := ingredient.Normalize(); err != nil {
			return nil, exceptions.InvalidInputf("строка %d: %s", line, exceptions.PublicMessage(err))
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}
