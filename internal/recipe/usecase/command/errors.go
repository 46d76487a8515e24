package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/pkg/exceptions"
)

var (
	errRecipeNotFound     = exceptions.NotFound("Рецепт не найден")
	errIngredientNotFound = exceptions.NotFound("Ингредиент не найден")
	errTagNotFound        = exceptions.NotFound("Тег не найден")
	errPermissionDenied   = exceptions.Forbidden("У вас недостаточно прав для выполнения данного действия.")
)

// findRecipe maps a missing row to a 404 service error
func findRecipe(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return errRecipeNotFound
	}
	return fmt.Errorf("failed to load recipe: %w", err)
}

// checkReferences fails with 404 when a supplied ingredient or tag id is unknown
func checkReferences(ctx context.Context, catalog domain.CatalogRepository, w domain.RecipeWrite) error {
	if len(w.Ingredients) > 0 {
		ids := make([]uint, 0, len(w.Ingredients))
		for _, item := range w.Ingredients {
			ids = append(ids, item.ID)
		}
		missing, err := catalog.MissingIngredients(ctx, ids)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return errIngredientNotFound
		}
	}

	if len(w.Tags) > 0 {
		missing, err := catalog.MissingTags(ctx, w.Tags)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return errTagNotFound
		}
	}
	return nil
}

func ingredientLinks(items []domain.IngredientAmount) []domain.RecipeIngredient {
	links := make([]domain.RecipeIngredient, 0, len(items))
	for _, item := range items {
		links = append(links, domain.RecipeIngredient{IngredientID: item.ID, Amount: item.Amount})
	}
	return links
}

func tagLinks(ids []uint) []domain.RecipeTag {
	links := make([]domain.RecipeTag, 0, len(ids))
	for _, id := range ids {
		links = append(links, domain.RecipeTag{TagID: id})
	}
	return links
}
