package command

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/logger"
	"github.com/tair/foodgram/pkg/storage"
)

// UpdateRecipeCommand partially updates a recipe. Nil fields keep their value.
type UpdateRecipeCommand struct {
	RecipeID uint
	UserID   uint
	IsAdmin  bool
	Recipe   domain.RecipeWrite
}

// UpdateRecipeHandler handles update recipe command
type UpdateRecipeHandler struct {
	repo      domain.RecipeRepository
	catalog   domain.CatalogRepository
	images    storage.ImageStore
	publisher kafka.EventPublisher
}

// NewUpdateRecipeHandler creates a new update recipe handler
func NewUpdateRecipeHandler(
	repo domain.RecipeRepository,
	catalog domain.CatalogRepository,
	images storage.ImageStore,
	publisher kafka.EventPublisher,
) *UpdateRecipeHandler {
	return &UpdateRecipeHandler{repo: repo, catalog: catalog, images: images, publisher: publisher}
}

// Handle applies the supplied fields. Tags and ingredients are replaced
// wholesale when present; a new image replaces the stored one.
func (h *UpdateRecipeHandler) Handle(ctx context.Context, cmd UpdateRecipeCommand) (*domain.Recipe, error) {
	recipe, err := h.repo.FindByID(ctx, cmd.RecipeID)
	if err != nil {
		return nil, findRecipe(err)
	}
	if !recipe.CanBeChangedBy(cmd.UserID, cmd.IsAdmin) {
		logger.Warn(ctx).
			Uint("recipe_id", recipe.ID).
			Uint("user_id", cmd.UserID).
			Msg("Recipe update denied")
		return nil, errPermissionDenied
	}

	w := cmd.Recipe
	if err := domain.ValidateRecipeWrite(&w, true); err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, h.catalog, w); err != nil {
		return nil, err
	}

	if w.Name != nil {
		recipe.Name = *w.Name
	}
	if w.Text != nil {
		recipe.Text = *w.Text
	}
	if w.CookingTime != nil {
		recipe.CookingTime = *w.CookingTime
	}

	oldImage := ""
	if w.Image != nil {
		img, err := storage.DecodeDataURI(*w.Image)
		if err != nil {
			return nil, err
		}
		key, err := h.images.Save(ctx, img)
		if err != nil {
			return nil, err
		}
		oldImage, recipe.Image = recipe.Image, key
	}

	replaceTags := w.Tags != nil
	if replaceTags {
		recipe.TagLinks = tagLinks(w.Tags)
	}
	replaceIngredients := w.Ingredients != nil
	if replaceIngredients {
		recipe.Ingredients = ingredientLinks(w.Ingredients)
	}

	if err := h.repo.Update(ctx, recipe, replaceTags, replaceIngredients); err != nil {
		if oldImage != "" {
			deleteImage(ctx, h.images, recipe.Image)
		}
		return nil, findRecipe(err)
	}
	if oldImage != "" {
		deleteImage(ctx, h.images, oldImage)
	}

	logger.Info(ctx).
		Uint("recipe_id", recipe.ID).
		Uint("user_id", cmd.UserID).
		Msg("Recipe updated")
	kafka.Emit(ctx, h.publisher, kafka.Event{
		EventType: kafka.EventTypeRecipeUpdated,
		UserID:    cmd.UserID,
		RecipeID:  recipe.ID,
	})

	updated, err := h.repo.FindByID(ctx, recipe.ID)
	if err != nil {
		return nil, findRecipe(err)
	}
	return updated, nil
}
