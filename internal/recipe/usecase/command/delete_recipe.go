package command

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/logger"
	"github.com/tair/foodgram/pkg/storage"
)

// DeleteRecipeCommand removes a recipe
type DeleteRecipeCommand struct {
	RecipeID uint
	UserID   uint
	IsAdmin  bool
}

// DeleteRecipeHandler handles delete recipe command
type DeleteRecipeHandler struct {
	repo      domain.RecipeRepository
	images    storage.ImageStore
	publisher kafka.EventPublisher
}

// NewDeleteRecipeHandler creates a new delete recipe handler
func NewDeleteRecipeHandler(repo domain.RecipeRepository, images storage.ImageStore, publisher kafka.EventPublisher) *DeleteRecipeHandler {
	return &DeleteRecipeHandler{repo: repo, images: images, publisher: publisher}
}

// Handle deletes the recipe with its links and stored image
func (h *DeleteRecipeHandler) Handle(ctx context.Context, cmd DeleteRecipeCommand) error {
	recipe, err := h.repo.FindByID(ctx, cmd.RecipeID)
	if err != nil {
		return findRecipe(err)
	}
	if !recipe.CanBeChangedBy(cmd.UserID, cmd.IsAdmin) {
		return errPermissionDenied
	}

	if err := h.repo.Delete(ctx, recipe.ID); err != nil {
		return findRecipe(err)
	}
	deleteImage(ctx, h.images, recipe.Image)

	logger.Info(ctx).
		Uint("recipe_id", recipe.ID).
		Uint("user_id", cmd.UserID).
		Msg("Recipe deleted")
	kafka.Emit(ctx, h.publisher, kafka.Event{
		EventType: kafka.EventTypeRecipeDeleted,
		UserID:    cmd.UserID,
		RecipeID:  recipe.ID,
		AuthorID:  recipe.AuthorID,
	})
	return nil
}

// deleteImage removes a stored image; failures leave an orphan file and are
// only logged
func deleteImage(ctx context.Context, images storage.ImageStore, key string) {
	if key == "" {
		return
	}
	if err := images.Delete(ctx, key); err != nil {
		logger.Warn(ctx).Err(err).Str("image", key).Msg("Failed to delete image")
	}
}
