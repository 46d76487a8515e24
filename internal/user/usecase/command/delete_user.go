package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/logger"
	"github.com/tair/foodgram/pkg/storage"
)

// DeleteUserCommand represents the command to delete a user
type DeleteUserCommand struct {
	ID uint
}

// DeleteUserHandler handles user deletion command
type DeleteUserHandler struct {
	repo    domain.UserRepository
	recipes domain.AuthorRecipeReader
	images  storage.ImageStore
}

// NewDeleteUserHandler creates a new delete user handler
func NewDeleteUserHandler(repo domain.UserRepository, recipes domain.AuthorRecipeReader, images storage.ImageStore) *DeleteUserHandler {
	return &DeleteUserHandler{repo: repo, recipes: recipes, images: images}
}

// Handle deletes the user and everything they own, then the images of
// their recipes
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) error {
	cards, err := h.recipes.RecipeCardsByAuthor(ctx, cmd.ID, 0)
	if err != nil {
		return fmt.Errorf("failed to load user recipes: %w", err)
	}

	if err := h.repo.Delete(ctx, cmd.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errUserNotFound
		}
		return err
	}

	for _, card := range cards {
		if card.Image == "" {
			continue
		}
		if err := h.images.Delete(ctx, card.Image); err != nil {
			logger.Warn(ctx).Err(err).Str("image", card.Image).Msg("Failed to delete image")
		}
	}

	logger.Info(ctx).
		Uint("user_id", cmd.ID).
		Int("recipes", len(cards)).
		Msg("User deleted")
	return nil
}
