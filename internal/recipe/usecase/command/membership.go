package command

import (
	"context"
	"errors"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/exceptions"
	"github.com/tair/foodgram/pkg/logger"
)

// MembershipCommand puts a recipe into, or takes it out of, one of the
// caller's lists
type MembershipCommand struct {
	Kind     domain.ListKind
	UserID   uint
	RecipeID uint
}

// MembershipHandler handles favorite and shopping cart commands
type MembershipHandler struct {
	recipes   domain.RecipeRepository
	lists     domain.MembershipRepository
	publisher kafka.EventPublisher
}

// NewMembershipHandler creates a new favorite/shopping cart handler
func NewMembershipHandler(recipes domain.RecipeRepository, lists domain.MembershipRepository, publisher kafka.EventPublisher) *MembershipHandler {
	return &MembershipHandler{recipes: recipes, lists: lists, publisher: publisher}
}

var eventTypes = map[domain.ListKind][2]string{
	domain.Favorites:    {kafka.EventTypeFavoriteAdded, kafka.EventTypeFavoriteRemoved},
	domain.ShoppingCart: {kafka.EventTypeCartAdded, kafka.EventTypeCartRemoved},
}

// Add inserts the pair and returns the recipe
func (h *MembershipHandler) Add(ctx context.Context, cmd MembershipCommand) (*domain.Recipe, error) {
	recipe, err := h.recipes.FindByID(ctx, cmd.RecipeID)
	if err != nil {
		return nil, findRecipe(err)
	}

	if err := h.lists.Add(ctx, cmd.Kind, cmd.UserID, recipe.ID); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, exceptions.Conflict("Рецепт уже добавлен")
		}
		return nil, err
	}

	logger.Info(ctx).
		Str("list", string(cmd.Kind)).
		Uint("user_id", cmd.UserID).
		Uint("recipe_id", recipe.ID).
		Msg("Recipe added to list")
	kafka.Emit(ctx, h.publisher, kafka.Event{
		EventType: eventTypes[cmd.Kind][0],
		UserID:    cmd.UserID,
		RecipeID:  recipe.ID,
	})
	return recipe, nil
}

// Remove deletes the pair
func (h *MembershipHandler) Remove(ctx context.Context, cmd MembershipCommand) error {
	if _, err := h.recipes.FindByID(ctx, cmd.RecipeID); err != nil {
		return findRecipe(err)
	}

	if err := h.lists.Remove(ctx, cmd.Kind, cmd.UserID, cmd.RecipeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return exceptions.InvalidInput("Рецепта нет в списке")
		}
		return err
	}

	kafka.Emit(ctx, h.publisher, kafka.Event{
		EventType: eventTypes[cmd.Kind][1],
		UserID:    cmd.UserID,
		RecipeID:  cmd.RecipeID,
	})
	return nil
}
