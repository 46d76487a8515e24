package repository

import (
	"context"
	"fmt"

	"github.com/tair/foodgram/internal/recipe/domain"
)

func membershipModel(kind domain.ListKind, userID, recipeID uint) (interface{}, error) {
	switch kind {
	case domain.Favorites:
		return &domain.Favorite{UserID: userID, RecipeID: recipeID}, nil
	case domain.ShoppingCart:
		return &domain.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}, nil
	default:
		return nil, fmt.Errorf("unknown list %q", kind)
	}
}

// Add puts the recipe into the user's list; ErrDuplicate if already there
func (r *GormRecipeRepository) Add(ctx context.Context, kind domain.ListKind, userID, recipeID uint) error {
	model, err := membershipModel(kind, userID, recipeID)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add to %s: %w", kind, translate(err))
	}
	return nil
}

// Remove takes the recipe out of the user's list; ErrNotFound if absent
func (r *GormRecipeRepository) Remove(ctx context.Context, kind domain.ListKind, userID, recipeID uint) error {
	model, err := membershipModel(kind, 0, 0)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(model)
	if result.Error != nil {
		return fmt.Errorf("failed to remove from %s: %w", kind, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Contains returns which of recipeIDs are in the user's list
func (r *GormRecipeRepository) Contains(ctx context.Context, kind domain.ListKind, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return result, nil
	}

	model, err := membershipModel(kind, 0, 0)
	if err != nil {
		return nil, err
	}
	var ids []uint
	err = r.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// ShoppingCartLines returns one row per ingredient of every recipe in the
// user's cart. Amounts are summed by the caller.
func (r *GormRecipeRepository) ShoppingCartLines(ctx context.Context, userID uint) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	err := r.db.WithContext(ctx).
		Table("shopping_carts").
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, recipe_ingredients.amount AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_carts.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_carts.user_id = ?", userID).
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping cart: %w", err)
	}
	return lines, nil
}
