package domain

import (
	"context"
)

// RecipeFilter selects recipes for listing. Zero values do not filter.
type RecipeFilter struct {
	AuthorID    uint
	TagSlugs    []string
	FavoritedBy uint
	InCartOf    uint
	Limit       int
	Offset      int
}

// RecipeRepository defines the contract for recipe data access
type RecipeRepository interface {
	Create(ctx context.Context, recipe *Recipe) error
	// Update saves the recipe row. Tag and ingredient links are replaced only
	// when the matching flag is set.
	Update(ctx context.Context, recipe *Recipe, replaceTags, replaceIngredients bool) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*Recipe, error)
	List(ctx context.Context, filter RecipeFilter) ([]Recipe, int64, error)
}

// CatalogRepository defines the contract for ingredient and tag data access
type CatalogRepository interface {
	CreateIngredient(ctx context.Context, ingredient *Ingredient) error
	FindIngredient(ctx context.Context, id uint) (*Ingredient, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]Ingredient, error)
	// ImportIngredients inserts rows with ids continuing after the current maximum
	ImportIngredients(ctx context.Context, ingredients []Ingredient) (int, error)
	MissingIngredients(ctx context.Context, ids []uint) ([]uint, error)

	CreateTag(ctx context.Context, tag *Tag) error
	FindTag(ctx context.Context, id uint) (*Tag, error)
	ListTags(ctx context.Context) ([]Tag, error)
	MissingTags(ctx context.Context, ids []uint) ([]uint, error)
}

// MembershipRepository defines the contract for favorites and shopping carts
type MembershipRepository interface {
	Add(ctx context.Context, kind ListKind, userID, recipeID uint) error
	Remove(ctx context.Context, kind ListKind, userID, recipeID uint) error
	// Contains returns which of recipeIDs are in the user's list
	Contains(ctx context.Context, kind ListKind, userID uint, recipeIDs []uint) (map[uint]bool, error)
	ShoppingCartLines(ctx context.Context, userID uint) ([]CartLine, error)
}
