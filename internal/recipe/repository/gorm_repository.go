package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/foodgram/internal/recipe/domain"
	userdomain "github.com/tair/foodgram/internal/user/domain"
)

// GormRecipeRepository implements the recipe, catalog and membership
// contracts using GORM
type GormRecipeRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormRecipeRepository creates a new GORM recipe repository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db, now: time.Now}
}

// AutoMigrate runs database migrations
func (r *GormRecipeRepository) AutoMigrate() error {
	return r.db.AutoMigrate(domain.Models()...)
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicate
	default:
		return err
	}
}

func preloadRecipe(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("TagLinks", func(tx *gorm.DB) *gorm.DB { return tx.Order("recipe_tags.id ASC") }).
		Preload("TagLinks.Tag").
		Preload("Ingredients", func(tx *gorm.DB) *gorm.DB { return tx.Order("recipe_ingredients.id ASC") }).
		Preload("Ingredients.Ingredient")
}

func insertLinks(tx *gorm.DB, recipe *domain.Recipe, tags, ingredients bool) error {
	if tags && len(recipe.TagLinks) > 0 {
		for i := range recipe.TagLinks {
			recipe.TagLinks[i].ID = 0
			recipe.TagLinks[i].RecipeID = recipe.ID
		}
		if err := tx.Omit(clause.Associations).Create(&recipe.TagLinks).Error; err != nil {
			return fmt.Errorf("failed to link tags: %w", err)
		}
	}
	if ingredients && len(recipe.Ingredients) > 0 {
		for i := range recipe.Ingredients {
			recipe.Ingredients[i].ID = 0
			recipe.Ingredients[i].RecipeID = recipe.ID
		}
		if err := tx.Omit(clause.Associations).Create(&recipe.Ingredients).Error; err != nil {
			return fmt.Errorf("failed to link ingredients: %w", err)
		}
	}
	return nil
}

// Create inserts the recipe with its tag and ingredient links
func (r *GormRecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	if recipe.PubDate.IsZero() {
		recipe.PubDate = r.now()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", translate(err))
		}
		return insertLinks(tx, recipe, true, true)
	})
}

// Update saves the recipe row and replaces the requested links
func (r *GormRecipeRepository) Update(ctx context.Context, recipe *domain.Recipe, replaceTags, replaceIngredients bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(map[string]interface{}{
				"name":         recipe.Name,
				"text":         recipe.Text,
				"image":        recipe.Image,
				"cooking_time": recipe.CookingTime,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update recipe: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		if replaceTags {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.RecipeTag{}).Error; err != nil {
				return fmt.Errorf("failed to clear tags: %w", err)
			}
		}
		if replaceIngredients {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
				return fmt.Errorf("failed to clear ingredients: %w", err)
			}
		}
		return insertLinks(tx, recipe, replaceTags, replaceIngredients)
	})
}

// Delete removes the recipe with its links, favorites and cart entries
func (r *GormRecipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&domain.RecipeIngredient{},
			&domain.RecipeTag{},
			&domain.Favorite{},
			&domain.ShoppingCartEntry{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete recipe links: %w", err)
			}
		}

		result := tx.Delete(&domain.Recipe{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete recipe: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// FindByID retrieves a recipe with author, tags and ingredients
func (r *GormRecipeRepository) FindByID(ctx context.Context, id uint) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := preloadRecipe(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find recipe: %w", translate(err))
	}
	return &recipe, nil
}

func (r *GormRecipeRepository) filtered(ctx context.Context, f domain.RecipeFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&domain.Recipe{})
	if f.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if f.FavoritedBy != 0 {
		query = query.Where("recipes.id IN (?)",
			r.db.Table("favorites").Select("recipe_id").Where("user_id = ?", f.FavoritedBy))
	}
	if f.InCartOf != 0 {
		query = query.Where("recipes.id IN (?)",
			r.db.Table("shopping_carts").Select("recipe_id").Where("user_id = ?", f.InCartOf))
	}
	return query
}

// List returns a page of recipes, newest first, with the total match count
func (r *GormRecipeRepository) List(ctx context.Context, f domain.RecipeFilter) ([]domain.Recipe, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	query := preloadRecipe(r.filtered(ctx, f)).Order("recipes.pub_date DESC, recipes.id DESC")
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	var recipes []domain.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

// RecipeCardsByAuthor returns the author's newest recipes in short form.
// limit <= 0 returns all of them.
func (r *GormRecipeRepository) RecipeCardsByAuthor(ctx context.Context, authorID uint, limit int) ([]userdomain.RecipeCard, error) {
	query := r.db.WithContext(ctx).Model(&domain.Recipe{}).
		Select("id, name, image, cooking_time").
		Where("author_id = ?", authorID).
		Order("pub_date DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var cards []userdomain.RecipeCard
	if err := query.Scan(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipe cards: %w", err)
	}
	return cards, nil
}

// CountByAuthors returns the number of recipes of each author
func (r *GormRecipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}
