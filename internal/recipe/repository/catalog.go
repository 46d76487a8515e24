package repository

import (
	"context"
	"fmt"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/recipe/domain"
)

const importBatchSize = 500

// CreateIngredient inserts a catalog ingredient
func (r *GormRecipeRepository) CreateIngredient(ctx context.Context, ingredient *domain.Ingredient) error {
	if err := r.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return fmt.Errorf("failed to create ingredient: %w", translate(err))
	}
	return nil
}

// FindIngredient retrieves an ingredient by ID
func (r *GormRecipeRepository) FindIngredient(ctx context.Context, id uint) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find ingredient: %w", translate(err))
	}
	return &ingredient, nil
}

// ListIngredients returns ingredients ordered by name, optionally only those
// whose name starts with namePrefix. The match is case-sensitive on every
// dialect.
func (r *GormRecipeRepository) ListIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error) {
	query := r.db.WithContext(ctx).Order("name ASC, id ASC")
	if namePrefix != "" {
		query = wherePrefix(query, namePrefix)
	}

	var ingredients []domain.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// ImportIngredients bulk inserts ingredients numbering them after the
// current maximum id
func (r *GormRecipeRepository) ImportIngredients(ctx context.Context, ingredients []domain.Ingredient) (int, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lastID uint
		if err := tx.Model(&domain.Ingredient{}).Select("COALESCE(MAX(id), 0)").Scan(&lastID).Error; err != nil {
			return fmt.Errorf("failed to read last ingredient id: %w", err)
		}
		for i := range ingredients {
			ingredients[i].ID = lastID + uint(i) + 1
		}
		if err := tx.CreateInBatches(ingredients, importBatchSize).Error; err != nil {
			return fmt.Errorf("failed to import ingredients: %w", translate(err))
		}
		// explicit ids do not advance the postgres sequence
		if tx.Dialector.Name() == "postgres" {
			err := tx.Exec("SELECT setval(pg_get_serial_sequence('ingredients', 'id'), (SELECT MAX(id) FROM ingredients))").Error
			if err != nil {
				return fmt.Errorf("failed to advance ingredient sequence: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(ingredients), nil
}

// MissingIngredients returns the ids among ids that have no ingredient row
func (r *GormRecipeRepository) MissingIngredients(ctx context.Context, ids []uint) ([]uint, error) {
	return r.missing(ctx, &domain.Ingredient{}, ids)
}

// CreateTag inserts a tag
func (r *GormRecipeRepository) CreateTag(ctx context.Context, tag *domain.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return fmt.Errorf("failed to create tag: %w", translate(err))
	}
	return nil
}

// FindTag retrieves a tag by ID
func (r *GormRecipeRepository) FindTag(ctx context.Context, id uint) (*domain.Tag, error) {
	var tag domain.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find tag: %w", translate(err))
	}
	return &tag, nil
}

// ListTags returns all tags ordered by id
func (r *GormRecipeRepository) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// MissingTags returns the ids among ids that have no tag row
func (r *GormRecipeRepository) MissingTags(ctx context.Context, ids []uint) ([]uint, error) {
	return r.missing(ctx, &domain.Tag{}, ids)
}

func (r *GormRecipeRepository) missing(ctx context.Context, model interface{}, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []uint
	if err := r.db.WithContext(ctx).Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("failed to check ids: %w", err)
	}

	exists := make(map[uint]bool, len(found))
	for _, id := range found {
		exists[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !exists[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// wherePrefix filters name by prefix. sqlite LIKE folds ASCII case, so
// sqlite compares the leading characters instead.
func wherePrefix(query *gorm.DB, prefix string) *gorm.DB {
	if query.Dialector.Name() == "sqlite" {
		return query.Where("substr(name, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix)
	}
	return query.Where("name LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%")
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
