package query

import (
	"context"
	"time"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/pkg/cache"
)

// CatalogCacheTTL bounds how stale a cached tag or ingredient listing can be
const CatalogCacheTTL = 10 * time.Minute

// CatalogHandler handles tag and ingredient read queries. Listings are
// served from the cache.
type CatalogHandler struct {
	catalog domain.CatalogRepository
	cache   cache.Cache
}

// NewCatalogHandler creates a new catalog query handler. c may be nil.
func NewCatalogHandler(catalog domain.CatalogRepository, c cache.Cache) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, cache: c}
}

// ListIngredients returns ingredients whose name starts with namePrefix
func (h *CatalogHandler) ListIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error) {
	ingredients, err := cache.Remember(ctx, h.cache, h.key(ctx, domain.IngredientsCacheKey(namePrefix)), CatalogCacheTTL,
		func(ctx context.Context) ([]domain.Ingredient, error) {
			return h.catalog.ListIngredients(ctx, namePrefix)
		})
	if err != nil {
		return nil, err
	}
	if ingredients == nil {
		ingredients = []domain.Ingredient{}
	}
	return ingredients, nil
}

// GetIngredient returns one ingredient
func (h *CatalogHandler) GetIngredient(ctx context.Context, id uint) (*domain.Ingredient, error) {
	ingredient, err := h.catalog.FindIngredient(ctx, id)
	if err != nil {
		return nil, notFound(err, "Ингредиент не найден")
	}
	return ingredient, nil
}

// ListTags returns every tag
func (h *CatalogHandler) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := cache.Remember(ctx, h.cache, h.key(ctx, domain.TagsCacheKey), CatalogCacheTTL, h.catalog.ListTags)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	return tags, nil
}

// GetTag returns one tag
func (h *CatalogHandler) GetTag(ctx context.Context, id uint) (*domain.Tag, error) {
	tag, err := h.catalog.FindTag(ctx, id)
	if err != nil {
		return nil, notFound(err, "Тег не найден")
	}
	return tag, nil
}

func (h *CatalogHandler) key(ctx context.Context, base string) string {
	if h.cache == nil {
		return base
	}
	return base + "@" + cache.Generation(ctx, h.cache, domain.CatalogGenerationKey)
}
