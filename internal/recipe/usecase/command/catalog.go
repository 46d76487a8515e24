package command

import (
	"context"
	"errors"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/cache"
	"github.com/tair/foodgram/pkg/exceptions"
	"github.com/tair/foodgram/pkg/logger"
)

// CreateTagCommand represents the command to create a tag
type CreateTagCommand struct {
	Name  string
	Color string
	Slug  string
}

// CreateIngredientCommand represents the command to create an ingredient
type CreateIngredientCommand struct {
	Name            string
	MeasurementUnit string
}

// CatalogHandler handles admin writes to the tag and ingredient catalog
type CatalogHandler struct {
	catalog   domain.CatalogRepository
	cache     cache.Cache
	publisher kafka.EventPublisher
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog domain.CatalogRepository, c cache.Cache, publisher kafka.EventPublisher) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, cache: c, publisher: publisher}
}

// CreateTag validates and stores a tag
func (h *CatalogHandler) CreateTag(ctx context.Context, cmd CreateTagCommand) (*domain.Tag, error) {
	tag := &domain.Tag{Name: cmd.Name, Color: cmd.Color, Slug: cmd.Slug}
	if err := tag.Normalize(); err != nil {
		return nil, err
	}

	if err := h.catalog.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, exceptions.Conflict("Тег с таким названием, цветом или слагом уже существует")
		}
		return nil, err
	}

	logger.Info(ctx).
		Uint("tag_id", tag.ID).
		Str("slug", tag.Slug).
		Msg("Tag created")
	h.changed(ctx, kafka.Event{EventType: kafka.EventTypeCatalogChanged, Count: 1})
	return tag, nil
}

// CreateIngredient validates and stores an ingredient
func (h *CatalogHandler) CreateIngredient(ctx context.Context, cmd CreateIngredientCommand) (*domain.Ingredient, error) {
	ingredient := &domain.Ingredient{Name: cmd.Name, MeasurementUnit: cmd.MeasurementUnit}
	if err := ingredient.Normalize(); err != nil {
		return nil, err
	}

	if err := h.catalog.CreateIngredient(ctx, ingredient); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("ingredient_id", ingredient.ID).
		Str("name", ingredient.Name).
		Msg("Ingredient created")
	h.changed(ctx, kafka.Event{EventType: kafka.EventTypeCatalogChanged, Count: 1})
	return ingredient, nil
}

// changed drops the local catalog cache and tells other instances to do the same
func (h *CatalogHandler) changed(ctx context.Context, event kafka.Event) {
	InvalidateCatalogCache(ctx, h.cache)
	kafka.Emit(ctx, h.publisher, event)
}

// InvalidateCatalogCache drops every cached tag and ingredient listing and
// moves the catalog version so in-flight loads cannot repopulate it
func InvalidateCatalogCache(ctx context.Context, c cache.Cache) {
	if c == nil {
		return
	}
	if err := c.DeletePrefix(ctx, domain.CatalogCachePrefix); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to invalidate catalog cache")
	}
	cache.NewGeneration(ctx, c, domain.CatalogGenerationKey)
}
