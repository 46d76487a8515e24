package command

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/logger"
	"github.com/tair/foodgram/pkg/storage"
)

// CreateRecipeCommand publishes a new recipe on behalf of AuthorID
type CreateRecipeCommand struct {
	AuthorID uint
	Recipe   domain.RecipeWrite
}

// CreateRecipeHandler handles create recipe command
type CreateRecipeHandler struct {
	repo      domain.RecipeRepository
	catalog   domain.CatalogRepository
	images    storage.ImageStore
	publisher kafka.EventPublisher
}

// NewCreateRecipeHandler creates a new create recipe handler
func NewCreateRecipeHandler(
	repo domain.RecipeRepository,
	catalog domain.CatalogRepository,
	images storage.ImageStore,
	publisher kafka.EventPublisher,
) *CreateRecipeHandler {
	return &CreateRecipeHandler{repo: repo, catalog: catalog, images: images, publisher: publisher}
}

// Handle validates the write, stores the image and persists the recipe
func (h *CreateRecipeHandler) Handle(ctx context.Context, cmd CreateRecipeCommand) (*domain.Recipe, error) {
	w := cmd.Recipe
	if err := domain.ValidateRecipeWrite(&w, false); err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, h.catalog, w); err != nil {
		return nil, err
	}

	img, err := storage.DecodeDataURI(*w.Image)
	if err != nil {
		return nil, err
	}
	key, err := h.images.Save(ctx, img)
	if err != nil {
		return nil, err
	}

	recipe := &domain.Recipe{
		AuthorID:    cmd.AuthorID,
		Name:        *w.Name,
		Text:        *w.Text,
		Image:       key,
		CookingTime: *w.CookingTime,
		TagLinks:    tagLinks(w.Tags),
		Ingredients: ingredientLinks(w.Ingredients),
	}
	if err := h.repo.Create(ctx, recipe); err != nil {
		deleteImage(ctx, h.images, key)
		return nil, err
	}

	logger.Info(ctx).
		Uint("recipe_id", recipe.ID).
		Uint("author_id", cmd.AuthorID).
		Msg("Recipe created")
	kafka.Emit(ctx, h.publisher, kafka.Event{
		EventType: kafka.EventTypeRecipeCreated,
		UserID:    cmd.AuthorID,
		RecipeID:  recipe.ID,
	})

	created, err := h.repo.FindByID(ctx, recipe.ID)
	if err != nil {
		return nil, findRecipe(err)
	}
	return created, nil
}
