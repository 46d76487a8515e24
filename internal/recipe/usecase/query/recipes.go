package query

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
	userdomain "github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/storage"
)

// GetRecipeQuery reads one recipe for ViewerID (0 for anonymous)
type GetRecipeQuery struct {
	ID       uint
	ViewerID uint
}

// ListRecipesQuery lists recipes newest first. Favorited and InShoppingCart
// restrict the result to the viewer's lists.
type ListRecipesQuery struct {
	ViewerID       uint
	AuthorID       uint
	TagSlugs       []string
	Favorited      bool
	InShoppingCart bool
	Limit          int
	Offset         int
}

// RecipesHandler handles recipe read queries
type RecipesHandler struct {
	repo   domain.RecipeRepository
	lists  domain.MembershipRepository
	subs   userdomain.SubscriptionRepository
	images storage.URLResolver
}

// NewRecipesHandler creates a new recipe query handler
func NewRecipesHandler(
	repo domain.RecipeRepository,
	lists domain.MembershipRepository,
	subs userdomain.SubscriptionRepository,
	images storage.URLResolver,
) *RecipesHandler {
	return &RecipesHandler{repo: repo, lists: lists, subs: subs, images: images}
}

// Get executes the get recipe query
func (h *RecipesHandler) Get(ctx context.Context, query GetRecipeQuery) (*RecipeView, error) {
	recipe, err := h.repo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, notFound(err, "Рецепт не найден")
	}

	views, err := h.present(ctx, query.ViewerID, []domain.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List executes the list recipes query
func (h *RecipesHandler) List(ctx context.Context, query ListRecipesQuery) ([]RecipeView, int64, error) {
	// anonymous viewers have empty lists
	if query.ViewerID == 0 && (query.Favorited || query.InShoppingCart) {
		return []RecipeView{}, 0, nil
	}

	filter := domain.RecipeFilter{
		AuthorID: query.AuthorID,
		TagSlugs: query.TagSlugs,
		Limit:    query.Limit,
		Offset:   query.Offset,
	}
	if query.Favorited {
		filter.FavoritedBy = query.ViewerID
	}
	if query.InShoppingCart {
		filter.InCartOf = query.ViewerID
	}

	recipes, total, err := h.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	views, err := h.present(ctx, query.ViewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (h *RecipesHandler) present(ctx context.Context, viewerID uint, recipes []domain.Recipe) ([]RecipeView, error) {
	flags, err := h.flags(ctx, viewerID, recipes)
	if err != nil {
		return nil, err
	}

	views := make([]RecipeView, 0, len(recipes))
	for _, recipe := range recipes {
		views = append(views, newRecipeView(recipe, flags, h.images))
	}
	return views, nil
}

func (h *RecipesHandler) flags(ctx context.Context, viewerID uint, recipes []domain.Recipe) (viewerFlags, error) {
	var flags viewerFlags
	if viewerID == 0 || len(recipes) == 0 {
		return flags, nil
	}

	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
		if recipe.AuthorID != viewerID {
			authorIDs = append(authorIDs, recipe.AuthorID)
		}
	}

	var err error
	if flags.favorited, err = h.lists.Contains(ctx, domain.Favorites, viewerID, recipeIDs); err != nil {
		return flags, err
	}
	if flags.inCart, err = h.lists.Contains(ctx, domain.ShoppingCart, viewerID, recipeIDs); err != nil {
		return flags, err
	}
	if len(authorIDs) > 0 {
		if flags.subscribed, err = h.subs.SubscribedAuthors(ctx, viewerID, authorIDs); err != nil {
			return flags, err
		}
	}
	return flags, nil
}
