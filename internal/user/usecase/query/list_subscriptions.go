package query

import (
	"context"
	"fmt"

	"github.com/tair/foodgram/internal/user/domain"
)

// ListSubscriptionsQuery lists the authors UserID follows. RecipesLimit <= 0
// returns every recipe of each author.
type ListSubscriptionsQuery struct {
	UserID       uint
	Limit        int
	Offset       int
	RecipesLimit int
}

// GetSubscriptionQuery builds the subscription view of one author
type GetSubscriptionQuery struct {
	UserID       uint
	AuthorID     uint
	RecipesLimit int
}

// SubscriptionsHandler handles subscription listing queries
type SubscriptionsHandler struct {
	users   domain.UserRepository
	subs    domain.SubscriptionRepository
	recipes domain.AuthorRecipeReader
}

// NewSubscriptionsHandler creates a new subscriptions handler
func NewSubscriptionsHandler(users domain.UserRepository, subs domain.SubscriptionRepository, recipes domain.AuthorRecipeReader) *SubscriptionsHandler {
	return &SubscriptionsHandler{users: users, subs: subs, recipes: recipes}
}

// Handle executes the list subscriptions query
func (h *SubscriptionsHandler) Handle(ctx context.Context, query ListSubscriptionsQuery) ([]SubscriptionView, int64, error) {
	authors, total, err := h.subs.ListAuthors(ctx, query.UserID, query.Limit, query.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	views, err := h.build(ctx, authors, query.RecipesLimit, true)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Get returns the subscription view of a single author
func (h *SubscriptionsHandler) Get(ctx context.Context, query GetSubscriptionQuery) (*SubscriptionView, error) {
	author, err := h.users.FindByID(ctx, query.AuthorID)
	if err != nil {
		return nil, findUser(err)
	}

	subscribed, err := h.subs.IsSubscribed(ctx, query.UserID, query.AuthorID)
	if err != nil {
		return nil, err
	}

	views, err := h.build(ctx, []domain.User{*author}, query.RecipesLimit, subscribed)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (h *SubscriptionsHandler) build(ctx context.Context, authors []domain.User, recipesLimit int, subscribed bool) ([]SubscriptionView, error) {
	ids := make([]uint, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	counts, err := h.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	views := make([]SubscriptionView, len(authors))
	for i, a := range authors {
		cards, err := h.recipes.RecipeCardsByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load recipes: %w", err)
		}
		if cards == nil {
			cards = []domain.RecipeCard{}
		}
		views[i] = SubscriptionView{
			UserView:     newUserView(a, subscribed),
			Recipes:      cards,
			RecipesCount: counts[a.ID],
		}
	}
	return views, nil
}
