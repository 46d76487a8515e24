package query

import (
	"context"

	"github.com/tair/foodgram/internal/user/domain"
)

// GetUserQuery represents the query to get a user by ID
type GetUserQuery struct {
	ID       uint
	ViewerID uint
}

// GetUserHandler handles get user query
type GetUserHandler struct {
	repo domain.UserRepository
	subs domain.SubscriptionRepository
}

// NewGetUserHandler creates a new get user handler
func NewGetUserHandler(repo domain.UserRepository, subs domain.SubscriptionRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo, subs: subs}
}

// Handle executes the get user query
func (h *GetUserHandler) Handle(ctx context.Context, query GetUserQuery) (*UserView, error) {
	user, err := h.repo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, findUser(err)
	}

	subscribed := false
	if query.ViewerID != 0 && query.ViewerID != user.ID {
		if subscribed, err = h.subs.IsSubscribed(ctx, query.ViewerID, user.ID); err != nil {
			return nil, err
		}
	}

	view := newUserView(*user, subscribed)
	return &view, nil
}
