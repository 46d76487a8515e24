package query

import (
	"context"
	"fmt"

	"github.com/tair/foodgram/internal/user/domain"
)

// ListUsersQuery represents the query to list users page by page
type ListUsersQuery struct {
	ViewerID uint
	Limit    int
	Offset   int
}

// ListUsersHandler handles list users query
type ListUsersHandler struct {
	repo domain.UserRepository
	subs domain.SubscriptionRepository
}

// NewListUsersHandler creates a new list users handler
func NewListUsersHandler(repo domain.UserRepository, subs domain.SubscriptionRepository) *ListUsersHandler {
	return &ListUsersHandler{repo: repo, subs: subs}
}

// Handle executes the list users query
func (h *ListUsersHandler) Handle(ctx context.Context, query ListUsersQuery) ([]UserView, int64, error) {
	users, total, err := h.repo.FindAll(ctx, query.Limit, query.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	subscribed, err := h.subs.SubscribedAuthors(ctx, query.ViewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	views := make([]UserView, len(users))
	for i, u := range users {
		views[i] = newUserView(u, subscribed[u.ID])
	}
	return views, total, nil
}
