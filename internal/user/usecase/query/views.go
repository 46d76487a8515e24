package query

import (
	"errors"
	"fmt"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/exceptions"
)

// UserView is a user as seen by the viewer
type UserView struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// SubscriptionView is a followed author with a preview of their recipes
type SubscriptionView struct {
	UserView
	Recipes      []domain.RecipeCard `json:"recipes"`
	RecipesCount int64               `json:"recipes_count"`
}

func newUserView(u domain.User, subscribed bool) UserView {
	return UserView{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func findUser(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return exceptions.NotFound("Пользователь не найден")
	}
	return fmt.Errorf("failed to load user: %w", err)
}
