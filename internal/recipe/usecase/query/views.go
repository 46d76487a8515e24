package query

import (
	"errors"
	"fmt"

	"github.com/tair/foodgram/internal/recipe/domain"
	userdomain "github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/exceptions"
	"github.com/tair/foodgram/pkg/storage"
)

// AuthorView is the recipe author as seen by the viewer
type AuthorView struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// IngredientView is one ingredient amount of a recipe
type IngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeView is the full read form of a recipe
type RecipeView struct {
	ID               uint             `json:"id"`
	Tags             []domain.Tag     `json:"tags"`
	Author           AuthorView       `json:"author"`
	Ingredients      []IngredientView `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
}

// viewerFlags are the per-viewer booleans of a batch of recipes
type viewerFlags struct {
	favorited  map[uint]bool
	inCart     map[uint]bool
	subscribed map[uint]bool
}

func newRecipeView(r domain.Recipe, flags viewerFlags, images storage.URLResolver) RecipeView {
	ingredients := make([]IngredientView, 0, len(r.Ingredients))
	for _, link := range r.Ingredients {
		ingredients = append(ingredients, IngredientView{
			ID:              link.IngredientID,
			Name:            link.Ingredient.Name,
			MeasurementUnit: link.Ingredient.MeasurementUnit,
			Amount:          link.Amount,
		})
	}

	return RecipeView{
		ID:   r.ID,
		Tags: r.Tags(),
		Author: AuthorView{
			Email:        r.Author.Email,
			ID:           r.Author.ID,
			Username:     r.Author.Username,
			FirstName:    r.Author.FirstName,
			LastName:     r.Author.LastName,
			IsSubscribed: flags.subscribed[r.AuthorID],
		},
		Ingredients:      ingredients,
		IsFavorited:      flags.favorited[r.ID],
		IsInShoppingCart: flags.inCart[r.ID],
		Name:             r.Name,
		Image:            images.URL(r.Image),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

// NewRecipeCard builds the short recipe form with a resolved image URL
func NewRecipeCard(r *domain.Recipe, images storage.URLResolver) userdomain.RecipeCard {
	return userdomain.RecipeCard{
		ID:          r.ID,
		Name:        r.Name,
		Image:       images.URL(r.Image),
		CookingTime: r.CookingTime,
	}
}

func notFound(err error, message string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return exceptions.NotFound(message)
	}
	return fmt.Errorf("failed to load: %w", err)
}
