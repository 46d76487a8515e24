package domain

import (
	"github.com/tair/foodgram/pkg/exceptions"
)

const (
	MinCookingTime      = 1
	MinIngredientAmount = 1
)

// IngredientAmount is one ingredient entry of a recipe write
type IngredientAmount struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeWrite is the writable form of a recipe. Nil fields were not supplied.
type RecipeWrite struct {
	Name        *string            `json:"name"`
	Text        *string            `json:"text"`
	Image       *string            `json:"image"`
	CookingTime *int               `json:"cooking_time"`
	Tags        []uint             `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

// ValidateRecipeWrite checks a write. On create every field is required; a
// partial update validates only the fields it supplies.
func ValidateRecipeWrite(w *RecipeWrite, partial bool) error {
	if w.Name != nil || !partial {
		name, err := requiredText("name", deref(w.Name), maxNameLength)
		if err != nil {
			return err
		}
		w.Name = &name
	}

	if w.Text != nil || !partial {
		if deref(w.Text) == "" {
			return exceptions.InvalidInput("text: Обязательное поле.")
		}
	}

	if w.Image != nil || !partial {
		if deref(w.Image) == "" {
			return exceptions.InvalidInput("image: Обязательное поле.")
		}
	}

	if w.CookingTime != nil || !partial {
		if w.CookingTime == nil || *w.CookingTime < MinCookingTime {
			return exceptions.InvalidInputf("Минимальное время: %d", MinCookingTime)
		}
	}

	if w.Ingredients != nil || !partial {
		if err := validateIngredients(w.Ingredients); err != nil {
			return err
		}
	}

	if w.Tags != nil || !partial {
		if err := validateTags(w.Tags); err != nil {
			return err
		}
	}
	return nil
}

func validateIngredients(items []IngredientAmount) error {
	if len(items) == 0 {
		return exceptions.InvalidInput("Нужен хотя бы один ингредиент")
	}

	seen := make(map[uint]struct{}, len(items))
	for _, item := range items {
		if item.Amount < MinIngredientAmount {
			return exceptions.InvalidInputf("Минимальное количество: %d", MinIngredientAmount)
		}
		if _, dup := seen[item.ID]; dup {
			return exceptions.InvalidInput("Ингредиенты должны быть уникальными")
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

func validateTags(ids []uint) error {
	if len(ids) == 0 {
		return exceptions.InvalidInput("Нужен хотя бы один тег")
	}

	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return exceptions.InvalidInput("Теги должны быть уникальными")
		}
		seen[id] = struct{}{}
	}
	return nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
