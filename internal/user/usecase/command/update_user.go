package command

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/exceptions"
)

// UpdateUserCommand changes the caller's display names. Nil fields are kept.
type UpdateUserCommand struct {
	ID        uint
	FirstName *string
	LastName  *string
}

// UpdateUserHandler handles user update command
type UpdateUserHandler struct {
	repo domain.UserRepository
}

// NewUpdateUserHandler creates a new update user handler
func NewUpdateUserHandler(repo domain.UserRepository) *UpdateUserHandler {
	return &UpdateUserHandler{repo: repo}
}

func normalizeName(field string, value *string) (string, error) {
	name := strings.TrimSpace(*value)
	if name == "" {
		return "", exceptions.InvalidInput(field + ": Обязательное поле.")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", exceptions.InvalidInputf("%s: Не более %d символов.", field, maxNameLength)
	}
	return name, nil
}

// Handle executes the update user command
func (h *UpdateUserHandler) Handle(ctx context.Context, cmd UpdateUserCommand) (*domain.User, error) {
	user, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, findUser(err)
	}

	if cmd.FirstName != nil {
		if user.FirstName, err = normalizeName("first_name", cmd.FirstName); err != nil {
			return nil, err
		}
	}
	if cmd.LastName != nil {
		if user.LastName, err = normalizeName("last_name", cmd.LastName); err != nil {
			return nil, err
		}
	}

	if err := h.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
