package command

import (
	"context"
	"fmt"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/exceptions"
)

// SetPasswordCommand changes the caller's password
type SetPasswordCommand struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

// SetPasswordHandler handles password change command
type SetPasswordHandler struct {
	repo domain.UserRepository
}

// NewSetPasswordHandler creates a new set password handler
func NewSetPasswordHandler(repo domain.UserRepository) *SetPasswordHandler {
	return &SetPasswordHandler{repo: repo}
}

// Handle executes the set password command
func (h *SetPasswordHandler) Handle(ctx context.Context, cmd SetPasswordCommand) error {
	if cmd.CurrentPassword == "" {
		return exceptions.InvalidInput("current_password: Обязательное поле.")
	}
	if cmd.NewPassword == "" {
		return exceptions.InvalidInput("new_password: Обязательное поле.")
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return findUser(err)
	}

	if !auth.CheckPassword(user.Password, cmd.CurrentPassword) {
		return exceptions.InvalidInput("current_password: Неправильный пароль.")
	}
	if err := validatePassword(cmd.NewPassword); err != nil {
		return exceptions.InvalidInputf("new_password: Пароль должен содержать не менее %d символов.", MinPasswordLength)
	}

	hashed, err := auth.HashPassword(cmd.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashed

	return h.repo.Update(ctx, user)
}
