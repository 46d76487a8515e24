package command

import (
	"context"

	"github.com/tair/foodgram/internal/user/domain"
)

// ToggleActiveCommand represents the command to activate/deactivate user (admin only)
type ToggleActiveCommand struct {
	UserID   uint
	IsActive bool
}

// ToggleActiveHandler handles user activation toggle command. Tokens of a
// deactivated user stop authenticating on their next request.
type ToggleActiveHandler struct {
	repo domain.UserRepository
}

// NewToggleActiveHandler creates a new toggle active handler
func NewToggleActiveHandler(repo domain.UserRepository) *ToggleActiveHandler {
	return &ToggleActiveHandler{repo: repo}
}

// Handle executes the toggle active command
func (h *ToggleActiveHandler) Handle(ctx context.Context, cmd ToggleActiveCommand) (*domain.User, error) {
	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, findUser(err)
	}

	user.IsActive = cmd.IsActive
	if err := h.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
