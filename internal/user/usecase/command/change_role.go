package command

import (
	"context"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/exceptions"
)

// ChangeRoleCommand represents the command to change user role (admin only)
type ChangeRoleCommand struct {
	UserID uint
	Role   string
}

// ChangeRoleHandler handles user role change command
type ChangeRoleHandler struct {
	repo domain.UserRepository
}

// NewChangeRoleHandler creates a new change role handler
func NewChangeRoleHandler(repo domain.UserRepository) *ChangeRoleHandler {
	return &ChangeRoleHandler{repo: repo}
}

// Handle executes the change role command
func (h *ChangeRoleHandler) Handle(ctx context.Context, cmd ChangeRoleCommand) (*domain.User, error) {
	if cmd.Role != domain.RoleUser && cmd.Role != domain.RoleAdmin {
		return nil, exceptions.InvalidInput("role: Недопустимая роль.")
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, findUser(err)
	}

	user.Role = cmd.Role
	if err := h.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
