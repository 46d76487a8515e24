package command

import (
	"context"
	"errors"
	"strings"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/exceptions"
)

var errBadCredentials = exceptions.InvalidInput("Невозможно войти с предоставленными учетными данными.")

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	Email    string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	AuthToken string `json:"auth_token"`
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo   domain.UserRepository
	tokens *auth.TokenManager
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository, tokens *auth.TokenManager) *LoginUserHandler {
	return &LoginUserHandler{repo: repo, tokens: tokens}
}

// Handle executes the login user command
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginResponse, error) {
	email := strings.TrimSpace(cmd.Email)
	if email == "" || cmd.Password == "" {
		return nil, errBadCredentials
	}

	user, err := h.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}

	if !user.IsActive || !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, errBadCredentials
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{AuthToken: token}, nil
}
