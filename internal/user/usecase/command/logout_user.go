package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/foodgram/pkg/auth"
)

// LogoutUserCommand revokes the token the request was authenticated with
type LogoutUserCommand struct {
	TokenID   string
	ExpiresAt time.Time
}

// LogoutUserHandler handles logout command
type LogoutUserHandler struct {
	revocations auth.RevocationStore
	now         func() time.Time
}

// NewLogoutUserHandler creates a new logout handler
func NewLogoutUserHandler(revocations auth.RevocationStore) *LogoutUserHandler {
	return &LogoutUserHandler{revocations: revocations, now: time.Now}
}

// Handle executes the logout command
func (h *LogoutUserHandler) Handle(ctx context.Context, cmd LogoutUserCommand) error {
	if h.revocations == nil || cmd.TokenID == "" {
		return nil
	}

	// Kept only as long as the token could still be presented
	ttl := cmd.ExpiresAt.Sub(h.now())
	if err := h.revocations.Revoke(ctx, cmd.TokenID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
