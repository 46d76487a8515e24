package query

import (
	"context"

	"github.com/tair/foodgram/internal/recipe/domain"
)

// ShoppingCartFileName is the attachment name of the exported list
const ShoppingCartFileName = "Shopping_Cart.txt"

// DownloadShoppingCartHandler renders the aggregated shopping list of a user
type DownloadShoppingCartHandler struct {
	lists domain.MembershipRepository
}

// NewDownloadShoppingCartHandler creates a new shopping cart export handler
func NewDownloadShoppingCartHandler(lists domain.MembershipRepository) *DownloadShoppingCartHandler {
	return &DownloadShoppingCartHandler{lists: lists}
}

// Handle returns the plain text shopping list of userID
func (h *DownloadShoppingCartHandler) Handle(ctx context.Context, userID uint) (string, error) {
	lines, err := h.lists.ShoppingCartLines(ctx, userID)
	if err != nil {
		return "", err
	}
	return domain.RenderShoppingList(domain.AggregateShoppingList(lines)), nil
}
