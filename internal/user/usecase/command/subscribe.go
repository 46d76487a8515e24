package command

import (
	"context"
	"errors"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/exceptions"
	"github.com/tair/foodgram/pkg/logger"
)

// SubscribeCommand makes UserID follow AuthorID
type SubscribeCommand struct {
	UserID   uint
	AuthorID uint
}

// SubscribeHandler handles subscribe and unsubscribe commands
type SubscribeHandler struct {
	users     domain.UserRepository
	subs      domain.SubscriptionRepository
	publisher kafka.EventPublisher
}

// NewSubscribeHandler creates a new subscription handler
func NewSubscribeHandler(users domain.UserRepository, subs domain.SubscriptionRepository, publisher kafka.EventPublisher) *SubscribeHandler {
	return &SubscribeHandler{users: users, subs: subs, publisher: publisher}
}

// Handle subscribes and returns the author
func (h *SubscribeHandler) Handle(ctx context.Context, cmd SubscribeCommand) (*domain.User, error) {
	author, err := h.users.FindByID(ctx, cmd.AuthorID)
	if err != nil {
		return nil, findUser(err)
	}
	if cmd.UserID == cmd.AuthorID {
		return nil, exceptions.InvalidInput("Нельзя подписаться на самого себя")
	}

	if err := h.subs.Subscribe(ctx, cmd.UserID, cmd.AuthorID); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, exceptions.Conflict("Вы уже подписаны")
		}
		return nil, err
	}

	logger.Info(ctx).
		Uint("user_id", cmd.UserID).
		Uint("author_id", cmd.AuthorID).
		Msg("Subscribed")
	kafka.Emit(ctx, h.publisher, kafka.Event{
		EventType: kafka.EventTypeSubscribed,
		UserID:    cmd.UserID,
		AuthorID:  cmd.AuthorID,
	})
	return author, nil
}

// Unsubscribe removes the subscription
func (h *SubscribeHandler) Unsubscribe(ctx context.Context, cmd SubscribeCommand) error {
	if _, err := h.users.FindByID(ctx, cmd.AuthorID); err != nil {
		return findUser(err)
	}

	if err := h.subs.Unsubscribe(ctx, cmd.UserID, cmd.AuthorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return exceptions.InvalidInput("Вы не подписаны")
		}
		return err
	}

	kafka.Emit(ctx, h.publisher, kafka.Event{
		EventType: kafka.EventTypeUnsubscribed,
		UserID:    cmd.UserID,
		AuthorID:  cmd.AuthorID,
	})
	return nil
}
