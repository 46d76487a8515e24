package kafka

import (
	"context"
	"time"

	"github.com/tair/foodgram/pkg/logger"
)

// Event is the envelope of every domain event published by foodgram
type Event struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    uint      `json:"user_id,omitempty"`
	RecipeID  uint      `json:"recipe_id,omitempty"`
	AuthorID  uint      `json:"author_id,omitempty"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeRecipeCreated       = "recipe.created"
	EventTypeRecipeUpdated       = "recipe.updated"
	EventTypeRecipeDeleted       = "recipe.deleted"
	EventTypeFavoriteAdded       = "favorite.added"
	EventTypeFavoriteRemoved     = "favorite.removed"
	EventTypeCartAdded           = "shopping_cart.added"
	EventTypeCartRemoved         = "shopping_cart.removed"
	EventTypeSubscribed          = "subscription.created"
	EventTypeUnsubscribed        = "subscription.deleted"
	EventTypeIngredientsImported = "ingredients.imported"
	EventTypeCatalogChanged      = "catalog.changed"
)

// DefaultTopic carries all foodgram events
const DefaultTopic = "foodgram-events"

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Emit publishes event and logs a failure instead of returning it. Events are
// notifications; a broker outage must not fail the request that caused them.
func Emit(ctx context.Context, p EventPublisher, event Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", event.EventType).
			Msg("Event not published")
	}
}
