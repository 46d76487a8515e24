//go:build wireinject
// +build wireinject

package recipe

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/recipe/delivery/http"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/cache"
	"github.com/tair/foodgram/pkg/middleware"
	"github.com/tair/foodgram/pkg/storage"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	c cache.Cache,
	images storage.ImageStore,
	publisher kafka.EventPublisher,
	authMiddleware *auth.Middleware,
	metrics *middleware.Metrics,
	reg prometheus.Registerer,
) (*http.RecipeHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewRecipeHandlerWithDI,
	)
	return nil, nil
}
