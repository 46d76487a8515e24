//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/user/delivery/http"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/middleware"
	"github.com/tair/foodgram/pkg/storage"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	tokens *auth.TokenManager,
	revocations auth.RevocationStore,
	authMiddleware *auth.Middleware,
	images storage.ImageStore,
	publisher kafka.EventPublisher,
	metrics *middleware.Metrics,
	reg prometheus.Registerer,
) (*http.UserHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewUserHandlerWithDI,
	)
	return nil, nil
}
