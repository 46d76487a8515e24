package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	reciperepo "github.com/tair/foodgram/internal/recipe/repository"
	"github.com/tair/foodgram/internal/user/delivery/http"
	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/internal/user/repository"
	"github.com/tair/foodgram/internal/user/usecase/command"
	"github.com/tair/foodgram/internal/user/usecase/query"
	"github.com/tair/foodgram/pkg/storage"
)

// ProvideUserStore provides the traced gorm store backing both user repositories
func ProvideUserStore(db *gorm.DB) *repository.GormUserRepositoryWithTracing {
	return repository.NewGormUserRepositoryWithTracing(db)
}

// ProvideUserRepository provides the user repository
func ProvideUserRepository(store *repository.GormUserRepositoryWithTracing) domain.UserRepository {
	return store
}

// ProvideSubscriptionRepository provides the subscription repository
func ProvideSubscriptionRepository(store *repository.GormUserRepositoryWithTracing) domain.SubscriptionRepository {
	return store
}

// ProvideAuthorRecipeReader provides recipe previews for subscription listings
func ProvideAuthorRecipeReader(db *gorm.DB) domain.AuthorRecipeReader {
	return reciperepo.NewGormRecipeRepositoryWithTracing(db)
}

// ProvideImageURLs narrows the image store to URL resolution
func ProvideImageURLs(images storage.ImageStore) storage.URLResolver {
	return images
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideUserStore,
	ProvideUserRepository,
	ProvideSubscriptionRepository,
	ProvideAuthorRecipeReader,
)

var CommandHandlerSet = wire.NewSet(
	command.NewRegisterUserHandler,
	command.NewLoginUserHandler,
	command.NewLogoutUserHandler,
	command.NewSetPasswordHandler,
	command.NewUpdateUserHandler,
	command.NewDeleteUserHandler,
	command.NewSubscribeHandler,
	command.NewChangeRoleHandler,
	command.NewToggleActiveHandler,
	wire.Struct(new(http.Commands), "*"),
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetUserHandler,
	query.NewListUsersHandler,
	query.NewSubscriptionsHandler,
	wire.Struct(new(http.Queries), "*"),
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
	ProvideImageURLs,
)
