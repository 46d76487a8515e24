package recipe

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/recipe/delivery/http"
	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/repository"
	"github.com/tair/foodgram/internal/recipe/usecase/command"
	"github.com/tair/foodgram/internal/recipe/usecase/query"
	userdomain "github.com/tair/foodgram/internal/user/domain"
	userrepo "github.com/tair/foodgram/internal/user/repository"
	"github.com/tair/foodgram/pkg/storage"
)

// ProvideRecipeStore provides the traced gorm store behind every recipe repository
func ProvideRecipeStore(db *gorm.DB) *repository.GormRecipeRepositoryWithTracing {
	return repository.NewGormRecipeRepositoryWithTracing(db)
}

func ProvideRecipeRepository(store *repository.GormRecipeRepositoryWithTracing) domain.RecipeRepository {
	return store
}

func ProvideCatalogRepository(store *repository.GormRecipeRepositoryWithTracing) domain.CatalogRepository {
	return store
}

func ProvideMembershipRepository(store *repository.GormRecipeRepositoryWithTracing) domain.MembershipRepository {
	return store
}

// ProvideSubscriptionRepository lets recipe views report is_subscribed
func ProvideSubscriptionRepository(db *gorm.DB) userdomain.SubscriptionRepository {
	return userrepo.NewGormUserRepositoryWithTracing(db)
}

func ProvideImageURLs(images storage.ImageStore) storage.URLResolver {
	return images
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideRecipeStore,
	ProvideRecipeRepository,
	ProvideCatalogRepository,
	ProvideMembershipRepository,
	ProvideSubscriptionRepository,
)

var CommandHandlerSet = wire.NewSet(
	command.NewCreateRecipeHandler,
	command.NewUpdateRecipeHandler,
	command.NewDeleteRecipeHandler,
	command.NewMembershipHandler,
	command.NewCatalogHandler,
	wire.Struct(new(http.Commands), "*"),
)

var QueryHandlerSet = wire.NewSet(
	query.NewRecipesHandler,
	query.NewCatalogHandler,
	query.NewDownloadShoppingCartHandler,
	wire.Struct(new(http.Queries), "*"),
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
	ProvideImageURLs,
)
