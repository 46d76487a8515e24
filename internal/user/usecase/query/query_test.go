package query

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/internal/user/repository"
	"github.com/tair/foodgram/pkg/database"
	"github.com/tair/foodgram/pkg/exceptions"
)

func newRepo(t *testing.T) *repository.GormUserRepository {
	t.Helper()
	db := database.NewTestDB(t, &domain.User{}, &domain.Subscription{})
	return repository.NewGormUserRepository(db)
}

func createUser(t *testing.T, repo *repository.GormUserRepository, username string) domain.User {
	t.Helper()
	u := domain.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Имя",
		LastName:  "Фамилия",
		Password:  "x",
		Role:      domain.RoleUser,
		IsActive:  true,
	}
	require.NoError(t, repo.Create(context.Background(), &u))
	return u
}

type fakeRecipes struct {
	cards map[uint][]domain.RecipeCard
}

func (f fakeRecipes) RecipeCardsByAuthor(_ context.Context, authorID uint, limit int) ([]domain.RecipeCard, error) {
	cards := f.cards[authorID]
	if limit > 0 && len(cards) > limit {
		cards = cards[:limit]
	}
	return cards, nil
}

func (f fakeRecipes) CountByAuthors(_ context.Context, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	for _, id := range ids {
		counts[id] = int64(len(f.cards[id]))
	}
	return counts, nil
}

func TestGetAndListUsers(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	viewer := createUser(t, repo, "viewer")
	author := createUser(t, repo, "author")
	require.NoError(t, repo.Subscribe(ctx, viewer.ID, author.ID))

	view, err := NewGetUserHandler(repo, repo).Handle(ctx, GetUserQuery{ID: author.ID, ViewerID: viewer.ID})
	require.NoError(t, err)
	assert.True(t, view.IsSubscribed)

	self, err := NewGetUserHandler(repo, repo).Handle(ctx, GetUserQuery{ID: viewer.ID, ViewerID: viewer.ID})
	require.NoError(t, err)
	assert.False(t, self.IsSubscribed)

	_, err = NewGetUserHandler(repo, repo).Handle(ctx, GetUserQuery{ID: 999})
	assert.Equal(t, http.StatusNotFound, exceptions.StatusCode(err))

	users, total, err := NewListUsersHandler(repo, repo).Handle(ctx, ListUsersQuery{ViewerID: viewer.ID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	want := []UserView{
		{Email: "viewer@example.com", ID: viewer.ID, Username: "viewer", FirstName: "Имя", LastName: "Фамилия"},
		{Email: "author@example.com", ID: author.ID, Username: "author", FirstName: "Имя", LastName: "Фамилия", IsSubscribed: true},
	}
	if diff := cmp.Diff(want, users); diff != "" {
		t.Errorf("users mismatch (-want +got):\n%s", diff)
	}

	anonymous, _, err := NewListUsersHandler(repo, repo).Handle(ctx, ListUsersQuery{Limit: 10})
	require.NoError(t, err)
	for _, u := range anonymous {
		assert.False(t, u.IsSubscribed)
	}
}

func TestSubscriptions(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	viewer := createUser(t, repo, "viewer")
	first := createUser(t, repo, "first")
	second := createUser(t, repo, "second")
	require.NoError(t, repo.Subscribe(ctx, viewer.ID, first.ID))
	require.NoError(t, repo.Subscribe(ctx, viewer.ID, second.ID))

	recipes := fakeRecipes{cards: map[uint][]domain.RecipeCard{
		first.ID: {{ID: 3, Name: "c"}, {ID: 2, Name: "b"}, {ID: 1, Name: "a"}},
	}}
	h := NewSubscriptionsHandler(repo, repo, recipes)

	views, total, err := h.Handle(ctx, ListSubscriptionsQuery{UserID: viewer.ID, Limit: 10, RecipesLimit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, views, 2)

	// newest subscription first
	assert.Equal(t, second.ID, views[0].ID)
	assert.NotNil(t, views[0].Recipes)
	assert.Empty(t, views[0].Recipes)
	assert.Equal(t, int64(0), views[0].RecipesCount)

	assert.Equal(t, first.ID, views[1].ID)
	assert.True(t, views[1].IsSubscribed)
	assert.Len(t, views[1].Recipes, 2)
	assert.Equal(t, int64(3), views[1].RecipesCount)

	one, err := h.Get(ctx, GetSubscriptionQuery{UserID: viewer.ID, AuthorID: first.ID})
	require.NoError(t, err)
	assert.Len(t, one.Recipes, 3)

	_, err = h.Get(ctx, GetSubscriptionQuery{UserID: viewer.ID, AuthorID: 999})
	assert.Equal(t, http.StatusNotFound, exceptions.StatusCode(err))
}
