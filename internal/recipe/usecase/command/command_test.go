package command

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/repository"
	"github.com/tair/foodgram/internal/recipe/usecase/query"
	userdomain "github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/cache"
	"github.com/tair/foodgram/pkg/database"
	"github.com/tair/foodgram/pkg/exceptions"
	"github.com/tair/foodgram/pkg/storage"
)

const pixel = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e kafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

type env struct {
	repo      *repository.GormRecipeRepository
	images    *storage.LocalStore
	media     string
	cache     *cache.MemoryCache
	publisher *recordingPublisher

	author userdomain.User
	other  userdomain.User
	salt   domain.Ingredient
	lunch  domain.Tag
}

func newEnv(t *testing.T) *env {
	t.Helper()
	models := append([]interface{}{&userdomain.User{}, &userdomain.Subscription{}}, domain.Models()...)
	db := database.NewTestDB(t, models...)

	c, err := cache.NewMemoryCache(64)
	require.NoError(t, err)

	e := &env{
		repo:      repository.NewGormRecipeRepository(db),
		media:     t.TempDir(),
		cache:     c,
		publisher: &recordingPublisher{},
	}
	e.images = storage.NewLocalStore(e.media, "http://localhost/media")

	e.author = userdomain.User{Email: "a@example.com", Username: "a", Password: "x", Role: userdomain.RoleUser, IsActive: true}
	e.other = userdomain.User{Email: "b@example.com", Username: "b", Password: "x", Role: userdomain.RoleUser, IsActive: true}
	require.NoError(t, db.Create(&e.author).Error)
	require.NoError(t, db.Create(&e.other).Error)

	ctx := context.Background()
	e.salt = domain.Ingredient{Name: "соль", MeasurementUnit: "г"}
	require.NoError(t, e.repo.CreateIngredient(ctx, &e.salt))
	e.lunch = domain.Tag{Name: "Обед", Color: "#00FF00", Slug: "lunch"}
	require.NoError(t, e.repo.CreateTag(ctx, &e.lunch))
	return e
}

func ptr[T any](v T) *T { return &v }

func (e *env) write() domain.RecipeWrite {
	return domain.RecipeWrite{
		Name:        ptr("  Суп  "),
		Text:        ptr("Варить"),
		Image:       ptr(pixel),
		CookingTime: ptr(30),
		Tags:        []uint{e.lunch.ID},
		Ingredients: []domain.IngredientAmount{{ID: e.salt.ID, Amount: 5}},
	}
}

func (e *env) create(t *testing.T) *domain.Recipe {
	t.Helper()
	h := NewCreateRecipeHandler(e.repo, e.repo, e.images, e.publisher)
	recipe, err := h.Handle(context.Background(), CreateRecipeCommand{AuthorID: e.author.ID, Recipe: e.write()})
	require.NoError(t, err)
	return recipe
}

func (e *env) imageExists(key string) bool {
	_, err := os.Stat(filepath.Join(e.media, filepath.FromSlash(key)))
	return err == nil
}

func TestCreateRecipe(t *testing.T) {
	e := newEnv(t)
	recipe := e.create(t)

	assert.Equal(t, "Суп", recipe.Name)
	assert.Equal(t, e.author.ID, recipe.AuthorID)
	assert.Equal(t, "a", recipe.Author.Username)
	assert.False(t, recipe.PubDate.IsZero())
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, 5, recipe.Ingredients[0].Amount)
	assert.True(t, strings.HasPrefix(recipe.Image, storage.RecipeImageDir+"/"))
	assert.True(t, e.imageExists(recipe.Image))
	assert.Equal(t, []string{kafka.EventTypeRecipeCreated}, e.publisher.types())
}

func TestCreateRecipeRejects(t *testing.T) {
	e := newEnv(t)
	h := NewCreateRecipeHandler(e.repo, e.repo, e.images, e.publisher)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(w *domain.RecipeWrite)
		status  int
		message string
	}{
		{
			name:    "unknown ingredient",
			mutate:  func(w *domain.RecipeWrite) { w.Ingredients = []domain.IngredientAmount{{ID: 999, Amount: 1}} },
			status:  http.StatusNotFound,
			message: "Ингредиент не найден",
		},
		{
			name:    "unknown tag",
			mutate:  func(w *domain.RecipeWrite) { w.Tags = []uint{999} },
			status:  http.StatusNotFound,
			message: "Тег не найден",
		},
		{
			name:    "zero cooking time",
			mutate:  func(w *domain.RecipeWrite) { w.CookingTime = ptr(0) },
			status:  http.StatusBadRequest,
			message: "Минимальное время: 1",
		},
		{
			name:   "broken image",
			mutate: func(w *domain.RecipeWrite) { w.Image = ptr("not an image") },
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.write()
			tt.mutate(&w)
			_, err := h.Handle(ctx, CreateRecipeCommand{AuthorID: e.author.ID, Recipe: w})
			require.Error(t, err)
			assert.Equal(t, tt.status, exceptions.StatusCode(err))
			if tt.message != "" {
				assert.Equal(t, tt.message, exceptions.PublicMessage(err))
			}
		})
	}
	assert.Empty(t, e.publisher.types())
}

func TestUpdateRecipe(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	recipe := e.create(t)
	oldImage := recipe.Image

	pepper := domain.Ingredient{Name: "перец", MeasurementUnit: "г"}
	require.NoError(t, e.repo.CreateIngredient(ctx, &pepper))

	h := NewUpdateRecipeHandler(e.repo, e.repo, e.images, e.publisher)
	updated, err := h.Handle(ctx, UpdateRecipeCommand{
		RecipeID: recipe.ID,
		UserID:   e.author.ID,
		Recipe: domain.RecipeWrite{
			Name:        ptr("Борщ"),
			Image:       ptr(pixel),
			Ingredients: []domain.IngredientAmount{{ID: pepper.ID, Amount: 2}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Борщ", updated.Name)
	assert.Equal(t, "Варить", updated.Text)
	assert.Equal(t, 30, updated.CookingTime)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, pepper.ID, updated.Ingredients[0].IngredientID)
	require.Len(t, updated.Tags(), 1, "tags are kept when not supplied")

	assert.NotEqual(t, oldImage, updated.Image)
	assert.False(t, e.imageExists(oldImage))
	assert.True(t, e.imageExists(updated.Image))
}

func TestUpdateRecipePermissions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	recipe := e.create(t)
	h := NewUpdateRecipeHandler(e.repo, e.repo, e.images, e.publisher)

	_, err := h.Handle(ctx, UpdateRecipeCommand{RecipeID: recipe.ID, UserID: e.other.ID, Recipe: domain.RecipeWrite{Name: ptr("x")}})
	assert.Equal(t, http.StatusForbidden, exceptions.StatusCode(err))

	_, err = h.Handle(ctx, UpdateRecipeCommand{RecipeID: recipe.ID, UserID: e.other.ID, IsAdmin: true, Recipe: domain.RecipeWrite{Name: ptr("x")}})
	assert.NoError(t, err)

	_, err = h.Handle(ctx, UpdateRecipeCommand{RecipeID: 999, UserID: e.author.ID})
	assert.Equal(t, http.StatusNotFound, exceptions.StatusCode(err))

	_, err = h.Handle(ctx, UpdateRecipeCommand{RecipeID: recipe.ID, UserID: e.author.ID, Recipe: domain.RecipeWrite{Tags: []uint{}}})
	assert.Equal(t, "Нужен хотя бы один тег", exceptions.PublicMessage(err))
}

func TestDeleteRecipe(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	recipe := e.create(t)
	h := NewDeleteRecipeHandler(e.repo, e.images, e.publisher)

	err := h.Handle(ctx, DeleteRecipeCommand{RecipeID: recipe.ID, UserID: e.other.ID})
	assert.Equal(t, http.StatusForbidden, exceptions.StatusCode(err))

	require.NoError(t, h.Handle(ctx, DeleteRecipeCommand{RecipeID: recipe.ID, UserID: e.author.ID}))
	assert.False(t, e.imageExists(recipe.Image))

	_, err = e.repo.FindByID(ctx, recipe.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = h.Handle(ctx, DeleteRecipeCommand{RecipeID: recipe.ID, UserID: e.author.ID})
	assert.Equal(t, http.StatusNotFound, exceptions.StatusCode(err))
}

func TestMembership(t *testing.T) {
	for _, kind := range []domain.ListKind{domain.Favorites, domain.ShoppingCart} {
		t.Run(string(kind), func(t *testing.T) {
			e := newEnv(t)
			ctx := context.Background()
			recipe := e.create(t)
			h := NewMembershipHandler(e.repo, e.repo, e.publisher)
			cmd := MembershipCommand{Kind: kind, UserID: e.other.ID, RecipeID: recipe.ID}

			added, err := h.Add(ctx, cmd)
			require.NoError(t, err)
			assert.Equal(t, recipe.ID, added.ID)

			_, err = h.Add(ctx, cmd)
			assert.Equal(t, http.StatusBadRequest, exceptions.StatusCode(err))
			assert.Equal(t, "Рецепт уже добавлен", exceptions.PublicMessage(err))

			require.NoError(t, h.Remove(ctx, cmd))

			err = h.Remove(ctx, cmd)
			assert.Equal(t, "Рецепта нет в списке", exceptions.PublicMessage(err))

			_, err = h.Add(ctx, MembershipCommand{Kind: kind, UserID: e.other.ID, RecipeID: 999})
			assert.Equal(t, http.StatusNotFound, exceptions.StatusCode(err))

			assert.Equal(t, []string{
				kafka.EventTypeRecipeCreated,
				eventTypes[kind][0],
				eventTypes[kind][1],
			}, e.publisher.types())
		})
	}
}

func TestCatalogWritesInvalidateCache(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := NewCatalogHandler(e.repo, e.cache, e.publisher)

	require.NoError(t, e.cache.Set(ctx, domain.TagsCacheKey, []byte("[]"), time.Minute))
	require.NoError(t, e.cache.Set(ctx, domain.IngredientsCacheKey("с"), []byte("[]"), time.Minute))

	tag, err := h.CreateTag(ctx, CreateTagCommand{Name: " Завтрак ", Color: "#FFAA00", Slug: "breakfast"})
	require.NoError(t, err)
	assert.Equal(t, "Завтрак", tag.Name)

	_, ok, _ := e.cache.Get(ctx, domain.TagsCacheKey)
	assert.False(t, ok)
	_, ok, _ = e.cache.Get(ctx, domain.IngredientsCacheKey("с"))
	assert.False(t, ok)

	_, err = h.CreateTag(ctx, CreateTagCommand{Name: "Другой", Color: "#FFAA00", Slug: "other"})
	assert.Equal(t, http.StatusBadRequest, exceptions.StatusCode(err))

	_, err = h.CreateTag(ctx, CreateTagCommand{Name: "Цвет", Color: "red", Slug: "red"})
	assert.Equal(t, "Цвет тега указан не в формате HEX", exceptions.PublicMessage(err))

	ingredient, err := h.CreateIngredient(ctx, CreateIngredientCommand{Name: "мука", MeasurementUnit: "г"})
	require.NoError(t, err)
	assert.NotZero(t, ingredient.ID)

	assert.Equal(t, []string{kafka.EventTypeCatalogChanged, kafka.EventTypeCatalogChanged}, e.publisher.types())
}

func TestImportIngredients(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	h := NewCatalogHandler(e.repo, e.cache, e.publisher)

	source := strings.NewReader("абрикосовое варенье,г\n\n\"вода, газированная\",мл\n")
	count, err := h.ImportIngredients(ctx, ImportIngredientsCommand{Source: source})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	all, err := e.repo.ListIngredients(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "абрикосовое варенье", all[0].Name)
	assert.Greater(t, all[0].ID, e.salt.ID)

	require.Len(t, e.publisher.events, 1)
	assert.Equal(t, kafka.EventTypeIngredientsImported, e.publisher.events[0].EventType)
	assert.Equal(t, 2, e.publisher.events[0].Count)

	_, err = h.ImportIngredients(ctx, ImportIngredientsCommand{Source: strings.NewReader("только название\n")})
	assert.Equal(t, http.StatusBadRequest, exceptions.StatusCode(err))

	_, err = h.ImportIngredients(ctx, ImportIngredientsCommand{Source: strings.NewReader(" ,г\n")})
	assert.Equal(t, "строка 1: name: Обязательное поле.", exceptions.PublicMessage(err))
}

// slowTagsCatalog runs afterRead once, between reading the tags and handing
// them back, to interleave a write with an in-flight cache load.
type slowTagsCatalog struct {
	domain.CatalogRepository
	afterRead func()
}

func (c *slowTagsCatalog) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := c.CatalogRepository.ListTags(ctx)
	if hook := c.afterRead; hook != nil {
		c.afterRead = nil
		hook()
	}
	return tags, err
}

func TestInFlightCatalogLoadDoesNotOutliveInvalidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	commands := NewCatalogHandler(e.repo, e.cache, e.publisher)

	slow := &slowTagsCatalog{CatalogRepository: e.repo}
	reads := query.NewCatalogHandler(slow, e.cache)
	slow.afterRead = func() {
		_, err := commands.CreateTag(ctx, CreateTagCommand{Name: "Завтрак", Color: "#FFAA00", Slug: "breakfast"})
		require.NoError(t, err)
	}

	stale, err := reads.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 1, "the racing load returns what it read")

	fresh, err := reads.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, "breakfast", fresh[1].Slug)
}
