package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/repository"
	"github.com/tair/foodgram/internal/recipe/usecase/command"
	"github.com/tair/foodgram/internal/recipe/usecase/query"
	userdomain "github.com/tair/foodgram/internal/user/domain"
	userrepo "github.com/tair/foodgram/internal/user/repository"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/cache"
	"github.com/tair/foodgram/pkg/database"
	"github.com/tair/foodgram/pkg/middleware"
	"github.com/tair/foodgram/pkg/storage"
)

const pixel = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type server struct {
	router  *mux.Router
	handler *RecipeHandler
	recipes *repository.GormRecipeRepository
	tokens  *auth.TokenManager

	author userdomain.User
	other  userdomain.User
	admin  userdomain.User
	salt   domain.Ingredient
	lunch  domain.Tag
}

func newServer(t *testing.T) *server {
	t.Helper()
	models := append([]interface{}{&userdomain.User{}, &userdomain.Subscription{}}, domain.Models()...)
	db := database.NewTestDB(t, models...)
	ctx := context.Background()

	recipes := repository.NewGormRecipeRepository(db)
	users := userrepo.NewGormUserRepository(db)
	images := storage.NewLocalStore(t.TempDir(), "/media")
	mem, err := cache.NewMemoryCache(64)
	require.NoError(t, err)
	publisher := kafka.NopPublisher{}

	s := &server{recipes: recipes, tokens: auth.NewTokenManager("test-secret", 0)}
	reg := prometheus.NewRegistry()
	s.handler = NewRecipeHandlerWithDI(
		Commands{
			Create:     command.NewCreateRecipeHandler(recipes, recipes, images, publisher),
			Update:     command.NewUpdateRecipeHandler(recipes, recipes, images, publisher),
			Delete:     command.NewDeleteRecipeHandler(recipes, images, publisher),
			Membership: command.NewMembershipHandler(recipes, recipes, publisher),
			Catalog:    command.NewCatalogHandler(recipes, mem, publisher),
		},
		Queries{
			Recipes:      query.NewRecipesHandler(recipes, recipes, users, images),
			Catalog:      query.NewCatalogHandler(recipes, mem),
			ShoppingCart: query.NewDownloadShoppingCartHandler(recipes),
		},
		auth.NewMiddleware(s.tokens, cache.NewTokenRevocations(mem), users),
		middleware.NewMetrics(reg, "test"),
		images,
		reg,
	)

	s.router = mux.NewRouter()
	s.handler.RegisterRoutes(s.router.PathPrefix("/api").Subrouter())

	s.author = userdomain.User{Email: "a@example.com", Username: "a", Password: "x", Role: userdomain.RoleUser, IsActive: true}
	s.other = userdomain.User{Email: "b@example.com", Username: "b", Password: "x", Role: userdomain.RoleUser, IsActive: true}
	s.admin = userdomain.User{Email: "root@example.com", Username: "root", Password: "x", Role: userdomain.RoleAdmin, IsActive: true}
	for _, u := range []*userdomain.User{&s.author, &s.other, &s.admin} {
		require.NoError(t, users.Create(ctx, u))
	}

	s.salt = domain.Ingredient{Name: "соль", MeasurementUnit: "г"}
	require.NoError(t, recipes.CreateIngredient(ctx, &s.salt))
	s.lunch = domain.Tag{Name: "Обед", Color: "#00FF00", Slug: "lunch"}
	require.NoError(t, recipes.CreateTag(ctx, &s.lunch))
	return s
}

func (s *server) do(t *testing.T, method, path string, as *userdomain.User, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if as != nil {
		token, err := s.tokens.GenerateToken(as.ID, as.Email, as.Role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *server) recipeBody() map[string]interface{} {
	return map[string]interface{}{
		"name":         "Суп",
		"text":         "Варить",
		"image":        pixel,
		"cooking_time": 15,
		"tags":         []uint{s.lunch.ID},
		"ingredients":  []map[string]interface{}{{"id": s.salt.ID, "amount": 7}},
	}
}

func (s *server) createRecipe(t *testing.T) query.RecipeView {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/recipes/", &s.author, s.recipeBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view query.RecipeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	return view
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestCreateRecipeEndpoint(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/api/recipes/", nil, s.recipeBody())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	view := s.createRecipe(t)
	assert.Equal(t, "Суп", view.Name)
	assert.Equal(t, "a", view.Author.Username)
	assert.True(t, strings.HasPrefix(view.Image, "/media/recipes/"))
	require.Len(t, view.Ingredients, 1)
	assert.Equal(t, query.IngredientView{ID: s.salt.ID, Name: "соль", MeasurementUnit: "г", Amount: 7}, view.Ingredients[0])

	body := s.recipeBody()
	body["ingredients"] = []map[string]interface{}{{"id": s.salt.ID, "amount": 1}, {"id": s.salt.ID, "amount": 2}}
	w = s.do(t, http.MethodPost, "/api/recipes/", &s.author, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Ингредиенты должны быть уникальными", errorMessage(t, w))

	w = s.do(t, http.MethodPost, "/api/recipes/", &s.author, "{broken")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipeReadEndpoints(t *testing.T) {
	s := newServer(t)
	view := s.createRecipe(t)
	s.createRecipe(t)

	w := s.do(t, http.MethodGet, "/api/recipes/?limit=1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Count    int64              `json:"count"`
		Next     *string            `json:"next"`
		Previous *string            `json:"previous"`
		Results  []query.RecipeView `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Count)
	assert.NotNil(t, page.Next)
	assert.Nil(t, page.Previous)
	require.Len(t, page.Results, 1)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/?author=%d&tags=lunch", s.other.ID), nil, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Zero(t, page.Count)
	assert.Empty(t, page.Results)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d/", view.ID), nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/recipes/999/", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAndDeleteRecipeEndpoints(t *testing.T) {
	s := newServer(t)
	view := s.createRecipe(t)
	path := fmt.Sprintf("/api/recipes/%d/", view.ID)

	w := s.do(t, http.MethodPatch, path, &s.other, map[string]interface{}{"name": "Чужой"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPatch, path, &s.author, map[string]interface{}{"cooking_time": 45})
	require.Equal(t, http.StatusOK, w.Code)
	var updated query.RecipeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, 45, updated.CookingTime)
	assert.Equal(t, "Суп", updated.Name)

	w = s.do(t, http.MethodDelete, path, &s.admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, path, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteAndCartEndpoints(t *testing.T) {
	s := newServer(t)
	view := s.createRecipe(t)

	for _, list := range []string{"favorite", "shopping_cart"} {
		path := fmt.Sprintf("/api/recipes/%d/%s/", view.ID, list)

		w := s.do(t, http.MethodPost, path, &s.other, nil)
		require.Equal(t, http.StatusCreated, w.Code, list)
		var card userdomain.RecipeCard
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
		assert.Equal(t, view.ID, card.ID)
		assert.Equal(t, view.Image, card.Image)

		w = s.do(t, http.MethodPost, path, &s.other, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Рецепт уже добавлен", errorMessage(t, w))
	}

	w := s.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d/", view.ID), &s.other, nil)
	var flagged query.RecipeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &flagged))
	assert.True(t, flagged.IsFavorited)
	assert.True(t, flagged.IsInShoppingCart)

	w = s.do(t, http.MethodGet, "/api/recipes/download_shopping_cart/", &s.other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Shopping_Cart.txt"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "соль (г) - 7")
	assert.Equal(t, float64(1), testutil.ToFloat64(s.handler.downloads))

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/recipes/%d/favorite/", view.ID), &s.other, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/recipes/%d/favorite/", view.ID), &s.other, nil)
	assert.Equal(t, "Рецепта нет в списке", errorMessage(t, w))

	assert.Equal(t, float64(1), testutil.ToFloat64(s.handler.listChanges.WithLabelValues("favorites", "remove")))

	w = s.do(t, http.MethodPost, "/api/recipes/999/favorite/", &s.other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/api/tags/", &s.author, map[string]string{"name": "Ужин", "color": "#0000FF", "slug": "dinner"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/tags/", &s.admin, map[string]string{"name": "Ужин", "color": "#0000FF", "slug": "dinner"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/api/tags/", nil, nil)
	var tags []domain.Tag
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	assert.Len(t, tags, 2)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/tags/%d/", s.lunch.ID), nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/ingredients/import/", &s.admin, "мука,г\nмолоко,мл\n")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"imported": 2}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/ingredients/?name=м", nil, nil)
	var ingredients []domain.Ingredient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 2)
	assert.Equal(t, "молоко", ingredients[0].Name)
	assert.Equal(t, "мука", ingredients[1].Name)

	w = s.do(t, http.MethodGet, "/api/ingredients/999/", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
