package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/usecase/command"
	"github.com/tair/foodgram/internal/recipe/usecase/query"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/httpx"
	"github.com/tair/foodgram/pkg/logger"
	"github.com/tair/foodgram/pkg/middleware"
	"github.com/tair/foodgram/pkg/storage"
)

// maxImportSize bounds an uploaded ingredient CSV
const maxImportSize = 10 << 20

// Commands groups the recipe command handlers
type Commands struct {
	Create     *command.CreateRecipeHandler
	Update     *command.UpdateRecipeHandler
	Delete     *command.DeleteRecipeHandler
	Membership *command.MembershipHandler
	Catalog    *command.CatalogHandler
}

// Queries groups the recipe query handlers
type Queries struct {
	Recipes      *query.RecipesHandler
	Catalog      *query.CatalogHandler
	ShoppingCart *query.DownloadShoppingCartHandler
}

// RecipeHandler handles HTTP requests for recipes, tags and ingredients
type RecipeHandler struct {
	commands Commands
	queries  Queries

	auth    *auth.Middleware
	metrics *middleware.Metrics
	images  storage.URLResolver

	listChanges *prometheus.CounterVec
	downloads   prometheus.Counter
}

// NewRecipeHandlerWithDI creates a new recipe handler using dependency injection
func NewRecipeHandlerWithDI(
	commands Commands,
	queries Queries,
	authMiddleware *auth.Middleware,
	metrics *middleware.Metrics,
	images storage.URLResolver,
	reg prometheus.Registerer,
) *RecipeHandler {
	listChanges := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_list_changes_total",
			Help: "Favorite and shopping cart changes",
		},
		[]string{"list", "action"},
	)
	downloads := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Number of exported shopping lists",
		},
	)
	reg.MustRegister(listChanges, downloads)

	return &RecipeHandler{
		commands:    commands,
		queries:     queries,
		auth:        authMiddleware,
		metrics:     metrics,
		images:      images,
		listChanges: listChanges,
		downloads:   downloads,
	}
}

// ListRecipes handles GET /api/recipes/
func (h *RecipeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePageRequest(r)
	q := r.URL.Query()

	listQuery := query.ListRecipesQuery{
		ViewerID:       auth.ViewerID(r.Context()),
		TagSlugs:       q["tags"],
		Favorited:      q.Get("is_favorited") == "1",
		InShoppingCart: q.Get("is_in_shopping_cart") == "1",
		Limit:          page.Limit,
		Offset:         page.Offset(),
	}
	if author := q.Get("author"); author != "" {
		id, err := parseID(author)
		if err != nil {
			httpx.RespondJSON(w, http.StatusOK, httpx.NewPage[query.RecipeView](r, page, 0, nil))
			return
		}
		listQuery.AuthorID = id
	}

	views, total, err := h.queries.Recipes.List(r.Context(), listQuery)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, httpx.NewPage(r, page, total, views))
}

// GetRecipe handles GET /api/recipes/{id}/
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	view, err := h.queries.Recipes.Get(r.Context(), query.GetRecipeQuery{ID: id, ViewerID: auth.ViewerID(r.Context())})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, view)
}

// CreateRecipe handles POST /api/recipes/
func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req domain.RecipeWrite
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	viewer := auth.ViewerID(r.Context())
	recipe, err := h.commands.Create.Handle(r.Context(), command.CreateRecipeCommand{AuthorID: viewer, Recipe: req})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	h.respondRecipe(w, r, http.StatusCreated, recipe.ID)
}

// UpdateRecipe handles PATCH /api/recipes/{id}/
func (h *RecipeHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	var req domain.RecipeWrite
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	p, _ := auth.FromContext(r.Context())
	recipe, err := h.commands.Update.Handle(r.Context(), command.UpdateRecipeCommand{
		RecipeID: id,
		UserID:   p.UserID,
		IsAdmin:  p.IsAdmin(),
		Recipe:   req,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	h.respondRecipe(w, r, http.StatusOK, recipe.ID)
}

// DeleteRecipe handles DELETE /api/recipes/{id}/
func (h *RecipeHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	p, _ := auth.FromContext(r.Context())
	err = h.commands.Delete.Handle(r.Context(), command.DeleteRecipeCommand{
		RecipeID: id,
		UserID:   p.UserID,
		IsAdmin:  p.IsAdmin(),
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondNoContent(w)
}

func (h *RecipeHandler) respondRecipe(w http.ResponseWriter, r *http.Request, status int, id uint) {
	view, err := h.queries.Recipes.Get(r.Context(), query.GetRecipeQuery{ID: id, ViewerID: auth.ViewerID(r.Context())})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, status, view)
}

// addToList returns the POST handler of a favorite or shopping cart route
func (h *RecipeHandler) addToList(kind domain.ListKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "id")
		if err != nil {
			httpx.RespondError(w, r, err)
			return
		}

		recipe, err := h.commands.Membership.Add(r.Context(), command.MembershipCommand{
			Kind:     kind,
			UserID:   auth.ViewerID(r.Context()),
			RecipeID: id,
		})
		if err != nil {
			httpx.RespondError(w, r, err)
			return
		}
		h.listChanges.WithLabelValues(string(kind), "add").Inc()
		httpx.RespondJSON(w, http.StatusCreated, query.NewRecipeCard(recipe, h.images))
	}
}

// removeFromList returns the DELETE handler of a favorite or shopping cart route
func (h *RecipeHandler) removeFromList(kind domain.ListKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "id")
		if err != nil {
			httpx.RespondError(w, r, err)
			return
		}

		err = h.commands.Membership.Remove(r.Context(), command.MembershipCommand{
			Kind:     kind,
			UserID:   auth.ViewerID(r.Context()),
			RecipeID: id,
		})
		if err != nil {
			httpx.RespondError(w, r, err)
			return
		}
		h.listChanges.WithLabelValues(string(kind), "remove").Inc()
		httpx.RespondNoContent(w)
	}
}

// DownloadShoppingCart handles GET /api/recipes/download_shopping_cart/
func (h *RecipeHandler) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	text, err := h.queries.ShoppingCart.Handle(r.Context(), auth.ViewerID(r.Context()))
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.downloads.Inc()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", query.ShoppingCartFileName))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

// ListTags handles GET /api/tags/
func (h *RecipeHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.queries.Catalog.ListTags(r.Context())
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, tags)
}

// GetTag handles GET /api/tags/{id}/
func (h *RecipeHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	tag, err := h.queries.Catalog.GetTag(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, tag)
}

// CreateTag handles POST /api/tags/ (admin only)
func (h *RecipeHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	tag, err := h.commands.Catalog.CreateTag(r.Context(), command.CreateTagCommand{
		Name:  req.Name,
		Color: req.Color,
		Slug:  req.Slug,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, tag)
}

// ListIngredients handles GET /api/ingredients/
func (h *RecipeHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.queries.Catalog.ListIngredients(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, ingredients)
}

// GetIngredient handles GET /api/ingredients/{id}/
func (h *RecipeHandler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	ingredient, err := h.queries.Catalog.GetIngredient(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, ingredient)
}

// CreateIngredient handles POST /api/ingredients/ (admin only)
func (h *RecipeHandler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	ingredient, err := h.commands.Catalog.CreateIngredient(r.Context(), command.CreateIngredientCommand{
		Name:            req.Name,
		MeasurementUnit: req.MeasurementUnit,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, ingredient)
}

// ImportIngredients handles POST /api/ingredients/import/ (admin only) with a
// "name,measurement_unit" CSV body
func (h *RecipeHandler) ImportIngredients(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportSize)
	count, err := h.commands.Catalog.ImportIngredients(r.Context(), command.ImportIngredientsCommand{Source: body})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	logger.Info(r.Context()).
		Int("count", count).
		Uint("user_id", auth.ViewerID(r.Context())).
		Msg("Ingredient import via API")
	httpx.RespondJSON(w, http.StatusCreated, map[string]int{"imported": count})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

// RegisterRoutes registers all recipe and catalog routes on the /api subrouter
func (h *RecipeHandler) RegisterRoutes(router *mux.Router) {
	handle := func(path, method string, next http.HandlerFunc) {
		router.HandleFunc(path, h.metrics.Wrap(path, next)).Methods(method)
	}

	// Tags
	handle("/tags/", http.MethodGet, h.ListTags)
	handle("/tags/", http.MethodPost, h.auth.Admin(h.CreateTag))
	handle("/tags/{id:[0-9]+}/", http.MethodGet, h.GetTag)

	// Ingredients
	handle("/ingredients/", http.MethodGet, h.ListIngredients)
	handle("/ingredients/", http.MethodPost, h.auth.Admin(h.CreateIngredient))
	handle("/ingredients/import/", http.MethodPost, h.auth.Admin(h.ImportIngredients))
	handle("/ingredients/{id:[0-9]+}/", http.MethodGet, h.GetIngredient)

	// Recipes
	handle("/recipes/", http.MethodGet, h.auth.Optional(h.ListRecipes))
	handle("/recipes/", http.MethodPost, h.auth.Required(h.CreateRecipe))
	handle("/recipes/download_shopping_cart/", http.MethodGet, h.auth.Required(h.DownloadShoppingCart))
	handle("/recipes/{id:[0-9]+}/", http.MethodGet, h.auth.Optional(h.GetRecipe))
	handle("/recipes/{id:[0-9]+}/", http.MethodPatch, h.auth.Required(h.UpdateRecipe))
	handle("/recipes/{id:[0-9]+}/", http.MethodDelete, h.auth.Required(h.DeleteRecipe))

	// Favorites and shopping cart
	handle("/recipes/{id:[0-9]+}/favorite/", http.MethodPost, h.auth.Required(h.addToList(domain.Favorites)))
	handle("/recipes/{id:[0-9]+}/favorite/", http.MethodDelete, h.auth.Required(h.removeFromList(domain.Favorites)))
	handle("/recipes/{id:[0-9]+}/shopping_cart/", http.MethodPost, h.auth.Required(h.addToList(domain.ShoppingCart)))
	handle("/recipes/{id:[0-9]+}/shopping_cart/", http.MethodDelete, h.auth.Required(h.removeFromList(domain.ShoppingCart)))
}
