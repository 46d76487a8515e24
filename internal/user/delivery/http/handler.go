package http

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/internal/user/usecase/command"
	"github.com/tair/foodgram/internal/user/usecase/query"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/httpx"
	"github.com/tair/foodgram/pkg/logger"
	"github.com/tair/foodgram/pkg/middleware"
	"github.com/tair/foodgram/pkg/storage"
)

// Commands groups the user command handlers
type Commands struct {
	Register     *command.RegisterUserHandler
	Login        *command.LoginUserHandler
	Logout       *command.LogoutUserHandler
	SetPassword  *command.SetPasswordHandler
	Update       *command.UpdateUserHandler
	Delete       *command.DeleteUserHandler
	Subscribe    *command.SubscribeHandler
	ChangeRole   *command.ChangeRoleHandler
	ToggleActive *command.ToggleActiveHandler
}

// Queries groups the user query handlers
type Queries struct {
	GetUser       *query.GetUserHandler
	List          *query.ListUsersHandler
	Subscriptions *query.SubscriptionsHandler
}

// UserHandler handles HTTP requests for users, tokens and subscriptions
type UserHandler struct {
	commands Commands
	queries  Queries

	repo        domain.UserRepository
	auth        *auth.Middleware
	metrics     *middleware.Metrics
	images      storage.URLResolver
	activeUsers prometheus.Gauge
}

// NewUserHandlerWithDI creates a new user handler using dependency injection
func NewUserHandlerWithDI(
	commands Commands,
	queries Queries,
	repo domain.UserRepository,
	authMiddleware *auth.Middleware,
	metrics *middleware.Metrics,
	images storage.URLResolver,
	reg prometheus.Registerer,
) *UserHandler {
	activeUsers := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "foodgram_users_total",
			Help: "Number of registered users",
		},
	)
	reg.MustRegister(activeUsers)

	return &UserHandler{
		commands:    commands,
		queries:     queries,
		repo:        repo,
		auth:        authMiddleware,
		metrics:     metrics,
		images:      images,
		activeUsers: activeUsers,
	}
}

type registerRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type registeredUser struct {
	Email     string `json:"email"`
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register handles POST /api/users/
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	user, err := h.commands.Register.Handle(r.Context(), command.RegisterUserCommand{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	logger.Info(r.Context()).
		Uint("user_id", user.ID).
		Str("username", user.Username).
		Msg("User registered")
	h.updateActiveUsersMetric(r.Context())

	httpx.RespondJSON(w, http.StatusCreated, registeredUser{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// Login handles POST /api/auth/token/login/
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	response, err := h.commands.Login.Handle(r.Context(), command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, response)
}

// Logout handles POST /api/auth/token/logout/
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	err := h.commands.Logout.Handle(r.Context(), command.LogoutUserCommand{
		TokenID:   p.TokenID,
		ExpiresAt: p.ExpiresAt,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondNoContent(w)
}

// Me handles GET /api/users/me/
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	view, err := h.queries.GetUser.Handle(r.Context(), query.GetUserQuery{ID: auth.ViewerID(r.Context())})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, view)
}

// UpdateMe handles PATCH /api/users/me/
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	viewer := auth.ViewerID(r.Context())
	if _, err := h.commands.Update.Handle(r.Context(), command.UpdateUserCommand{
		ID:        viewer,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	view, err := h.queries.GetUser.Handle(r.Context(), query.GetUserQuery{ID: viewer})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, view)
}

// SetPassword handles POST /api/users/set_password/
func (h *UserHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPassword     string `json:"new_password"`
		CurrentPassword string `json:"current_password"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	err := h.commands.SetPassword.Handle(r.Context(), command.SetPasswordCommand{
		UserID:          auth.ViewerID(r.Context()),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondNoContent(w)
}

// GetUser handles GET /api/users/{id}/
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	view, err := h.queries.GetUser.Handle(r.Context(), query.GetUserQuery{
		ID:       id,
		ViewerID: auth.ViewerID(r.Context()),
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, view)
}

// ListUsers handles GET /api/users/
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePageRequest(r)
	users, total, err := h.queries.List.Handle(r.Context(), query.ListUsersQuery{
		ViewerID: auth.ViewerID(r.Context()),
		Limit:    page.Limit,
		Offset:   page.Offset(),
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, httpx.NewPage(r, page, total, users))
}

// DeleteUser handles DELETE /api/users/{id}/ (admin only)
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	if err := h.commands.Delete.Handle(r.Context(), command.DeleteUserCommand{ID: id}); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	h.updateActiveUsersMetric(r.Context())
	httpx.RespondNoContent(w)
}

// ChangeRole handles PUT /api/users/{id}/role/ (admin only)
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	user, err := h.commands.ChangeRole.Handle(r.Context(), command.ChangeRoleCommand{UserID: id, Role: req.Role})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, user)
}

// ToggleActive handles PUT /api/users/{id}/active/ (admin only)
func (h *UserHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	user, err := h.commands.ToggleActive.Handle(r.Context(), command.ToggleActiveCommand{UserID: id, IsActive: req.IsActive})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, user)
}

func recipesLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("recipes_limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func (h *UserHandler) resolveImages(views []query.SubscriptionView) {
	for i := range views {
		for j := range views[i].Recipes {
			views[i].Recipes[j].Image = h.images.URL(views[i].Recipes[j].Image)
		}
	}
}

// Subscriptions handles GET /api/users/subscriptions/
func (h *UserHandler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePageRequest(r)
	views, total, err := h.queries.Subscriptions.Handle(r.Context(), query.ListSubscriptionsQuery{
		UserID:       auth.ViewerID(r.Context()),
		Limit:        page.Limit,
		Offset:       page.Offset(),
		RecipesLimit: recipesLimit(r),
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.resolveImages(views)
	httpx.RespondJSON(w, http.StatusOK, httpx.NewPage(r, page, total, views))
}

// Subscribe handles POST /api/users/{id}/subscribe/
func (h *UserHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	authorID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	viewer := auth.ViewerID(r.Context())
	cmd := command.SubscribeCommand{UserID: viewer, AuthorID: authorID}
	if _, err := h.commands.Subscribe.Handle(r.Context(), cmd); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	view, err := h.queries.Subscriptions.Get(r.Context(), query.GetSubscriptionQuery{
		UserID:       viewer,
		AuthorID:     authorID,
		RecipesLimit: recipesLimit(r),
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	views := []query.SubscriptionView{*view}
	h.resolveImages(views)
	httpx.RespondJSON(w, http.StatusCreated, views[0])
}

// Unsubscribe handles DELETE /api/users/{id}/subscribe/
func (h *UserHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	authorID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	cmd := command.SubscribeCommand{UserID: auth.ViewerID(r.Context()), AuthorID: authorID}
	if err := h.commands.Subscribe.Unsubscribe(r.Context(), cmd); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondNoContent(w)
}

// HealthCheck handles GET /health
func (h *UserHandler) HealthCheck(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			httpx.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}

		httpx.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

// updateActiveUsersMetric updates the registered users gauge
func (h *UserHandler) updateActiveUsersMetric(ctx context.Context) {
	count, err := h.repo.Count(ctx)
	if err == nil {
		h.activeUsers.Set(float64(count))
	}
}

// RegisterRoutes registers all user routes on the /api subrouter
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	handle := func(path, method string, next http.HandlerFunc) {
		router.HandleFunc(path, h.metrics.Wrap(path, next)).Methods(method)
	}

	// Tokens
	handle("/auth/token/login/", http.MethodPost, h.Login)
	handle("/auth/token/logout/", http.MethodPost, h.auth.Required(h.Logout))

	// Users
	handle("/users/", http.MethodGet, h.auth.Optional(h.ListUsers))
	handle("/users/", http.MethodPost, h.Register)
	handle("/users/me/", http.MethodGet, h.auth.Required(h.Me))
	handle("/users/me/", http.MethodPatch, h.auth.Required(h.UpdateMe))
	handle("/users/set_password/", http.MethodPost, h.auth.Required(h.SetPassword))
	handle("/users/subscriptions/", http.MethodGet, h.auth.Required(h.Subscriptions))
	handle("/users/{id:[0-9]+}/", http.MethodGet, h.auth.Optional(h.GetUser))
	handle("/users/{id:[0-9]+}/subscribe/", http.MethodPost, h.auth.Required(h.Subscribe))
	handle("/users/{id:[0-9]+}/subscribe/", http.MethodDelete, h.auth.Required(h.Unsubscribe))

	// Admin
	handle("/users/{id:[0-9]+}/", http.MethodDelete, h.auth.Admin(h.DeleteUser))
	handle("/users/{id:[0-9]+}/role/", http.MethodPut, h.auth.Admin(h.ChangeRole))
	handle("/users/{id:[0-9]+}/active/", http.MethodPut, h.auth.Admin(h.ToggleActive))
}

// RegisterHealthCheck registers health check endpoint
func (h *UserHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", h.HealthCheck(db)).Methods(http.MethodGet)
}
