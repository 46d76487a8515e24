package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// Login godoc
// @Summary Obtain a token
// @Description Authenticate by email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} object{auth_token=string}
// @Failure 400 {object} object{error=string}
// @Router /api/auth/token/login/ [post]
func (h *UserHandler) LoginDoc() {}

// Logout godoc
// @Summary Revoke the current token
// @Tags Auth
// @Security TokenAuth
// @Success 204
// @Failure 401 {object} object{error=string}
// @Router /api/auth/token/logout/ [post]
func (h *UserHandler) LogoutDoc() {}

// Register godoc
// @Summary Register a new user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body object{email=string,username=string,first_name=string,last_name=string,password=string} true "User registration data"
// @Success 201 {object} object{email=string,id=int,username=string,first_name=string,last_name=string}
// @Failure 400 {object} object{error=string}
// @Router /api/users/ [post]
func (h *UserHandler) RegisterDoc() {}

// ListUsers godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} object{count=int,next=string,previous=string,results=[]query.UserView}
// @Router /api/users/ [get]
func (h *UserHandler) ListUsersDoc() {}

// GetUser godoc
// @Summary Get a user profile
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} query.UserView
// @Failure 404 {object} object{error=string}
// @Router /api/users/{id}/ [get]
func (h *UserHandler) GetUserDoc() {}

// Me godoc
// @Summary Current user profile
// @Tags Users
// @Security TokenAuth
// @Produce json
// @Success 200 {object} query.UserView
// @Failure 401 {object} object{error=string}
// @Router /api/users/me/ [get]
func (h *UserHandler) MeDoc() {}

// SetPassword godoc
// @Summary Change password
// @Tags Users
// @Security TokenAuth
// @Accept json
// @Param request body object{new_password=string,current_password=string} true "Passwords"
// @Success 204
// @Failure 400 {object} object{error=string}
// @Router /api/users/set_password/ [post]
func (h *UserHandler) SetPasswordDoc() {}

// Subscriptions godoc
// @Summary Authors the current user follows
// @Tags Subscriptions
// @Security TokenAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Recipes shown per author"
// @Success 200 {object} object{count=int,next=string,previous=string,results=[]query.SubscriptionView}
// @Router /api/users/subscriptions/ [get]
func (h *UserHandler) SubscriptionsDoc() {}

// Subscribe godoc
// @Summary Subscribe to an author
// @Tags Subscriptions
// @Security TokenAuth
// @Produce json
// @Param id path int true "Author ID"
// @Param recipes_limit query int false "Recipes shown"
// @Success 201 {object} query.SubscriptionView
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/users/{id}/subscribe/ [post]
func (h *UserHandler) SubscribeDoc() {}

// Unsubscribe godoc
// @Summary Unsubscribe from an author
// @Tags Subscriptions
// @Security TokenAuth
// @Param id path int true "Author ID"
// @Success 204
// @Failure 400 {object} object{error=string}
// @Router /api/users/{id}/subscribe/ [delete]
func (h *UserHandler) UnsubscribeDoc() {}

// UpdateMe godoc
// @Summary Update the caller's names
// @Tags Users
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param request body object{first_name=string,last_name=string} true "Changed fields"
// @Success 200 {object} query.UserView
// @Failure 400 {object} object{error=string}
// @Router /api/users/me/ [patch]
func (h *UserHandler) UpdateMeDoc() {}

// DeleteUser godoc
// @Summary Delete a user with their recipes
// @Tags Admin
// @Security TokenAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/users/{id}/ [delete]
func (h *UserHandler) DeleteUserDoc() {}

// ChangeRole godoc
// @Summary Change a user's role
// @Tags Admin
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{role=string} true "user or admin"
// @Success 200 {object} object{id=int,email=string,username=string,role=string,is_active=bool}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/users/{id}/role/ [put]
func (h *UserHandler) ChangeRoleDoc() {}

// ToggleActive godoc
// @Summary Activate or deactivate a user
// @Tags Admin
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{is_active=bool} true "Active flag"
// @Success 200 {object} object{id=int,email=string,username=string,role=string,is_active=bool}
// @Failure 404 {object} object{error=string}
// @Router /api/users/{id}/active/ [put]
func (h *UserHandler) ToggleActiveDoc() {}

// HealthCheck godoc
// @Summary Database health
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string}
// @Failure 503 {object} object{status=string,error=string}
// @Router /health [get]
func (h *UserHandler) HealthCheckDoc() {}
