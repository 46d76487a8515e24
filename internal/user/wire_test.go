package user

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	recipedomain "github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/cache"
	"github.com/tair/foodgram/pkg/database"
	"github.com/tair/foodgram/pkg/middleware"
	"github.com/tair/foodgram/pkg/storage"
)

func TestInitializeHTTPHandler(t *testing.T) {
	models := append([]interface{}{&domain.User{}, &domain.Subscription{}}, recipedomain.Models()...)
	db := database.NewTestDB(t, models...)

	mem, err := cache.NewMemoryCache(16)
	require.NoError(t, err)
	revocations := cache.NewTokenRevocations(mem)
	tokens := auth.NewTokenManager("test-secret", 0)
	reg := prometheus.NewRegistry()

	h, err := InitializeHTTPHandler(
		db,
		tokens,
		revocations,
		auth.NewMiddleware(tokens, revocations, nil),
		storage.NewLocalStore(t.TempDir(), "/media"),
		kafka.NopPublisher{},
		middleware.NewMetrics(reg, "test"),
		reg,
	)
	require.NoError(t, err)

	router := mux.NewRouter()
	h.RegisterRoutes(router.PathPrefix("/api").Subrouter())

	body := `{"email":"cook@example.com","username":"cook","first_name":"Анна","last_name":"Повар","password":"s3cret-pass"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/users/", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	login := `{"email":"cook@example.com","password":"s3cret-pass"}`
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/token/login/", strings.NewReader(login)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "auth_token")
}
