package docs_test

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/tair/foodgram/docs"
	"github.com/tair/foodgram/internal/recipe"
	recipedomain "github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/user"
	userdomain "github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/cache"
	"github.com/tair/foodgram/pkg/database"
	"github.com/tair/foodgram/pkg/middleware"
	"github.com/tair/foodgram/pkg/storage"
)

type swaggerDoc struct {
	BasePath    string                                `json:"basePath"`
	Paths       map[string]map[string]json.RawMessage `json:"paths"`
	Definitions map[string]json.RawMessage            `json:"definitions"`
}

func readDoc(t *testing.T) swaggerDoc {
	t.Helper()
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestDocPathsAreNotDoublePrefixed(t *testing.T) {
	doc := readDoc(t)
	assert.Equal(t, "/", doc.BasePath)
	for path := range doc.Paths {
		assert.False(t, strings.HasPrefix(path, "/api/api"), path)
	}
}

func TestDocReferencesResolve(t *testing.T) {
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)
	doc := readDoc(t)

	refs := regexp.MustCompile(`"#/definitions/([^"]+)"`).FindAllStringSubmatch(raw, -1)
	require.NotEmpty(t, refs)
	for _, ref := range refs {
		assert.Contains(t, doc.Definitions, ref[1])
	}
}

var routeVar = regexp.MustCompile(`\{(\w+):[^}]+\}`)

func TestEveryRouteIsDocumented(t *testing.T) {
	models := append([]interface{}{&userdomain.User{}, &userdomain.Subscription{}}, recipedomain.Models()...)
	db := database.NewTestDB(t, models...)
	mem, err := cache.NewMemoryCache(16)
	require.NoError(t, err)
	revocations := cache.NewTokenRevocations(mem)
	tokens := auth.NewTokenManager("test-secret", 0)
	authMiddleware := auth.NewMiddleware(tokens, revocations, nil)
	images := storage.NewLocalStore(t.TempDir(), "/media")
	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(reg, "test")

	users, err := user.InitializeHTTPHandler(db, tokens, revocations, authMiddleware, images, kafka.NopPublisher{}, metrics, reg)
	require.NoError(t, err)
	recipes, err := recipe.InitializeHTTPHandler(db, mem, images, kafka.NopPublisher{}, authMiddleware, metrics, reg)
	require.NoError(t, err)

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	users.RegisterRoutes(api)
	recipes.RegisterRoutes(api)

	doc := readDoc(t)
	err = router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		tpl, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			return nil
		}
		path := routeVar.ReplaceAllString(tpl, "{$1}")
		for _, method := range methods {
			_, ok := doc.Paths[path][strings.ToLower(method)]
			assert.True(t, ok, "%s %s has no swagger entry", method, path)
		}
		return nil
	})
	require.NoError(t, err)
}
