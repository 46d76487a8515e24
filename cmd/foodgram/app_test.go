package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	recipedomain "github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/pkg/cache"
	"github.com/tair/foodgram/pkg/config"
)

func TestRevocationsSurviveCatalogTraffic(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()

	c, client, closeCache, err := newCache(ctx, cfg)
	require.NoError(t, err)
	defer closeCache()
	require.Nil(t, client)

	revocations := newRevocations(c, client)
	require.NoError(t, revocations.Revoke(ctx, "tok-1", time.Hour))

	// anonymous ingredient searches fill the shared cache past its size
	for i := 0; i < 2*memoryCacheSize; i++ {
		key := recipedomain.IngredientsCacheKey(fmt.Sprintf("x%d", i))
		_, err := cache.Remember(ctx, c, key, time.Minute, func(context.Context) ([]string, error) {
			return []string{"соль"}, nil
		})
		require.NoError(t, err)
	}

	revoked, err := revocations.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}
