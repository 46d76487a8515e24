package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	recipedomain "github.com/tair/foodgram/internal/recipe/domain"
	userrepo "github.com/tair/foodgram/internal/user/repository"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/cache"
	"github.com/tair/foodgram/pkg/config"
	"github.com/tair/foodgram/pkg/database"
	"github.com/tair/foodgram/pkg/logger"
	"github.com/tair/foodgram/pkg/storage"
)

const memoryCacheSize = 1024

// bootstrap loads the configuration and initializes the logger
func bootstrap() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)
	return cfg, nil
}

func openDatabase(cfg config.Config) (*gorm.DB, func(), error) {
	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	return db, func() { sqlDB.Close() }, nil
}

func migrate(db *gorm.DB) error {
	if err := userrepo.NewGormUserRepository(db).AutoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate user tables: %w", err)
	}
	if err := db.AutoMigrate(recipedomain.Models()...); err != nil {
		return fmt.Errorf("failed to migrate recipe tables: %w", err)
	}
	return nil
}

// newCache returns a Redis backed cache when Redis is configured and an
// in-process LRU otherwise. The client is nil without Redis.
func newCache(ctx context.Context, cfg config.Config) (cache.Cache, *redis.Client, func(), error) {
	if !cfg.Redis.Enabled() {
		c, err := cache.NewMemoryCache(memoryCacheSize)
		if err != nil {
			return nil, nil, nil, err
		}
		return c, nil, func() {}, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, nil, err
	}
	return cache.NewRedisCache(client, cfg.ServiceName+":"), client, func() { client.Close() }, nil
}

// newRevocations keeps logged-out tokens in Redis when it is configured. The
// in-process fallback is a dedicated store so catalog traffic cannot evict it.
func newRevocations(c cache.Cache, redisClient *redis.Client) auth.RevocationStore {
	if redisClient != nil {
		return cache.NewTokenRevocations(c)
	}
	return cache.NewMemoryRevocations()
}

func newImageStore(ctx context.Context, cfg config.Config) (storage.ImageStore, error) {
	switch cfg.Media.Backend {
	case config.MediaS3:
		store, err := storage.NewS3Store(ctx, cfg.Media.S3)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.MediaLocal, "":
		return storage.NewLocalStore(cfg.Media.Root, cfg.Media.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported media backend %q", cfg.Media.Backend)
	}
}

func newPublisher(cfg config.Config) (kafka.EventPublisher, func(), error) {
	if !cfg.Kafka.Enabled() {
		return kafka.NopPublisher{}, func() {}, nil
	}
	p, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, nil, err
	}
	return p, func() { p.Close() }, nil
}
