package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/sync/errgroup"

	_ "github.com/tair/foodgram/docs"
	"github.com/tair/foodgram/internal/recipe"
	"github.com/tair/foodgram/internal/recipe/usecase/command"
	"github.com/tair/foodgram/internal/user"
	userhttp "github.com/tair/foodgram/internal/user/delivery/http"
	userrepo "github.com/tair/foodgram/internal/user/repository"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/config"
	"github.com/tair/foodgram/pkg/logger"
	"github.com/tair/foodgram/pkg/middleware"
	"github.com/tair/foodgram/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		if err := cfg.ValidateForServe(); err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg config.Config) error {
	tp, err := tracing.InitTracer(tracing.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: "1.0.0",
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
		}
	}()

	db, closeDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDB()
	if err := migrate(db); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	c, redisClient, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	publisher, closePublisher, err := newPublisher(cfg)
	if err != nil {
		return err
	}
	defer closePublisher()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	revocations := newRevocations(c, redisClient)
	authMiddleware := auth.NewMiddleware(tokens, revocations, userrepo.NewGormUserRepositoryWithTracing(db))

	reg := prometheus.DefaultRegisterer
	metrics := middleware.NewMetrics(reg, "foodgram")

	userHandler, err := user.InitializeHTTPHandler(db, tokens, revocations, authMiddleware, images, publisher, metrics, reg)
	if err != nil {
		return err
	}
	recipeHandler, err := recipe.InitializeHTTPHandler(db, c, images, publisher, authMiddleware, metrics, reg)
	if err != nil {
		return err
	}

	router := mux.NewRouter()
	middleware.Register(router, middleware.DefaultConfig())

	api := router.PathPrefix("/api").Subrouter()
	if redisClient != nil && cfg.Limits.Requests > 0 {
		limiter := middleware.NewRateLimiter(middleware.NewRedisWindowCounter(redisClient), cfg.Limits.Requests, cfg.Limits.Window)
		api.Use(limiter.Middleware)
	}
	userHandler.RegisterRoutes(api)
	recipeHandler.RegisterRoutes(api)
	userHandler.RegisterHealthCheck(router, sqlDB)

	router.Handle("/metrics", promhttp.Handler())
	userhttp.RegisterSwaggerDocs(router, httpSwagger.WrapHandler)
	if cfg.Media.Backend != config.MediaS3 {
		router.PathPrefix(cfg.Media.BaseURL + "/").Handler(
			http.StripPrefix(cfg.Media.BaseURL+"/", http.FileServer(http.Dir(cfg.Media.Root))),
		)
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Kafka.Enabled() {
		consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, []string{cfg.Kafka.Topic})
		if err != nil {
			return err
		}
		defer consumer.Close()

		// other instances keep their own memory cache; drop it when any of
		// them changes the catalog
		invalidate := func(ctx context.Context, _ kafka.Event) error {
			command.InvalidateCatalogCache(ctx, c)
			return nil
		}
		consumer.RegisterHandler(kafka.EventTypeIngredientsImported, invalidate)
		consumer.RegisterHandler(kafka.EventTypeCatalogChanged, invalidate)

		g.Go(func() error {
			return consumer.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Logger.Info().Msg("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
