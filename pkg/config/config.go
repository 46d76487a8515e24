package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tair/foodgram/pkg/database"
	"github.com/tair/foodgram/pkg/storage"
)

// DefaultJWTSecret is the development signing key. Only development may run with it.
const DefaultJWTSecret = "change-me"

// Media backends
const (
	MediaLocal = "local"
	MediaS3    = "s3"
)

// Config is the complete service configuration
type Config struct {
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	HTTPPort    string `yaml:"http_port"`

	Database database.Config `yaml:"database"`
	Auth     AuthConfig      `yaml:"auth"`
	Redis    RedisConfig     `yaml:"redis"`
	Media    MediaConfig     `yaml:"media"`
	Kafka    KafkaConfig     `yaml:"kafka"`
	Tracing  TracingConfig   `yaml:"tracing"`
	Limits   RateLimitConfig `yaml:"rate_limit"`

	IngredientsCSV string `yaml:"ingredients_csv"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Enabled reports whether a Redis address is configured
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type MediaConfig struct {
	Backend string           `yaml:"backend"`
	Root    string           `yaml:"root"`
	BaseURL string           `yaml:"base_url"`
	S3      storage.S3Config `yaml:"s3"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

// Enabled reports whether any broker is configured
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// RateLimitConfig bounds requests per client address; it needs Redis
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

type TracingConfig struct {
	Enabled        bool   `yaml:"enabled"`
	JaegerEndpoint string `yaml:"jaeger_endpoint"`
}

// IsDevelopment reports whether the service runs in development mode
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// ValidateForServe rejects settings the HTTP server must not run with
func (c Config) ValidateForServe() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Auth.JWTSecret == DefaultJWTSecret && !c.IsDevelopment() {
		return fmt.Errorf("JWT_SECRET must be set outside development (environment %q)", c.Environment)
	}
	return nil
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		ServiceName: "foodgram",
		Environment: "development",
		LogLevel:    "info",
		HTTPPort:    "8000",
		Database: database.Config{
			Driver:   database.DriverPostgres,
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			DBName:   "foodgram",
			SSLMode:  "disable",
		},
		Auth: AuthConfig{
			JWTSecret: DefaultJWTSecret,
			TokenTTL:  24 * time.Hour,
		},
		Redis: RedisConfig{
			CacheTTL: 5 * time.Minute,
		},
		Media: MediaConfig{
			Backend: MediaLocal,
			Root:    "media",
			BaseURL: "/media",
		},
		Kafka: KafkaConfig{
			Topic:   "foodgram-events",
			GroupID: "foodgram",
		},
		Tracing: TracingConfig{
			JaegerEndpoint: "http://localhost:14268/api/traces",
		},
		Limits: RateLimitConfig{
			Requests: 100,
			Window:   time.Minute,
		},
		IngredientsCSV: "data/ingredients.csv",
	}
}

// Load builds the configuration from defaults, the YAML file named by
// FOODGRAM_CONFIG (if set) and environment variables, in that order.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("FOODGRAM_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.ServiceName = getEnv("OTEL_SERVICE_NAME", cfg.ServiceName)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.HTTPPort = getEnv("HTTP_PORT", cfg.HTTPPort)

	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = getEnv("DB_NAME", cfg.Database.DBName)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)

	cfg.Media.Backend = getEnv("MEDIA_BACKEND", cfg.Media.Backend)
	cfg.Media.Root = getEnv("MEDIA_ROOT", cfg.Media.Root)
	cfg.Media.BaseURL = getEnv("MEDIA_URL", cfg.Media.BaseURL)
	cfg.Media.S3.Bucket = getEnv("S3_BUCKET", cfg.Media.S3.Bucket)
	cfg.Media.S3.Region = getEnv("S3_REGION", cfg.Media.S3.Region)
	cfg.Media.S3.Endpoint = getEnv("S3_ENDPOINT", cfg.Media.S3.Endpoint)
	cfg.Media.S3.AccessKey = getEnv("S3_ACCESS_KEY", cfg.Media.S3.AccessKey)
	cfg.Media.S3.SecretKey = getEnv("S3_SECRET_KEY", cfg.Media.S3.SecretKey)
	cfg.Media.S3.PublicURL = getEnv("S3_PUBLIC_URL", cfg.Media.S3.PublicURL)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitList(brokers)
	}
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", cfg.Kafka.Topic)
	cfg.Kafka.GroupID = getEnv("KAFKA_GROUP_ID", cfg.Kafka.GroupID)

	cfg.Tracing.JaegerEndpoint = getEnv("JAEGER_ENDPOINT", cfg.Tracing.JaegerEndpoint)
	cfg.IngredientsCSV = getEnv("INGREDIENTS_CSV", cfg.IngredientsCSV)

	var err error
	if cfg.Auth.TokenTTL, err = getDuration("TOKEN_TTL", cfg.Auth.TokenTTL); err != nil {
		return err
	}
	if cfg.Redis.CacheTTL, err = getDuration("CACHE_TTL", cfg.Redis.CacheTTL); err != nil {
		return err
	}
	if cfg.Redis.DB, err = getInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return err
	}
	if cfg.Limits.Requests, err = getInt("RATE_LIMIT_REQUESTS", cfg.Limits.Requests); err != nil {
		return err
	}
	if cfg.Limits.Window, err = getDuration("RATE_LIMIT_WINDOW", cfg.Limits.Window); err != nil {
		return err
	}
	if cfg.Tracing.Enabled, err = getBool("TRACING_ENABLED", cfg.Tracing.Enabled); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
