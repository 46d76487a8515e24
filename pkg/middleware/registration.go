package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Config selects which router-wide middlewares are installed
type Config struct {
	EnableLogging bool
	EnableTracing bool
}

// DefaultConfig enables logging and tracing
func DefaultConfig() Config {
	return Config{
		EnableLogging: true,
		EnableTracing: true,
	}
}

// Register installs the configured middlewares on router. Tracing runs first
// so the logging middleware sees the request span.
func Register(router *mux.Router, cfg Config) {
	if cfg.EnableTracing {
		router.Use(func(next http.Handler) http.Handler {
			return Tracing("http-request")(next)
		})
	}
	if cfg.EnableLogging {
		router.Use(Logging)
	}
}
