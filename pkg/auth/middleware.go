package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tair/foodgram/pkg/httpx"
	"github.com/tair/foodgram/pkg/logger"
)

type contextKey string

const principalKey contextKey = "principal"

// Role names
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Principal is the authenticated caller of a request
type Principal struct {
	UserID    uint
	Email     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the caller has the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// RevocationStore remembers tokens revoked by logout
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// ActiveUserChecker confirms the token owner still exists and is active
type ActiveUserChecker interface {
	IsActive(ctx context.Context, userID uint) (bool, error)
}

// WithPrincipal stores p in ctx
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext returns the caller stored by the middleware
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// ViewerID returns the caller id or 0 for anonymous requests
func ViewerID(ctx context.Context) uint {
	if p, ok := FromContext(ctx); ok {
		return p.UserID
	}
	return 0
}

// Middleware authenticates requests carrying "Token <jwt>" or "Bearer <jwt>"
type Middleware struct {
	tokens      *TokenManager
	revocations RevocationStore
	users       ActiveUserChecker
}

// NewMiddleware creates the auth middleware. revocations and users may be nil.
func NewMiddleware(tokens *TokenManager, revocations RevocationStore, users ActiveUserChecker) *Middleware {
	return &Middleware{tokens: tokens, revocations: revocations, users: users}
}

// Required rejects anonymous requests with 401
func (m *Middleware) Required(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			httpx.RespondErrorMessage(w, http.StatusUnauthorized, "Учетные данные не были предоставлены")
			return
		}

		p, ok := m.authenticate(r.Context(), header)
		if !ok {
			httpx.RespondErrorMessage(w, http.StatusUnauthorized, "Недопустимый токен")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	}
}

// Optional identifies the caller when a valid token is present
func (m *Middleware) Optional(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if header := r.Header.Get("Authorization"); header != "" {
			if p, ok := m.authenticate(r.Context(), header); ok {
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}
		}
		next.ServeHTTP(w, r)
	}
}

// Admin requires an authenticated caller with the admin role
func (m *Middleware) Admin(next http.HandlerFunc) http.HandlerFunc {
	return m.Required(func(w http.ResponseWriter, r *http.Request) {
		p, _ := FromContext(r.Context())
		if !p.IsAdmin() {
			logger.Warn(r.Context()).
				Uint("user_id", p.UserID).
				Msg("Admin access denied")
			httpx.RespondErrorMessage(w, http.StatusForbidden, "У вас недостаточно прав для выполнения данного действия")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) authenticate(ctx context.Context, header string) (Principal, bool) {
	token, ok := parseAuthorization(header)
	if !ok {
		logger.Debug(ctx).Msg("Invalid authorization header format")
		return Principal{}, false
	}

	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		logger.Debug(ctx).Err(err).Msg("Invalid token")
		return Principal{}, false
	}

	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			logger.Warn(ctx).Err(err).Msg("Token revocation lookup failed")
			return Principal{}, false
		}
		if revoked {
			return Principal{}, false
		}
	}

	if m.users != nil {
		active, err := m.users.IsActive(ctx, claims.UserID)
		if err != nil || !active {
			logger.Debug(ctx).
				Uint("user_id", claims.UserID).
				Msg("Token owner missing or inactive")
			return Principal{}, false
		}
	}

	p := Principal{
		UserID:  claims.UserID,
		Email:   claims.Email,
		Role:    claims.Role,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, true
}

func parseAuthorization(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	switch parts[0] {
	case "Token", "Bearer":
		return parts[1], true
	default:
		return "", false
	}
}
