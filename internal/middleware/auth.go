package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"dorm-backend/internal/apperr"
	"dorm-backend/internal/auth"
	"dorm-backend/internal/models"
	"dorm-backend/internal/policy"
	"dorm-backend/internal/repositories"
	"dorm-backend/pkg/utils"
)

type contextKey string

const ActorKey contextKey = "actor"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	store      repositories.Store
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, store repositories.Store) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		store:      store,
	}
}

// authenticate resolves the bearer token to the current user. The role is
// read from the store so a demoted or deleted account loses access at once.
func (m *AuthMiddleware) authenticate(r *http.Request) (policy.Actor, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" && isWebSocket(r) {
		// browsers cannot set headers on a WebSocket handshake
		if token := r.URL.Query().Get("token"); token != "" {
			authHeader = "Bearer " + token
		}
	}
	if authHeader == "" {
		return policy.Actor{}, apperr.New(apperr.Unauthorized, "authorization header required")
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return policy.Actor{}, apperr.New(apperr.Unauthorized, "invalid authorization format")
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		return policy.Actor{}, apperr.New(apperr.Unauthorized, "invalid or expired token")
	}

	var user *models.User
	err = m.store.View(r.Context(), func(tx repositories.Tx) error {
		var err error
		user, err = tx.Users().Get(r.Context(), claims.UserID)
		return err
	})
	if errors.Is(err, apperr.NotFound) {
		return policy.Actor{}, apperr.New(apperr.Unauthorized, "user not found")
	}
	if err != nil {
		return policy.Actor{}, err
	}
	return policy.Actor{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := m.authenticate(r)
		if err != nil {
			utils.Error(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireRole authenticates and then admits only the listed roles
func (m *AuthMiddleware) RequireRole(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := m.authenticate(r)
			if err != nil {
				utils.Error(w, err)
				return
			}

			hasRole := false
			for _, role := range allowedRoles {
				if actor.Role == role {
					hasRole = true
					break
				}
			}
			if !hasRole {
				utils.ErrorKind(w, apperr.Forbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func WithActor(ctx context.Context, actor policy.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// ActorFromContext extracts the authenticated caller from request context
func ActorFromContext(ctx context.Context) (policy.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(policy.Actor)
	return actor, ok
}

func isWebSocket(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

// NotifyOnWrite calls notify after every successful mutating request
func NotifyOnWrite(notify func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return
			}
			if wrapped.statusCode < 300 {
				notify()
			}
		})
	}
}
