package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dorm-backend/internal/auth"
	"dorm-backend/internal/config"
	"dorm-backend/internal/models"
	"dorm-backend/internal/repositories"
	"dorm-backend/internal/repositories/memory"
	"dorm-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*AuthMiddleware, *auth.JWTManager, *models.User) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "mw-secret"
	cfg.JWT.ExpirationHours = 1
	jwtManager := auth.NewJWTManager(cfg)

	store := memory.New()
	user := &models.User{Username: "staff1", FullName: "Staff", Role: models.RoleStaff}
	require.NoError(t, store.RunInTx(context.Background(), func(tx repositories.Tx) error {
		return tx.Users().Create(context.Background(), user)
	}))
	return NewAuthMiddleware(jwtManager, store), jwtManager, user
}

func echoActor(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"username": actor.Username, "role": string(actor.Role)})
}

func TestAuthenticate(t *testing.T) {
	mw, jwtManager, user := setup(t)
	handler := mw.Authenticate(http.HandlerFunc(echoActor))

	token, err := jwtManager.GenerateToken(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "staff1", body["username"])
	assert.Equal(t, "STAFF", body["role"])
}

func TestAuthenticateRejects(t *testing.T) {
	mw, jwtManager, _ := setup(t)
	handler := mw.Authenticate(http.HandlerFunc(echoActor))

	ghost, err := jwtManager.GenerateToken(&models.User{ID: "ghost", Username: "ghost", Role: models.RoleAdmin})
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":      "",
		"bad format":   "Token abc",
		"bad token":    "Bearer not-a-jwt",
		"deleted user": "Bearer " + ghost,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
		})
	}
}

func TestRequireRole(t *testing.T) {
	mw, jwtManager, user := setup(t)
	handler := mw.RequireRole(models.RoleAdmin)(http.HandlerFunc(echoActor))
	token, err := jwtManager.GenerateToken(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health/detailed", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNotifyOnWrite(t *testing.T) {
	calls := 0
	mw := NotifyOnWrite(func() { calls++ })
	ok := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) }))
	fail := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusConflict) }))

	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/rooms", nil))
	assert.Equal(t, 0, calls)
	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/rooms", nil))
	assert.Equal(t, 1, calls)
	fail.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/students", nil))
	assert.Equal(t, 1, calls)
}

func TestPanicRecovery(t *testing.T) {
	handler := PanicRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL")
}
