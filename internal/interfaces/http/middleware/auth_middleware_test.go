package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"spay.backend/pkg/jwt"
)

func authRouter(svc *jwt.JWTService) (*gin.Engine, *uuid.UUID) {
	gin.SetMode(gin.TestMode)
	var captured uuid.UUID
	r := gin.New()
	r.Use(AuthMiddleware(svc))
	r.GET("/wallet", func(c *gin.Context) {
		id, ok := GetUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		captured = id
		c.Status(http.StatusOK)
	})
	return r, &captured
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r, _ := authRouter(jwt.NewJWTService("secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")
}

func TestAuthMiddleware_BadFormat(t *testing.T) {
	r, _ := authRouter(jwt.NewJWTService("secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
	req.Header.Set(AuthorizationHeader, "Basic abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Bearer")
}

func TestAuthMiddleware_ZeroPrincipalRejected(t *testing.T) {
	// A signed token whose userId claim resolves to the zero UUID must not
	// reach handlers; the zero value is reserved for internal jobs.
	svc := jwt.NewJWTService("secret", time.Hour)
	token, err := svc.GenerateToken(uuid.Nil, "ghost@example.com")
	require.NoError(t, err)

	r, captured := authRouter(svc)
	req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, uuid.Nil, *captured)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	r, _ := authRouter(jwt.NewJWTService("secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+"not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	issuer := jwt.NewJWTService("other-secret", time.Hour)
	token, err := issuer.GenerateToken(uuid.New(), "a@b.c")
	require.NoError(t, err)

	r, _ := authRouter(jwt.NewJWTService("secret", time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	svc := jwt.NewJWTService("secret", -time.Minute)
	token, err := svc.GenerateToken(uuid.New(), "a@b.c")
	require.NoError(t, err)

	r, _ := authRouter(svc)
	req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "expired")
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	svc := jwt.NewJWTService("secret", time.Hour)
	userID := uuid.New()
	token, err := svc.GenerateToken(userID, "a@b.c")
	require.NoError(t, err)

	r, captured := authRouter(svc)
	req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, userID, *captured)
}
