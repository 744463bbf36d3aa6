package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-inventory-api/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedRouter(minLevel int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/api")
	group.Use(AuthMiddleware())
	if minLevel > 0 {
		group.Use(RequirePermission(minLevel))
	}
	group.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet("userID")})
	})
	return r
}

func request(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newGuardedRouter(0)

	t.Run("rejects a missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, request(r, "").Code)
	})

	t.Run("rejects a non-bearer header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, request(r, "Basic abc123").Code)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, request(r, "Bearer not.a.token").Code)
	})

	t.Run("accepts a signed token", func(t *testing.T) {
		token, err := auth.GenerateToken(7, "alice", 1)
		require.NoError(t, err)
		w := request(r, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":7`)
	})
}

func TestRequirePermission(t *testing.T) {
	r := newGuardedRouter(2)

	t.Run("blocks a lower level", func(t *testing.T) {
		token, err := auth.GenerateToken(7, "alice", 1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, request(r, "Bearer "+token).Code)
	})

	t.Run("passes an equal level", func(t *testing.T) {
		token, err := auth.GenerateToken(8, "root", 2)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, request(r, "Bearer "+token).Code)
	})
}
