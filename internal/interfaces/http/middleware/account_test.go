package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquotrack/stocksip/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAccountTestRouter(cfg AccountMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(AccountMiddlewareWithConfig(cfg))
	router.GET("/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"account_id": GetAccountID(c)})
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestAccountMiddleware(t *testing.T) {
	accountID := uuid.New()

	t.Run("extracts account from header", func(t *testing.T) {
		router := newAccountTestRouter(DefaultAccountConfig())

		req := httptest.NewRequest("GET", "/orders", nil)
		req.Header.Set(AccountHeaderKey, accountID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), accountID.String())
	})

	t.Run("rejects missing header when required", func(t *testing.T) {
		router := newAccountTestRouter(DefaultAccountConfig())

		req := httptest.NewRequest("GET", "/orders", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
	})

	t.Run("rejects malformed account ID", func(t *testing.T) {
		router := newAccountTestRouter(DefaultAccountConfig())

		req := httptest.NewRequest("GET", "/orders", nil)
		req.Header.Set(AccountHeaderKey, "not-a-uuid")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skips configured paths", func(t *testing.T) {
		router := newAccountTestRouter(DefaultAccountConfig())

		req := httptest.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("optional mode allows anonymous requests", func(t *testing.T) {
		cfg := DefaultAccountConfig()
		cfg.Required = false
		router := newAccountTestRouter(cfg)

		req := httptest.NewRequest("GET", "/orders", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetAccountUUID(t *testing.T) {
	accountID := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(AccountIDKey, accountID.String())

	parsed, err := GetAccountUUID(c)
	require.NoError(t, err)
	assert.Equal(t, accountID, parsed)

	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err = GetAccountUUID(c2)
	assert.Error(t, err)
}
