package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/liquotrack/stocksip/internal/infrastructure/config"
	"github.com/liquotrack/stocksip/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine() *gin.Engine {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.HTTP.MaxBodySize = 1 << 20

	return New(cfg, zap.NewNop(), Handlers{
		System:        handler.NewSystemHandler(nil, "test"),
		Catalog:       &handler.CatalogHandler{},
		PurchaseOrder: &handler.PurchaseOrderHandler{},
		SalesOrder:    &handler.SalesOrderHandler{},
		Inventory:     &handler.InventoryHandler{},
		Alert:         &handler.AlertHandler{},
	})
}

func TestNewRegistersRoutes(t *testing.T) {
	engine := newTestEngine()

	registered := make(map[string]bool)
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	expected := []string{
		"GET /health",
		"GET /api/v1/system/ping",
		"POST /api/v1/catalogs",
		"GET /api/v1/catalogs/published",
		"POST /api/v1/catalogs/:id/publish",
		"POST /api/v1/purchase-orders/:id/confirm",
		"POST /api/v1/purchase-orders/:id/convert",
		"POST /api/v1/sales-orders/:id/delivery-proposal",
		"POST /api/v1/sales-orders/replenishment/:catalog_id",
		"POST /api/v1/inventory/transfer",
		"GET /api/v1/inventory/low-stock",
		"POST /api/v1/alerts/:id/acknowledge",
		"POST /api/v1/alerts/purge",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "route %s not registered", route)
	}
}

func TestSystemPingSkipsAccountCheck(t *testing.T) {
	engine := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAPIRequiresAccountHeader(t *testing.T) {
	engine := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalogs", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")
}
