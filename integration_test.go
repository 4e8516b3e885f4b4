package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/shopfloor-tracker-api/config"
	"github.com/kendall-kelly/shopfloor-tracker-api/models"
	"github.com/kendall-kelly/shopfloor-tracker-api/services"
	"github.com/kendall-kelly/shopfloor-tracker-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newTestRouter wires the full router over an in-memory database with auth disabled
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenTestDB(t)
	cfg := testutil.TestConfig("")
	config.SetDB(db)
	config.SetConfig(cfg)
	services.InitAuditRecorder(services.NewGormAuditRecorder(db))
	services.NewMockS3Service().SetAsMockForTesting()
	t.Cleanup(func() {
		services.SetAuditRecorder(nil)
		services.SetS3Service(nil)
	})

	return setupRouter(cfg, zap.NewNop()), db
}

func serve(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, http.MethodGet, "/api/v1/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
}

// TestHealthEndpointMethod tests that only GET method is allowed
func TestHealthEndpointMethod(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		w := serve(router, method, "/api/v1/health", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s should not be allowed", method)
	}
}

// TestAPIV1Prefix tests that the endpoint requires /api/v1 prefix
func TestAPIV1Prefix(t *testing.T) {
	router, _ := newTestRouter(t)

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/work-orders", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/v1/work-orders", "", nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, http.MethodOptions, "/api/v1/work-orders", "", map[string]string{
		"Origin":                         "https://floor.example.com",
		"Access-Control-Request-Method":  http.MethodPut,
		"Access-Control-Request-Headers": "X-Station",
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutesEndToEnd(t *testing.T) {
	router, db := newTestRouter(t)
	wo := testutil.NewWorkOrder(t, db, "Kitchen")
	product := wo.Product("Base")
	drawer := wo.Subassembly("Drawer", product.ID)
	tray := wo.Subassembly("Tray", product.ID)
	part := wo.Part("Side", models.ParentProduct, product.ID, models.StatusPending)
	hinge := wo.Hardware("Hinge", &product.ID)
	base := "/api/v1/work-orders/" + wo.WorkOrder.ID
	station := map[string]string{"X-Station": "Edgebanding", "X-Session-ID": "s-1"}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"summary", http.MethodGet, base, "", http.StatusOK},
		{"tree", http.MethodGet, base + "/tree?include_status=true", "", http.StatusOK},
		{"tree bad flag", http.MethodGet, base + "/tree?include_status=maybe", "", http.StatusBadRequest},
		{"category", http.MethodPut, base + "/parts/" + part.ID + "/category", `{"category":"Carcass"}`, http.StatusOK},
		{"category missing body", http.MethodPut, base + "/parts/" + part.ID + "/category", `{}`, http.StatusBadRequest},
		{"part status", http.MethodPut, base + "/parts/" + part.ID + "/status", `{"status":"Cut"}`, http.StatusOK},
		{"hardware status", http.MethodPut, base + "/hardware/" + hinge.ID + "/status", `{"status":"Sorted"}`, http.StatusOK},
		{"move", http.MethodPut, base + "/subassemblies/" + tray.ID + "/parent", fmt.Sprintf(`{"parent_kind":"subassembly","parent_id":%q}`, drawer.ID), http.StatusOK},
		{"move cycle", http.MethodPut, base + "/subassemblies/" + drawer.ID + "/parent", fmt.Sprintf(`{"parent_kind":"subassembly","parent_id":%q}`, tray.ID), http.StatusBadRequest},
		{"audit", http.MethodGet, base + "/audit", "", http.StatusOK},
		{"export", http.MethodPost, base + "/audit/export", "", http.StatusCreated},
		{"delete product", http.MethodDelete, base + "/products/" + product.ID, "", http.StatusOK},
		{"delete again", http.MethodDelete, base + "/products/" + product.ID, "", http.StatusNotFound},
	}

	for _, tt := range tests {
		w := serve(router, tt.method, tt.path, tt.body, station)
		assert.Equal(t, tt.status, w.Code, "%s: %s", tt.name, w.Body.String())
	}

	var audits []models.AuditLog
	require.NoError(t, db.Order("timestamp ASC").Find(&audits).Error)
	require.Len(t, audits, 5)
	for _, row := range audits {
		assert.Equal(t, "Edgebanding", row.Station)
		assert.Equal(t, "s-1", row.SessionID)
	}
	assert.Equal(t, services.AuditActionDeleted, audits[4].Action)
}

func TestMutationRoutesRequireTokenWhenAuthConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.SetDB(testutil.OpenTestDB(t))
	router := setupRouter(testutil.TestConfig("test.auth0.com"), zap.NewNop())

	w := serve(router, http.MethodDelete, "/api/v1/work-orders/wo-1/parts/p-1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(router, http.MethodGet, "/api/v1/work-orders", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
