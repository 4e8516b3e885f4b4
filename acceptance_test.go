package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestServerStartup verifies the full router can be assembled
func TestServerStartup(t *testing.T) {
	router, _ := newTestRouter(t)
	assert.NotNil(t, router, "Router should be initialized")
	assert.NotEmpty(t, router.Routes())
}

// TestHealthEndpointAvailability tests that the health endpoint is available immediately
func TestHealthEndpointAvailability(t *testing.T) {
	router, _ := newTestRouter(t)

	for i := 0; i < 5; i++ {
		w := serve(router, http.MethodGet, "/api/v1/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code, fmt.Sprintf("Request %d should succeed", i+1))

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, true, response["success"], fmt.Sprintf("Request %d should have success=true", i+1))
	}
}

// TestHealthEndpointResponseTime tests that the endpoint responds quickly
func TestHealthEndpointResponseTime(t *testing.T) {
	router, _ := newTestRouter(t)

	start := time.Now()
	serve(router, http.MethodGet, "/api/v1/health", "", nil)

	assert.Less(t, time.Since(start), 100*time.Millisecond, "Health endpoint should respond in less than 100ms")
}

// TestEveryRouteRegistered checks the public route table
func TestEveryRouteRegistered(t *testing.T) {
	router, _ := newTestRouter(t)

	registered := make(map[string]bool)
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, expected := range []string{
		"GET /api/v1/health",
		"GET /api/v1/database/status",
		"GET /api/v1/work-orders",
		"GET /api/v1/work-orders/:id",
		"GET /api/v1/work-orders/:id/tree",
		"GET /api/v1/work-orders/:id/audit",
		"POST /api/v1/work-orders/:id/audit/export",
		"PUT /api/v1/work-orders/:id/parts/:partId/category",
		"PUT /api/v1/work-orders/:id/parts/:partId/status",
		"PUT /api/v1/work-orders/:id/hardware/:hardwareId/status",
		"PUT /api/v1/work-orders/:id/subassemblies/:subId/parent",
		"DELETE /api/v1/work-orders/:id/:kind/:entityId",
	} {
		assert.True(t, registered[expected], "missing route %s", expected)
	}
}
