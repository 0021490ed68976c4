package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/mybestodds/mybestodds-go/internal/api/handlers"
	"github.com/mybestodds/mybestodds-go/internal/middleware"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	logger := logrus.New()
	SetupRoutes(router, RouterDeps{
		Health:      handlers.NewHealthHandler(nil, nil, nil, "test"),
		Subscribers: handlers.NewSubscriberHandler(nil, middleware.NewAuthMiddleware("secret"), 10, 0, logger),
		Forecasts:   handlers.NewForecastHandler(nil, nil, nil, nil, nil, nil, "", logger),
		Draws:       handlers.NewDrawHandler(nil, logger),
		Auth:        middleware.NewAuthMiddleware("secret"),
		Admin:       middleware.NewAdminMiddleware("admin-key"),
	})
	return router
}

func TestSetupRoutes(t *testing.T) {
	router := testRouter()

	t.Run("liveness is open", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/live", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("health reports degraded without backends", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("forecasts require authentication", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/forecasts", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("draw history stays public with a bad bearer token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/draws/nope/latest", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("admin endpoints require the API key", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/admin/metrics", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
