package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/mybestodds/mybestodds-go/internal/services"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) HealthCheck(ctx context.Context) error {
	return f.err
}

func healthRouter(h *HealthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", h.Check)
	router.GET("/live", h.Live)
	router.GET("/ready", h.Ready)
	router.GET("/metrics", h.Metrics)
	return router
}

func TestHealthHandler_Check(t *testing.T) {
	t.Run("all services healthy", func(t *testing.T) {
		h := NewHealthHandler(&fakePinger{}, &fakePinger{}, nil, "3.7.0")
		w := httptest.NewRecorder()

		healthRouter(h).ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
		assert.Contains(t, w.Body.String(), "3.7.0")
	})

	t.Run("database down degrades", func(t *testing.T) {
		h := NewHealthHandler(&fakePinger{err: errors.New("down")}, &fakePinger{}, nil, "3.7.0")
		w := httptest.NewRecorder()

		healthRouter(h).ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"degraded"`)
		assert.Contains(t, w.Body.String(), `"database":"error"`)
		assert.Contains(t, w.Body.String(), `"redis":"ok"`)
	})

	t.Run("redis down degrades", func(t *testing.T) {
		h := NewHealthHandler(&fakePinger{}, &fakePinger{err: errors.New("down")}, nil, "3.7.0")
		w := httptest.NewRecorder()

		healthRouter(h).ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"redis":"error"`)
	})
}

func TestHealthHandler_Live(t *testing.T) {
	h := NewHealthHandler(nil, nil, nil, "3.7.0")
	w := httptest.NewRecorder()

	healthRouter(h).ServeHTTP(w, httptest.NewRequest("GET", "/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alive")
}

func TestHealthHandler_Ready(t *testing.T) {
	t.Run("database up", func(t *testing.T) {
		h := NewHealthHandler(&fakePinger{}, &fakePinger{}, nil, "3.7.0")
		w := httptest.NewRecorder()

		healthRouter(h).ServeHTTP(w, httptest.NewRequest("GET", "/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("database down", func(t *testing.T) {
		h := NewHealthHandler(&fakePinger{err: errors.New("down")}, &fakePinger{}, nil, "3.7.0")
		w := httptest.NewRecorder()

		healthRouter(h).ServeHTTP(w, httptest.NewRequest("GET", "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHealthHandler_Metrics(t *testing.T) {
	t.Run("with monitor", func(t *testing.T) {
		monitor := services.NewPerformanceMonitor(logrus.New())
		h := NewHealthHandler(&fakePinger{}, &fakePinger{}, monitor, "3.7.0")
		w := httptest.NewRecorder()

		healthRouter(h).ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "runs")
		assert.Contains(t, w.Body.String(), "system")
	})

	t.Run("without monitor", func(t *testing.T) {
		h := NewHealthHandler(&fakePinger{}, &fakePinger{}, nil, "3.7.0")
		w := httptest.NewRecorder()

		healthRouter(h).ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
