package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mybestodds/mybestodds-go/internal/services"
)

type pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler reports service health and operational metrics.
type HealthHandler struct {
	db      pinger
	redis   pinger
	monitor *services.PerformanceMonitor
	version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db, redis pinger, monitor *services.PerformanceMonitor, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		redis:   redis,
		monitor: monitor,
		version: version,
	}
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Services  Services  `json:"services"`
}

type Services struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Check handles GET /health.
func (h *HealthHandler) Check(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Services: Services{
			Database: "ok",
			Redis:    "ok",
		},
	}

	if h.db == nil || h.db.HealthCheck(c.Request.Context()) != nil {
		response.Services.Database = "error"
		response.Status = "degraded"
	}

	if h.redis == nil || h.redis.HealthCheck(c.Request.Context()) != nil {
		response.Services.Redis = "error"
		response.Status = "degraded"
	}

	statusCode := http.StatusOK
	if response.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

// Live handles GET /live. It answers as long as the process is running.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Ready handles GET /ready. The service is ready once the database answers.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db == nil || h.db.HealthCheck(c.Request.Context()) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Metrics handles GET /api/v1/admin/metrics.
func (h *HealthHandler) Metrics(c *gin.Context) {
	if h.monitor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Metrics not available"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":      h.monitor.RunStats(),
		"system":    h.monitor.UpdateSystemMetrics(c.Request.Context()),
		"timestamp": time.Now(),
	})
}
