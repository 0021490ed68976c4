package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mybestodds/mybestodds-go/internal/middleware"
	"github.com/mybestodds/mybestodds-go/internal/models"
	"github.com/mybestodds/mybestodds-go/internal/services"
	"github.com/mybestodds/mybestodds-go/internal/telemetry"
)

type forecastRunner interface {
	Run(ctx context.Context, req services.RunRequest) ([]models.ForecastRow, error)
	RunBatch(ctx context.Context, subscribers []models.Subscriber, game models.Game, date time.Time, session models.DrawSession, candidates []models.Candidate) map[string][]models.ForecastRow
}

type forecastReader interface {
	GetForecastsForSubscriber(ctx context.Context, subscriberID string, date time.Time) ([]models.ForecastRow, error)
	PurgeForecastsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type subscriberDirectory interface {
	GetSubscriberByID(ctx context.Context, id string) (*models.Subscriber, error)
	ListSubscribersForGame(ctx context.Context, game models.Game) ([]models.Subscriber, error)
}

type kitDeliverer interface {
	DeliverForecasts(ctx context.Context, subscribers []models.Subscriber, rowsBySubscriber map[string][]models.ForecastRow) int
}

// ForecastHandler handles forecast runs, retrieval and exports.
type ForecastHandler struct {
	service     forecastRunner
	forecasts   forecastReader
	subscribers subscriberDirectory
	notifier    kitDeliverer
	exporter    *services.Exporter
	tracer      *telemetry.ForecastTracer
	monitor     *services.PerformanceMonitor
	outputDir   string
	logger      *logrus.Logger
}

// NewForecastHandler creates a new forecast handler. outputDir is where batch
// runs place per-subscriber kit files when asked to.
func NewForecastHandler(service forecastRunner, forecasts forecastReader, subscribers subscriberDirectory, notifier kitDeliverer, exporter *services.Exporter, monitor *services.PerformanceMonitor, outputDir string, logger *logrus.Logger) *ForecastHandler {
	return &ForecastHandler{
		service:     service,
		forecasts:   forecasts,
		subscribers: subscribers,
		notifier:    notifier,
		exporter:    exporter,
		tracer:      telemetry.NewForecastTracer(),
		monitor:     monitor,
		outputDir:   outputDir,
		logger:      logger,
	}
}

// BatchRequest describes an admin-triggered batch run for every subscriber
// of a game.
type BatchRequest struct {
	Game       string   `json:"game" binding:"required"`
	Date       string   `json:"date" binding:"required"`
	Session    string   `json:"session"`
	Candidates []string `json:"candidates" binding:"required"`
	Deliver    bool     `json:"deliver"`
	WriteFiles bool     `json:"write_files"`
}

// Run handles POST /api/v1/forecasts/run.
func (h *ForecastHandler) Run(c *gin.Context) {
	var req models.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	game, ok := models.ParseGame(req.Game)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown game: " + req.Game})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	session := models.ParseDrawSession(req.Session)

	subscriberID := req.SubscriberID
	if subscriberID == "" {
		subscriberID = c.GetString("subscriber_id")
	}
	if subscriberID != c.GetString("subscriber_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot run forecasts for another subscriber"})
		return
	}

	sub, err := h.subscribers.GetSubscriberByID(c.Request.Context(), subscriberID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscriber not found"})
		return
	}

	candidates := services.ParseCandidates(game, req.Candidates)
	if len(candidates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No parseable candidates"})
		return
	}

	ctx, span := h.tracer.TraceForecastRun(c.Request.Context(), string(game), string(session), len(candidates))
	defer span.End()

	start := time.Now()
	rows, err := h.service.Run(ctx, services.RunRequest{
		Subscriber: *sub,
		Game:       game,
		Date:       date,
		Session:    session,
		Candidates: candidates,
	})
	elapsed := time.Since(start)

	h.tracer.RecordRunResult(span, runResult(rows, elapsed, err))
	if h.monitor != nil {
		h.monitor.RecordRun(len(rows), elapsed, err != nil)
	}

	if err != nil {
		middleware.RecordError(c, err, "forecast run failed")
		if h.logger != nil {
			h.logger.WithError(err).Error("Forecast run failed")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Forecast run failed"})
		return
	}

	middleware.AddSpanAttribute(c, "forecast.rows", len(rows))
	c.JSON(http.StatusOK, gin.H{
		"rows":  rows,
		"count": len(rows),
	})
}

// List handles GET /api/v1/forecasts?date=YYYY-MM-DD.
func (h *ForecastHandler) List(c *gin.Context) {
	date, ok := h.queryDate(c, "date", time.Now())
	if !ok {
		return
	}

	rows, err := h.forecasts.GetForecastsForSubscriber(c.Request.Context(), c.GetString("subscriber_id"), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load forecasts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":  rows,
		"count": len(rows),
	})
}

// Export handles GET /api/v1/forecasts/export?date=YYYY-MM-DD&format=csv|json|xlsx.
func (h *ForecastHandler) Export(c *gin.Context) {
	date, ok := h.queryDate(c, "date", time.Now())
	if !ok {
		return
	}
	format := c.DefaultQuery("format", "csv")

	rows, err := h.forecasts.GetForecastsForSubscriber(c.Request.Context(), c.GetString("subscriber_id"), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load forecasts"})
		return
	}

	_, span := h.tracer.TraceExport(c.Request.Context(), format, len(rows))
	defer span.End()

	filename := fmt.Sprintf("forecast_%s.%s", date.Format("2006-01-02"), format)
	switch format {
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename="+filename)
		err = h.exporter.WriteCSV(c.Writer, rows)
	case "json":
		c.Header("Content-Type", "application/json")
		c.Header("Content-Disposition", "attachment; filename="+filename)
		err = h.exporter.WriteJSON(c.Writer, rows)
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename="+filename)
		err = h.exporter.WriteExcel(c.Writer, rows)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown export format: " + format})
		return
	}

	if err != nil {
		middleware.RecordError(c, err, "forecast export failed")
		if h.logger != nil {
			h.logger.WithError(err).WithField("format", format).Error("Forecast export failed")
		}
	}
}

// RunBatch handles POST /api/v1/admin/forecasts/batch.
func (h *ForecastHandler) RunBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	game, ok := models.ParseGame(req.Game)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown game: " + req.Game})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	session := models.ParseDrawSession(req.Session)

	candidates := services.ParseCandidates(game, req.Candidates)
	if len(candidates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No parseable candidates"})
		return
	}

	subs, err := h.subscribers.ListSubscribersForGame(c.Request.Context(), game)
	if err != nil {
		middleware.RecordError(c, err, "subscriber listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list subscribers"})
		return
	}
	if len(subs) == 0 {
		c.JSON(http.StatusOK, gin.H{"subscribers": 0, "rows": 0, "delivered": 0, "kit_files": 0})
		return
	}

	results := h.service.RunBatch(c.Request.Context(), subs, game, date, session, candidates)

	totalRows := 0
	for _, rows := range results {
		totalRows += len(rows)
	}

	filesWritten := 0
	if req.WriteFiles && h.outputDir != "" && h.exporter != nil {
		for _, sub := range subs {
			paths, err := h.exporter.WriteKitFiles(h.outputDir, sub.ID, results[sub.ID])
			if err != nil && h.logger != nil {
				h.logger.WithError(err).WithField("subscriber", sub.ID).Warn("Failed to write kit files")
			}
			filesWritten += len(paths)
		}
	}

	delivered := 0
	if req.Deliver && h.notifier != nil {
		ctx, span := h.tracer.TraceKitDelivery(c.Request.Context(), "telegram", len(subs))
		delivered = h.notifier.DeliverForecasts(ctx, subs, results)
		h.tracer.RecordDeliveryResult(span, delivered, len(subs)-delivered)
		span.End()
		if h.monitor != nil {
			h.monitor.RecordDeliveries(delivered)
		}
	}

	middleware.AddSpanAttribute(c, "batch.subscribers", len(subs))
	middleware.AddSpanAttribute(c, "batch.rows", totalRows)
	c.JSON(http.StatusOK, gin.H{
		"subscribers": len(subs),
		"rows":        totalRows,
		"delivered":   delivered,
		"kit_files":   filesWritten,
	})
}

// Purge handles DELETE /api/v1/admin/forecasts?before=YYYY-MM-DD.
func (h *ForecastHandler) Purge(c *gin.Context) {
	before := c.Query("before")
	if before == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "before query parameter required"})
		return
	}
	cutoff, err := time.Parse("2006-01-02", before)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "before must be YYYY-MM-DD"})
		return
	}

	purged, err := h.forecasts.PurgeForecastsBefore(c.Request.Context(), cutoff)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purge forecasts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"purged": purged})
}

func (h *ForecastHandler) queryDate(c *gin.Context, key string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return fallback.Truncate(24 * time.Hour), true
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

func runResult(rows []models.ForecastRow, elapsed time.Duration, err error) telemetry.RunResult {
	result := telemetry.RunResult{
		RowsScored: len(rows),
		Elapsed:    elapsed,
		Err:        err,
	}
	for _, row := range rows {
		switch row.Band {
		case models.BandGreen:
			result.GreenCount++
		case models.BandSkip:
			result.SkipCount++
		}
		result.OverlaySource = row.CalculationSource
	}
	return result
}
