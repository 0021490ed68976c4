package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/mybestodds/mybestodds-go/internal/models"
)

type drawStore interface {
	InsertDraw(ctx context.Context, draw models.Draw) (*models.Draw, error)
	InsertJackpotDraw(ctx context.Context, draw models.JackpotDraw) (*models.JackpotDraw, error)
	GetDrawHistory(ctx context.Context, game models.Game, since time.Time) ([]models.Draw, error)
	GetJackpotHistory(ctx context.Context, game models.Game, since time.Time) ([]models.JackpotDraw, error)
	GetLatestDraw(ctx context.Context, game models.Game) (*models.Draw, error)
}

// DrawHandler handles draw ingestion and history retrieval.
type DrawHandler struct {
	store  drawStore
	logger *logrus.Logger
}

// NewDrawHandler creates a new draw handler.
func NewDrawHandler(store drawStore, logger *logrus.Logger) *DrawHandler {
	return &DrawHandler{store: store, logger: logger}
}

// Ingest handles POST /api/v1/admin/draws.
func (h *DrawHandler) Ingest(c *gin.Context) {
	var req models.DrawRequest
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

	if game.IsJackpot() {
		if len(req.Main) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "main_balls required for jackpot games"})
			return
		}
		stored, err := h.store.InsertJackpotDraw(c.Request.Context(), models.JackpotDraw{
			Game:      game,
			Date:      date,
			MainBalls: req.Main,
			BonusBall: req.Bonus,
		})
		if err != nil {
			if h.logger != nil {
				h.logger.WithError(err).Error("Failed to insert jackpot draw")
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store draw"})
			return
		}
		c.JSON(http.StatusCreated, stored)
		return
	}

	if !validDigits(req.Digits, game.NumDigits()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "digits must be exactly the game's digit count"})
		return
	}
	stored, err := h.store.InsertDraw(c.Request.Context(), models.Draw{
		Game:    game,
		Date:    date,
		Session: models.ParseDrawSession(req.Session),
		Digits:  req.Digits,
	})
	if err != nil {
		if h.logger != nil {
			h.logger.WithError(err).Error("Failed to insert draw")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store draw"})
		return
	}
	c.JSON(http.StatusCreated, stored)
}

// Latest handles GET /api/v1/draws/:game/latest.
func (h *DrawHandler) Latest(c *gin.Context) {
	game, ok := models.ParseGame(c.Param("game"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown game: " + c.Param("game")})
		return
	}
	if game.IsJackpot() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Latest draw lookup is for pick games; use history for jackpot games"})
		return
	}

	draw, err := h.store.GetLatestDraw(c.Request.Context(), game)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No draws recorded for " + string(game)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load draw"})
		return
	}
	c.JSON(http.StatusOK, draw)
}

// History handles GET /api/v1/draws/:game/history?since=YYYY-MM-DD.
func (h *DrawHandler) History(c *gin.Context) {
	game, ok := models.ParseGame(c.Param("game"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown game: " + c.Param("game")})
		return
	}

	since := time.Now().AddDate(-1, 0, 0)
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be YYYY-MM-DD"})
			return
		}
		since = parsed
	}

	if game.IsJackpot() {
		draws, err := h.store.GetJackpotHistory(c.Request.Context(), game, since)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load draw history"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"draws": draws, "count": len(draws)})
		return
	}

	draws, err := h.store.GetDrawHistory(c.Request.Context(), game, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load draw history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draws": draws, "count": len(draws)})
}

func validDigits(s string, want int) bool {
	if len(s) != want {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
