package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mybestodds/mybestodds-go/internal/models"
)

type mockDrawStore struct {
	mock.Mock
}

func (m *mockDrawStore) InsertDraw(ctx context.Context, draw models.Draw) (*models.Draw, error) {
	args := m.Called(ctx, draw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Draw), args.Error(1)
}

func (m *mockDrawStore) InsertJackpotDraw(ctx context.Context, draw models.JackpotDraw) (*models.JackpotDraw, error) {
	args := m.Called(ctx, draw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JackpotDraw), args.Error(1)
}

func (m *mockDrawStore) GetDrawHistory(ctx context.Context, game models.Game, since time.Time) ([]models.Draw, error) {
	args := m.Called(ctx, game, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Draw), args.Error(1)
}

func (m *mockDrawStore) GetJackpotHistory(ctx context.Context, game models.Game, since time.Time) ([]models.JackpotDraw, error) {
	args := m.Called(ctx, game, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.JackpotDraw), args.Error(1)
}

func (m *mockDrawStore) GetLatestDraw(ctx context.Context, game models.Game) (*models.Draw, error) {
	args := m.Called(ctx, game)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Draw), args.Error(1)
}

func drawRouter(h *DrawHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/draws", h.Ingest)
	router.GET("/draws/:game/latest", h.Latest)
	router.GET("/draws/:game/history", h.History)
	return router
}

func TestDrawHandler_Ingest(t *testing.T) {
	t.Run("pick game draw", func(t *testing.T) {
		store := new(mockDrawStore)
		store.On("InsertDraw", mock.Anything, mock.MatchedBy(func(d models.Draw) bool {
			return d.Game == models.GameCash3 && d.Digits == "406" && d.Session == models.SessionEvening
		})).Return(&models.Draw{ID: "draw-1", Game: models.GameCash3, Digits: "406"}, nil)

		w := postJSON(drawRouter(NewDrawHandler(store, logrus.New())), "/draws", models.DrawRequest{
			Game:    "cash3",
			Date:    "2025-06-01",
			Session: "evening",
			Digits:  "406",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		store.AssertExpectations(t)
	})

	t.Run("jackpot draw", func(t *testing.T) {
		store := new(mockDrawStore)
		store.On("InsertJackpotDraw", mock.Anything, mock.MatchedBy(func(d models.JackpotDraw) bool {
			return d.Game == models.GamePowerball && len(d.MainBalls) == 5 && d.BonusBall == 9
		})).Return(&models.JackpotDraw{ID: "draw-2", Game: models.GamePowerball}, nil)

		w := postJSON(drawRouter(NewDrawHandler(store, logrus.New())), "/draws", models.DrawRequest{
			Game:  "powerball",
			Date:  "2025-06-01",
			Main:  []int{7, 12, 23, 41, 55},
			Bonus: 9,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		store.AssertExpectations(t)
	})

	t.Run("wrong digit count", func(t *testing.T) {
		store := new(mockDrawStore)

		w := postJSON(drawRouter(NewDrawHandler(store, logrus.New())), "/draws", models.DrawRequest{
			Game:   "cash3",
			Date:   "2025-06-01",
			Digits: "4062",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		store.AssertNotCalled(t, "InsertDraw")
	})

	t.Run("jackpot without balls", func(t *testing.T) {
		store := new(mockDrawStore)

		w := postJSON(drawRouter(NewDrawHandler(store, logrus.New())), "/draws", models.DrawRequest{
			Game: "megamillions",
			Date: "2025-06-01",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		store := new(mockDrawStore)

		w := postJSON(drawRouter(NewDrawHandler(store, logrus.New())), "/draws", models.DrawRequest{
			Game:   "cash3",
			Date:   "06/01/2025",
			Digits: "406",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDrawHandler_Latest(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store := new(mockDrawStore)
		store.On("GetLatestDraw", mock.Anything, models.GameCash3).
			Return(&models.Draw{ID: "draw-1", Game: models.GameCash3, Digits: "406"}, nil)

		w := httptest.NewRecorder()
		drawRouter(NewDrawHandler(store, logrus.New())).ServeHTTP(w, httptest.NewRequest("GET", "/draws/cash3/latest", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "406")
	})

	t.Run("no draws yet", func(t *testing.T) {
		store := new(mockDrawStore)
		store.On("GetLatestDraw", mock.Anything, models.GameCash4).Return(nil, pgx.ErrNoRows)

		w := httptest.NewRecorder()
		drawRouter(NewDrawHandler(store, logrus.New())).ServeHTTP(w, httptest.NewRequest("GET", "/draws/cash4/latest", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("jackpot games rejected", func(t *testing.T) {
		store := new(mockDrawStore)

		w := httptest.NewRecorder()
		drawRouter(NewDrawHandler(store, logrus.New())).ServeHTTP(w, httptest.NewRequest("GET", "/draws/powerball/latest", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDrawHandler_History(t *testing.T) {
	t.Run("pick history with since", func(t *testing.T) {
		since, _ := time.Parse("2006-01-02", "2025-01-01")
		store := new(mockDrawStore)
		store.On("GetDrawHistory", mock.Anything, models.GameCash3, since).
			Return([]models.Draw{{Digits: "406"}, {Digits: "917"}}, nil)

		w := httptest.NewRecorder()
		drawRouter(NewDrawHandler(store, logrus.New())).ServeHTTP(w, httptest.NewRequest("GET", "/draws/cash3/history?since=2025-01-01", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"count":2`)
	})

	t.Run("jackpot history", func(t *testing.T) {
		store := new(mockDrawStore)
		store.On("GetJackpotHistory", mock.Anything, models.GamePowerball, mock.Anything).
			Return([]models.JackpotDraw{{MainBalls: []int{7, 12, 23, 41, 55}, BonusBall: 9}}, nil)

		w := httptest.NewRecorder()
		drawRouter(NewDrawHandler(store, logrus.New())).ServeHTTP(w, httptest.NewRequest("GET", "/draws/powerball/history", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"count":1`)
	})

	t.Run("unknown game", func(t *testing.T) {
		store := new(mockDrawStore)

		w := httptest.NewRecorder()
		drawRouter(NewDrawHandler(store, logrus.New())).ServeHTTP(w, httptest.NewRequest("GET", "/draws/keno/history", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
