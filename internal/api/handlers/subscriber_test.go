package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mybestodds/mybestodds-go/internal/middleware"
	"github.com/mybestodds/mybestodds-go/internal/models"
)

type mockSubscriberStore struct {
	mock.Mock
}

func (m *mockSubscriberStore) CreateSubscriber(ctx context.Context, sub models.Subscriber) (*models.Subscriber, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscriber), args.Error(1)
}

func (m *mockSubscriberStore) GetSubscriberByID(ctx context.Context, id string) (*models.Subscriber, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscriber), args.Error(1)
}

func (m *mockSubscriberStore) GetSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscriber), args.Error(1)
}

func (m *mockSubscriberStore) UpdateSubscriber(ctx context.Context, sub models.Subscriber) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *mockSubscriberStore) DeleteSubscriber(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func subscriberTestRouter(h *SubscriberHandler, subscriberID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)

	authed := router.Group("")
	authed.Use(func(c *gin.Context) {
		if subscriberID != "" {
			c.Set("subscriber_id", subscriberID)
		}
		c.Next()
	})
	authed.GET("/profile", h.GetProfile)
	authed.PUT("/profile", h.UpdateProfile)
	authed.DELETE("/profile", h.DeleteProfile)
	return router
}

func newSubscriberHandler(store *mockSubscriberStore) *SubscriberHandler {
	auth := middleware.NewAuthMiddleware("test-secret")
	return NewSubscriberHandler(store, auth, bcrypt.MinCost, time.Hour, logrus.New())
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubscriberHandler_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := new(mockSubscriberStore)
		store.On("GetSubscriberByEmail", mock.Anything, "player@example.com").Return(nil, pgx.ErrNoRows)
		store.On("CreateSubscriber", mock.Anything, mock.MatchedBy(func(sub models.Subscriber) bool {
			return sub.Email == "player@example.com" && sub.KitTier == "standard" && sub.PasswordHash != "hunter2secret"
		})).Return(&models.Subscriber{ID: "sub-1", Email: "player@example.com", KitTier: "standard"}, nil)

		w := postJSON(subscriberTestRouter(newSubscriberHandler(store), ""), "/register", models.SubscriberRequest{
			Email:       "player@example.com",
			Password:    "hunter2secret",
			DateOfBirth: "1984-04-06",
			Games:       []string{"cash3"},
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "sub-1")
		store.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		store := new(mockSubscriberStore)
		store.On("GetSubscriberByEmail", mock.Anything, "player@example.com").
			Return(&models.Subscriber{ID: "sub-1"}, nil)

		w := postJSON(subscriberTestRouter(newSubscriberHandler(store), ""), "/register", models.SubscriberRequest{
			Email:    "player@example.com",
			Password: "hunter2secret",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("bad date of birth", func(t *testing.T) {
		store := new(mockSubscriberStore)

		w := postJSON(subscriberTestRouter(newSubscriberHandler(store), ""), "/register", models.SubscriberRequest{
			Email:       "player@example.com",
			Password:    "hunter2secret",
			DateOfBirth: "04/06/1984",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		store.AssertNotCalled(t, "CreateSubscriber")
	})

	t.Run("unknown game", func(t *testing.T) {
		store := new(mockSubscriberStore)

		w := postJSON(subscriberTestRouter(newSubscriberHandler(store), ""), "/register", models.SubscriberRequest{
			Email:    "player@example.com",
			Password: "hunter2secret",
			Games:    []string{"keno"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("short password rejected by binding", func(t *testing.T) {
		store := new(mockSubscriberStore)

		w := postJSON(subscriberTestRouter(newSubscriberHandler(store), ""), "/register", models.SubscriberRequest{
			Email:    "player@example.com",
			Password: "short",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSubscriberHandler_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2secret"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.Subscriber{ID: "sub-1", Email: "player@example.com", PasswordHash: string(hash)}

	t.Run("success", func(t *testing.T) {
		store := new(mockSubscriberStore)
		store.On("GetSubscriberByEmail", mock.Anything, "player@example.com").Return(stored, nil)

		w := postJSON(subscriberTestRouter(newSubscriberHandler(store), ""), "/login", LoginRequest{
			Email:    "player@example.com",
			Password: "hunter2secret",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "sub-1", resp.Subscriber.ID)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		store := new(mockSubscriberStore)
		store.On("GetSubscriberByEmail", mock.Anything, "player@example.com").Return(stored, nil)

		w := postJSON(subscriberTestRouter(newSubscriberHandler(store), ""), "/login", LoginRequest{
			Email:    "player@example.com",
			Password: "wrong-password",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		store := new(mockSubscriberStore)
		store.On("GetSubscriberByEmail", mock.Anything, "nobody@example.com").Return(nil, pgx.ErrNoRows)

		w := postJSON(subscriberTestRouter(newSubscriberHandler(store), ""), "/login", LoginRequest{
			Email:    "nobody@example.com",
			Password: "hunter2secret",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSubscriberHandler_Profile(t *testing.T) {
	chatID := "12345"
	stored := &models.Subscriber{
		ID:             "sub-1",
		Email:          "player@example.com",
		FullName:       "Test Player",
		DateOfBirth:    "1984-04-06",
		TelegramChatID: &chatID,
		Games:          []string{"CASH3"},
		KitTier:        "standard",
	}

	t.Run("get profile", func(t *testing.T) {
		store := new(mockSubscriberStore)
		store.On("GetSubscriberByID", mock.Anything, "sub-1").Return(stored, nil)

		router := subscriberTestRouter(newSubscriberHandler(store), "sub-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/profile", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Test Player")
		assert.Contains(t, w.Body.String(), "12345")
	})

	t.Run("get profile unauthenticated", func(t *testing.T) {
		store := new(mockSubscriberStore)

		router := subscriberTestRouter(newSubscriberHandler(store), "")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/profile", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("update games", func(t *testing.T) {
		store := new(mockSubscriberStore)
		copied := *stored
		store.On("GetSubscriberByID", mock.Anything, "sub-1").Return(&copied, nil)
		store.On("UpdateSubscriber", mock.Anything, mock.MatchedBy(func(sub models.Subscriber) bool {
			return len(sub.Games) == 2 && sub.Games[1] == "powerball"
		})).Return(nil)

		router := subscriberTestRouter(newSubscriberHandler(store), "sub-1")
		payload, _ := json.Marshal(UpdateProfileRequest{Games: []string{"cash3", "powerball"}})
		req := httptest.NewRequest("PUT", "/profile", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		store.AssertExpectations(t)
	})

	t.Run("delete profile", func(t *testing.T) {
		store := new(mockSubscriberStore)
		store.On("DeleteSubscriber", mock.Anything, "sub-1").Return(nil)

		router := subscriberTestRouter(newSubscriberHandler(store), "sub-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("DELETE", "/profile", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		store.AssertExpectations(t)
	})
}
