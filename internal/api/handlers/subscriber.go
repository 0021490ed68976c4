package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/mybestodds/mybestodds-go/internal/middleware"
	"github.com/mybestodds/mybestodds-go/internal/models"
)

type subscriberStore interface {
	CreateSubscriber(ctx context.Context, sub models.Subscriber) (*models.Subscriber, error)
	GetSubscriberByID(ctx context.Context, id string) (*models.Subscriber, error)
	GetSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	UpdateSubscriber(ctx context.Context, sub models.Subscriber) error
	DeleteSubscriber(ctx context.Context, id string) error
}

// SubscriberHandler handles subscriber registration, login and profile
// management.
type SubscriberHandler struct {
	store      subscriberStore
	auth       *middleware.AuthMiddleware
	bcryptCost int
	tokenTTL   time.Duration
	logger     *logrus.Logger
}

// NewSubscriberHandler creates a new subscriber handler.
func NewSubscriberHandler(store subscriberStore, auth *middleware.AuthMiddleware, bcryptCost int, tokenTTL time.Duration, logger *logrus.Logger) *SubscriberHandler {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &SubscriberHandler{
		store:      store,
		auth:       auth,
		bcryptCost: bcryptCost,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Subscriber models.SubscriberResponse `json:"subscriber"`
	Token      string                    `json:"token"`
}

type UpdateProfileRequest struct {
	FullName       *string  `json:"full_name,omitempty"`
	DateOfBirth    *string  `json:"date_of_birth,omitempty"`
	TelegramChatID *string  `json:"telegram_chat_id,omitempty"`
	Games          []string `json:"games,omitempty"`
	KitTier        *string  `json:"kit_tier,omitempty"`
}

// Register handles POST /api/v1/subscribers/register.
func (h *SubscriberHandler) Register(c *gin.Context) {
	var req models.SubscriberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", req.DateOfBirth); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_of_birth must be YYYY-MM-DD"})
			return
		}
	}
	for _, g := range req.Games {
		if _, ok := models.ParseGame(g); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown game: " + g})
			return
		}
	}

	existing, err := h.store.GetSubscriberByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check subscriber existence"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Subscriber already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	sub := models.Subscriber{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		DateOfBirth:  req.DateOfBirth,
		Games:        req.Games,
		KitTier:      req.KitTier,
	}
	if req.TelegramChatID != "" {
		sub.TelegramChatID = &req.TelegramChatID
	}
	if sub.KitTier == "" {
		sub.KitTier = "standard"
	}

	stored, err := h.store.CreateSubscriber(c.Request.Context(), sub)
	if err != nil {
		if h.logger != nil {
			h.logger.WithError(err).Error("Failed to create subscriber")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subscriber"})
		return
	}

	c.JSON(http.StatusCreated, toSubscriberResponse(stored))
}

// Login handles POST /api/v1/subscribers/login.
func (h *SubscriberHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sub, err := h.store.GetSubscriberByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up subscriber"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(sub.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := h.auth.GenerateToken(sub.ID, sub.Email, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Subscriber: toSubscriberResponse(sub),
		Token:      token,
	})
}

// GetProfile handles GET /api/v1/subscribers/profile.
func (h *SubscriberHandler) GetProfile(c *gin.Context) {
	sub, ok := h.currentSubscriber(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toSubscriberResponse(sub))
}

// UpdateProfile handles PUT /api/v1/subscribers/profile.
func (h *SubscriberHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sub, ok := h.currentSubscriber(c)
	if !ok {
		return
	}

	if req.FullName != nil {
		sub.FullName = *req.FullName
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth != "" {
			if _, err := time.Parse("2006-01-02", *req.DateOfBirth); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "date_of_birth must be YYYY-MM-DD"})
				return
			}
		}
		sub.DateOfBirth = *req.DateOfBirth
	}
	if req.TelegramChatID != nil {
		if *req.TelegramChatID == "" {
			sub.TelegramChatID = nil
		} else {
			sub.TelegramChatID = req.TelegramChatID
		}
	}
	if req.Games != nil {
		for _, g := range req.Games {
			if _, ok := models.ParseGame(g); !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown game: " + g})
				return
			}
		}
		sub.Games = req.Games
	}
	if req.KitTier != nil {
		sub.KitTier = *req.KitTier
	}

	if err := h.store.UpdateSubscriber(c.Request.Context(), *sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, toSubscriberResponse(sub))
}

// DeleteProfile handles DELETE /api/v1/subscribers/profile.
func (h *SubscriberHandler) DeleteProfile(c *gin.Context) {
	subscriberID := c.GetString("subscriber_id")
	if subscriberID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if err := h.store.DeleteSubscriber(c.Request.Context(), subscriberID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subscriber"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscriber deleted"})
}

func (h *SubscriberHandler) currentSubscriber(c *gin.Context) (*models.Subscriber, bool) {
	subscriberID := c.GetString("subscriber_id")
	if subscriberID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}

	sub, err := h.store.GetSubscriberByID(c.Request.Context(), subscriberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscriber not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriber"})
		return nil, false
	}
	return sub, true
}

func toSubscriberResponse(sub *models.Subscriber) models.SubscriberResponse {
	resp := models.SubscriberResponse{
		ID:          sub.ID,
		Email:       sub.Email,
		FullName:    sub.FullName,
		DateOfBirth: sub.DateOfBirth,
		Games:       sub.Games,
		KitTier:     sub.KitTier,
		CreatedAt:   sub.CreatedAt,
	}
	if sub.TelegramChatID != nil {
		resp.TelegramChatID = *sub.TelegramChatID
	}
	return resp
}
