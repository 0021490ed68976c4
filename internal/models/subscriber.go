package models

import (
	"time"
)

// Subscriber represents a forecast-kit subscriber.
type Subscriber struct {
	ID             string    `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	FullName       string    `json:"full_name" db:"full_name"`
	DateOfBirth    string    `json:"date_of_birth" db:"date_of_birth"` // YYYY-MM-DD, drives life-path numerology
	TelegramChatID *string   `json:"telegram_chat_id" db:"telegram_chat_id"`
	Games          []string  `json:"games" db:"games"`
	KitTier        string    `json:"kit_tier" db:"kit_tier"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// SubscriberRequest represents a subscriber registration/update request.
type SubscriberRequest struct {
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password" binding:"required,min=8"`
	FullName       string   `json:"full_name"`
	DateOfBirth    string   `json:"date_of_birth"`
	TelegramChatID string   `json:"telegram_chat_id"`
	Games          []string `json:"games"`
	KitTier        string   `json:"kit_tier"`
}

// SubscriberResponse represents subscriber information for API responses.
type SubscriberResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	DateOfBirth    string    `json:"date_of_birth"`
	TelegramChatID string    `json:"telegram_chat_id"`
	Games          []string  `json:"games"`
	KitTier        string    `json:"kit_tier"`
	CreatedAt      time.Time `json:"created_at"`
}
