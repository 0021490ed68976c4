package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mybestodds/mybestodds-go/internal/models"
)

// SubscriberRepository handles database operations for forecast subscribers.
type SubscriberRepository struct {
	pool DatabasePool
}

// NewSubscriberRepository creates a new subscriber repository.
func NewSubscriberRepository(pool DatabasePool) *SubscriberRepository {
	return &SubscriberRepository{pool: pool}
}

const subscriberColumns = `id, email, password_hash, full_name, date_of_birth, telegram_chat_id, games, kit_tier, created_at, updated_at`

// CreateSubscriber registers a new subscriber. The email must be unique.
func (r *SubscriberRepository) CreateSubscriber(ctx context.Context, sub models.Subscriber) (*models.Subscriber, error) {
	query := `
		INSERT INTO subscribers (email, password_hash, full_name, date_of_birth, telegram_chat_id, games, kit_tier)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + subscriberColumns

	var stored models.Subscriber
	err := r.pool.QueryRow(ctx, query,
		sub.Email, sub.PasswordHash, sub.FullName, sub.DateOfBirth,
		sub.TelegramChatID, sub.Games, sub.KitTier,
	).Scan(
		&stored.ID,
		&stored.Email,
		&stored.PasswordHash,
		&stored.FullName,
		&stored.DateOfBirth,
		&stored.TelegramChatID,
		&stored.Games,
		&stored.KitTier,
		&stored.CreatedAt,
		&stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}

	return &stored, nil
}

// GetSubscriberByID fetches one subscriber.
func (r *SubscriberRepository) GetSubscriberByID(ctx context.Context, id string) (*models.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetSubscriberByEmail fetches one subscriber by email, used for login.
func (r *SubscriberRepository) GetSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE email = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

// ListSubscribersForGame returns every subscriber whose kit includes the
// given game, for batch forecast delivery.
func (r *SubscriberRepository) ListSubscribersForGame(ctx context.Context, game models.Game) ([]models.Subscriber, error) {
	query := `
		SELECT ` + subscriberColumns + `
		FROM subscribers
		WHERE $1 = ANY(games)
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, string(game))
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		err := rows.Scan(
			&sub.ID,
			&sub.Email,
			&sub.PasswordHash,
			&sub.FullName,
			&sub.DateOfBirth,
			&sub.TelegramChatID,
			&sub.Games,
			&sub.KitTier,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscribers: %w", err)
	}

	return subs, nil
}

// UpdateSubscriber persists profile changes.
func (r *SubscriberRepository) UpdateSubscriber(ctx context.Context, sub models.Subscriber) error {
	query := `
		UPDATE subscribers
		SET full_name = $2, date_of_birth = $3, telegram_chat_id = $4,
			games = $5, kit_tier = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		sub.ID, sub.FullName, sub.DateOfBirth, sub.TelegramChatID, sub.Games, sub.KitTier,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscriber: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("subscriber %s not found", sub.ID)
	}

	return nil
}

// DeleteSubscriber removes a subscriber and, via cascade, their forecasts.
func (r *SubscriberRepository) DeleteSubscriber(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM subscribers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("subscriber %s not found", id)
	}

	return nil
}

func (r *SubscriberRepository) scanOne(row pgx.Row) (*models.Subscriber, error) {
	var sub models.Subscriber
	err := row.Scan(
		&sub.ID,
		&sub.Email,
		&sub.PasswordHash,
		&sub.FullName,
		&sub.DateOfBirth,
		&sub.TelegramChatID,
		&sub.Games,
		&sub.KitTier,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("subscriber not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}
	return &sub, nil
}
