package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mybestodds/mybestodds-go/internal/models"
)

// DrawRepository handles database operations for historical draw results.
type DrawRepository struct {
	pool DatabasePool
}

// NewDrawRepository creates a new draw repository.
func NewDrawRepository(pool DatabasePool) *DrawRepository {
	return &DrawRepository{pool: pool}
}

// InsertDraw stores one pick-game result. Duplicate (game, date, session)
// rows update in place so re-ingesting a feed is safe.
func (r *DrawRepository) InsertDraw(ctx context.Context, draw models.Draw) (*models.Draw, error) {
	query := `
		INSERT INTO draws (game, draw_date, session, digits)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (game, draw_date, session)
		DO UPDATE SET digits = EXCLUDED.digits
		RETURNING id, game, draw_date, session, digits, created_at
	`

	var stored models.Draw
	err := r.pool.QueryRow(ctx, query, draw.Game, draw.Date, draw.Session, draw.Digits).Scan(
		&stored.ID,
		&stored.Game,
		&stored.Date,
		&stored.Session,
		&stored.Digits,
		&stored.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert draw: %w", err)
	}

	return &stored, nil
}

// GetDrawHistory returns all stored results for a game since a cutoff date,
// newest first.
func (r *DrawRepository) GetDrawHistory(ctx context.Context, game models.Game, since time.Time) ([]models.Draw, error) {
	query := `
		SELECT id, game, draw_date, session, digits, created_at
		FROM draws
		WHERE game = $1 AND draw_date >= $2
		ORDER BY draw_date DESC
	`

	rows, err := r.pool.Query(ctx, query, game, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw history: %w", err)
	}
	defer rows.Close()

	var draws []models.Draw
	for rows.Next() {
		var draw models.Draw
		err := rows.Scan(
			&draw.ID,
			&draw.Game,
			&draw.Date,
			&draw.Session,
			&draw.Digits,
			&draw.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		draws = append(draws, draw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draws: %w", err)
	}

	return draws, nil
}

// GetLatestDraw returns the most recent result for a game, or pgx.ErrNoRows
// wrapped when the game has no history yet.
func (r *DrawRepository) GetLatestDraw(ctx context.Context, game models.Game) (*models.Draw, error) {
	query := `
		SELECT id, game, draw_date, session, digits, created_at
		FROM draws
		WHERE game = $1
		ORDER BY draw_date DESC
		LIMIT 1
	`

	var draw models.Draw
	err := r.pool.QueryRow(ctx, query, game).Scan(
		&draw.ID,
		&draw.Game,
		&draw.Date,
		&draw.Session,
		&draw.Digits,
		&draw.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no draws recorded for %s: %w", game, err)
		}
		return nil, fmt.Errorf("failed to get latest draw: %w", err)
	}

	return &draw, nil
}

// InsertJackpotDraw stores one jackpot result.
func (r *DrawRepository) InsertJackpotDraw(ctx context.Context, draw models.JackpotDraw) (*models.JackpotDraw, error) {
	query := `
		INSERT INTO jackpot_draws (game, draw_date, main_balls, bonus_ball)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (game, draw_date)
		DO UPDATE SET main_balls = EXCLUDED.main_balls, bonus_ball = EXCLUDED.bonus_ball
		RETURNING id, game, draw_date, main_balls, bonus_ball, created_at
	`

	var stored models.JackpotDraw
	err := r.pool.QueryRow(ctx, query, draw.Game, draw.Date, draw.MainBalls, draw.BonusBall).Scan(
		&stored.ID,
		&stored.Game,
		&stored.Date,
		&stored.MainBalls,
		&stored.BonusBall,
		&stored.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert jackpot draw: %w", err)
	}

	return &stored, nil
}

// GetJackpotHistory returns jackpot results for a game since a cutoff date,
// newest first.
func (r *DrawRepository) GetJackpotHistory(ctx context.Context, game models.Game, since time.Time) ([]models.JackpotDraw, error) {
	query := `
		SELECT id, game, draw_date, main_balls, bonus_ball, created_at
		FROM jackpot_draws
		WHERE game = $1 AND draw_date >= $2
		ORDER BY draw_date DESC
	`

	rows, err := r.pool.Query(ctx, query, game, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get jackpot history: %w", err)
	}
	defer rows.Close()

	var draws []models.JackpotDraw
	for rows.Next() {
		var draw models.JackpotDraw
		err := rows.Scan(
			&draw.ID,
			&draw.Game,
			&draw.Date,
			&draw.MainBalls,
			&draw.BonusBall,
			&draw.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan jackpot draw: %w", err)
		}
		draws = append(draws, draw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jackpot draws: %w", err)
	}

	return draws, nil
}
