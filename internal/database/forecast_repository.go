package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mybestodds/mybestodds-go/internal/models"
)

// ForecastRepository handles database operations for generated forecast rows.
type ForecastRepository struct {
	pool DatabasePool
}

// NewForecastRepository creates a new forecast repository.
func NewForecastRepository(pool DatabasePool) *ForecastRepository {
	return &ForecastRepository{pool: pool}
}

const forecastColumns = `id, subscriber_id, game, forecast_date, session, candidate, pattern,
		base_confidence, adjusted_confidence, odds_one_in_n, odds_text, band,
		primary_play, bob_suggestion, bob_strength, legend_code, legend_text,
		calculation_source, created_at`

// SaveForecastRows persists a batch of assembled rows. Rows are append-only;
// a rerun for the same date writes new rows rather than mutating old ones.
func (r *ForecastRepository) SaveForecastRows(ctx context.Context, rows []models.ForecastRow) error {
	query := `
		INSERT INTO forecasts (id, subscriber_id, game, forecast_date, session, candidate, pattern,
			base_confidence, adjusted_confidence, odds_one_in_n, odds_text, band,
			primary_play, bob_suggestion, bob_strength, legend_code, legend_text,
			calculation_source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	for _, row := range rows {
		_, err := r.pool.Exec(ctx, query,
			row.ID, row.SubscriberID, row.Game, row.Date, row.Session,
			row.Candidate, row.Pattern,
			row.BaseConfidence, row.AdjustedConfidence,
			row.OddsOneInN, row.OddsText, row.Band,
			row.PrimaryPlay, row.BOBSuggestion, row.BOBStrength,
			row.LegendCode, row.LegendText, row.CalculationSource, row.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save forecast row %s: %w", row.ID, err)
		}
	}

	return nil
}

// GetForecastsForSubscriber returns a subscriber's rows for one forecast
// date, strongest band first.
func (r *ForecastRepository) GetForecastsForSubscriber(ctx context.Context, subscriberID string, date time.Time) ([]models.ForecastRow, error) {
	query := `
		SELECT ` + forecastColumns + `
		FROM forecasts
		WHERE subscriber_id = $1 AND forecast_date = $2
		ORDER BY adjusted_confidence DESC
	`

	rows, err := r.pool.Query(ctx, query, subscriberID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get forecasts: %w", err)
	}
	defer rows.Close()

	return scanForecastRows(rows)
}

// GetForecastsForGame returns every row for a (game, date, session) run.
func (r *ForecastRepository) GetForecastsForGame(ctx context.Context, game models.Game, date time.Time, session models.DrawSession) ([]models.ForecastRow, error) {
	query := `
		SELECT ` + forecastColumns + `
		FROM forecasts
		WHERE game = $1 AND forecast_date = $2 AND session = $3
		ORDER BY adjusted_confidence DESC
	`

	rows, err := r.pool.Query(ctx, query, game, date, session)
	if err != nil {
		return nil, fmt.Errorf("failed to get forecasts: %w", err)
	}
	defer rows.Close()

	return scanForecastRows(rows)
}

// PurgeForecastsBefore removes rows older than a cutoff. Returns the number
// of rows removed.
func (r *ForecastRepository) PurgeForecastsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM forecasts WHERE forecast_date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge forecasts: %w", err)
	}

	return result.RowsAffected(), nil
}

func scanForecastRows(rows pgx.Rows) ([]models.ForecastRow, error) {
	var out []models.ForecastRow
	for rows.Next() {
		var row models.ForecastRow
		err := rows.Scan(
			&row.ID,
			&row.SubscriberID,
			&row.Game,
			&row.Date,
			&row.Session,
			&row.Candidate,
			&row.Pattern,
			&row.BaseConfidence,
			&row.AdjustedConfidence,
			&row.OddsOneInN,
			&row.OddsText,
			&row.Band,
			&row.PrimaryPlay,
			&row.BOBSuggestion,
			&row.BOBStrength,
			&row.LegendCode,
			&row.LegendText,
			&row.CalculationSource,
			&row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan forecast row: %w", err)
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating forecast rows: %w", err)
	}

	return out, nil
}
