package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/mybestodds/mybestodds-go/internal/models"
)

// RowIdentity carries the who/when/where for one forecast row.
type RowIdentity struct {
	SubscriberID string
	Date         time.Time
	Session      models.DrawSession
}

// AssembleRow combines a scored and advised candidate into the final export
// record. Pure aggregation: no new computation happens here, legend text is a
// deterministic lookup over already-decided fields.
func AssembleRow(candidate models.Candidate, flags PatternFlags, score ScoreResult, decision PlayTypeDecision, overlay models.OverlayContext, identity RowIdentity) models.ForecastRow {
	return models.ForecastRow{
		ID:                 uuid.New().String(),
		SubscriberID:       identity.SubscriberID,
		Game:               candidate.Game,
		Date:               identity.Date,
		Session:            identity.Session,
		Candidate:          candidate.String(),
		Pattern:            flags.Label(),
		BaseConfidence:     score.BaseConfidence,
		AdjustedConfidence: score.AdjustedConfidence,
		OddsOneInN:         score.OddsOneInN,
		OddsText:           score.OddsText,
		Band:               score.Band,
		PrimaryPlay:        decision.PrimaryPlay,
		BOBSuggestion:      decision.BOBSuggestion,
		BOBStrength:        decision.BOBStrength,
		LegendCode:         decision.LegendCode,
		LegendText:         LegendText(decision.LegendCode),
		CalculationSource:  overlay.CalculationSource,
		CreatedAt:          time.Now().UTC(),
	}
}
