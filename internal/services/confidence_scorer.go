package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mybestodds/mybestodds-go/internal/config"
	"github.com/mybestodds/mybestodds-go/internal/models"
)

// dueSaturationDays controls how fast the recency "due" score approaches 1.0:
// due = gap / (gap + dueSaturationDays).
const dueSaturationDays = 30

// neutralDueScore is used for combos never seen in the window.
var neutralDueScore = decimal.NewFromFloat(0.5)

// oddsEpsilon guards the confidence-to-odds inversion.
var oddsEpsilon = decimal.NewFromFloat(0.0001)

// jackpotAlignmentScale maps the 0-1 jackpot heat/due composite onto the
// shared confidence scale. Jackpot "confidence" is alignment strength, not a
// win probability.
var jackpotAlignmentScale = decimal.NewFromFloat(0.4)

// ScoreComponents breaks a confidence score down into its blended inputs,
// kept for exports and audit tooling.
type ScoreComponents struct {
	PositionScore decimal.Decimal `json:"position_score"`
	DigitScore    decimal.Decimal `json:"digit_score"`
	SumScore      decimal.Decimal `json:"sum_score"`
	DueScore      decimal.Decimal `json:"due_score"`
	OverlayDelta  decimal.Decimal `json:"overlay_delta"`
}

// ScoreResult is the scorer's complete output for one candidate.
type ScoreResult struct {
	BaseConfidence     decimal.Decimal       `json:"base_confidence"`     // stats only, 0..1
	AdjustedConfidence decimal.Decimal       `json:"adjusted_confidence"` // after overlay nudge, 0..1
	OddsOneInN         int                   `json:"odds_one_in_n"`
	OddsText           string                `json:"odds_text"`
	Band               models.ConfidenceBand `json:"band"`
	Components         ScoreComponents       `json:"components"`
}

// ConfidenceScorer blends history statistics, pattern structure and overlay
// context into one bounded confidence figure. Overlays refine but never
// dominate: the adjusted confidence stays within MaxOverlayDelta of the
// statistical base.
type ConfidenceScorer struct {
	cfg    config.ScoringConfig
	logger *logrus.Logger
}

// NewConfidenceScorer creates a scorer from validated scoring config.
func NewConfidenceScorer(cfg config.ScoringConfig, logger *logrus.Logger) *ConfidenceScorer {
	return &ConfidenceScorer{cfg: cfg, logger: logger}
}

// Score evaluates a pick-game candidate against history and overlay context.
// It always returns a valid ScoreResult: malformed candidates score as
// neutral zero-confidence rows rather than erroring out of a batch.
func (s *ConfidenceScorer) Score(candidate models.Candidate, stats *HistoryStats, overlay models.OverlayContext, asOf time.Time) ScoreResult {
	numDigits := candidate.Game.NumDigits()
	digits := candidate.Digits
	if numDigits == 0 || len(digits) != numDigits || !allDigits(digits) {
		return s.neutralResult()
	}

	posScore := decimal.Zero
	digitScore := decimal.Zero
	for pos := 0; pos < numDigits; pos++ {
		posScore = posScore.Add(stats.PositionFrequencyOf(pos, digits[pos]))
		digitScore = digitScore.Add(stats.OverallDigitFrequencyOf(digits[pos]))
	}
	n := decimal.NewFromInt(int64(numDigits))
	posScore = posScore.Div(n)
	digitScore = digitScore.Div(n)

	sum, _ := DigitSum(digits)
	sumScore := stats.SumFrequencyOf(sum)

	dueScore := neutralDueScore
	if gap, seen := stats.RecencyGap(digits, asOf); seen {
		// Saturates toward 1.0 as the combo goes overdue.
		g := decimal.NewFromInt(int64(gap))
		dueScore = g.Div(g.Add(decimal.NewFromInt(dueSaturationDays)))
	}

	base := s.blend(posScore, digitScore, sumScore, dueScore)
	return s.finish(base, ScoreComponents{
		PositionScore: posScore.Round(6),
		DigitScore:    digitScore.Round(6),
		SumScore:      sumScore.Round(6),
		DueScore:      dueScore.Round(6),
	}, overlay, candidate)
}

// ScoreJackpot evaluates a jackpot candidate from per-ball heat/due
// composites. The composite is mapped onto the shared confidence scale so
// banding, odds and play-type advice flow through the same pipeline.
func (s *ConfidenceScorer) ScoreJackpot(candidate models.Candidate, stats *JackpotStats, overlay models.OverlayContext) ScoreResult {
	if !candidate.Game.IsJackpot() || len(candidate.MainBalls) == 0 || candidate.BonusBall <= 0 {
		return s.neutralResult()
	}

	mainTotal := decimal.Zero
	for _, ball := range candidate.MainBalls {
		mainTotal = mainTotal.Add(stats.MainComposite(ball))
	}
	mainAvg := mainTotal.Div(decimal.NewFromInt(int64(len(candidate.MainBalls))))
	bonus := stats.BonusComposite(candidate.BonusBall)

	// Main balls carry 70% of the alignment, the bonus ball 30%.
	composite := mainAvg.Mul(decimal.NewFromFloat(0.7)).Add(bonus.Mul(decimal.NewFromFloat(0.3)))
	base := clamp01(composite.Mul(jackpotAlignmentScale))

	return s.finish(base, ScoreComponents{
		PositionScore: mainAvg.Round(6),
		DigitScore:    bonus.Round(6),
	}, overlay, candidate)
}

// blend normalizes the configured weights and combines the four statistical
// components. Weights need not sum to 1.
func (s *ConfidenceScorer) blend(posScore, digitScore, sumScore, dueScore decimal.Decimal) decimal.Decimal {
	wp := decimal.NewFromFloat(s.cfg.PositionWeight)
	wd := decimal.NewFromFloat(s.cfg.DigitWeight)
	ws := decimal.NewFromFloat(s.cfg.SumWeight)
	wr := decimal.NewFromFloat(s.cfg.RecencyWeight)

	total := wp.Add(wd).Add(ws).Add(wr)
	if total.IsZero() {
		// Validate() rejects this; guard anyway.
		return decimal.Zero
	}

	weighted := posScore.Mul(wp).
		Add(digitScore.Mul(wd)).
		Add(sumScore.Mul(ws)).
		Add(dueScore.Mul(wr))
	return clamp01(weighted.Div(total))
}

func (s *ConfidenceScorer) finish(base decimal.Decimal, components ScoreComponents, overlay models.OverlayContext, candidate models.Candidate) ScoreResult {
	delta := s.overlayDelta(overlay)
	components.OverlayDelta = delta.Round(6)

	adjusted := clamp01(base.Add(delta))

	odds := s.cfg.OddsSentinel
	if adjusted.GreaterThan(oddsEpsilon) {
		inverted := decimal.NewFromInt(1).Div(adjusted).Round(0).IntPart()
		if inverted < 1 {
			inverted = 1
		}
		if inverted < int64(s.cfg.OddsSentinel) {
			odds = int(inverted)
		}
	}

	band := s.bandFor(adjusted)

	result := ScoreResult{
		BaseConfidence:     base.Round(4),
		AdjustedConfidence: adjusted.Round(4),
		OddsOneInN:         odds,
		OddsText:           fmt.Sprintf("1 in %d", odds),
		Band:               band,
		Components:         components,
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"candidate": candidate.String(),
			"game":      candidate.Game,
			"base":      result.BaseConfidence,
			"adjusted":  result.AdjustedConfidence,
			"band":      band,
			"odds":      odds,
		}).Debug("Scored candidate")
	}
	return result
}

// overlayDelta folds the overlay signals into a single bounded nudge. Missing
// or out-of-range fields coerce to their neutral values so the delta of a
// fallback context is exactly zero.
func (s *ConfidenceScorer) overlayDelta(overlay models.OverlayContext) decimal.Decimal {
	half := decimal.NewFromFloat(0.5)

	moon := coerceWeight(overlay.MoonWeight).Sub(half).Mul(decimal.NewFromFloat(0.06))
	planet := coerceWeight(overlay.PlanetaryWeight).Sub(half).Mul(decimal.NewFromFloat(0.04))
	zodiac := coerceWeight(overlay.ZodiacWeight).Sub(half).Mul(decimal.NewFromFloat(0.02))
	numerology := coerceWeight(overlay.NumerologyWeight).Sub(half).Mul(decimal.NewFromFloat(0.02))

	alignment := overlay.LifePathAlignment
	if alignment < 1 || alignment > 5 {
		alignment = 3
	}
	lifePath := decimal.NewFromInt(int64(alignment - 3)).Mul(decimal.NewFromFloat(0.015))

	delta := moon.Add(planet).Add(zodiac).Add(numerology).Add(lifePath)

	maxDelta := decimal.NewFromFloat(s.cfg.MaxOverlayDelta)
	if delta.GreaterThan(maxDelta) {
		return maxDelta
	}
	if delta.LessThan(maxDelta.Neg()) {
		return maxDelta.Neg()
	}
	return delta
}

// bandFor maps an adjusted confidence onto its display band. Thresholds are
// validated monotonic at config load, which makes the banding monotonic too.
func (s *ConfidenceScorer) bandFor(confidence decimal.Decimal) models.ConfidenceBand {
	switch {
	case confidence.GreaterThanOrEqual(decimal.NewFromFloat(s.cfg.GreenThreshold)):
		return models.BandGreen
	case confidence.GreaterThanOrEqual(decimal.NewFromFloat(s.cfg.YellowThreshold)):
		return models.BandYellow
	case confidence.GreaterThanOrEqual(decimal.NewFromFloat(s.cfg.TanThreshold)):
		return models.BandTan
	default:
		return models.BandSkip
	}
}

func (s *ConfidenceScorer) neutralResult() ScoreResult {
	return ScoreResult{
		BaseConfidence:     decimal.Zero,
		AdjustedConfidence: decimal.Zero,
		OddsOneInN:         s.cfg.OddsSentinel,
		OddsText:           fmt.Sprintf("1 in %d", s.cfg.OddsSentinel),
		Band:               models.BandSkip,
	}
}

func clamp01(d decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if d.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if d.GreaterThan(one) {
		return one
	}
	return d
}

func coerceWeight(w decimal.Decimal) decimal.Decimal {
	if w.LessThan(decimal.Zero) || w.GreaterThan(decimal.NewFromInt(1)) || w.IsZero() {
		return decimal.NewFromFloat(0.5)
	}
	return w
}
