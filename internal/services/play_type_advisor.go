package services

import (
	"github.com/sirupsen/logrus"

	"github.com/mybestodds/mybestodds-go/internal/models"
)

// PlayTypeDecision is the advisor's output: a primary play plus an optional
// Best-Odds-Bonus layered on top. PrimaryPlay is always set; the bonus is an
// explicit BOBNone when absent.
type PlayTypeDecision struct {
	PrimaryPlay   models.PlayType      `json:"primary_play"`
	BOBSuggestion models.BOBSuggestion `json:"bob_suggestion"`
	BOBStrength   models.BOBStrength   `json:"bob_strength"`
	LegendCode    string               `json:"legend_code"`
}

// PlayTypeAdvisor maps (pattern flags, confidence band, game) onto a play
// recommendation through an ordered decision table. Rules are evaluated top
// to bottom and the first match wins.
type PlayTypeAdvisor struct {
	logger *logrus.Logger
}

func NewPlayTypeAdvisor(logger *logrus.Logger) *PlayTypeAdvisor {
	return &PlayTypeAdvisor{logger: logger}
}

// Advise runs the decision table for one scored candidate.
func (a *PlayTypeAdvisor) Advise(candidate models.Candidate, flags PatternFlags, band models.ConfidenceBand) PlayTypeDecision {
	decision := a.decide(candidate, flags, band)
	decision.LegendCode = legendCode(candidate.Game, decision.PrimaryPlay)

	if a.logger != nil {
		a.logger.WithFields(logrus.Fields{
			"candidate": candidate.String(),
			"game":      candidate.Game,
			"pattern":   flags.Label(),
			"band":      band,
			"play":      decision.PrimaryPlay,
			"bob":       decision.BOBSuggestion,
		}).Debug("Play type decided")
	}
	return decision
}

func (a *PlayTypeAdvisor) decide(candidate models.Candidate, flags PatternFlags, band models.ConfidenceBand) PlayTypeDecision {
	game := candidate.Game

	// Rule 1: a Cash4 quad locks to Straight with no bonus, whatever the band.
	if game.NumDigits() == 4 && flags.HasQuad {
		return PlayTypeDecision{
			PrimaryPlay:   models.PlayStraight,
			BOBSuggestion: models.BOBNone,
			BOBStrength:   models.BOBStrengthNone,
		}
	}

	// Rule 2: Skip-band candidates get the base play and no bonus.
	if band == models.BandSkip {
		return PlayTypeDecision{
			PrimaryPlay:   basePlay(game),
			BOBSuggestion: models.BOBNone,
			BOBStrength:   models.BOBStrengthNone,
		}
	}

	// Rule 3: strong repetition backed by a Green band earns the combo bonus.
	if band == models.BandGreen && (flags.HasTriple || flags.HasQuad) {
		return PlayTypeDecision{
			PrimaryPlay:   models.PlayStraightBox,
			BOBSuggestion: models.BOBAddCombo,
			BOBStrength:   models.BOBStrengthHigh,
		}
	}

	// Rule 4: Green doubles hedge with a box, or a pair play when the
	// repeated digits sit together at the front or back.
	if band == models.BandGreen && flags.HasDouble {
		return PlayTypeDecision{
			PrimaryPlay:   models.PlayStraight,
			BOBSuggestion: pairRefinement(candidate.Digits, models.BOBAddBox),
			BOBStrength:   models.BOBStrengthHigh,
		}
	}

	// Rule 5: weaker bands with repetition still hedge, at lower strength.
	if (band == models.BandYellow || band == models.BandTan) && (flags.HasDouble || flags.HasTriple) {
		strength := models.BOBStrengthMedium
		if band == models.BandTan {
			strength = models.BOBStrengthLow
		}
		return PlayTypeDecision{
			PrimaryPlay:   models.PlayStraight,
			BOBSuggestion: pairRefinement(candidate.Digits, models.BOBAddBox),
			BOBStrength:   strength,
		}
	}

	// Rule 6: no strong pattern. Green jackpot picks emphasize the bonus
	// ball; everything else is the plain base play.
	if game.IsJackpot() && band == models.BandGreen {
		return PlayTypeDecision{
			PrimaryPlay:   models.PlayStandard,
			BOBSuggestion: models.BOBBallFocus,
			BOBStrength:   models.BOBStrengthMedium,
		}
	}
	return PlayTypeDecision{
		PrimaryPlay:   basePlay(game),
		BOBSuggestion: models.BOBNone,
		BOBStrength:   models.BOBStrengthNone,
	}
}

func basePlay(game models.Game) models.PlayType {
	if game.IsJackpot() {
		return models.PlayStandard
	}
	return models.PlayStraight
}

// pairRefinement upgrades a box hedge to a pair play when the doubled digits
// are adjacent at one end of the number.
func pairRefinement(digits string, fallback models.BOBSuggestion) models.BOBSuggestion {
	switch {
	case IsBackPair(digits):
		return models.BOBAddBackPair
	case IsFrontPair(digits):
		return models.BOBAddFrontPair
	default:
		return fallback
	}
}
