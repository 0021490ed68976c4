package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mybestodds/mybestodds-go/internal/models"
)

func advise(game models.Game, digits string, band models.ConfidenceBand) PlayTypeDecision {
	advisor := NewPlayTypeAdvisor(nil)
	candidate := models.Candidate{Game: game, Digits: digits}
	return advisor.Advise(candidate, ClassifyPattern(digits), band)
}

func TestAdvise_Cash4QuadLocksStraight(t *testing.T) {
	for _, band := range []models.ConfidenceBand{models.BandGreen, models.BandYellow, models.BandTan, models.BandSkip} {
		decision := advise(models.GameCash4, "5555", band)
		assert.Equal(t, models.PlayStraight, decision.PrimaryPlay, "band %s", band)
		assert.Equal(t, models.BOBNone, decision.BOBSuggestion, "band %s", band)
		assert.Equal(t, models.BOBStrengthNone, decision.BOBStrength)
	}
}

func TestAdvise_Cash3TripleIsNotQuadLocked(t *testing.T) {
	// The quad lock is a 4-digit rule; a Cash3 triple on Green still earns
	// the combo bonus.
	decision := advise(models.GameCash3, "777", models.BandGreen)
	assert.Equal(t, models.PlayStraightBox, decision.PrimaryPlay)
	assert.Equal(t, models.BOBAddCombo, decision.BOBSuggestion)
	assert.Equal(t, models.BOBStrengthHigh, decision.BOBStrength)
}

func TestAdvise_SkipBandSuppressesBonus(t *testing.T) {
	decision := advise(models.GameCash3, "477", models.BandSkip)
	assert.Equal(t, models.PlayStraight, decision.PrimaryPlay)
	assert.Equal(t, models.BOBNone, decision.BOBSuggestion)

	decision = advise(models.GamePowerball, "", models.BandSkip)
	assert.Equal(t, models.PlayStandard, decision.PrimaryPlay)
	assert.Equal(t, models.BOBNone, decision.BOBSuggestion)
}

func TestAdvise_GreenDoubleHedgesWithBox(t *testing.T) {
	// 4-digit double with no end pair stays a generic box hedge.
	decision := advise(models.GameCash4, "4124", models.BandGreen)
	assert.Equal(t, models.PlayStraight, decision.PrimaryPlay)
	assert.Equal(t, models.BOBAddBox, decision.BOBSuggestion)
	assert.Equal(t, models.BOBStrengthHigh, decision.BOBStrength)
}

func TestAdvise_PairPositionsRefineTheHedge(t *testing.T) {
	back := advise(models.GameCash3, "466", models.BandGreen)
	assert.Equal(t, models.BOBAddBackPair, back.BOBSuggestion)

	front := advise(models.GameCash3, "446", models.BandGreen)
	assert.Equal(t, models.BOBAddFrontPair, front.BOBSuggestion)

	split := advise(models.GameCash3, "464", models.BandGreen)
	assert.Equal(t, models.BOBAddBox, split.BOBSuggestion)
}

func TestAdvise_WeakBandsHedgeAtLowerStrength(t *testing.T) {
	yellow := advise(models.GameCash3, "464", models.BandYellow)
	assert.Equal(t, models.PlayStraight, yellow.PrimaryPlay)
	assert.Equal(t, models.BOBAddBox, yellow.BOBSuggestion)
	assert.Equal(t, models.BOBStrengthMedium, yellow.BOBStrength)

	tan := advise(models.GameCash3, "999", models.BandTan)
	assert.Equal(t, models.BOBAddBox, tan.BOBSuggestion)
	assert.Equal(t, models.BOBStrengthLow, tan.BOBStrength)
}

func TestAdvise_NoPatternFallsToBasePlay(t *testing.T) {
	decision := advise(models.GameCash3, "406", models.BandGreen)
	assert.Equal(t, models.PlayStraight, decision.PrimaryPlay)
	assert.Equal(t, models.BOBNone, decision.BOBSuggestion)

	decision = advise(models.GameCash4, "1234", models.BandYellow)
	assert.Equal(t, models.PlayStraight, decision.PrimaryPlay)
	assert.Equal(t, models.BOBNone, decision.BOBSuggestion)
}

func TestAdvise_GreenJackpotEmphasizesBonusBall(t *testing.T) {
	advisor := NewPlayTypeAdvisor(nil)
	candidate := models.Candidate{Game: models.GamePowerball, MainBalls: []int{7, 12, 23, 41, 55}, BonusBall: 9}
	decision := advisor.Advise(candidate, ClassifyPattern(""), models.BandGreen)

	assert.Equal(t, models.PlayStandard, decision.PrimaryPlay)
	assert.Equal(t, models.BOBBallFocus, decision.BOBSuggestion)
	assert.Equal(t, models.BOBStrengthMedium, decision.BOBStrength)

	yellow := advisor.Advise(candidate, ClassifyPattern(""), models.BandYellow)
	assert.Equal(t, models.PlayStandard, yellow.PrimaryPlay)
	assert.Equal(t, models.BOBNone, yellow.BOBSuggestion)
}

func TestAdvise_LegendCodeMatchesGameAndPlay(t *testing.T) {
	assert.Equal(t, "C3_ST", advise(models.GameCash3, "406", models.BandGreen).LegendCode)
	assert.Equal(t, "C3_STBX", advise(models.GameCash3, "777", models.BandGreen).LegendCode)
	assert.Equal(t, "C4_ST", advise(models.GameCash4, "5555", models.BandGreen).LegendCode)

	advisor := NewPlayTypeAdvisor(nil)
	jackpot := advisor.Advise(models.Candidate{Game: models.GamePowerball}, PatternFlags{}, models.BandYellow)
	assert.Equal(t, "PB_STD", jackpot.LegendCode)
}
