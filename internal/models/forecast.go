package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Candidate is a proposed number for a given game. Pick games carry a digit
// string; jackpot games carry main balls plus a bonus ball. Candidate
// generation happens upstream; the scoring core treats it as opaque input.
type Candidate struct {
	Game      Game   `json:"game"`
	Digits    string `json:"digits,omitempty"`
	MainBalls []int  `json:"main_balls,omitempty"`
	BonusBall int    `json:"bonus_ball,omitempty"`
}

// String renders the candidate for display and export.
func (c Candidate) String() string {
	if !c.Game.IsJackpot() {
		return c.Digits
	}
	parts := make([]string, 0, len(c.MainBalls))
	for _, b := range c.MainBalls {
		parts = append(parts, fmt.Sprintf("%02d", b))
	}
	return fmt.Sprintf("%s + %02d", strings.Join(parts, "-"), c.BonusBall)
}

// ConfidenceBand is the discrete display tier assigned to a confidence score.
type ConfidenceBand string

const (
	BandGreen  ConfidenceBand = "GREEN"
	BandYellow ConfidenceBand = "YELLOW"
	BandTan    ConfidenceBand = "TAN"
	BandSkip   ConfidenceBand = "SKIP"
)

// Rank orders bands from weakest to strongest: Skip < Tan < Yellow < Green.
func (b ConfidenceBand) Rank() int {
	switch b {
	case BandGreen:
		return 3
	case BandYellow:
		return 2
	case BandTan:
		return 1
	default:
		return 0
	}
}

// Emoji returns the legacy kit marker for the band.
func (b ConfidenceBand) Emoji() string {
	switch b {
	case BandGreen:
		return "🟩"
	case BandYellow:
		return "🟨"
	case BandTan:
		return "🤎"
	default:
		return "🚫"
	}
}

// PlayType is the primary recommended way to play a candidate.
type PlayType string

const (
	PlayStraight    PlayType = "STRAIGHT"
	PlayBox         PlayType = "BOX"
	PlayStraightBox PlayType = "STRAIGHT+BOX"
	PlayCombo       PlayType = "COMBO"
	PlayFrontPair   PlayType = "FRONT_PAIR"
	PlayBackPair    PlayType = "BACK_PAIR"
	PlayOneOff      PlayType = "ONE_OFF"
	PlayStandard    PlayType = "STANDARD" // jackpot base play
)

// BOBSuggestion is the optional Best-Odds-Bonus add-on layered on top of the
// primary play. BOBNone is an explicit value, never a nil.
type BOBSuggestion string

const (
	BOBNone         BOBSuggestion = "NONE"
	BOBAddBox       BOBSuggestion = "ADD_BOX_FOR_SAFETY"
	BOBAddCombo     BOBSuggestion = "ADD_COMBO_HIGH_RETURN"
	BOBAddOneOff    BOBSuggestion = "ADD_1_OFF"
	BOBAddFrontPair BOBSuggestion = "ADD_FRONT_PAIR_ONLY"
	BOBAddBackPair  BOBSuggestion = "ADD_BACK_PAIR_ONLY"
	BOBBallFocus    BOBSuggestion = "BALL_FOCUS" // jackpot bonus-ball emphasis
)

// BOBStrength grades how strongly a BOB suggestion is held.
type BOBStrength string

const (
	BOBStrengthNone   BOBStrength = ""
	BOBStrengthLow    BOBStrength = "LOW"
	BOBStrengthMedium BOBStrength = "MEDIUM"
	BOBStrengthHigh   BOBStrength = "HIGH"
)

// ForecastRow is the final exported record for one scored candidate. Built
// once by the result assembler and append-only from there: exporters and
// repositories read it, nothing rewrites it.
type ForecastRow struct {
	ID                 string          `json:"id" db:"id"`
	SubscriberID       string          `json:"subscriber_id" db:"subscriber_id"`
	Game               Game            `json:"game" db:"game"`
	Date               time.Time       `json:"date" db:"forecast_date"`
	Session            DrawSession     `json:"session" db:"session"`
	Candidate          string          `json:"candidate" db:"candidate"`
	Pattern            string          `json:"pattern" db:"pattern"`
	BaseConfidence     decimal.Decimal `json:"base_confidence" db:"base_confidence"`
	AdjustedConfidence decimal.Decimal `json:"adjusted_confidence" db:"adjusted_confidence"`
	OddsOneInN         int             `json:"odds_one_in_n" db:"odds_one_in_n"`
	OddsText           string          `json:"odds_text" db:"odds_text"`
	Band               ConfidenceBand  `json:"band" db:"band"`
	PrimaryPlay        PlayType        `json:"primary_play" db:"primary_play"`
	BOBSuggestion      BOBSuggestion   `json:"bob_suggestion" db:"bob_suggestion"`
	BOBStrength        BOBStrength     `json:"bob_strength" db:"bob_strength"`
	LegendCode         string          `json:"legend_code" db:"legend_code"`
	LegendText         string          `json:"legend_text" db:"legend_text"`
	CalculationSource  string          `json:"calculation_source" db:"calculation_source"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
}

// ForecastRequest represents an API request to run a forecast pass. The
// subscriber ID is optional; it defaults to the authenticated subscriber.
type ForecastRequest struct {
	SubscriberID string   `json:"subscriber_id"`
	Game         string   `json:"game" binding:"required"`
	Date         string   `json:"date" binding:"required"`
	Session      string   `json:"session"`
	Candidates   []string `json:"candidates" binding:"required"`
}
