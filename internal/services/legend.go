package services

import (
	"github.com/mybestodds/mybestodds-go/internal/models"
)

// legendFallbackCode is used when a game/play combination has no dedicated
// legend entry. Every exported row carries readable legend text.
const legendFallbackCode = "GEN_STD"

var gamePrefixes = map[models.Game]string{
	models.GameCash3:        "C3",
	models.GameCash4:        "C4",
	models.GamePowerball:    "PB",
	models.GameMegaMillions: "MM",
	models.GameCash4Life:    "C4L",
}

var playAbbrevs = map[models.PlayType]string{
	models.PlayStraight:    "ST",
	models.PlayBox:         "BX",
	models.PlayStraightBox: "STBX",
	models.PlayCombo:       "CMB",
	models.PlayFrontPair:   "FP",
	models.PlayBackPair:    "BP",
	models.PlayOneOff:      "1OFF",
	models.PlayStandard:    "STD",
}

var legendTexts = map[string]string{
	"C3_ST":   "Cash 3 straight: play the exact order shown.",
	"C3_BX":   "Cash 3 box: any order of the three digits wins.",
	"C3_STBX": "Cash 3 straight/box split: half on exact order, half on any order.",
	"C3_CMB":  "Cash 3 combo: every straight arrangement covered.",
	"C3_FP":   "Cash 3 front pair: first two digits in exact order.",
	"C3_BP":   "Cash 3 back pair: last two digits in exact order.",
	"C3_1OFF": "Cash 3 one-off: exact number plus one-up/one-down on each digit.",
	"C4_ST":   "Cash 4 straight: play the exact order shown.",
	"C4_BX":   "Cash 4 box: any order of the four digits wins.",
	"C4_STBX": "Cash 4 straight/box split: half on exact order, half on any order.",
	"C4_CMB":  "Cash 4 combo: every straight arrangement covered.",
	"C4_1OFF": "Cash 4 one-off: exact number plus one-up/one-down on each digit.",
	"PB_STD":  "Powerball standard line: five white balls plus the Powerball.",
	"MM_STD":  "Mega Millions standard line: five white balls plus the Mega Ball.",
	"C4L_STD": "Cash4Life standard line: five balls plus the Cash Ball.",
	"GEN_STD": "Standard play for this game.",
}

// legendCode derives the legend key from the game and the primary play.
func legendCode(game models.Game, play models.PlayType) string {
	prefix, ok := gamePrefixes[game]
	if !ok {
		return legendFallbackCode
	}
	abbrev, ok := playAbbrevs[play]
	if !ok {
		return legendFallbackCode
	}
	code := prefix + "_" + abbrev
	if _, ok := legendTexts[code]; !ok {
		return legendFallbackCode
	}
	return code
}

// LegendText resolves a legend code to its kit-facing description. Unknown
// codes fall back to the generic entry rather than empty text.
func LegendText(code string) string {
	if text, ok := legendTexts[code]; ok {
		return text
	}
	return legendTexts[legendFallbackCode]
}
