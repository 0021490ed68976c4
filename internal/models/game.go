package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Game identifies a supported lottery game.
type Game string

const (
	GameCash3        Game = "CASH3"
	GameCash4        Game = "CASH4"
	GamePowerball    Game = "POWERBALL"
	GameMegaMillions Game = "MEGAMILLIONS"
	GameCash4Life    Game = "CASH4LIFE"
)

// SupportedGames lists every game the engine can score.
var SupportedGames = []Game{GameCash3, GameCash4, GamePowerball, GameMegaMillions, GameCash4Life}

// ParseGame normalizes a game string. Unknown values return ok=false.
func ParseGame(s string) (Game, bool) {
	g := Game(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range SupportedGames {
		if g == known {
			return g, true
		}
	}
	return "", false
}

// NumDigits returns the digit count for pick-style games, 0 for jackpot games.
func (g Game) NumDigits() int {
	switch g {
	case GameCash3:
		return 3
	case GameCash4:
		return 4
	default:
		return 0
	}
}

// IsJackpot reports whether the game is a ball-draw jackpot game.
func (g Game) IsJackpot() bool {
	return g.NumDigits() == 0
}

var titleCaser = cases.Title(language.English)

// DisplayName returns the subscriber-facing game name.
func (g Game) DisplayName() string {
	switch g {
	case GameCash3:
		return "Cash 3"
	case GameCash4:
		return "Cash 4"
	case GameCash4Life:
		return "Cash 4 Life"
	default:
		return titleCaser.String(strings.ToLower(string(g)))
	}
}

// DrawSession identifies which daily drawing a record belongs to.
type DrawSession string

const (
	SessionMidday  DrawSession = "MIDDAY"
	SessionEvening DrawSession = "EVENING"
	SessionNight   DrawSession = "NIGHT"
	SessionNone    DrawSession = "NONE"
)

// ParseDrawSession normalizes a session string; anything unknown maps to SessionNone.
func ParseDrawSession(s string) DrawSession {
	switch DrawSession(strings.ToUpper(strings.TrimSpace(s))) {
	case SessionMidday:
		return SessionMidday
	case SessionEvening:
		return SessionEvening
	case SessionNight:
		return SessionNight
	default:
		return SessionNone
	}
}
