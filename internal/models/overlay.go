package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoonPhase is the coarse lunar phase bucket used by the overlay layer.
type MoonPhase string

const (
	MoonNew            MoonPhase = "NEW"
	MoonWaxingCrescent MoonPhase = "WAXING_CRESCENT"
	MoonFirstQuarter   MoonPhase = "FIRST_QUARTER"
	MoonWaxingGibbous  MoonPhase = "WAXING_GIBBOUS"
	MoonFull           MoonPhase = "FULL"
	MoonWaningGibbous  MoonPhase = "WANING_GIBBOUS"
	MoonLastQuarter    MoonPhase = "LAST_QUARTER"
	MoonWaningCrescent MoonPhase = "WANING_CRESCENT"
)

// OverlayContext is the astrology/numerology snapshot for one (date, session)
// pair. It is a read-only value object: produced by an OverlayProvider, cached
// for the duration of a run, and never mutated by the scoring pipeline.
type OverlayContext struct {
	Date              time.Time       `json:"date"`
	Session           DrawSession     `json:"session"`
	MoonPhase         MoonPhase       `json:"moon_phase"`
	MoonIllumination  decimal.Decimal `json:"moon_illumination"` // 0..1
	MoonWeight        decimal.Decimal `json:"moon_weight"`       // 0..1
	SunSign           string          `json:"sun_sign"`
	ZodiacWeight      decimal.Decimal `json:"zodiac_weight"` // 0..1
	PlanetaryHour     string          `json:"planetary_hour"`
	PlanetaryWeight   decimal.Decimal `json:"planetary_weight"` // 0..1
	NumerologyCode    string          `json:"numerology_code"`
	NumerologyWeight  decimal.Decimal `json:"numerology_weight"`   // 0..1
	LifePathAlignment int             `json:"life_path_alignment"` // 1..5
	CalculationSource string          `json:"calculation_source"`  // "ephemeris" or "fallback"
}

// NeutralOverlayContext returns a context whose every signal sits at its
// neutral value, so overlay adjustment becomes a no-op. Used when no
// astronomical data is available; CalculationSource marks it as a fallback.
func NeutralOverlayContext(date time.Time, session DrawSession) OverlayContext {
	half := decimal.NewFromFloat(0.5)
	return OverlayContext{
		Date:              date,
		Session:           session,
		MoonPhase:         MoonNew,
		MoonIllumination:  half,
		MoonWeight:        half,
		SunSign:           "Unknown",
		ZodiacWeight:      half,
		PlanetaryHour:     "Unknown",
		PlanetaryWeight:   half,
		NumerologyCode:    "0",
		NumerologyWeight:  half,
		LifePathAlignment: 3,
		CalculationSource: "fallback",
	}
}
