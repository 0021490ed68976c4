package services

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mybestodds/mybestodds-go/internal/models"
)

// OverlayProvider supplies the astrology/numerology snapshot for a
// (date, session) pair. Implementations must always return a usable context;
// when real astronomical data is unavailable they return a neutral context
// with CalculationSource set to "fallback" instead of failing.
type OverlayProvider interface {
	Context(date time.Time, session models.DrawSession) models.OverlayContext
}

const synodicMonthDays = 29.53

var moonEpoch = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// EphemerisProvider derives overlay context from deterministic astronomical
// approximations: synodic moon cycle, calendar zodiac, session planetary
// hours, and date numerology.
type EphemerisProvider struct {
	logger *logrus.Logger
}

// NewEphemerisProvider creates the approximate-ephemeris overlay provider.
func NewEphemerisProvider(logger *logrus.Logger) *EphemerisProvider {
	return &EphemerisProvider{logger: logger}
}

// Context computes the overlay snapshot for date and session.
func (p *EphemerisProvider) Context(date time.Time, session models.DrawSession) models.OverlayContext {
	phase, phaseDays, moonWeight := moonPhaseFromDate(date)
	sign, zodiacWeight := zodiacSignFromDate(date)
	hour, planetaryWeight := planetaryHourFromSession(session)
	numCode, numWeight := DateNumerologyCode(date)

	// Illumination follows the phase angle: 0 at new, 1 at full.
	illumination := (1 - math.Cos(2*math.Pi*phaseDays/synodicMonthDays)) / 2

	ctx := models.OverlayContext{
		Date:              date,
		Session:           session,
		MoonPhase:         phase,
		MoonIllumination:  decimal.NewFromFloat(illumination).Round(4),
		MoonWeight:        decimal.NewFromFloat(moonWeight),
		SunSign:           sign,
		ZodiacWeight:      decimal.NewFromFloat(zodiacWeight),
		PlanetaryHour:     hour,
		PlanetaryWeight:   decimal.NewFromFloat(planetaryWeight),
		NumerologyCode:    fmt.Sprintf("%d", numCode),
		NumerologyWeight:  decimal.NewFromFloat(numWeight).Round(2),
		LifePathAlignment: 3,
		CalculationSource: "ephemeris",
	}

	if p.logger != nil {
		p.logger.WithFields(logrus.Fields{
			"date":       date.Format("2006-01-02"),
			"session":    session,
			"moon_phase": phase,
			"sun_sign":   sign,
		}).Debug("Computed overlay context")
	}
	return ctx
}

// FallbackProvider returns a neutral overlay context with every signal at its
// midpoint, clearly marked so downstream consumers know no real astronomical
// data was involved.
type FallbackProvider struct{}

// NewFallbackProvider creates the neutral overlay provider.
func NewFallbackProvider() *FallbackProvider {
	return &FallbackProvider{}
}

// Context returns the neutral context for date and session.
func (p *FallbackProvider) Context(date time.Time, session models.DrawSession) models.OverlayContext {
	return models.NeutralOverlayContext(date, session)
}

// moonPhaseFromDate buckets the synodic cycle position into the eight
// classical phases with their overlay weights.
func moonPhaseFromDate(date time.Time) (models.MoonPhase, float64, float64) {
	days := math.Mod(date.Sub(moonEpoch).Hours()/24, synodicMonthDays)
	if days < 0 {
		days += synodicMonthDays
	}

	switch {
	case days < 1.0:
		return models.MoonNew, days, 0.25
	case days < 7.4:
		return models.MoonWaxingCrescent, days, 0.50
	case days < 10.7:
		return models.MoonFirstQuarter, days, 0.65
	case days < 14.8:
		return models.MoonWaxingGibbous, days, 0.80
	case days < 17.0:
		return models.MoonFull, days, 1.00
	case days < 22.1:
		return models.MoonWaningGibbous, days, 0.70
	case days < 26.4:
		return models.MoonLastQuarter, days, 0.50
	default:
		return models.MoonWaningCrescent, days, 0.30
	}
}

var zodiacWeights = map[string]float64{
	"Aries":       0.85,
	"Taurus":      0.60,
	"Gemini":      0.70,
	"Cancer":      0.55,
	"Leo":         0.80,
	"Virgo":       0.65,
	"Libra":       0.50,
	"Scorpio":     0.75,
	"Sagittarius": 0.90,
	"Capricorn":   0.70,
	"Aquarius":    0.60,
	"Pisces":      0.55,
}

func zodiacSignFromDate(date time.Time) (string, float64) {
	m, d := int(date.Month()), date.Day()

	var sign string
	switch {
	case (m == 3 && d >= 21) || (m == 4 && d <= 19):
		sign = "Aries"
	case (m == 4 && d >= 20) || (m == 5 && d <= 20):
		sign = "Taurus"
	case (m == 5 && d >= 21) || (m == 6 && d <= 20):
		sign = "Gemini"
	case (m == 6 && d >= 21) || (m == 7 && d <= 22):
		sign = "Cancer"
	case (m == 7 && d >= 23) || (m == 8 && d <= 22):
		sign = "Leo"
	case (m == 8 && d >= 23) || (m == 9 && d <= 22):
		sign = "Virgo"
	case (m == 9 && d >= 23) || (m == 10 && d <= 22):
		sign = "Libra"
	case (m == 10 && d >= 23) || (m == 11 && d <= 21):
		sign = "Scorpio"
	case (m == 11 && d >= 22) || (m == 12 && d <= 21):
		sign = "Sagittarius"
	case (m == 12 && d >= 22) || (m == 1 && d <= 19):
		sign = "Capricorn"
	case (m == 1 && d >= 20) || (m == 2 && d <= 18):
		sign = "Aquarius"
	default:
		sign = "Pisces"
	}
	return sign, zodiacWeights[sign]
}

func planetaryHourFromSession(session models.DrawSession) (string, float64) {
	switch session {
	case models.SessionMidday:
		return "Sun Hour", 0.9
	case models.SessionEvening:
		return "Venus Hour", 0.7
	case models.SessionNight:
		return "Mars Hour", 0.8
	default:
		return "Mercury Hour", 0.6
	}
}
