package services

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mybestodds/mybestodds-go/internal/models"
)

// ballProfile tracks one ball's appearance count and last-seen date across
// the analysis window.
type ballProfile struct {
	count    int
	lastSeen time.Time
	seen     bool
}

// JackpotStats holds per-ball heat and due analysis for a jackpot game. Heat
// measures how often a ball appears relative to the hottest ball; due
// measures how overdue it is relative to the coldest. The composite favors
// due over heat.
type JackpotStats struct {
	game         models.Game
	asOf         time.Time
	mainBalls    map[int]*ballProfile
	bonusBalls   map[int]*ballProfile
	maxMainFreq  int
	maxBonusFreq int
	maxMainGap   int
	maxBonusGap  int
}

var (
	dueComponentWeight  = decimal.NewFromFloat(0.6)
	heatComponentWeight = decimal.NewFromFloat(0.4)
)

// BuildJackpotStats analyzes jackpot draw history as of a reference date.
// Malformed draws are skipped; an empty history yields stats where every
// ball is maximally due and has zero heat.
func BuildJackpotStats(game models.Game, draws []models.JackpotDraw, asOf time.Time, logger *logrus.Logger) *JackpotStats {
	s := &JackpotStats{
		game:       game,
		asOf:       asOf,
		mainBalls:  make(map[int]*ballProfile),
		bonusBalls: make(map[int]*ballProfile),
	}

	skipped := 0
	for _, draw := range draws {
		if len(draw.MainBalls) == 0 || draw.Date.IsZero() {
			skipped++
			continue
		}
		date := draw.Date
		for _, ball := range draw.MainBalls {
			if ball <= 0 {
				continue
			}
			s.record(s.mainBalls, ball, date)
		}
		if draw.BonusBall > 0 {
			s.record(s.bonusBalls, draw.BonusBall, date)
		}
	}

	for _, p := range s.mainBalls {
		if p.count > s.maxMainFreq {
			s.maxMainFreq = p.count
		}
		if gap := daysBetween(p.lastSeen, asOf); gap > s.maxMainGap {
			s.maxMainGap = gap
		}
	}
	for _, p := range s.bonusBalls {
		if p.count > s.maxBonusFreq {
			s.maxBonusFreq = p.count
		}
		if gap := daysBetween(p.lastSeen, asOf); gap > s.maxBonusGap {
			s.maxBonusGap = gap
		}
	}

	if logger != nil && skipped > 0 {
		logger.WithFields(logrus.Fields{
			"game":    game,
			"skipped": skipped,
			"total":   len(draws),
		}).Warn("Skipped malformed jackpot draws during analysis")
	}
	return s
}

func (s *JackpotStats) record(profiles map[int]*ballProfile, ball int, date time.Time) {
	p, ok := profiles[ball]
	if !ok {
		p = &ballProfile{}
		profiles[ball] = p
	}
	p.count++
	p.seen = true
	if date.After(p.lastSeen) {
		p.lastSeen = date
	}
}

// MainHeat returns the ball's frequency relative to the hottest main ball.
func (s *JackpotStats) MainHeat(ball int) decimal.Decimal {
	return heatOf(s.mainBalls, ball, s.maxMainFreq)
}

// MainDue returns how overdue the ball is relative to the coldest main ball.
// A ball never seen in the window is maximally due.
func (s *JackpotStats) MainDue(ball int) decimal.Decimal {
	return dueOf(s.mainBalls, ball, s.maxMainGap, s.asOf)
}

// MainComposite blends due and heat for one main ball.
func (s *JackpotStats) MainComposite(ball int) decimal.Decimal {
	return composite(s.MainDue(ball), s.MainHeat(ball))
}

// BonusHeat returns the bonus ball's relative frequency.
func (s *JackpotStats) BonusHeat(ball int) decimal.Decimal {
	return heatOf(s.bonusBalls, ball, s.maxBonusFreq)
}

// BonusDue returns the bonus ball's relative overdueness.
func (s *JackpotStats) BonusDue(ball int) decimal.Decimal {
	return dueOf(s.bonusBalls, ball, s.maxBonusGap, s.asOf)
}

// BonusComposite blends due and heat for the bonus ball.
func (s *JackpotStats) BonusComposite(ball int) decimal.Decimal {
	return composite(s.BonusDue(ball), s.BonusHeat(ball))
}

func heatOf(profiles map[int]*ballProfile, ball, maxFreq int) decimal.Decimal {
	p, ok := profiles[ball]
	if !ok || maxFreq == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(p.count)).Div(decimal.NewFromInt(int64(maxFreq)))
}

func dueOf(profiles map[int]*ballProfile, ball, maxGap int, asOf time.Time) decimal.Decimal {
	p, ok := profiles[ball]
	if !ok || !p.seen {
		return decimal.NewFromInt(1)
	}
	if maxGap == 0 {
		return decimal.Zero
	}
	gap := daysBetween(p.lastSeen, asOf)
	return decimal.NewFromInt(int64(gap)).Div(decimal.NewFromInt(int64(maxGap)))
}

func composite(due, heat decimal.Decimal) decimal.Decimal {
	return due.Mul(dueComponentWeight).Add(heat.Mul(heatComponentWeight))
}

func daysBetween(from, to time.Time) int {
	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
