package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mybestodds/mybestodds-go/internal/config"
	"github.com/mybestodds/mybestodds-go/internal/models"
)

// DrawStore is the slice of the draw repository the forecast run needs.
type DrawStore interface {
	GetDrawHistory(ctx context.Context, game models.Game, since time.Time) ([]models.Draw, error)
	GetJackpotHistory(ctx context.Context, game models.Game, since time.Time) ([]models.JackpotDraw, error)
}

// ForecastStore persists assembled forecast rows.
type ForecastStore interface {
	SaveForecastRows(ctx context.Context, rows []models.ForecastRow) error
}

// OverlayCache fronts the overlay provider with a per-(date, session) cache.
type OverlayCache interface {
	Get(date time.Time, session models.DrawSession) (models.OverlayContext, bool)
	Set(date time.Time, session models.DrawSession, overlay models.OverlayContext)
}

// ForecastService runs the full per-subscriber pipeline: history stats,
// overlay context, scoring, play-type advice and row assembly. One service
// instance serves all games.
type ForecastService struct {
	draws     DrawStore
	forecasts ForecastStore
	provider  OverlayProvider
	cache     OverlayCache
	scorer    *ConfidenceScorer
	advisor   *PlayTypeAdvisor
	cfg       config.ScoringConfig
	logger    *logrus.Logger
}

// NewForecastService wires the pipeline. The cache is optional; pass nil to
// hit the provider directly on every run.
func NewForecastService(draws DrawStore, forecasts ForecastStore, provider OverlayProvider, cache OverlayCache, cfg config.ScoringConfig, logger *logrus.Logger) *ForecastService {
	return &ForecastService{
		draws:     draws,
		forecasts: forecasts,
		provider:  provider,
		cache:     cache,
		scorer:    NewConfidenceScorer(cfg, logger),
		advisor:   NewPlayTypeAdvisor(logger),
		cfg:       cfg,
		logger:    logger,
	}
}

// RunRequest describes one forecast run for one subscriber and game.
type RunRequest struct {
	Subscriber models.Subscriber
	Game       models.Game
	Date       time.Time
	Session    models.DrawSession
	Candidates []models.Candidate
}

// Run executes the pipeline for every candidate in the request and persists
// the resulting rows, strongest first. A candidate that cannot be scored
// degrades to a Skip row; only history loading and persistence can fail the
// run as a whole.
func (s *ForecastService) Run(ctx context.Context, req RunRequest) ([]models.ForecastRow, error) {
	since := req.Date.AddDate(0, 0, -s.cfg.LookbackDays)

	overlay := s.overlayFor(req.Date, req.Session)
	overlay = s.personalize(overlay, req.Subscriber, req.Date)

	identity := RowIdentity{
		SubscriberID: req.Subscriber.ID,
		Date:         req.Date,
		Session:      req.Session,
	}

	var rows []models.ForecastRow
	if req.Game.IsJackpot() {
		history, err := s.draws.GetJackpotHistory(ctx, req.Game, since)
		if err != nil {
			return nil, fmt.Errorf("failed to load jackpot history for %s: %w", req.Game, err)
		}
		stats := BuildJackpotStats(req.Game, history, req.Date, s.logger)

		for _, candidate := range req.Candidates {
			score := s.scorer.ScoreJackpot(candidate, stats, overlay)
			flags := ClassifyPattern(candidate.Digits)
			decision := s.advisor.Advise(candidate, flags, score.Band)
			rows = append(rows, AssembleRow(candidate, flags, score, decision, overlay, identity))
		}
	} else {
		history, err := s.draws.GetDrawHistory(ctx, req.Game, since)
		if err != nil {
			return nil, fmt.Errorf("failed to load draw history for %s: %w", req.Game, err)
		}
		stats := BuildHistoryStats(history, req.Game.NumDigits(), s.cfg.LookbackDays)
		if stats.UsedFullFallback() && s.logger != nil {
			s.logger.WithField("game", req.Game).Warn("Lookback window empty, scoring against full history")
		}

		for _, candidate := range req.Candidates {
			score := s.scorer.Score(candidate, stats, overlay, req.Date)
			flags := ClassifyPattern(candidate.Digits)
			decision := s.advisor.Advise(candidate, flags, score.Band)
			rows = append(rows, AssembleRow(candidate, flags, score, decision, overlay, identity))
		}
	}

	// Strongest picks first; band rank breaks confidence ties.
	sort.SliceStable(rows, func(i, j int) bool {
		cmp := rows[i].AdjustedConfidence.Cmp(rows[j].AdjustedConfidence)
		if cmp != 0 {
			return cmp > 0
		}
		return rows[i].Band.Rank() > rows[j].Band.Rank()
	})

	if s.forecasts != nil {
		if err := s.forecasts.SaveForecastRows(ctx, rows); err != nil {
			return rows, fmt.Errorf("failed to persist forecast rows: %w", err)
		}
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"subscriber": req.Subscriber.ID,
			"game":       req.Game,
			"date":       req.Date.Format("2006-01-02"),
			"session":    req.Session,
			"rows":       len(rows),
		}).Info("Forecast run completed")
	}
	return rows, nil
}

// RunBatch runs the pipeline for every subscriber in the list. One
// subscriber's failure is logged and skipped rather than aborting the batch.
func (s *ForecastService) RunBatch(ctx context.Context, subscribers []models.Subscriber, game models.Game, date time.Time, session models.DrawSession, candidates []models.Candidate) map[string][]models.ForecastRow {
	results := make(map[string][]models.ForecastRow, len(subscribers))
	for _, sub := range subscribers {
		rows, err := s.Run(ctx, RunRequest{
			Subscriber: sub,
			Game:       game,
			Date:       date,
			Session:    session,
			Candidates: candidates,
		})
		if err != nil {
			if s.logger != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"subscriber": sub.ID,
					"game":       game,
				}).Warn("Skipping subscriber after failed forecast run")
			}
			continue
		}
		results[sub.ID] = rows
	}
	return results
}

// ParseCandidates converts raw candidate strings into typed candidates.
// Pick games carry the digit string through as-is; an invalid one degrades
// to a Skip row at scoring rather than failing the parse. Jackpot strings
// use the "NN-NN-NN-NN-NN + NN" form.
func ParseCandidates(game models.Game, raw []string) []models.Candidate {
	candidates := make([]models.Candidate, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if game.IsJackpot() {
			candidates = append(candidates, parseJackpotCandidate(game, s))
			continue
		}
		candidates = append(candidates, models.Candidate{Game: game, Digits: s})
	}
	return candidates
}

func parseJackpotCandidate(game models.Game, s string) models.Candidate {
	candidate := models.Candidate{Game: game}
	idx := strings.Index(s, "+")
	if idx < 0 {
		// A jackpot line without a bonus ball is malformed, not a partial
		// pick; an empty candidate scores as a neutral Skip.
		return models.Candidate{Game: game}
	}
	mainPart := s[:idx]
	bonus, err := strconv.Atoi(strings.TrimSpace(s[idx+1:]))
	if err != nil || bonus <= 0 {
		return models.Candidate{Game: game}
	}
	candidate.BonusBall = bonus
	for _, field := range strings.FieldsFunc(mainPart, func(r rune) bool {
		return r == '-' || r == ' ' || r == ','
	}) {
		ball, err := strconv.Atoi(field)
		if err != nil {
			return models.Candidate{Game: game}
		}
		candidate.MainBalls = append(candidate.MainBalls, ball)
	}
	return candidate
}

// overlayFor resolves the overlay context through the cache when one is
// configured. Provider output is cached for reuse across subscribers in the
// same run.
func (s *ForecastService) overlayFor(date time.Time, session models.DrawSession) models.OverlayContext {
	if s.cache != nil {
		if overlay, ok := s.cache.Get(date, session); ok {
			return overlay
		}
	}

	overlay := s.provider.Context(date, session)
	if s.cache != nil {
		s.cache.Set(date, session, overlay)
	}
	return overlay
}

// personalize replaces the neutral life-path alignment with the subscriber's
// own, derived from their date of birth. An unparsable birth date leaves the
// shared overlay untouched.
func (s *ForecastService) personalize(overlay models.OverlayContext, sub models.Subscriber, date time.Time) models.OverlayContext {
	lifePath, ok := LifePathFromDOB(sub.DateOfBirth)
	if !ok {
		return overlay
	}

	universal := UniversalDayNumber(date)
	personal := PersonalDayNumber(lifePath, universal)
	overlay.LifePathAlignment = LifePathAlignment(lifePath, personal)
	return overlay
}
