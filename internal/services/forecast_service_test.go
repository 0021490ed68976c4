package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mybestodds/mybestodds-go/internal/models"
)

type mockDrawStore struct {
	mock.Mock
}

func (m *mockDrawStore) GetDrawHistory(ctx context.Context, game models.Game, since time.Time) ([]models.Draw, error) {
	args := m.Called(ctx, game, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Draw), args.Error(1)
}

func (m *mockDrawStore) GetJackpotHistory(ctx context.Context, game models.Game, since time.Time) ([]models.JackpotDraw, error) {
	args := m.Called(ctx, game, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.JackpotDraw), args.Error(1)
}

type mockForecastStore struct {
	mock.Mock
}

func (m *mockForecastStore) SaveForecastRows(ctx context.Context, rows []models.ForecastRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

type memoryOverlayCache struct {
	entries map[string]models.OverlayContext
	sets    int
}

func newMemoryOverlayCache() *memoryOverlayCache {
	return &memoryOverlayCache{entries: make(map[string]models.OverlayContext)}
}

func (c *memoryOverlayCache) cacheKey(date time.Time, session models.DrawSession) string {
	return date.Format("2006-01-02") + ":" + string(session)
}

func (c *memoryOverlayCache) Get(date time.Time, session models.DrawSession) (models.OverlayContext, bool) {
	overlay, ok := c.entries[c.cacheKey(date, session)]
	return overlay, ok
}

func (c *memoryOverlayCache) Set(date time.Time, session models.DrawSession, overlay models.OverlayContext) {
	c.entries[c.cacheKey(date, session)] = overlay
	c.sets++
}

func forecastSubscriber() models.Subscriber {
	return models.Subscriber{
		ID:          "sub-1",
		Email:       "kit@example.com",
		DateOfBirth: "1984-04-06",
		Games:       []string{"CASH3"},
		KitTier:     "full",
	}
}

func TestForecastService_Run_PickGame(t *testing.T) {
	draws := new(mockDrawStore)
	store := new(mockForecastStore)
	date := day("2025-06-01")

	history := []models.Draw{
		{Date: day("2025-05-02"), Digits: "406"},
		{Date: day("2025-04-10"), Digits: "406"},
		{Date: day("2025-03-01"), Digits: "917"},
	}
	draws.On("GetDrawHistory", mock.Anything, models.GameCash3, mock.Anything).Return(history, nil)
	store.On("SaveForecastRows", mock.Anything, mock.Anything).Return(nil)

	svc := NewForecastService(draws, store, NewEphemerisProvider(nil), nil, scoringConfig(), nil)
	rows, err := svc.Run(context.Background(), RunRequest{
		Subscriber: forecastSubscriber(),
		Game:       models.GameCash3,
		Date:       date,
		Session:    models.SessionEvening,
		Candidates: ParseCandidates(models.GameCash3, []string{"406", "917", "555"}),
	})

	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Rows come back strongest first.
	for i := 1; i < len(rows); i++ {
		assert.True(t, rows[i-1].AdjustedConfidence.GreaterThanOrEqual(rows[i].AdjustedConfidence))
	}
	for _, row := range rows {
		assert.Equal(t, "sub-1", row.SubscriberID)
		assert.NotEmpty(t, row.ID)
		assert.NotEmpty(t, row.LegendText)
		assert.Equal(t, "ephemeris", row.CalculationSource)
	}

	draws.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestForecastService_Run_MalformedCandidateDegradesToSkipRow(t *testing.T) {
	draws := new(mockDrawStore)
	draws.On("GetDrawHistory", mock.Anything, models.GameCash3, mock.Anything).Return([]models.Draw{}, nil)

	svc := NewForecastService(draws, nil, NewFallbackProvider(), nil, scoringConfig(), nil)
	rows, err := svc.Run(context.Background(), RunRequest{
		Subscriber: forecastSubscriber(),
		Game:       models.GameCash3,
		Date:       day("2025-06-01"),
		Session:    models.SessionMidday,
		Candidates: ParseCandidates(models.GameCash3, []string{"40621", "406"}),
	})

	require.NoError(t, err)
	require.Len(t, rows, 2)

	var skipRow *models.ForecastRow
	for i := range rows {
		if rows[i].Candidate == "40621" {
			skipRow = &rows[i]
		}
	}
	require.NotNil(t, skipRow)
	assert.Equal(t, models.BandSkip, skipRow.Band)
	assert.True(t, skipRow.AdjustedConfidence.IsZero())
}

func TestForecastService_Run_HistoryErrorFailsRun(t *testing.T) {
	draws := new(mockDrawStore)
	draws.On("GetDrawHistory", mock.Anything, models.GameCash3, mock.Anything).Return(nil, assert.AnError)

	svc := NewForecastService(draws, nil, NewFallbackProvider(), nil, scoringConfig(), nil)
	_, err := svc.Run(context.Background(), RunRequest{
		Subscriber: forecastSubscriber(),
		Game:       models.GameCash3,
		Date:       day("2025-06-01"),
		Candidates: ParseCandidates(models.GameCash3, []string{"406"}),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load draw history")
}

func TestForecastService_Run_Jackpot(t *testing.T) {
	draws := new(mockDrawStore)
	history := []models.JackpotDraw{
		{Date: day("2025-05-30"), MainBalls: []int{7, 12, 23, 41, 55}, BonusBall: 9},
		{Date: day("2025-02-01"), MainBalls: []int{3, 14, 27, 48, 60}, BonusBall: 2},
	}
	draws.On("GetJackpotHistory", mock.Anything, models.GamePowerball, mock.Anything).Return(history, nil)

	svc := NewForecastService(draws, nil, NewFallbackProvider(), nil, scoringConfig(), nil)
	rows, err := svc.Run(context.Background(), RunRequest{
		Subscriber: forecastSubscriber(),
		Game:       models.GamePowerball,
		Date:       day("2025-06-01"),
		Candidates: []models.Candidate{
			{Game: models.GamePowerball, MainBalls: []int{3, 14, 27, 48, 60}, BonusBall: 2},
		},
	})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "03-14-27-48-60 + 02", rows[0].Candidate)
	assert.Equal(t, models.PlayStandard, rows[0].PrimaryPlay)
	draws.AssertExpectations(t)
}

func TestForecastService_OverlayCacheReuse(t *testing.T) {
	draws := new(mockDrawStore)
	draws.On("GetDrawHistory", mock.Anything, models.GameCash3, mock.Anything).Return([]models.Draw{}, nil)

	cache := newMemoryOverlayCache()
	svc := NewForecastService(draws, nil, NewEphemerisProvider(nil), cache, scoringConfig(), nil)

	req := RunRequest{
		Subscriber: forecastSubscriber(),
		Game:       models.GameCash3,
		Date:       day("2025-06-01"),
		Session:    models.SessionEvening,
		Candidates: ParseCandidates(models.GameCash3, []string{"406"}),
	}

	_, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Run(context.Background(), req)
	require.NoError(t, err)

	// Second run hits the cache instead of recomputing.
	assert.Equal(t, 1, cache.sets)
}

func TestForecastService_PersonalizedAlignment(t *testing.T) {
	draws := new(mockDrawStore)
	draws.On("GetDrawHistory", mock.Anything, models.GameCash3, mock.Anything).Return([]models.Draw{}, nil)

	svc := NewForecastService(draws, nil, NewFallbackProvider(), nil, scoringConfig(), nil)

	// Subscribers with different birth dates can land different alignments,
	// which shifts adjusted confidence within the overlay bound.
	overlay := svc.personalize(models.NeutralOverlayContext(day("2025-06-01"), models.SessionEvening), forecastSubscriber(), day("2025-06-01"))
	assert.GreaterOrEqual(t, overlay.LifePathAlignment, 1)
	assert.LessOrEqual(t, overlay.LifePathAlignment, 5)

	// Garbage birth dates leave the neutral alignment in place.
	sub := forecastSubscriber()
	sub.DateOfBirth = "not-a-date"
	overlay = svc.personalize(models.NeutralOverlayContext(day("2025-06-01"), models.SessionEvening), sub, day("2025-06-01"))
	assert.Equal(t, 3, overlay.LifePathAlignment)
}

func TestForecastService_RunBatch_SkipsFailingSubscriber(t *testing.T) {
	draws := new(mockDrawStore)
	// First subscriber's history load fails, second succeeds.
	draws.On("GetDrawHistory", mock.Anything, models.GameCash3, mock.Anything).Return(nil, assert.AnError).Once()
	draws.On("GetDrawHistory", mock.Anything, models.GameCash3, mock.Anything).Return([]models.Draw{}, nil).Once()

	svc := NewForecastService(draws, nil, NewFallbackProvider(), nil, scoringConfig(), nil)

	subs := []models.Subscriber{
		{ID: "sub-fail", DateOfBirth: "1990-01-01"},
		{ID: "sub-ok", DateOfBirth: "1990-01-01"},
	}
	results := svc.RunBatch(context.Background(), subs, models.GameCash3, day("2025-06-01"), models.SessionEvening,
		ParseCandidates(models.GameCash3, []string{"406"}))

	require.Len(t, results, 1)
	assert.Contains(t, results, "sub-ok")
}

func TestParseCandidates(t *testing.T) {
	t.Run("pick digits pass through", func(t *testing.T) {
		candidates := ParseCandidates(models.GameCash3, []string{"406", " 917 ", ""})
		require.Len(t, candidates, 2)
		assert.Equal(t, "406", candidates[0].Digits)
		assert.Equal(t, "917", candidates[1].Digits)
	})

	t.Run("jackpot form with bonus", func(t *testing.T) {
		candidates := ParseCandidates(models.GamePowerball, []string{"03-14-27-48-60 + 02"})
		require.Len(t, candidates, 1)
		assert.Equal(t, []int{3, 14, 27, 48, 60}, candidates[0].MainBalls)
		assert.Equal(t, 2, candidates[0].BonusBall)
	})

	t.Run("unparseable jackpot string becomes empty candidate", func(t *testing.T) {
		candidates := ParseCandidates(models.GamePowerball, []string{"three-fourteen + two"})
		require.Len(t, candidates, 1)
		assert.Empty(t, candidates[0].MainBalls)
	})

	t.Run("jackpot string without bonus ball becomes empty candidate", func(t *testing.T) {
		candidates := ParseCandidates(models.GamePowerball, []string{"03-14-27-48-60", "03-14-27-48-60 + 0"})
		require.Len(t, candidates, 2)
		for _, candidate := range candidates {
			assert.Empty(t, candidate.MainBalls)
			assert.Zero(t, candidate.BonusBall)
		}
	})
}
