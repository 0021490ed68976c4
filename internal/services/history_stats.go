package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mybestodds/mybestodds-go/internal/models"
)

// HistoryStats holds per-digit, per-position frequency tables and recency
// metrics derived from a bounded window of historical draws. Built fresh at
// scoring time, read-only afterwards, discarded at end of run.
type HistoryStats struct {
	numDigits        int
	windowDrawCount  int
	positionCounts   []map[byte]int
	overallCounts    map[byte]int
	sumCounts        map[int]int
	lastSeen         map[string]time.Time
	windowStart      time.Time
	windowEnd        time.Time
	usedFullFallback bool
}

// BuildHistoryStats builds frequency and recency tables from draws for a
// pick game with numDigits digits, restricted to the trailing lookbackDays
// window ending at the newest draw date.
//
// The builder never fails: an empty draw list yields a neutral all-zero stats
// object, malformed rows (wrong length, non-digit characters) are skipped,
// and a window that filters everything out falls back to the full list.
func BuildHistoryStats(draws []models.Draw, numDigits int, lookbackDays int) *HistoryStats {
	stats := &HistoryStats{
		numDigits:      numDigits,
		positionCounts: make([]map[byte]int, numDigits),
		overallCounts:  make(map[byte]int),
		sumCounts:      make(map[int]int),
		lastSeen:       make(map[string]time.Time),
	}
	for i := range stats.positionCounts {
		stats.positionCounts[i] = make(map[byte]int)
	}

	valid := make([]models.Draw, 0, len(draws))
	var maxDate time.Time
	for _, d := range draws {
		if len(d.Digits) != numDigits || !allDigits(d.Digits) {
			continue
		}
		valid = append(valid, d)
		if d.Date.After(maxDate) {
			maxDate = d.Date
		}
	}
	if len(valid) == 0 {
		return stats
	}

	windowStart := maxDate.AddDate(0, 0, -lookbackDays)
	windowed := make([]models.Draw, 0, len(valid))
	for _, d := range valid {
		if !d.Date.Before(windowStart) {
			windowed = append(windowed, d)
		}
	}
	if len(windowed) == 0 {
		// Degrade to the whole history rather than failing on thin data.
		windowed = valid
		stats.usedFullFallback = true
	}

	stats.windowStart = windowStart
	stats.windowEnd = maxDate
	stats.windowDrawCount = len(windowed)

	for _, d := range windowed {
		sum := 0
		for pos := 0; pos < numDigits; pos++ {
			digit := d.Digits[pos]
			stats.positionCounts[pos][digit]++
			stats.overallCounts[digit]++
			sum += int(digit - '0')
		}
		stats.sumCounts[sum]++
		if seen, ok := stats.lastSeen[d.Digits]; !ok || d.Date.After(seen) {
			stats.lastSeen[d.Digits] = d.Date
		}
	}

	return stats
}

// WindowDrawCount returns the number of draws inside the scoring window.
func (h *HistoryStats) WindowDrawCount() int {
	return h.windowDrawCount
}

// Window returns the scoring window bounds. Both are zero when the history
// was empty.
func (h *HistoryStats) Window() (start, end time.Time) {
	return h.windowStart, h.windowEnd
}

// UsedFullFallback reports whether the lookback window filtered out every
// draw and the builder fell back to the full history.
func (h *HistoryStats) UsedFullFallback() bool {
	return h.usedFullFallback
}

// PositionFrequencyOf returns the probability of digit appearing at position
// pos, normalized by the window draw count. Returns zero when there is no
// data; it never divides by zero.
func (h *HistoryStats) PositionFrequencyOf(pos int, digit byte) decimal.Decimal {
	if h.windowDrawCount == 0 || pos < 0 || pos >= len(h.positionCounts) {
		return decimal.Zero
	}
	count := h.positionCounts[pos][digit]
	return decimal.NewFromInt(int64(count)).Div(decimal.NewFromInt(int64(h.windowDrawCount)))
}

// OverallDigitFrequencyOf returns the probability of digit appearing at any
// position, normalized by total digits observed in the window.
func (h *HistoryStats) OverallDigitFrequencyOf(digit byte) decimal.Decimal {
	totalDigits := h.windowDrawCount * h.numDigits
	if totalDigits == 0 {
		return decimal.Zero
	}
	count := h.overallCounts[digit]
	return decimal.NewFromInt(int64(count)).Div(decimal.NewFromInt(int64(totalDigits)))
}

// SumFrequencyOf returns the probability of a draw's digit sum equaling sum.
func (h *HistoryStats) SumFrequencyOf(sum int) decimal.Decimal {
	if h.windowDrawCount == 0 {
		return decimal.Zero
	}
	count := h.sumCounts[sum]
	return decimal.NewFromInt(int64(count)).Div(decimal.NewFromInt(int64(h.windowDrawCount)))
}

// RecencyGap returns the number of days since combo last appeared, as of
// asOf. The second return value is false when the combo was never seen in the
// window; callers treat that as "maximally due", not as an error.
func (h *HistoryStats) RecencyGap(combo string, asOf time.Time) (int, bool) {
	seen, ok := h.lastSeen[combo]
	if !ok {
		return 0, false
	}
	gap := int(asOf.Sub(seen).Hours() / 24)
	if gap < 0 {
		gap = 0
	}
	return gap, true
}
