package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourname/moodtracker/internal"
)

func entryOn(day time.Time, state, intensity int) internal.MoodEntry {
	return internal.MoodEntry{
		ID:        day.Format("2006-01-02"),
		UserID:    "u1",
		Date:      day.Format("2006-01-02"),
		State:     state,
		Intensity: intensity,
		Timestamp: day.Add(12 * time.Hour),
		CreatedAt: day.Add(12 * time.Hour),
	}
}

func TestAggregateEmptyWeekly(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	s := Aggregate(nil, RangeWeekly, now)

	assert.Equal(t, 0, s.TotalEntries)
	assert.Equal(t, 0, s.Wins)
	assert.Equal(t, 0, s.Losses)
	assert.Equal(t, 0.0, s.WinRate)
	assert.Equal(t, 50, s.MMRScore)
	assert.Equal(t, 0.0, s.AvgUpIntensity)
	assert.Equal(t, 0.0, s.AvgDownIntensity)
	assert.Len(t, s.RecentPerformance, 7)
	for _, p := range s.RecentPerformance {
		assert.Equal(t, internal.OutcomeNoEntry, p.Outcome)
		assert.Nil(t, p.Intensity)
	}
}

func TestAggregateTenDayScenario(t *testing.T) {
	// 10 days, 7 positive, 3 negative, latest day positive with a current
	// run of 3 positive days: winRate 70, streak 3, mmr 73.
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	states := []int{1, 1, 0, 1, 1, 0, 0, 1, 1, 1} // oldest first, last 3 positive
	var entries []internal.MoodEntry
	for i, st := range states {
		day := today.AddDate(0, 0, i-9)
		entries = append(entries, entryOn(day, st, 4))
	}

	s := Aggregate(entries, RangeMonthly, now)
	assert.Equal(t, 10, s.TotalEntries)
	assert.Equal(t, 7, s.Wins)
	assert.Equal(t, 3, s.Losses)
	assert.InDelta(t, 70.0, s.WinRate, 0.001)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 73, s.MMRScore)
	assert.Equal(t, 7+3, s.Wins+s.Losses)
}

func TestAggregateWindowFiltering(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	entries := []internal.MoodEntry{
		entryOn(today, 1, 3),
		entryOn(today.AddDate(0, 0, -6), 0, 2),
		entryOn(today.AddDate(0, 0, -7), 1, 5), // outside weekly window
	}

	s := Aggregate(entries, RangeWeekly, now)
	assert.Equal(t, 2, s.TotalEntries)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Len(t, s.RecentPerformance, 7)
	assert.Equal(t, today.AddDate(0, 0, -6).Format("2006-01-02"), s.RecentPerformance[0].Date)
	assert.Equal(t, today.Format("2006-01-02"), s.RecentPerformance[6].Date)
}

func TestCurrentStreakResetOnNegativeLatestDay(t *testing.T) {
	now := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	entries := []internal.MoodEntry{
		entryOn(today.AddDate(0, 0, -2), 1, 3),
		entryOn(today.AddDate(0, 0, -1), 1, 3),
		entryOn(today, 0, 2),
	}

	s := Aggregate(entries, RangeWeekly, now)
	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 2, s.LongestStreak)
}

func TestCurrentStreakAnchorsAtMostRecentLoggedDay(t *testing.T) {
	// Nothing logged today or yesterday; streak still counts from the last
	// logged day backward.
	now := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	entries := []internal.MoodEntry{
		entryOn(today.AddDate(0, 0, -4), 1, 3),
		entryOn(today.AddDate(0, 0, -3), 1, 3),
		entryOn(today.AddDate(0, 0, -2), 1, 3),
	}

	s := Aggregate(entries, RangeWeekly, now)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 3, s.LongestStreak)
}

func TestLongestStreakBrokenByGap(t *testing.T) {
	now := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	entries := []internal.MoodEntry{
		entryOn(today.AddDate(0, 0, -6), 1, 3),
		entryOn(today.AddDate(0, 0, -5), 1, 3),
		// -4 missing
		entryOn(today.AddDate(0, 0, -3), 1, 3),
		entryOn(today.AddDate(0, 0, -2), 1, 3),
		entryOn(today.AddDate(0, 0, -1), 1, 3),
		entryOn(today, 1, 3),
	}

	s := Aggregate(entries, RangeWeekly, now)
	assert.Equal(t, 4, s.CurrentStreak)
	assert.Equal(t, 4, s.LongestStreak)
}

func TestDuplicateDayLatestTimestampWins(t *testing.T) {
	now := time.Date(2026, 8, 31, 20, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	early := entryOn(today, 0, 2)
	late := entryOn(today, 1, 5)
	late.Timestamp = today.Add(18 * time.Hour)

	s := Aggregate([]internal.MoodEntry{early, late}, RangeWeekly, now)
	last := s.RecentPerformance[len(s.RecentPerformance)-1]
	assert.Equal(t, internal.OutcomeWin, last.Outcome)
	if assert.NotNil(t, last.Intensity) {
		assert.Equal(t, 5, *last.Intensity)
	}
	assert.Equal(t, 1, s.CurrentStreak)
}

func TestIntensityClamping(t *testing.T) {
	now := time.Date(2026, 8, 31, 20, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	entries := []internal.MoodEntry{
		entryOn(today, 1, 9),
		entryOn(today.AddDate(0, 0, -1), 0, -2),
	}

	s := Aggregate(entries, RangeWeekly, now)
	assert.InDelta(t, 5.0, s.AvgUpIntensity, 0.001)
	assert.InDelta(t, 1.0, s.AvgDownIntensity, 0.001)
}

func TestMMRScoreCaps(t *testing.T) {
	// 100% win rate plus bonus still caps at 100.
	now := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	var entries []internal.MoodEntry
	for i := 0; i < 15; i++ {
		entries = append(entries, entryOn(today.AddDate(0, 0, -i), 1, 3))
	}

	s := Aggregate(entries, RangeMonthly, now)
	assert.Equal(t, 100, s.MMRScore)
	assert.Equal(t, 15, s.CurrentStreak)

	// Streak bonus itself caps at 10%.
	assert.Equal(t, 60, mmrScore(5, 5, 12))
	assert.Equal(t, 53, mmrScore(5, 5, 3))
}

func TestBalanceScoreAndEnergySplit(t *testing.T) {
	s := internal.DashboardStats{Wins: 7, Losses: 3}
	assert.InDelta(t, 0.7, BalanceScore(s), 0.001)
	up, down := EnergySplit(s)
	assert.InDelta(t, 0.7, up, 0.001)
	assert.InDelta(t, 0.3, down, 0.001)

	empty := internal.DashboardStats{}
	assert.Equal(t, 0.0, BalanceScore(empty))
	up, down = EnergySplit(empty)
	assert.Equal(t, 0.0, up)
	assert.Equal(t, 0.0, down)
}

func TestParseRange(t *testing.T) {
	for _, valid := range []string{"weekly", "monthly", "yearly"} {
		r, err := ParseRange(valid)
		assert.NoError(t, err)
		assert.Equal(t, valid, string(r))
	}
	_, err := ParseRange("daily")
	assert.ErrorIs(t, err, ErrUnknownRange)
}
