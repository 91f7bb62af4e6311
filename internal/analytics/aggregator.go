package analytics

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/yourname/moodtracker/internal"
)

// Range selects the trailing window the dashboard reports over.
type Range string

const (
	RangeWeekly  Range = "weekly"
	RangeMonthly Range = "monthly"
	RangeYearly  Range = "yearly"
)

var ErrUnknownRange = errors.New("analytics: unknown range")

func ParseRange(s string) (Range, error) {
	switch Range(s) {
	case RangeWeekly, RangeMonthly, RangeYearly:
		return Range(s), nil
	}
	return "", ErrUnknownRange
}

func (r Range) Days() int {
	switch r {
	case RangeWeekly:
		return 7
	case RangeYearly:
		return 365
	default:
		return 30
	}
}

const dayLayout = "2006-01-02"

// Aggregate reduces a user's raw entry history to the dashboard stats bundle
// for the trailing window ending at now's calendar day. It is a pure function:
// no I/O, no state, safe for concurrent callers.
func Aggregate(entries []internal.MoodEntry, rng Range, now time.Time) internal.DashboardStats {
	loc := now.Location()
	today := dateOnly(now)
	start := today.AddDate(0, 0, -(rng.Days() - 1))

	var filtered []internal.MoodEntry
	for _, e := range entries {
		d := entryDay(&e, loc)
		if !d.Before(start) && !d.After(today) {
			filtered = append(filtered, e)
		}
	}

	wins, losses := 0, 0
	var upIntensities, downIntensities []float64
	for _, e := range filtered {
		if e.IsPositive() {
			wins++
			upIntensities = append(upIntensities, float64(clampIntensity(e.Intensity)))
		} else {
			losses++
			downIntensities = append(downIntensities, float64(clampIntensity(e.Intensity)))
		}
	}

	winRate := 0.0
	if wins+losses > 0 {
		winRate = 100 * float64(wins) / float64(wins+losses)
	}

	// One entry per calendar day; if the upstream ever sends duplicates, the
	// entry with the latest timestamp wins.
	byDay := make(map[string]internal.MoodEntry)
	for _, e := range filtered {
		key := entryDay(&e, loc).Format(dayLayout)
		if prev, ok := byDay[key]; !ok || e.Timestamp.After(prev.Timestamp) {
			byDay[key] = e
		}
	}

	currentStreak := currentStreakDays(byDay, loc)
	longestStreak := longestStreakDays(byDay, loc)

	return internal.DashboardStats{
		Range:             string(rng),
		TotalEntries:      len(filtered),
		Wins:              wins,
		Losses:            losses,
		WinRate:           winRate,
		CurrentStreak:     currentStreak,
		LongestStreak:     longestStreak,
		MMRScore:          mmrScore(wins, losses, currentStreak),
		AvgUpIntensity:    mean(upIntensities),
		AvgDownIntensity:  mean(downIntensities),
		RecentPerformance: performancePoints(byDay, start, today),
	}
}

// mmrScore blends win rate with a streak bonus: 1% per current-streak day
// capped at 10%, the whole score capped at 100. No decided days scores 50.
func mmrScore(wins, losses, currentStreak int) int {
	if wins+losses == 0 {
		return 50
	}
	base := float64(wins) / float64(wins+losses)
	bonus := math.Min(0.1, float64(currentStreak)*0.01)
	return int(math.Round(100 * math.Min(1.0, base+bonus)))
}

// BalanceScore is wins as a fraction of decided days, for gauge displays.
func BalanceScore(s internal.DashboardStats) float64 {
	total := s.Wins + s.Losses
	if total == 0 {
		return 0
	}
	return float64(s.Wins) / float64(total)
}

// EnergySplit partitions decided days into up and down fractions.
func EnergySplit(s internal.DashboardStats) (up, down float64) {
	total := s.Wins + s.Losses
	if total == 0 {
		return 0, 0
	}
	return float64(s.Wins) / float64(total), float64(s.Losses) / float64(total)
}

func currentStreakDays(byDay map[string]internal.MoodEntry, loc *time.Location) int {
	if len(byDay) == 0 {
		return 0
	}
	var latest time.Time
	for key := range byDay {
		d, _ := time.ParseInLocation(dayLayout, key, loc)
		if d.After(latest) {
			latest = d
		}
	}
	streak := 0
	for d := latest; ; d = d.AddDate(0, 0, -1) {
		e, ok := byDay[d.Format(dayLayout)]
		if !ok || !e.IsPositive() {
			break
		}
		streak++
	}
	return streak
}

func longestStreakDays(byDay map[string]internal.MoodEntry, loc *time.Location) int {
	days := make([]time.Time, 0, len(byDay))
	for key, e := range byDay {
		if !e.IsPositive() {
			continue
		}
		d, _ := time.ParseInLocation(dayLayout, key, loc)
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && days[i-1].AddDate(0, 0, 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func performancePoints(byDay map[string]internal.MoodEntry, start, today time.Time) []internal.DailyPerformancePoint {
	var points []internal.DailyPerformancePoint
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		point := internal.DailyPerformancePoint{
			Date:    key,
			Label:   d.Format("Jan 2"),
			Outcome: internal.OutcomeNoEntry,
		}
		if e, ok := byDay[key]; ok {
			if e.IsPositive() {
				point.Outcome = internal.OutcomeWin
			} else {
				point.Outcome = internal.OutcomeLoss
			}
			intensity := clampIntensity(e.Intensity)
			point.Intensity = &intensity
		}
		points = append(points, point)
	}
	return points
}

func entryDay(e *internal.MoodEntry, loc *time.Location) time.Time {
	if d, err := time.ParseInLocation(dayLayout, e.Date, loc); err == nil {
		return d
	}
	return dateOnly(e.Timestamp.In(loc))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func clampIntensity(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

func mean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}
