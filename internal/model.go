package internal

import "time"

type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       *string    `json:"name,omitempty"`
	Provider   *string    `json:"provider,omitempty"`
	ProviderID *string    `json:"provider_id,omitempty"`
	AvatarURL  *string    `json:"avatar_url,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// Mood states as stored and sent on the wire.
const (
	StateNegative = 0
	StatePositive = 1
)

type MoodEntry struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Date      string     `json:"date"`      // calendar day, yyyy-mm-dd
	State     int        `json:"state"`     // 1 = positive (up), 0 = negative (down)
	Intensity int        `json:"intensity"` // 1–5 scale
	Timestamp time.Time  `json:"timestamp"`
	Note      *string    `json:"note,omitempty"`
	Weather   *string    `json:"weather,omitempty"`
	IsEdited  bool       `json:"is_edited"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (m *MoodEntry) IsPositive() bool {
	return m.State == StatePositive
}

// Outcome values for a DailyPerformancePoint.
const (
	OutcomeNoEntry = -1
	OutcomeLoss    = 0
	OutcomeWin     = 1
)

type DailyPerformancePoint struct {
	Date      string `json:"date"`    // yyyy-mm-dd
	Label     string `json:"label"`
	Outcome   int    `json:"outcome"` // 1 win, 0 loss, -1 no entry
	Intensity *int   `json:"intensity,omitempty"`
}

type DashboardStats struct {
	Range             string                  `json:"range"`
	TotalEntries      int                     `json:"total_entries"`
	Wins              int                     `json:"wins"`
	Losses            int                     `json:"losses"`
	WinRate           float64                 `json:"win_rate"`
	CurrentStreak     int                     `json:"current_streak"`
	LongestStreak     int                     `json:"longest_streak"`
	MMRScore          int                     `json:"mmr_score"`
	AvgUpIntensity    float64                 `json:"avg_up_intensity"`
	AvgDownIntensity  float64                 `json:"avg_down_intensity"`
	RecentPerformance []DailyPerformancePoint `json:"recent_performance"`
}
