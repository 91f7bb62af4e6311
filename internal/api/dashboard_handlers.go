package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/moodtracker/internal"
	"github.com/yourname/moodtracker/internal/analytics"
	"github.com/yourname/moodtracker/internal/storage"
)

func GetDashboard(moods storage.MoodRepository, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		rng := analytics.RangeMonthly
		if raw := c.Query("range"); raw != "" {
			parsed, err := analytics.ParseRange(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "'range' must be one of: weekly, monthly, yearly", "code": 400})
				return
			}
			rng = parsed
		}

		entries, err := moods.List(c.Request.Context(), user.ID, rng.Days())
		if err != nil {
			HandleError(c, logger, err, 500, "Failed to load dashboard")
			return
		}

		c.JSON(http.StatusOK, analytics.Aggregate(entries, rng, time.Now()))
	}
}
