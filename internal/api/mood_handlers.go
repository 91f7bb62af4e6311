package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/moodtracker/internal"
	"github.com/yourname/moodtracker/internal/service"
	"github.com/yourname/moodtracker/internal/storage"
)

const (
	defaultHistoryLimit = 30
	maxHistoryLimit     = 365
)

func PostMood(moods storage.MoodRepository, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.MoodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON: " + err.Error(), "code": 400})
			return
		}
		if err := service.ValidateMoodRequest(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error(), "code": 400})
			return
		}

		entry, err := service.LogMood(c.Request.Context(), moods, user, &req, time.Now())
		if err != nil {
			HandleError(c, logger, err, 500, "Failed to log state")
			return
		}

		c.JSON(http.StatusCreated, entry)
	}
}

func GetMoodByDate(moods storage.MoodRepository, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		date := c.Param("date")
		if _, err := time.Parse("2006-01-02", date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected yyyy-mm-dd", "code": 400})
			return
		}

		entry, err := moods.GetByDate(c.Request.Context(), user.ID, date)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No entry for date", "code": 404})
				return
			}
			HandleError(c, logger, err, 500, "Failed to fetch entry")
			return
		}

		c.JSON(http.StatusOK, entry)
	}
}

func GetMoods(moods storage.MoodRepository, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		limit := defaultHistoryLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "'limit' must be a positive integer", "code": 400})
				return
			}
			limit = n
		}
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}

		entries, err := moods.List(c.Request.Context(), user.ID, limit)
		if err != nil {
			HandleError(c, logger, err, 500, "Failed to fetch entries")
			return
		}

		c.JSON(http.StatusOK, entries)
	}
}
