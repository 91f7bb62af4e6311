package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/moodtracker/internal"
	"github.com/yourname/moodtracker/internal/service"
	"github.com/yourname/moodtracker/internal/storage"
)

func GetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, currentUser(c))
	}
}

func PutProfile(users storage.UserRepository, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.ProfileUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON: " + err.Error(), "code": 400})
			return
		}

		updated, err := service.UpdateProfile(c.Request.Context(), users, user, &req)
		if err != nil {
			HandleError(c, logger, err, 500, "Failed to update profile")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}
