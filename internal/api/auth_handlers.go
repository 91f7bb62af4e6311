package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/moodtracker/internal"
	"github.com/yourname/moodtracker/internal/auth"
	"github.com/yourname/moodtracker/internal/service"
	"github.com/yourname/moodtracker/internal/storage"
)

// --- Handlers ---
func PostRegister(users storage.UserRepository, tokens *auth.TokenService, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON: " + err.Error(), "code": 400})
			return
		}
		if err := service.ValidateRegisterRequest(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error(), "code": 400})
			return
		}

		token, user, err := service.Register(c.Request.Context(), users, tokens, &req)
		if err != nil {
			if errors.Is(err, storage.ErrEmailTaken) {
				c.JSON(http.StatusConflict, gin.H{"error": "Email already registered", "code": 409})
				return
			}
			logger.Errorf("register failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed", "code": 500})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
	}
}

func PostLogin(users storage.UserRepository, tokens *auth.TokenService, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON: " + err.Error(), "code": 400})
			return
		}
		if err := service.ValidateLoginRequest(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error(), "code": 400})
			return
		}

		token, user, err := service.Login(c.Request.Context(), users, tokens, &req)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password", "code": 401})
				return
			}
			logger.Errorf("login failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed", "code": 500})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

type socialLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

func PostGoogleLogin(users storage.UserRepository, verifier auth.GoogleVerifier, tokens *auth.TokenService, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req socialLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: token required", "code": 400})
			return
		}

		token, user, err := service.GoogleLogin(c.Request.Context(), users, verifier, tokens, req.Token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google token", "code": 401})
				return
			}
			logger.Errorf("google login failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed", "code": 500})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}
