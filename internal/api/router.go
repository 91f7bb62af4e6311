package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yourname/moodtracker/internal"
	"github.com/yourname/moodtracker/internal/auth"
	"github.com/yourname/moodtracker/internal/storage"
)

type Deps struct {
	Users    storage.UserRepository
	Moods    storage.MoodRepository
	Tokens   *auth.TokenService
	Verifier auth.GoogleVerifier
	Logger   internal.Logger
}

// NewRouter wires all routes. Auth routes are open; everything else sits
// behind the bearer-token middleware.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())

	r.POST("/auth/register", PostRegister(d.Users, d.Tokens, d.Logger))
	r.POST("/auth/login", PostLogin(d.Users, d.Tokens, d.Logger))
	r.POST("/auth/google", PostGoogleLogin(d.Users, d.Verifier, d.Tokens, d.Logger))

	protected := r.Group("/")
	protected.Use(auth.Middleware(d.Tokens, d.Users))
	protected.GET("/profile", GetProfile())
	protected.PUT("/profile", PutProfile(d.Users, d.Logger))
	protected.POST("/states", PostMood(d.Moods, d.Logger))
	protected.GET("/states", GetMoods(d.Moods, d.Logger))
	protected.GET("/states/date/:date", GetMoodByDate(d.Moods, d.Logger))
	protected.GET("/analytics/dashboard", GetDashboard(d.Moods, d.Logger))

	return r
}

// RequestIDMiddleware tags every request with a correlation ID, honoring a
// caller-supplied X-Request-ID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Next()
	}
}
