package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/moodtracker/internal"
	"github.com/yourname/moodtracker/internal/api"
	"github.com/yourname/moodtracker/internal/auth"
	"github.com/yourname/moodtracker/internal/config"
	"github.com/yourname/moodtracker/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := internal.NewLogger(cfg.LogLevel)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var (
		users storage.UserRepository
		moods storage.MoodRepository
		err   error
	)
	switch cfg.DBType {
	case "postgres":
		users, moods, err = storage.NewPostgresRepositories(cfg.DBDSN, logger)
	default:
		if dir := filepath.Dir(cfg.FileUsers); dir != "." {
			_ = os.MkdirAll(dir, 0755)
		}
		users, moods, err = storage.NewFileRepositories(cfg.FileUsers, cfg.FileMoods, logger)
	}
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	verifier := auth.NewHTTPGoogleVerifier(cfg.GoogleTokenInfoURL, logger)

	r := api.NewRouter(api.Deps{
		Users:    users,
		Moods:    moods,
		Tokens:   tokens,
		Verifier: verifier,
		Logger:   logger,
	})

	logger.Infof("server running on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Fatalf("failed to start server: %v", err)
	}
}
