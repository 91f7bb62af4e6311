package config

import (
	"errors"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                string
	LogLevel           string
	HTTPAddr           string
	DBType             string
	DBDSN              string
	FileUsers          string
	FileMoods          string
	SessionFile        string
	JWTSecret          string
	TokenTTLHours      int
	GoogleTokenInfoURL string
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		cfg = &Config{
			Env:                getEnv("APP_ENV", "development"),
			LogLevel:           getEnv("LOG_LEVEL", "info"),
			HTTPAddr:           getEnv("HTTP_ADDR", ":8088"),
			DBType:             getEnv("STORAGE_BACKEND", "file"),
			DBDSN:              getEnv("POSTGRES_DSN", ""),
			FileUsers:          getEnv("USERS_FILE", "data/users.json"),
			FileMoods:          getEnv("MOODS_FILE", "data/moods.json"),
			SessionFile:        getEnv("SESSION_FILE", "data/session.json"),
			JWTSecret:          getEnv("JWT_SECRET", "dev-secret"),
			TokenTTLHours:      getEnvInt("TOKEN_TTL_HOURS", 72),
			GoogleTokenInfoURL: getEnv("GOOGLE_TOKENINFO_URL", "https://oauth2.googleapis.com/tokeninfo"),
		}
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

func (c *Config) Validate() error {
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "file" && (c.FileUsers == "" || c.FileMoods == "") {
		return errors.New("File storage requires USERS_FILE and MOODS_FILE to be set")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env == "production" && c.JWTSecret == "dev-secret" {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.TokenTTLHours <= 0 {
		return errors.New("TOKEN_TTL_HOURS must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
