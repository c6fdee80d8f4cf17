package config

import (
	"os"
)

type Config struct {
	Env           string
	Port          string
	DBFile        string
	JWTSecret     string
	AvatarDir     string
	PublicBaseURL string
	RedisAddr     string
}

// MustLoad reads configuration from the environment and panics on missing
// required values. Call godotenv.Load before this in main.
func MustLoad() *Config {
	cfg := &Config{
		Env:           getEnv("ENV", "local"),
		Port:          getEnv("PORT", "8080"),
		DBFile:        os.Getenv("DB_FILE"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AvatarDir:     getEnv("AVATAR_DIR", "public/avatars"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		RedisAddr:     os.Getenv("REDIS_ADDR"), // empty selects the in-memory counter store
	}

	if cfg.DBFile == "" {
		panic("DB_FILE is required")
	}
	if cfg.JWTSecret == "" {
		panic("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
