package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the runtime settings for the scheduler. Everything has a
// working default so the app runs with no .env at all.
type Config struct {
	Username     string
	Password     string
	DataDir      string
	LogFile      string
	LoginDelay   time.Duration
	LoginTimeout time.Duration
}

// Load reads .env (when present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Username:     getEnv("CINEMA_USERNAME", "Admin"),
		Password:     getEnv("CINEMA_PASSWORD", "password"),
		DataDir:      getEnv("CINEMA_DATA_DIR", ""),
		LogFile:      getEnv("CINEMA_LOG_FILE", ""),
		LoginDelay:   getDuration("CINEMA_LOGIN_DELAY", time.Second),
		LoginTimeout: getDuration("CINEMA_LOGIN_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
