package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything cmd/api needs from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration

	// InternalToken protects webhook and maintenance endpoints.
	InternalToken string

	// Push providers. FCM is the default; OneSignal is used when its pair
	// of credentials is present and PUSH_PROVIDER=onesignal.
	PushProvider    string
	FCMServerKey    string
	FCMAPIURL       string
	OneSignalAppID  string
	OneSignalAPIKey string

	// RedisURL enables the shared listing cache. Empty means in-memory.
	RedisURL string

	// ReconcileSpec is a robfig/cron spec for the chat-room sweep.
	// Empty disables the scheduled sweep.
	ReconcileSpec string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getenv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTTTL:          24 * time.Hour,
		InternalToken:   os.Getenv("INTERNAL_TOKEN"),
		PushProvider:    getenv("PUSH_PROVIDER", "fcm"),
		FCMServerKey:    os.Getenv("FCM_SERVER_KEY"),
		FCMAPIURL:       getenv("FCM_API_URL", "https://fcm.googleapis.com/fcm/send"),
		OneSignalAppID:  os.Getenv("ONESIGNAL_APP_ID"),
		OneSignalAPIKey: os.Getenv("ONESIGNAL_API_KEY"),
		RedisURL:        os.Getenv("REDIS_URL"),
		ReconcileSpec:   getenv("CHAT_RECONCILE_CRON", "@every 1h"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
