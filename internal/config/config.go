package config

import (
	"os"
	"strings"
	"time"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port               string
	Env                string
	MongoURI           string
	MongoDB            string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	CORSOrigins        []string
}

func Load() *Config {
	return &Config{
		Port:               getenv("PORT", "8080"),
		Env:                getenv("ENV", "development"),
		MongoURI:           getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:            getenv("MONGO_DB", "taskflow"),
		AccessTokenSecret:  getenv("ACCESS_TOKEN_SECRET", ""),
		RefreshTokenSecret: getenv("REFRESH_TOKEN_SECRET", ""),
		AccessTokenTTL:     getduration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:    getduration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		CORSOrigins:        splitOrigins(getenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
	}
}

// splitOrigins splits a comma-separated origin list, trimming whitespace so
// "a, b" configures two usable origins.
func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// Production reports whether the service runs in production mode; it controls
// the Secure flag on the refresh cookie.
func (c *Config) Production() bool {
	return c.Env == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
