package config

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration of the blog client.
type Config struct {
	APIURL          string
	HTTPTimeout     time.Duration
	RefreshTimeout  time.Duration
	TokenStore      string
	TokenFile       string
	RedisURI        string
	RedisNamespace  string
	FeedPageSize    int
	ScrollThreshold int
	LogLevel        slog.Level
}

// ServerConfig holds the configuration of the fake blog API.
type ServerConfig struct {
	ServerPort         string
	GinMode            string
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	RefreshStore       string
	RedisURI           string
	S3Endpoint         string
	S3AccessKey        string
	S3SecretKey        string
	S3Bucket           string
	S3UseSSL           bool
}

// S3Enabled reports whether uploads go to S3 instead of memory.
func (c *ServerConfig) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3Bucket != ""
}

// Load reads client configuration from .env file and environment variables
func Load() *Config {
	// Load .env file (ignore error if file doesn't exist - env vars may be set directly)
	_ = godotenv.Load()

	return &Config{
		APIURL:          getEnv("API_URL", "https://4blogs.fun/user"),
		HTTPTimeout:     parseDuration(getEnv("HTTP_TIMEOUT", "15s")),
		RefreshTimeout:  parseDuration(getEnv("REFRESH_TIMEOUT", "10s")),
		TokenStore:      getEnv("TOKEN_STORE", "file"),
		TokenFile:       getEnv("TOKEN_FILE", defaultTokenFile()),
		RedisURI:        getEnv("REDIS_URI", "localhost:6379"),
		RedisNamespace:  getEnv("REDIS_NAMESPACE", "default"),
		FeedPageSize:    parseInt(getEnv("FEED_PAGE_SIZE", "10")),
		ScrollThreshold: parseInt(getEnv("SCROLL_THRESHOLD", "100")),
		LogLevel:        parseLevel(getEnv("LOG_LEVEL", "info")),
	}
}

// LoadServer reads fake API configuration from .env file and environment variables
func LoadServer() *ServerConfig {
	_ = godotenv.Load()

	return &ServerConfig{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		AccessTokenSecret:  getEnvRequired("ACCESS_TOKEN_SECRET"),
		AccessTokenExpiry:  parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "15m")),
		RefreshTokenExpiry: parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "168h")),
		RefreshStore:       getEnv("REFRESH_STORE", "memory"),
		RedisURI:           getEnv("REDIS_URI", "localhost:6379"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),
		S3AccessKey:        getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:        getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:           os.Getenv("S3_BUCKET"),
		S3UseSSL:           getEnv("S3_USE_SSL", "false") == "true",
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".4blogs-session.json"
	}
	return filepath.Join(dir, "4blogs", "session.json")
}

// getEnv reads an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvRequired reads an environment variable and exits if not set
func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Required environment variable %s is not set", key)
	}
	return value
}

// parseDuration parses a duration string, exits on error
func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("Invalid duration format: %s", s)
	}
	return d
}

// parseInt parses a positive integer, exits on error
func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		log.Fatalf("Invalid positive integer: %s", s)
	}
	return n
}

// parseLevel maps debug/info/warn/error onto a slog level, defaulting to info.
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
