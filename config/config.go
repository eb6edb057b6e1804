package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server configuration. Loaded once at process start
// and passed by reference; there is no cached global.
type Config struct {
	Debug bool
	Host  string
	Port  int

	GeminiAPIKey       string
	LiveModel          string
	TranscriptionModel string

	RedisURL      string
	RedisPassword string

	MaxSessions    int
	SessionTimeout time.Duration
	AllowedOrigins []string
	MaxBufferSize  int // Maximum turn audio buffer size in bytes per session
}

// Load reads configuration from environment files and variables.
// The DEBUG flag in .env selects the env file: debug runs keep .env,
// everything else is overridden from prod.env.
func Load() (*Config, error) {
	// Load .env if it exists (doesn't error if missing)
	_ = godotenv.Load()

	debug := parseBool(os.Getenv("DEBUG"))
	if !debug {
		_ = godotenv.Overload("prod.env")
	}

	config := &Config{
		Debug:              debug,
		Host:               "localhost",
		Port:               9083,
		LiveModel:          "gemini-2.0-flash-exp",
		TranscriptionModel: "gemini-1.5-flash-8b",
		RedisURL:           "localhost:6379",
		RedisPassword:      "",
		MaxSessions:        100,
		SessionTimeout:     30 * time.Minute,
		AllowedOrigins:     []string{"*"},
		MaxBufferSize:      5 * 1024 * 1024, // 5MB default
	}

	// Required: GOOGLE_API_KEY
	config.GeminiAPIKey = os.Getenv("GOOGLE_API_KEY")
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is required")
	}

	// Optional: HOST
	if host := os.Getenv("HOST"); host != "" {
		config.Host = host
	}

	// Optional: PORT
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		config.Port = p
	}

	// Optional: LIVE_MODEL
	if model := os.Getenv("LIVE_MODEL"); model != "" {
		config.LiveModel = model
	}

	// Optional: TRANSCRIPTION_MODEL
	if model := os.Getenv("TRANSCRIPTION_MODEL"); model != "" {
		config.TranscriptionModel = model
	}

	// Optional: REDIS_URL
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		config.RedisURL = redisURL
	}

	// Optional: REDIS_PASSWORD
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.RedisPassword = redisPassword
	}

	// Optional: MAX_SESSIONS
	if maxSessions := os.Getenv("MAX_SESSIONS"); maxSessions != "" {
		m, err := strconv.Atoi(maxSessions)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_SESSIONS: %w", err)
		}
		config.MaxSessions = m
	}

	// Optional: SESSION_TIMEOUT (in minutes)
	if timeout := os.Getenv("SESSION_TIMEOUT"); timeout != "" {
		t, err := strconv.Atoi(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TIMEOUT: %w", err)
		}
		config.SessionTimeout = time.Duration(t) * time.Minute
	}

	// Optional: ALLOWED_ORIGINS (comma-separated)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	// Optional: MAX_BUFFER_SIZE (in bytes)
	if bufferSize := os.Getenv("MAX_BUFFER_SIZE"); bufferSize != "" {
		b, err := strconv.Atoi(bufferSize)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_BUFFER_SIZE: %w", err)
		}
		config.MaxBufferSize = b
	}

	return config, nil
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}
