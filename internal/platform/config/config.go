package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort          = "8080"
	defaultReadTimeout   = 15 * time.Second
	defaultWriteTimeout  = 30 * time.Second
	defaultIdleTimeout   = 120 * time.Second
	defaultMaxVideoBytes = int64(100 * 1024 * 1024) // 100 MiB

	defaultMediaFolder = "kol-videos"

	defaultChatBaseURL     = "https://generativelanguage.googleapis.com"
	defaultChatModel       = "gemini-2.0-flash"
	defaultChatTemperature = 0.7
	defaultChatMaxTokens   = 1024
	defaultChatRetryWait   = 30 * time.Second
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	PSP      PSPConfig
	Media    MediaConfig
	AI       AIConfig
	Uploads  UploadConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig stores the relational store connection parameters.
type DatabaseConfig struct {
	DSN string
}

// AuthConfig stores bearer-token verification settings.
type AuthConfig struct {
	JWTSigningKey string
	Issuer        string
	Audience      string
}

// PSPConfig collects payment-gateway credentials and redirect targets.
type PSPConfig struct {
	StripeAPIKey string
	SuccessURL   string
	CancelURL    string
	Currency     string
}

// MediaConfig configures the remote media store.
type MediaConfig struct {
	VideosBucket string
	VideosFolder string
}

// AIConfig configures the chat-completion API client.
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	RetryWait   time.Duration
}

// UploadConfig controls upload validation ceilings.
type UploadConfig struct {
	MaxVideoSizeBytes int64
}

// Load reads configuration from the process environment, applying defaults for
// optional values. Secrets (signing key, API keys) come from the environment
// as-is; nothing in this package reads ambient global state after Load returns.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port:         envOrDefault("API_PORT", defaultPort),
			ReadTimeout:  envDuration("API_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: envDuration("API_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  envDuration("API_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Database: DatabaseConfig{
			DSN: strings.TrimSpace(os.Getenv("API_DATABASE_DSN")),
		},
		Auth: AuthConfig{
			JWTSigningKey: strings.TrimSpace(os.Getenv("API_JWT_SIGNING_KEY")),
			Issuer:        strings.TrimSpace(os.Getenv("API_JWT_ISSUER")),
			Audience:      strings.TrimSpace(os.Getenv("API_JWT_AUDIENCE")),
		},
		PSP: PSPConfig{
			StripeAPIKey: strings.TrimSpace(os.Getenv("API_STRIPE_API_KEY")),
			SuccessURL:   strings.TrimSpace(os.Getenv("API_PAYMENT_SUCCESS_URL")),
			CancelURL:    strings.TrimSpace(os.Getenv("API_PAYMENT_CANCEL_URL")),
			Currency:     envOrDefault("API_PAYMENT_CURRENCY", "VND"),
		},
		Media: MediaConfig{
			VideosBucket: strings.TrimSpace(os.Getenv("API_MEDIA_VIDEOS_BUCKET")),
			VideosFolder: envOrDefault("API_MEDIA_VIDEOS_FOLDER", defaultMediaFolder),
		},
		AI: AIConfig{
			APIKey:      strings.TrimSpace(os.Getenv("API_CHAT_API_KEY")),
			BaseURL:     envOrDefault("API_CHAT_BASE_URL", defaultChatBaseURL),
			Model:       envOrDefault("API_CHAT_MODEL", defaultChatModel),
			Temperature: envFloat("API_CHAT_TEMPERATURE", defaultChatTemperature),
			MaxTokens:   envInt("API_CHAT_MAX_TOKENS", defaultChatMaxTokens),
			RetryWait:   envDuration("API_CHAT_RETRY_WAIT", defaultChatRetryWait),
		},
		Uploads: UploadConfig{
			MaxVideoSizeBytes: envInt64("API_UPLOAD_MAX_VIDEO_BYTES", defaultMaxVideoBytes),
		},
	}

	if cfg.Database.DSN == "" {
		return Config{}, fmt.Errorf("config: API_DATABASE_DSN is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envInt64(key string, fallback int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
