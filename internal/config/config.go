// Package config loads server settings from a .env file and environment
// variables, with sensible defaults for local development.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting for the server.
type Config struct {
	// Port is the HTTP listen port.
	Port int

	// UploadDir is where receipt images are stored and served from.
	UploadDir string

	// MaxFileSize caps receipt uploads, in bytes.
	MaxFileSize int64

	// AllowedImageTypes are the accepted upload content types.
	AllowedImageTypes []string

	// AllowedOrigins is the CORS allowlist; "*" allows any origin.
	AllowedOrigins []string

	// OpenRouter settings for the LLM-backed rule interpreter. An empty
	// API key disables it and the local fallback handles everything.
	OpenRouterAPIKey    string
	OpenRouterBaseURL   string
	OpenRouterModel     string
	OpenRouterMaxTokens int

	// AWS settings for the Textract OCR backend. Empty credentials
	// disable OCR extraction.
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string

	// Default rates applied when a request omits them.
	DefaultTaxRate float64
	DefaultTipRate float64
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	return &Config{
		Port:        getEnvInt("PORT", 8080),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		MaxFileSize: int64(getEnvInt("MAX_FILE_SIZE", 10*1024*1024)),
		AllowedImageTypes: splitList(getEnv("ALLOWED_IMAGE_TYPES",
			"image/jpeg,image/png,image/webp")),
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "*")),
		OpenRouterAPIKey:    getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL:   getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:     getEnv("OPENROUTER_MODEL", "qwen/qwen3-32b"),
		OpenRouterMaxTokens: getEnvInt("OPENROUTER_MAX_TOKENS", 12000),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		DefaultTaxRate:      getEnvFloat("DEFAULT_TAX_RATE", 0.08),
		DefaultTipRate:      getEnvFloat("DEFAULT_TIP_RATE", 0.18),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		slog.Warn("Invalid integer setting, using default", "key", key, "value", value)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		slog.Warn("Invalid float setting, using default", "key", key, "value", value)
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
