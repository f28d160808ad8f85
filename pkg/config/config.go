package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration
	EncryptionKey    string

	// AI providers
	AIProvider    string // "gemini", "ollama" or "auto"
	GeminiApiKey  string
	OllamaBaseURL string
	OllamaModel   string
	AITimeout     time.Duration

	// Instagram Graph API
	InstagramAppID       string
	InstagramAppSecret   string
	InstagramRedirectURI string
	InstagramVerifyToken string

	// Chroma vector search (optional)
	ChromaAPIKey   string
	ChromaTenant   string
	ChromaDatabase string

	// Firebase push notifications (optional)
	FirebaseCredentials string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	aiTimeout := 60 * time.Second
	if v := os.Getenv("AI_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			aiTimeout = parsed
		}
	}

	accessExpiry := 15 * time.Minute
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	refreshExpiry := 168 * time.Hour // 7 days
	if exp := os.Getenv("JWT_REFRESH_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			refreshExpiry = parsed
		}
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=instareplyer port=5432 sslmode=disable"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:  accessExpiry,
		JWTRefreshExpiry: refreshExpiry,
		EncryptionKey:    getEnv("ENCRYPTION_KEY", ""),

		AIProvider:    getEnv("AI_PROVIDER", "auto"),
		GeminiApiKey:  getEnv("GEMINI_API_KEY", ""),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3"),
		AITimeout:     aiTimeout,

		InstagramAppID:       getEnv("INSTAGRAM_APP_ID", ""),
		InstagramAppSecret:   getEnv("INSTAGRAM_APP_SECRET", ""),
		InstagramRedirectURI: getEnv("INSTAGRAM_REDIRECT_URI", "http://localhost:8080/api/auth/instagram/callback"),
		InstagramVerifyToken: getEnv("INSTAGRAM_VERIFY_TOKEN", ""),

		ChromaAPIKey:   getEnv("CHROMA_API_KEY", ""),
		ChromaTenant:   getEnv("CHROMA_TENANT", ""),
		ChromaDatabase: getEnv("CHROMA_DATABASE", ""),

		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
