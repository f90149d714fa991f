package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Collaborator endpoints. Both default to the public OpenAI-compatible
	// API; tests point them at a local httptest server.
	VisionAPIURL string
	RecipeAPIURL string
	OpenAIKey    string

	// StageIntervalMillis controls the cosmetic progress cadence of the
	// generation workflow. Zero means the compiled default.
	StageIntervalMillis int

	// AllowedOrigins for CORS, comma-separated in the environment.
	AllowedOrigins []string
}

// LoadConfig builds a Config from the environment. In development a .env file
// is honored when present; secrets may also be supplied as *_FILE paths.
func LoadConfig() (*Config, error) {
	if GetEnvironment() == Development {
		// Missing .env is fine; the environment may already be populated.
		_ = godotenv.Load()
	}

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getSecret("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "pantrysnap"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getSecret("REDIS_PASSWORD"),
		RedisURL:      os.Getenv("REDIS_URL"),

		JWTSecret: getSecret("JWT_SECRET"),

		VisionAPIURL: getEnv("VISION_API_URL", "https://api.openai.com/v1/chat/completions"),
		RecipeAPIURL: getEnv("RECIPE_API_URL", "https://api.openai.com/v1/chat/completions"),
		OpenAIKey:    getSecret("OPENAI_API_KEY"),
	}

	if db := os.Getenv("REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", db, err)
		}
		cfg.RedisDB = n
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if ms := os.Getenv("STAGE_INTERVAL_MS"); ms != "" {
		n, err := strconv.Atoi(ms)
		if err != nil {
			return nil, fmt.Errorf("invalid STAGE_INTERVAL_MS %q: %w", ms, err)
		}
		cfg.StageIntervalMillis = n
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// getEnv returns the environment variable or a fallback value
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getSecret resolves a secret from the environment, a *_FILE indirection, or
// a Docker secrets directory, in that order.
func getSecret(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if path := os.Getenv(key + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, strings.ToLower(key))); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
