package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret      = "a-very-secret-key-should-be-longer-and-random"
	defaultBatchMaxItems  = 500
	defaultBatchRateLimit = "30-M"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	JWTIssuer      string // Empty disables the issuer check
	MigrationsPath string

	// Batch processing
	BatchMaxItems  int
	BatchRateLimit string // ulule limiter format, e.g. "30-M"

	CORSAllowedOrigins []string
	PosthogAPIKey      string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("BATCH_MAX_ITEMS", defaultBatchMaxItems)
	viper.SetDefault("BATCH_RATE_LIMIT", defaultBatchRateLimit)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")

	// Environment variables override .env values, which override the defaults above.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.BatchMaxItems = viper.GetInt("BATCH_MAX_ITEMS")
	if cfg.BatchMaxItems < 1 {
		log.Printf("Warning: Invalid value for BATCH_MAX_ITEMS (%d). Defaulting to %d.\n", cfg.BatchMaxItems, defaultBatchMaxItems)
		cfg.BatchMaxItems = defaultBatchMaxItems
	}

	cfg.BatchRateLimit = viper.GetString("BATCH_RATE_LIMIT")
	if cfg.BatchRateLimit == "" {
		cfg.BatchRateLimit = defaultBatchRateLimit
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}
