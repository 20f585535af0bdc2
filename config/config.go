package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL   string
	Port          string
	GoEnv         string
	Auth0Domain   string
	Auth0Audience string
	CronSecret    string
	LogLevel      string
	Scoring       ScoringConfig
}

// ScoringConfig holds the business-policy constants of the reliability
// scorer. They default to the marketplace's launch values but are
// configurable because nothing derives them: they are policy, not math.
type ScoringConfig struct {
	// OnTimeGraceMinutes extends the delivery-day window: an order counts
	// as on time if it completed before end-of-day plus this many minutes.
	OnTimeGraceMinutes int
	// ColdStartMinOrders and ColdStartMinReviews are the history thresholds
	// below which a kitchen is treated as new and blended toward the
	// neutral baseline.
	ColdStartMinOrders  int
	ColdStartMinReviews int
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	// Determine which environment file to load
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// If environment-specific file doesn't exist, try .env
		if err := godotenv.Load(); err != nil {
			// In production (Heroku), environment variables are set directly
			// so it's okay if .env files don't exist
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Port:          getEnv("PORT", "8080"),
		GoEnv:         getEnv("GO_ENV", "development"),
		Auth0Domain:   getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience: getEnv("AUTH0_AUDIENCE", ""),
		CronSecret:    getEnv("CRON_SECRET", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Scoring: ScoringConfig{
			OnTimeGraceMinutes:  getEnvInt("KRI_ON_TIME_GRACE_MINUTES", 120),
			ColdStartMinOrders:  getEnvInt("KRI_COLD_START_MIN_ORDERS", 5),
			ColdStartMinReviews: getEnvInt("KRI_COLD_START_MIN_REVIEWS", 3),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Scoring.OnTimeGraceMinutes < 0 {
		return fmt.Errorf("KRI_ON_TIME_GRACE_MINUTES must not be negative")
	}
	if c.Scoring.ColdStartMinOrders < 1 || c.Scoring.ColdStartMinReviews < 1 {
		return fmt.Errorf("cold start thresholds must be at least 1")
	}
	return nil
}

// DefaultScoringConfig returns the launch scoring policy. Used when a
// caller (or test) constructs the scorer without loading a full Config.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		OnTimeGraceMinutes:  120,
		ColdStartMinOrders:  5,
		ColdStartMinReviews: 3,
	}
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// GetDatabaseURL returns the database URL
func (c *Config) GetDatabaseURL() string {
	return c.DatabaseURL
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
