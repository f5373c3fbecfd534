package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Retry sweeper over stale PENDING events.
	RetrySweepInterval time.Duration
	RetrySweepMinAge   time.Duration
	RetrySweepBatch    int

	// ulule/limiter formatted rate, e.g. "100-M" for 100 requests per minute.
	RateLimit string

	CORSAllowOrigins []string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present. Environment variables win over .env values.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("RETRY_SWEEP_INTERVAL", "30s")
	viper.SetDefault("RETRY_SWEEP_MIN_AGE", "1m")
	viper.SetDefault("RETRY_SWEEP_BATCH", 100)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOW_ORIGINS", "*")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.RetrySweepInterval = parseDurationOr(viper.GetString("RETRY_SWEEP_INTERVAL"), 30*time.Second, "RETRY_SWEEP_INTERVAL")
	cfg.RetrySweepMinAge = parseDurationOr(viper.GetString("RETRY_SWEEP_MIN_AGE"), time.Minute, "RETRY_SWEEP_MIN_AGE")

	cfg.RetrySweepBatch = viper.GetInt("RETRY_SWEEP_BATCH")
	if cfg.RetrySweepBatch <= 0 {
		cfg.RetrySweepBatch = 100
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowOrigins = viper.GetStringSlice("CORS_ALLOW_ORIGINS")

	return cfg, nil
}

func parseDurationOr(raw string, fallback time.Duration, name string) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s (%q). Defaulting to %s.\n", name, raw, fallback)
		}
		return fallback
	}
	return d
}
