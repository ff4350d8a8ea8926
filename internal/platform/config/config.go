package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	LogLevel       string
	LogFormat      string
	JWTSecret      string
	JWTIssuer      string
	MigrationsPath string

	// Ledger
	PostingTimeout           time.Duration
	MaxEntriesPerTransaction int
	FiscalYearStartMonth     int
	ForecastGrowthRate       float64

	// HTTP
	RateLimit          string   // ulule/limiter formatted rate, e.g. "300-M"
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_ISSUER", "ledger-engine")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("POSTING_TIMEOUT", "15s")
	v.SetDefault("MAX_ENTRIES_PER_TRANSACTION", 100)
	v.SetDefault("FISCAL_YEAR_START_MONTH", 1)
	v.SetDefault("FORECAST_GROWTH_RATE", 0.05)
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.GetViper()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:              v.GetString("PGSQL_URL"),
		Port:                     v.GetString("PORT"),
		IsProduction:             v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:            v.GetBool("ENABLE_DB_CHECK"),
		LogLevel:                 v.GetString("LOG_LEVEL"),
		LogFormat:                v.GetString("LOG_FORMAT"),
		JWTSecret:                v.GetString("JWT_SECRET"),
		JWTIssuer:                v.GetString("JWT_ISSUER"),
		MigrationsPath:           v.GetString("MIGRATIONS_PATH"),
		MaxEntriesPerTransaction: v.GetInt("MAX_ENTRIES_PER_TRANSACTION"),
		FiscalYearStartMonth:     v.GetInt("FISCAL_YEAR_START_MONTH"),
		ForecastGrowthRate:       v.GetFloat64("FORECAST_GROWTH_RATE"),
		RateLimit:                v.GetString("RATE_LIMIT"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	postingTimeoutStr := v.GetString("POSTING_TIMEOUT")
	postingTimeout, err := time.ParseDuration(postingTimeoutStr)
	if err != nil || postingTimeout <= 0 {
		postingTimeout = 15 * time.Second
		log.Printf("Warning: Invalid value for POSTING_TIMEOUT ('%s'). Defaulting to %s.\n", postingTimeoutStr, postingTimeout.String())
	}
	cfg.PostingTimeout = postingTimeout

	if cfg.MaxEntriesPerTransaction < 2 {
		return nil, fmt.Errorf("MAX_ENTRIES_PER_TRANSACTION must be at least 2, got %d", cfg.MaxEntriesPerTransaction)
	}
	if cfg.FiscalYearStartMonth < 1 || cfg.FiscalYearStartMonth > 12 {
		return nil, fmt.Errorf("FISCAL_YEAR_START_MONTH must be between 1 and 12, got %d", cfg.FiscalYearStartMonth)
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
