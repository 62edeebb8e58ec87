package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Auth0
	Auth0Domain   string
	Auth0Audience string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Calculation
	Calc CalcConfig
}

// CalcConfig holds allocation engine and reconciliation defaults
type CalcConfig struct {
	RoundingMode  string
	Precision     int32
	MaxIterations int
	// Reconciliation variance classification bounds, in percent
	PerfectThresholdPct float64
	MinorThresholdPct   float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Auth0Domain:   getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience: getEnv("AUTH0_AUDIENCE", ""),
		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:           getEnv("ENV", "development"),
		Calc: CalcConfig{
			RoundingMode:        getEnv("CALC_ROUNDING_MODE", "nearest"),
			Precision:           int32(getEnvInt("CALC_PRECISION", 2)),
			MaxIterations:       getEnvInt("CALC_MAX_ITERATIONS", 10),
			PerfectThresholdPct: getEnvFloat("RECONCILE_PERFECT_PCT", 1.0),
			MinorThresholdPct:   getEnvFloat("RECONCILE_MINOR_PCT", 5.0),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth0Domain == "" {
		return fmt.Errorf("AUTH0_DOMAIN is required")
	}
	if c.Auth0Audience == "" {
		return fmt.Errorf("AUTH0_AUDIENCE is required")
	}
	switch c.Calc.RoundingMode {
	case "up", "down", "nearest":
	default:
		return fmt.Errorf("CALC_ROUNDING_MODE must be one of up, down, nearest")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
