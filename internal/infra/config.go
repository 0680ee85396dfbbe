package infra

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5435"`
	PGUser      string `env:"PGUSER" envDefault:"shadowbook"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"shadowbook"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"shadowbook"`

	// Server
	APIPort            int    `env:"API_PORT" envDefault:"3100"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Odds feed
	OddsAPIKey            string  `env:"ODDS_API_KEY"`
	OddsAPIBaseURL        string  `env:"ODDS_API_BASE_URL" envDefault:"https://api.the-odds-api.com/v4"`
	RequestTimeoutSeconds int     `env:"REQUEST_TIMEOUT" envDefault:"15"`
	CacheTTLSeconds       int     `env:"CACHE_TTL_SECONDS" envDefault:"60"`
	TeamMappingPath       string  `env:"TEAM_MAPPING_PATH"`
	FuzzyThreshold        float64 `env:"FUZZY_THRESHOLD" envDefault:"85.0"`

	// Risk engine tunables
	MaxGlobalLiability float64 `env:"MAX_GLOBAL_LIABILITY" envDefault:"30000.0"`
	MinHouseEdge       float64 `env:"MIN_HOUSE_EDGE" envDefault:"-0.05"`
	HedgeRounding      float64 `env:"HEDGE_ROUNDING" envDefault:"50.0"`

	// Arbitrage scanner
	ArbitrageEnabled      bool    `env:"ARBITRAGE_ENABLED" envDefault:"false"`
	ArbitrageMinMarginPct float64 `env:"ARBITRAGE_MIN_MARGIN_PCT" envDefault:"0.5"`
	ArbitrageCapital      float64 `env:"ARBITRAGE_CAPITAL" envDefault:"10000.0"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks for configuration that must not run in production.
// Set ALLOW_INSECURE_DEFAULTS=true to bypass (local dev only).
func (c *Config) Validate() error {
	if c.AllowInsecureDefaults {
		return nil
	}
	if c.OddsAPIKey == "" {
		return fmt.Errorf("ODDS_API_KEY is required; set ALLOW_INSECURE_DEFAULTS=true to run against stub feeds only")
	}
	if c.MaxGlobalLiability <= 0 {
		return fmt.Errorf("MAX_GLOBAL_LIABILITY must be positive, got %f", c.MaxGlobalLiability)
	}
	if c.HedgeRounding <= 0 {
		return fmt.Errorf("HEDGE_ROUNDING must be positive, got %f", c.HedgeRounding)
	}
	return nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}
