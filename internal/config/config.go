package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverUpstream = "upstream"
	DriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Server    Server    `yaml:"server"`
	Backend   Backend   `yaml:"backend"`
	Database  Database  `yaml:"database"`
	S3        S3        `yaml:"s3"`
	Admin     Admin     `yaml:"admin"`
	Analytics Analytics `yaml:"analytics"`
	Site      Site      `yaml:"site"`
}

// S3 holds S3/MinIO storage configuration for PDF resources
type S3 struct {
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT" env-default:"http://localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET" env-default:"reports"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	PublicURL       string `yaml:"public_url" env:"S3_PUBLIC_URL" env-default:"http://localhost:9000/reports"`
}

// Enabled reports whether PDF uploads can be stored
func (s S3) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

// Server holds HTTP server configuration
type Server struct {
	Host         string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Address returns the full server address
func (s Server) Address() string {
	return s.Host + ":" + s.Port
}

// Backend holds the hosted backend configuration
type Backend struct {
	// Driver selects the repository implementation: "upstream" or "postgres"
	Driver        string        `yaml:"driver" env:"BACKEND_DRIVER" env-default:"upstream"`
	BaseURL       string        `yaml:"base_url" env:"BACKEND_BASE_URL" env-default:"http://localhost:54321/functions/v1/aeo"`
	Token         string        `yaml:"token" env:"BACKEND_TOKEN"`
	Timeout       time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT" env-default:"15s"`
	HealthTimeout time.Duration `yaml:"health_timeout" env:"BACKEND_HEALTH_TIMEOUT" env-default:"8s"`
}

// Database holds database configuration
type Database struct {
	PostgresDSN string `yaml:"postgres_dsn" env:"DATABASE_URL"`

	// Connection pool settings
	MaxConns     int32         `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"25"`
	MinConns     int32         `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"2"`
	ConnLifetime time.Duration `yaml:"conn_lifetime" env:"DB_CONN_LIFETIME" env-default:"5m"`
}

// Admin holds admin panel configuration
type Admin struct {
	Token string `yaml:"token" env:"ADMIN_TOKEN"`
}

// Analytics holds visitor analytics configuration
type Analytics struct {
	RetentionDays   int           `yaml:"retention_days" env:"ANALYTICS_RETENTION_DAYS" env-default:"90"`
	CleanupEnabled  bool          `yaml:"cleanup_enabled" env:"ANALYTICS_CLEANUP_ENABLED" env-default:"false"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"ANALYTICS_CLEANUP_INTERVAL" env-default:"24h"`
}

// Site holds public site configuration
type Site struct {
	Name          string        `yaml:"name" env:"SITE_NAME" env-default:"Athena Election Observatory"`
	PublicURL     string        `yaml:"public_url" env:"SITE_PUBLIC_URL" env-default:"http://localhost:8080"`
	ConsentWindow time.Duration `yaml:"consent_window" env:"SITE_CONSENT_WINDOW" env-default:"24h"`
	SecureCookies bool          `yaml:"secure_cookies" env:"SITE_SECURE_COOKIES" env-default:"false"`
}

// Validate checks cross-field constraints cleanenv cannot express
func (c Config) Validate() error {
	switch c.Backend.Driver {
	case DriverUpstream:
		if c.Backend.BaseURL == "" {
			return fmt.Errorf("BACKEND_BASE_URL is required for the %s driver", DriverUpstream)
		}
	case DriverPostgres:
		if c.Database.PostgresDSN == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown backend driver %q", c.Backend.Driver)
	}
	if c.Analytics.RetentionDays <= 0 {
		return fmt.Errorf("ANALYTICS_RETENTION_DAYS must be positive")
	}
	return nil
}

// MustLoad loads configuration from environment and exits on error
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// Load reads configuration from the environment, honouring a .env file when present
func Load() (Config, error) {
	// Load .env file if exists (for development)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
