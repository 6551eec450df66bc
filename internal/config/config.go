package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr  string
	MaxUploadMB int

	// TLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // Client CA for mTLS; optional

	// Database
	DatabaseURL string
	AutoSeed    bool // Insert demo keywords on startup when the table is empty

	// Auth. Requests carry "Authorization: Bearer <token>". The token is
	// checked against APIToken and, if OIDCIssuer is set, verified as an
	// OIDC ID token.
	APIToken     string
	OIDCIssuer   string
	OIDCClientID string

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Rate limiting
	RateLimitMax int    // Requests per minute per IP
	RedisURL     string // Shared limiter storage; in-memory when empty

	// Estimates
	CTRFallback           float64 // CTR for ranks outside the table
	DefaultAvgJobValue    float64 // Used when a keyword's category is unknown
	DefaultConversionRate float64
	TargetRank            int

	// Background jobs
	CategoryRefreshInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 10),

		TLSEnabled:  getEnv("TLS_ENABLED", "") == "true",
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:   getEnv("TLS_CA_FILE", ""),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/rankdash?sslmode=disable"),
		AutoSeed:    getEnv("AUTO_SEED", "") != "",

		APIToken:     getEnv("API_TOKEN", ""),
		OIDCIssuer:   getEnv("OIDC_ISSUER", ""),
		OIDCClientID: getEnv("OIDC_CLIENT_ID", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		RateLimitMax: getEnvInt("RATE_LIMIT_MAX", 100),
		RedisURL:     getEnv("REDIS_URL", ""),

		CTRFallback:           getEnvFloat("CTR_FALLBACK", 0.001),
		DefaultAvgJobValue:    getEnvFloat("DEFAULT_AVG_JOB_VALUE", 250),
		DefaultConversionRate: getEnvFloat("DEFAULT_CONVERSION_RATE", 0.005),
		TargetRank:            getEnvInt("TARGET_RANK", 3),

		CategoryRefreshInterval: getEnvDuration("CATEGORY_REFRESH_INTERVAL", 15*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %g", key, value, fallback)
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %v", key, value, fallback)
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsAuthConfigured returns true if any bearer token check is configured.
func (c *Config) IsAuthConfigured() bool {
	return c.APIToken != "" || c.OIDCIssuer != ""
}

// AllowedOrigins splits CORSOrigins into a list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int {
	return c.MaxUploadMB * 1024 * 1024
}
