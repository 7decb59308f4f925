package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the journey map service
type Config struct {
	// HTTP
	Port           string
	AllowedOrigins []string
	StaticDir      string

	// Journey data
	JourneySource string // File path or http(s) URL of the stops GeoJSON
	FetchTimeout  time.Duration

	// Preference storage
	DatabasePath string // SQLite, used when DatabaseURL is empty
	DatabaseURL  string // PostgreSQL

	PreferenceRetention time.Duration

	// Sessions
	SessionTTL      time.Duration
	SessionCapacity int

	// Static bundle
	WebPublicDir      string
	StaticRefreshDays int

	// Map
	MapConfigPath string
	Map           *MapCatalog
}

// LoadDotEnv loads .env then .env.local (which overrides for local development).
// Missing files are ignored.
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")
}

// Load reads configuration from environment variables with sensible defaults.
// The map catalog starts from DefaultMapCatalog and is overlaid with the YAML
// file at MAP_CONFIG when one is set.
func Load() (*Config, error) {
	cfg := &Config{
		// HTTP
		Port:           getEnv("PORT", "8081"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		StaticDir:      getEnv("STATIC_DIR", ""),

		// Journey data
		JourneySource: getEnv("JOURNEY_SOURCE", "data.geojson"),
		FetchTimeout:  time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 15)) * time.Second,

		// Preference storage
		DatabasePath: getEnv("SQLITE_DATABASE", "data/journey.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		PreferenceRetention: time.Duration(getEnvInt("PREFERENCE_RETENTION_DAYS", 365)) * 24 * time.Hour,

		// Sessions
		SessionTTL:      time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		SessionCapacity: getEnvInt("SESSION_CAPACITY", 1000),

		// Static bundle
		WebPublicDir:      getEnv("WEB_PUBLIC_DIR", ""),
		StaticRefreshDays: getEnvInt("STATIC_REFRESH_DAYS", 7),

		// Map
		MapConfigPath: getEnv("MAP_CONFIG", ""),
	}

	catalog := DefaultMapCatalog()
	if cfg.MapConfigPath != "" {
		var err error
		catalog, err = LoadMapCatalog(cfg.MapConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load map config: %w", err)
		}
	}
	cfg.Map = catalog

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty items
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
