package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
	BackendSQLite   = "sqlite"
	BackendMongo    = "mongo"
	BackendGCS      = "gcs"

	DefaultFeedURL = "https://www.infomigrants.net/en/rss/all.xml"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port           string   `yaml:"port"`
	Host           string   `yaml:"host"`
	APIToken       string   `yaml:"-"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Store settings
	StoreBackend    string `yaml:"store_backend"`
	DatabaseURL     string `yaml:"-"`
	DatabaseSSLMode string `yaml:"database_sslmode"`

	SupabaseURL    string `yaml:"supabase_url"`
	SupabaseKey    string `yaml:"-"`
	SupabaseTable  string `yaml:"supabase_table"`
	SupabaseUseRPC bool   `yaml:"supabase_use_rpc"`

	MongoDatabase   string `yaml:"mongo_database"`
	MongoCollection string `yaml:"mongo_collection"`

	GCSBucket          string `yaml:"gcs_bucket"`
	GCSObject          string `yaml:"gcs_object"`
	GCSCredentialsFile string `yaml:"gcs_credentials_file"`

	// Ingestion settings
	FeedURL          string `yaml:"feed_url"`
	FetchLimit       int    `yaml:"fetch_limit"`
	FetchSchedule    string `yaml:"fetch_schedule"`
	ClassifyEnabled  bool   `yaml:"classify_enabled"`
	DefaultListLimit int    `yaml:"default_list_limit"`
}

func defaults() *Config {
	return &Config{
		Port:             "8000",
		Host:             "0.0.0.0",
		AllowedOrigins:   []string{"*"},
		DatabaseSSLMode:  "require",
		SupabaseTable:    "articles",
		SupabaseUseRPC:   true,
		MongoDatabase:    "news",
		MongoCollection:  "articles",
		GCSObject:        "articles/index.json",
		FeedURL:          DefaultFeedURL,
		FetchLimit:       5,
		ClassifyEnabled:  true,
		DefaultListLimit: 5,
	}
}

// Load reads configuration from the .env file, the optional CONFIG_FILE and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.loadFile(path); err != nil {
			return nil, err
		}
	}
	config.applyEnv()

	return config, config.validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Field: "CONFIG_FILE", Message: err.Error()}
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return &ConfigError{Field: "CONFIG_FILE", Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnvOrDefault("PORT", c.Port)
	c.Host = getEnvOrDefault("HOST", c.Host)
	c.APIToken = getEnvOrDefault("API_TOKEN", c.APIToken)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = parseStringSlice(origins)
	}

	c.StoreBackend = strings.ToLower(getEnvOrDefault("STORE_BACKEND", c.StoreBackend))
	c.DatabaseURL = getEnvOrDefault("DATABASE_URL", c.DatabaseURL)
	c.DatabaseSSLMode = getEnvOrDefault("DATABASE_SSLMODE", c.DatabaseSSLMode)

	c.SupabaseURL = getEnvOrDefault("SUPABASE_URL", c.SupabaseURL)
	c.SupabaseKey = getEnvOrDefault("SUPABASE_KEY", c.SupabaseKey)
	c.SupabaseTable = getEnvOrDefault("SUPABASE_TABLE", c.SupabaseTable)
	c.SupabaseUseRPC = getEnvOrDefaultBool("SUPABASE_USE_RPC", c.SupabaseUseRPC)

	c.MongoDatabase = getEnvOrDefault("MONGO_DATABASE", c.MongoDatabase)
	c.MongoCollection = getEnvOrDefault("MONGO_COLLECTION", c.MongoCollection)

	c.GCSBucket = getEnvOrDefault("GCS_BUCKET", c.GCSBucket)
	c.GCSObject = getEnvOrDefault("GCS_OBJECT", c.GCSObject)
	c.GCSCredentialsFile = getEnvOrDefault("GCS_CREDENTIALS_FILE", c.GCSCredentialsFile)

	c.FeedURL = getEnvOrDefault("FEED_URL", c.FeedURL)
	c.FetchLimit = getEnvOrDefaultInt("FETCH_LIMIT", c.FetchLimit)
	c.FetchSchedule = getEnvOrDefault("FETCH_SCHEDULE", c.FetchSchedule)
	c.ClassifyEnabled = getEnvOrDefaultBool("CLASSIFY_ENABLED", c.ClassifyEnabled)
	c.DefaultListLimit = getEnvOrDefaultInt("DEFAULT_LIST_LIMIT", c.DefaultListLimit)
}

// validate checks if required configuration values are present
func (c *Config) validate() error {
	if c.StoreBackend == "" {
		c.StoreBackend = inferBackend(c)
	}

	switch c.StoreBackend {
	case BackendPostgres, BackendMongo:
		if c.DatabaseURL == "" {
			return &ConfigError{Field: "DATABASE_URL", Message: "database URL is required for the " + c.StoreBackend + " backend"}
		}
	case BackendSupabase:
		if c.SupabaseURL == "" {
			return &ConfigError{Field: "SUPABASE_URL", Message: "Supabase URL is required"}
		}
		if c.SupabaseKey == "" {
			return &ConfigError{Field: "SUPABASE_KEY", Message: "Supabase key is required"}
		}
	case BackendGCS:
		if c.GCSBucket == "" {
			return &ConfigError{Field: "GCS_BUCKET", Message: "bucket is required for the gcs backend"}
		}
	case BackendSQLite:
	case "":
		return &ConfigError{Field: "DATABASE_URL", Message: "no article store configured (set DATABASE_URL, SUPABASE_URL or GCS_BUCKET)"}
	default:
		return &ConfigError{Field: "STORE_BACKEND", Message: "unknown backend " + strconv.Quote(c.StoreBackend)}
	}

	if c.FetchLimit < 1 {
		return &ConfigError{Field: "FETCH_LIMIT", Message: "must be at least 1"}
	}
	if c.DefaultListLimit < 1 {
		return &ConfigError{Field: "DEFAULT_LIST_LIMIT", Message: "must be at least 1"}
	}
	if c.FeedURL == "" {
		return &ConfigError{Field: "FEED_URL", Message: "feed URL is required"}
	}
	return nil
}

func inferBackend(c *Config) string {
	switch {
	case strings.HasPrefix(c.DatabaseURL, "postgres://"), strings.HasPrefix(c.DatabaseURL, "postgresql://"):
		return BackendPostgres
	case strings.HasPrefix(c.DatabaseURL, "mongodb://"), strings.HasPrefix(c.DatabaseURL, "mongodb+srv://"):
		return BackendMongo
	case strings.HasPrefix(c.DatabaseURL, "sqlite://"), strings.HasPrefix(c.DatabaseURL, "file:"):
		return BackendSQLite
	case c.SupabaseURL != "":
		return BackendSupabase
	case c.GCSBucket != "":
		return BackendGCS
	}
	return ""
}

// SQLitePath returns the database file for the sqlite backend.
func (c *Config) SQLitePath() string {
	switch {
	case strings.HasPrefix(c.DatabaseURL, "sqlite://"):
		return strings.TrimPrefix(c.DatabaseURL, "sqlite://")
	case strings.HasPrefix(c.DatabaseURL, "file:"):
		return strings.TrimPrefix(c.DatabaseURL, "file:")
	case c.DatabaseURL != "":
		return c.DatabaseURL
	}
	return filepath.Join(xdg.DataHome, "article-ingestor", "articles.db")
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// parseStringSlice parses comma-separated string into slice
func parseStringSlice(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
