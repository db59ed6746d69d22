package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Env       string
	LogLevel  string
	Server    ServerConfig
	Directory DirectoryConfig
	Ranking   RankingConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	Database  DatabaseConfig
	LLM       LLMConfig
	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	OTEL      OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	StaticDir      string
	AllowedOrigins []string
}

// DirectoryConfig holds the provider spreadsheet configuration
type DirectoryConfig struct {
	SourcePath string
	// JSONExportPath is where cmd/convert writes the normalized directory.
	JSONExportPath string
}

// RankingConfig holds the provider scoring weights
type RankingConfig struct {
	MaxResults         int
	RegionWeight       int
	SpecialtyWeight    int
	SubSpecialtyBonus  int
	NameSpecialtyBonus int
	NameRegionBonus    int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled         bool
	Host            string
	Port            int
	Password        string
	DB              int
	CacheTTLSeconds int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	Enabled bool
	URL     string
	APIKey  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// LLMConfig selects the text generation provider
type LLMConfig struct {
	// Provider is one of "gemini", "openai" or "none".
	Provider           string
	Timeout            time.Duration
	BreakerMaxFailures int
	BreakerOpenTimeout time.Duration
}

// GeminiConfig holds Gemini configuration
type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey         string
	Model          string
	RateLimitRPM   int
	RateLimitBurst int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("PORT", getEnvAsInt("SERVER_PORT", 8080)),
			StaticDir:      getEnv("STATIC_DIR", "static"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Directory: DirectoryConfig{
			SourcePath:     getEnv("DIRECTORY_SOURCE_PATH", "network_data.xlsx"),
			JSONExportPath: getEnv("DIRECTORY_JSON_EXPORT_PATH", "static/network_data.json"),
		},
		Ranking: RankingConfig{
			MaxResults:         getEnvAsInt("RANKING_MAX_RESULTS", 25),
			RegionWeight:       getEnvAsInt("RANKING_REGION_WEIGHT", 60),
			SpecialtyWeight:    getEnvAsInt("RANKING_SPECIALTY_WEIGHT", 30),
			SubSpecialtyBonus:  getEnvAsInt("RANKING_SUB_SPECIALTY_BONUS", 5),
			NameSpecialtyBonus: getEnvAsInt("RANKING_NAME_SPECIALTY_BONUS", 5),
			NameRegionBonus:    getEnvAsInt("RANKING_NAME_REGION_BONUS", 5),
		},
		Redis: RedisConfig{
			Enabled:         getEnvAsBool("REDIS_ENABLED", false),
			Host:            getEnv("REDIS_HOST", "localhost"),
			Port:            getEnvAsInt("REDIS_PORT", 6379),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			CacheTTLSeconds: getEnvAsInt("REDIS_CACHE_TTL_SECONDS", 3600),
		},
		Typesense: TypesenseConfig{
			Enabled: getEnvAsBool("TYPESENSE_ENABLED", false),
			URL:     getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey:  getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "medical_network"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		LLM: LLMConfig{
			Provider:           strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
			Timeout:            getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
			BreakerMaxFailures: getEnvAsInt("LLM_BREAKER_MAX_FAILURES", 5),
			BreakerOpenTimeout: getEnvAsDuration("LLM_BREAKER_OPEN_TIMEOUT", 30*time.Second),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			RateLimitRPM:   getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("OPENAI_RATE_LIMIT_BURST", 5),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "medical-network-finder"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later in confusing ways
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Directory.SourcePath) == "" {
		return fmt.Errorf("DIRECTORY_SOURCE_PATH must not be empty")
	}
	switch c.LLM.Provider {
	case "gemini", "openai", "none":
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q (expected gemini, openai or none)", c.LLM.Provider)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
