package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	StoreDriver      string
	SQLitePath       string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	JWTSecret        string
	TokenTTLHours    int
	ServerPort       string
	LogLevel         string
	LogFormat        string
	CacheSize        int
	SessionCacheSize int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	cfg := &Config{
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", DriverSQLite)),
		SQLitePath:       getEnv("SQLITE_PATH", "vritti.db"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "vritti"),
		JWTSecret:        getEnv("JWT_SECRET", "secret"),
		TokenTTLHours:    getEnvInt("TOKEN_TTL_HOURS", 720),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		CacheSize:        getEnvInt("CACHE_SIZE", 1024),
		SessionCacheSize: getEnvInt("SESSION_CACHE_SIZE", 4096),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return &InvalidSettingError{Key: "STORE_DRIVER", Value: c.StoreDriver}
	}
	if c.TokenTTLHours <= 0 {
		return &InvalidSettingError{Key: "TOKEN_TTL_HOURS", Value: strconv.Itoa(c.TokenTTLHours)}
	}
	if c.CacheSize < 0 {
		return &InvalidSettingError{Key: "CACHE_SIZE", Value: strconv.Itoa(c.CacheSize)}
	}
	if c.SessionCacheSize <= 0 {
		return &InvalidSettingError{Key: "SESSION_CACHE_SIZE", Value: strconv.Itoa(c.SessionCacheSize)}
	}
	return nil
}

type InvalidSettingError struct {
	Key   string
	Value string
}

func (e *InvalidSettingError) Error() string {
	return "invalid value " + strconv.Quote(e.Value) + " for " + e.Key
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		log.Printf("Ignoring non-numeric %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
