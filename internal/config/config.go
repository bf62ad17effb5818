package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for our application
type Config struct {
	Port              string
	Origin            string
	Environment       string
	Database          DatabaseConfig
	ModelPath         string
	DefaultProviderID uint
	LogLevel          string
	LogFormat         string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
	Debug    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	providerID, err := strconv.ParseUint(getEnv("DEFAULT_PROVIDER_ID", "1"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_PROVIDER_ID: %w", err)
	}
	if providerID == 0 {
		return nil, fmt.Errorf("invalid DEFAULT_PROVIDER_ID: must be positive")
	}

	logFormat := strings.ToLower(getEnv("LOG_FORMAT", "json"))
	if logFormat != "json" && logFormat != "console" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: expected json or console", logFormat)
	}

	return &Config{
		Port:              getEnv("PORT", "8000"),
		Origin:            getEnv("ORIGIN", "*"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		Database:          dbConfig,
		ModelPath:         getEnv("MODEL_PATH", "data/noshow_model.json"),
		DefaultProviderID: uint(providerID),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:         logFormat,
	}, nil
}

func loadDatabaseConfig() (DatabaseConfig, error) {
	dbConfig := DatabaseConfig{
		Driver:   strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		Host:     getEnv("DB_HOST", "localhost"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "showup"),
	}

	debug, err := strconv.ParseBool(getEnv("DB_DEBUG", "false"))
	if err != nil {
		return dbConfig, fmt.Errorf("invalid DB_DEBUG: %w", err)
	}
	dbConfig.Debug = debug

	// A full URL wins over the individual settings.
	if url := getEnv("DATABASE_URL", ""); url != "" {
		if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
			dbConfig.Driver = "postgres"
		}
		dbConfig.DSN = url
		return dbConfig, nil
	}

	switch dbConfig.Driver {
	case "mysql":
		dbConfig.Port = getEnv("DB_PORT", "3306")
		dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)
	case "postgres":
		dbConfig.Port = getEnv("DB_PORT", "5432")
		dbConfig.DSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			dbConfig.Host, dbConfig.Port, dbConfig.Username, dbConfig.Password, dbConfig.Name)
	case "sqlite":
		// DB_NAME is the database file for sqlite
		dbConfig.DSN = getEnv("DB_NAME", "showup.db")
	default:
		return dbConfig, fmt.Errorf("invalid DB_DRIVER %q: expected mysql, postgres or sqlite", dbConfig.Driver)
	}

	return dbConfig, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
