package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
}

// StoreConfig selects and configures the persistent key-value backend
type StoreConfig struct {
	Type       string // "memory", "sqlite" or "mongo"
	SQLitePath string
	MongoURI   string
}

// ContractConfig holds the parameters handed to the contract instance
type ContractConfig struct {
	MaxContentBytes int
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Store          *StoreConfig
	Contract       *ContractConfig
	JWTSecret      string
	AllowedOrigins []string
	Debug          bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
	}
}

// DefaultStoreConfig provides default store settings
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Type:       "memory",
		SQLitePath: "ledger.db",
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Try to load .env from the usual locations; silently fine if none exists
	envLocations := []string{
		".env",
		"../../.env",
	}
	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		_ = godotenv.Load()
	}

	serverConfig := DefaultConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}
	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}
	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}

	storeConfig := DefaultStoreConfig()

	if storeType := os.Getenv("STORE_TYPE"); storeType != "" {
		storeConfig.Type = storeType
	}
	switch storeConfig.Type {
	case "memory":
		// Nothing more to configure
	case "sqlite":
		storeConfig.SQLitePath = getEnvOrDefault("SQLITE_PATH", storeConfig.SQLitePath)
	case "mongo":
		storeConfig.MongoURI = os.Getenv("MONGODB_URI")
		if storeConfig.MongoURI == "" {
			return nil, fmt.Errorf("MONGODB_URI environment variable is required when STORE_TYPE is mongo")
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_TYPE: %s", storeConfig.Type)
	}

	contractConfig := &ContractConfig{MaxContentBytes: 4096}
	if maxStr := os.Getenv("MAX_CONTENT_BYTES"); maxStr != "" {
		max, err := strconv.Atoi(maxStr)
		if err != nil || max <= 0 {
			return nil, fmt.Errorf("MAX_CONTENT_BYTES must be a positive integer, got %q", maxStr)
		}
		contractConfig.MaxContentBytes = max
	}

	config := &Config{
		Server:         serverConfig,
		Store:          storeConfig,
		Contract:       contractConfig,
		JWTSecret:      getEnvOrDefault("JWT_SECRET", "swamp_ledger_secret_change_me"),
		AllowedOrigins: []string{"*"},
		Debug:          false,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}
	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}

	return config, nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
