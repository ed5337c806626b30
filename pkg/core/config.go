package core

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/tokentrace/tokentrace-go/pkg/pricing"
)

// Config contains the complete configuration for a tokentrace client.
//
// Example:
//
//	config := &core.Config{
//	    Model: "gpt-4o",
//	    Store: core.StoreConfig{
//	        Provider: "sqlite",
//	        Config: map[string]interface{}{
//	            "db_path": "./token_logs.db",
//	        },
//	    },
//	}
type Config struct {
	// Model is the default model name used for cost attribution when a
	// Track call does not name one.
	Model string `json:"model,omitempty"`

	// Store contains log store configuration.
	Store StoreConfig `json:"store"`

	// Pricing contains per-model price overrides, in USD per 1K tokens.
	Pricing map[string]pricing.ModelPricing `json:"pricing,omitempty"`
}

// StoreConfig contains configuration for the log store.
//
// Supported providers: sqlite, postgres, mysql
//
// Example:
//
//	storeConfig := core.StoreConfig{
//	    Provider: "sqlite",
//	    Config: map[string]interface{}{
//	        "db_path": "./token_logs.db",
//	    },
//	}
type StoreConfig struct {
	// Provider is the log store provider name (sqlite, postgres, mysql).
	Provider string `json:"provider"`

	// Config contains provider-specific configuration.
	// For SQLite: db_path
	// For PostgreSQL: host, port, user, password, db_name, ssl_mode
	// For MySQL: host, port, user, password, db_name
	Config map[string]interface{} `json:"config"`
}

// supportedProviders lists the log store providers initStorage can build.
var supportedProviders = map[string]bool{
	"sqlite":   true,
	"postgres": true,
	"mysql":    true,
}

// Validate checks the configuration for missing or unsupported values.
func (c *Config) Validate() error {
	if c.Store.Provider == "" {
		return fmt.Errorf("%w: store provider is required", ErrInvalidConfig)
	}
	if !supportedProviders[c.Store.Provider] {
		return fmt.Errorf("%w: unsupported store provider: %s", ErrInvalidConfig, c.Store.Provider)
	}
	return nil
}

// LoadConfigFromEnv loads configuration from environment variables,
// loading a .env file from the current directory first if one exists.
//
// Recognized variables:
//
//	TOKENTRACE_MODEL           default model for cost attribution
//	TOKENTRACE_STORE_PROVIDER  sqlite (default), postgres, mysql
//	SQLITE_DB_PATH             sqlite database file (default ./token_logs.db)
//	POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD,
//	POSTGRES_DB_NAME, POSTGRES_SSL_MODE
//	MYSQL_HOST, MYSQL_PORT, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DB_NAME
func LoadConfigFromEnv() (*Config, error) {
	_ = godotenv.Load()

	provider := getEnvOrDefault("TOKENTRACE_STORE_PROVIDER", "sqlite")

	cfg := &Config{
		Model: os.Getenv("TOKENTRACE_MODEL"),
		Store: StoreConfig{
			Provider: provider,
		},
	}

	switch provider {
	case "sqlite":
		cfg.Store.Config = map[string]interface{}{
			"db_path": getEnvOrDefault("SQLITE_DB_PATH", "./token_logs.db"),
		}
	case "postgres":
		cfg.Store.Config = map[string]interface{}{
			"host":     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			"port":     getEnvIntOrDefault("POSTGRES_PORT", 5432),
			"user":     os.Getenv("POSTGRES_USER"),
			"password": os.Getenv("POSTGRES_PASSWORD"),
			"db_name":  os.Getenv("POSTGRES_DB_NAME"),
			"ssl_mode": getEnvOrDefault("POSTGRES_SSL_MODE", "disable"),
		}
	case "mysql":
		cfg.Store.Config = map[string]interface{}{
			"host":     getEnvOrDefault("MYSQL_HOST", "localhost"),
			"port":     getEnvIntOrDefault("MYSQL_PORT", 3306),
			"user":     os.Getenv("MYSQL_USER"),
			"password": os.Getenv("MYSQL_PASSWORD"),
			"db_name":  os.Getenv("MYSQL_DB_NAME"),
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfigFromJSON loads configuration from a JSON file.
func LoadConfigFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadConfigFromJSON: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("LoadConfigFromJSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns the environment variable parsed as an int,
// or a default when unset or unparseable.
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getStringConfig reads a string value from a provider config map.
func getStringConfig(config map[string]interface{}, key, defaultValue string) string {
	if v, ok := config[key].(string); ok && v != "" {
		return v
	}
	return defaultValue
}

// getIntConfig reads an int value from a provider config map. JSON decoding
// produces float64 numbers, so both forms are accepted.
func getIntConfig(config map[string]interface{}, key string, defaultValue int) int {
	switch v := config[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return defaultValue
}
