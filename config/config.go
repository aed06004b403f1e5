package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const VERSION = "1.2"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Delivery    DeliveryConfig
	Retention   RetentionConfig
	Environment string
	LogLevel    string
	Version     string
}

type ServerConfig struct {
	Port int
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig covers both the delivery queue and the subscription cache.
// CacheEnabled=false degrades every cache operation to a miss.
type RedisConfig struct {
	URL          string
	CacheEnabled bool
	CacheTTL     time.Duration
}

type DeliveryConfig struct {
	// MaxRetries is the number of retries after the first attempt, so a
	// delivery is tried at most MaxRetries+1 times.
	MaxRetries     int
	RequestTimeout time.Duration
	RetryBase      time.Duration
	RetryCap       time.Duration
	Concurrency    int
}

type RetentionConfig struct {
	// AttemptLogHours <= 0 disables pruning of attempt logs.
	AttemptLogHours int
	SweepInterval   time.Duration
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	// Try to load .env file but don't require it
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hookline")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("SUBSCRIPTION_CACHE_ENABLED", true)
	v.SetDefault("SUBSCRIPTION_CACHE_TTL_SECONDS", 300)
	v.SetDefault("WEBHOOK_MAX_RETRIES", 5)
	v.SetDefault("WEBHOOK_DELIVERY_TIMEOUT_SECONDS", 10)
	v.SetDefault("WEBHOOK_RETRY_BASE_SECONDS", 10)
	v.SetDefault("WEBHOOK_RETRY_CAP_SECONDS", 900)
	v.SetDefault("WORKER_CONCURRENCY", 4)
	v.SetDefault("LOG_RETENTION_HOURS", 72)
	v.SetDefault("RETENTION_SWEEP_INTERVAL_HOURS", 24)
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	// Load environment file if specified
	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}

		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// Read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if v.GetInt("WEBHOOK_MAX_RETRIES") < 0 {
		return nil, fmt.Errorf("WEBHOOK_MAX_RETRIES must be >= 0")
	}
	if v.GetInt("WEBHOOK_DELIVERY_TIMEOUT_SECONDS") <= 0 {
		return nil, fmt.Errorf("WEBHOOK_DELIVERY_TIMEOUT_SECONDS must be > 0")
	}
	if v.GetInt("WORKER_CONCURRENCY") <= 0 {
		return nil, fmt.Errorf("WORKER_CONCURRENCY must be > 0")
	}

	config := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("REDIS_URL"),
			CacheEnabled: v.GetBool("SUBSCRIPTION_CACHE_ENABLED"),
			CacheTTL:     time.Duration(v.GetInt("SUBSCRIPTION_CACHE_TTL_SECONDS")) * time.Second,
		},
		Delivery: DeliveryConfig{
			MaxRetries:     v.GetInt("WEBHOOK_MAX_RETRIES"),
			RequestTimeout: time.Duration(v.GetInt("WEBHOOK_DELIVERY_TIMEOUT_SECONDS")) * time.Second,
			RetryBase:      time.Duration(v.GetInt("WEBHOOK_RETRY_BASE_SECONDS")) * time.Second,
			RetryCap:       time.Duration(v.GetInt("WEBHOOK_RETRY_CAP_SECONDS")) * time.Second,
			Concurrency:    v.GetInt("WORKER_CONCURRENCY"),
		},
		Retention: RetentionConfig{
			AttemptLogHours: v.GetInt("LOG_RETENTION_HOURS"),
			SweepInterval:   time.Duration(v.GetInt("RETENTION_SWEEP_INTERVAL_HOURS")) * time.Hour,
		},
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Version:     v.GetString("VERSION"),
	}

	return config, nil
}

// IsDevelopment returns true if the environment is set to development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
