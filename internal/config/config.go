package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	S3       S3Config       `mapstructure:"s3"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// DSN renders the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AuthConfig holds token settings for the identity middleware.
type AuthConfig struct {
	Secret        string        `mapstructure:"secret"`
	TokenValidity time.Duration `mapstructure:"token_validity"`
}

// S3Config holds the blob store settings for note images.
type S3Config struct {
	Region       string `mapstructure:"region"`
	Bucket       string `mapstructure:"bucket"`
	BaseEndpoint string `mapstructure:"base_endpoint"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
}

// Load loads configuration from environment variables and an optional
// config.yaml. Environment variables win over file values; a .env file
// in the working directory is read first if present.
func Load() (*Config, error) {
	// Missing .env is fine, real env vars still apply.
	_ = godotenv.Load(".env")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("database.host", getEnv("PG_HOST", "localhost"))
	viper.SetDefault("database.port", getEnvInt("PG_PORT", 5432))
	viper.SetDefault("database.user", getEnv("PG_USER", "postgres"))
	viper.SetDefault("database.password", getEnv("PG_PASSWORD", ""))
	viper.SetDefault("database.name", getEnv("PG_DATABASE", "planora_dev"))
	viper.SetDefault("database.ssl_mode", getEnv("PG_SSL_MODE", "disable"))
	viper.SetDefault("server.host", getEnv("SERVER_HOST", "0.0.0.0"))
	viper.SetDefault("server.port", getEnvInt("SERVER_PORT", 8080))
	viper.SetDefault("auth.secret", getEnv("JWT_SECRET", ""))
	viper.SetDefault("auth.token_validity", getEnv("JWT_TOKEN_VALIDITY", "24h"))
	viper.SetDefault("s3.region", getEnv("S3_REGION", "us-east-1"))
	viper.SetDefault("s3.bucket", getEnv("S3_BUCKET", "planora-note-images"))
	viper.SetDefault("s3.base_endpoint", getEnv("S3_BASE_ENDPOINT", ""))
	viper.SetDefault("s3.access_key", getEnv("S3_ACCESS_KEY", ""))
	viper.SetDefault("s3.secret_key", getEnv("S3_SECRET_KEY", ""))

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// The config file is optional, defaults and env vars cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
