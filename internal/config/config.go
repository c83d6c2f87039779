package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// defaultSessionSecret is used when SESSION_SECRET is not set.
// Override it in any real deployment.
const defaultSessionSecret = "Brisbane, Perth, Vancouver, Montreal are one of the best cities in the world"

// Config holds all application configuration, built once at startup.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Images   ImagesConfig
	Kafka    KafkaConfig
	Session  SessionConfig
}

// AppConfig holds HTTP server settings.
type AppConfig struct {
	Host     string
	Port     string
	LogLevel string
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DB           string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN returns the connection string for the pgx stdlib driver.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.DB)
}

// RedisConfig holds Redis session store settings.
type RedisConfig struct {
	Host         string
	Port         int
	DB           int
	Password     string
	PoolSize     int
	MinIdleConns int
}

// Addr returns the host:port address for the Redis client.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ImagesConfig holds image hosting (S3-compatible) settings.
type ImagesConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicBaseURL is the externally reachable base for uploaded objects,
	// e.g. https://img.example.com/campsite.
	PublicBaseURL string
}

// KafkaConfig holds the optional activity event stream settings.
// An empty Broker disables publishing.
type KafkaConfig struct {
	Broker string
	Topic  string
}

// SessionConfig holds session cookie settings.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// Load reads the env file at path (if present) and builds the Config
// from environment variables with defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(path)

	cfg := &Config{
		App: AppConfig{
			Host:     getEnv("APP_HOST", "localhost"),
			Port:     getEnv("APP_PORT", "8080"),
			LogLevel: getEnv("APP_LOG_LEVEL", "info"),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			User:     getEnv("POSTGRES_USER", "user"),
			Password: getEnv("POSTGRES_PASSWORD", "password"),
			DB:       getEnv("POSTGRES_DB", "campsite"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Images: ImagesConfig{
			Endpoint:      getEnv("IMAGES_ENDPOINT", ""),
			Region:        getEnv("IMAGES_REGION", "us-east-1"),
			Bucket:        getEnv("IMAGES_BUCKET", "campsite-images"),
			AccessKey:     getEnv("IMAGES_ACCESS_KEY", ""),
			SecretKey:     getEnv("IMAGES_SECRET_KEY", ""),
			PublicBaseURL: getEnv("IMAGES_PUBLIC_BASE_URL", ""),
		},
		Kafka: KafkaConfig{
			Broker: getEnv("KAFKA_BROKER", ""),
			Topic:  getEnv("KAFKA_TOPIC", "campsite-activity"),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", defaultSessionSecret),
		},
	}

	var err error
	if cfg.Postgres.Port, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return nil, fmt.Errorf("POSTGRES_PORT: %w", err)
	}
	if cfg.Postgres.MaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return nil, fmt.Errorf("POSTGRES_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.Postgres.MaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return nil, fmt.Errorf("POSTGRES_MAX_IDLE_CONNS: %w", err)
	}
	if cfg.Redis.Port, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return nil, fmt.Errorf("REDIS_PORT: %w", err)
	}
	if cfg.Redis.DB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.Redis.PoolSize, err = strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10")); err != nil {
		return nil, fmt.Errorf("REDIS_POOL_SIZE: %w", err)
	}
	if cfg.Redis.MinIdleConns, err = strconv.Atoi(getEnv("REDIS_MIN_IDLE_CONNS", "2")); err != nil {
		return nil, fmt.Errorf("REDIS_MIN_IDLE_CONNS: %w", err)
	}

	ttlSecond, err := strconv.Atoi(getEnv("SESSION_TTL_SECOND", "86400"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL_SECOND: %w", err)
	}
	cfg.Session.TTL = time.Duration(ttlSecond) * time.Second

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultValue
}
