package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// DBConfig holds database configuration
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration. PushURL is the Pushgateway
// used by short-lived binaries; empty disables pushing.
type MetricsConfig struct {
	Prefix  string
	PushURL string
}

// StoreConfig selects the catalog-service persistence backend ("memory" or "postgres")
type StoreConfig struct {
	Driver string
}

// CatalogConfig holds the remote catalog API settings used by the storefront
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

// IdentityConfig holds the identity API settings used by the storefront
type IdentityConfig struct {
	BaseURL        string
	AuthTimeout    time.Duration
	ProfileTimeout time.Duration
	TokenFile      string
}

// StorageConfig holds image storage settings
type StorageConfig struct {
	Driver   string
	CacheDir string

	S3Region        string
	S3Bucket        string
	S3Prefix        string
	S3PublicBaseURL string

	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioBucket        string
	MinioUseSSL        bool
	MinioPublicBaseURL string
}

// Config holds all configuration
type Config struct {
	ServiceName string
	DB          DBConfig
	Server      ServerConfig
	JWT         JWTConfig
	Log         LogConfig
	Metrics     MetricsConfig
	Store       StoreConfig
	Catalog     CatalogConfig
	Identity    IdentityConfig
	Storage     StorageConfig
}

const defaultAPIBaseURL = "https://ouijagames-back.onrender.com/api"

// Load loads configuration from environment variables without service name prefix
func Load(serviceName string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: .env file not found, using environment variables\n")
	}

	config := &Config{
		ServiceName: serviceName,
		DB: DBConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "password"),
			DBName:          getEnv("DB_NAME", serviceName),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		JWT: JWTConfig{
			SigningKey:      getEnv("JWT_SIGNING_KEY", "defaultsecretkey"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix:  getEnv("METRICS_PREFIX", metricPrefix(serviceName)),
			PushURL: getEnv("METRICS_PUSH_URL", ""),
		},
		Store: StoreConfig{
			Driver: getEnv("CATALOG_STORE", "memory"),
		},
		Catalog: CatalogConfig{
			BaseURL: getEnv("CATALOG_BASE_URL", defaultAPIBaseURL),
			Timeout: getEnvAsDuration("CATALOG_TIMEOUT", 30*time.Second),
		},
		Identity: IdentityConfig{
			BaseURL:        getEnv("IDENTITY_BASE_URL", defaultAPIBaseURL),
			AuthTimeout:    getEnvAsDuration("AUTH_TIMEOUT", 15*time.Second),
			ProfileTimeout: getEnvAsDuration("PROFILE_TIMEOUT", 5*time.Second),
			TokenFile:      getEnv("TOKEN_FILE", ".storefront-token"),
		},
		Storage: StorageConfig{
			Driver:             getEnv("STORAGE_DRIVER", "local"),
			CacheDir:           getEnv("IMAGE_CACHE_DIR", os.TempDir()),
			S3Region:           getEnv("S3_REGION", ""),
			S3Bucket:           getEnv("S3_BUCKET", ""),
			S3Prefix:           getEnv("S3_PREFIX", "products"),
			S3PublicBaseURL:    getEnv("S3_PUBLIC_BASE_URL", ""),
			MinioEndpoint:      getEnv("MINIO_ENDPOINT", ""),
			MinioAccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			MinioSecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			MinioBucket:        getEnv("MINIO_BUCKET", "products"),
			MinioUseSSL:        getEnvAsBool("MINIO_USE_SSL", false),
			MinioPublicBaseURL: getEnv("MINIO_PUBLIC_BASE_URL", ""),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service name is required")
	}
	switch c.Store.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("unknown CATALOG_STORE: %s", c.Store.Driver)
	}
	if c.Identity.AuthTimeout <= 0 {
		return fmt.Errorf("AUTH_TIMEOUT must be positive")
	}
	return nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("store", c.Store.Driver),
		zap.String("db_host", c.DB.Host),
		zap.String("db_name", c.DB.DBName),
		zap.String("server_port", c.Server.Port),
		zap.String("catalog_base_url", c.Catalog.BaseURL),
		zap.String("storage_driver", c.Storage.Driver),
	}
}

// prometheus metric names cannot contain dashes
func metricPrefix(serviceName string) string {
	out := []byte(serviceName)
	for i, b := range out {
		if b == '-' {
			out[i] = '_'
		}
	}
	return string(out)
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as booleans
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	valueStr := getEnv(key, "")
	switch valueStr {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
