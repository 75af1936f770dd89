package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logger    LoggerConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Mayar     MayarConfig
	Scheduler SchedulerConfig
	Upload    UploadConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level  string
	Format string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins string
}

// RedisConfig holds the live-location cache configuration. An empty Addr disables the cache.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	LocationTTL time.Duration
}

// MayarConfig holds Mayar payment configuration
type MayarConfig struct {
	AuthKey     string
	BaseURL     string
	RedirectURL string
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	Enabled                   bool
	PickupExpiryCron          string
	PickupMaxPendingAge       time.Duration
	NotificationCleanupCron   string
	NotificationRetentionDays int
}

// UploadConfig holds attachment storage configuration
type UploadConfig struct {
	Dir          string
	MaxSizeBytes int64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "goclean"),
			Password: getEnv("DB_PASSWORD", "secret"),
			DBName:   getEnv("DB_NAME", "goclean"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
			TTL:    getEnvAsDuration("JWT_TTL", 72*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", ""),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			LocationTTL: getEnvAsDuration("REDIS_LOCATION_TTL", 10*time.Minute),
		},
		Mayar: MayarConfig{
			AuthKey:     getEnv("MAYAR_AUTH_KEY", ""),
			BaseURL:     getEnv("MAYAR_BASE_URL", "https://api.mayar.id/hl/v1"),
			RedirectURL: getEnv("MAYAR_REDIRECT_URL", "http://localhost:3000/transactions"),
		},
		Scheduler: SchedulerConfig{
			Enabled:                   getEnvAsBool("SCHEDULER_ENABLED", true),
			PickupExpiryCron:          getEnv("PICKUP_EXPIRY_CRON", "0 */15 * * * *"),
			PickupMaxPendingAge:       getEnvAsDuration("PICKUP_MAX_PENDING_AGE", 24*time.Hour),
			NotificationCleanupCron:   getEnv("NOTIFICATION_CLEANUP_CRON", "0 0 3 * * *"),
			NotificationRetentionDays: getEnvAsInt("NOTIFICATION_RETENTION_DAYS", 30),
		},
		Upload: UploadConfig{
			Dir:          getEnv("UPLOAD_DIR", "tmp/uploads"),
			MaxSizeBytes: int64(getEnvAsInt("UPLOAD_MAX_SIZE_MB", 5)) << 20,
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks settings that would otherwise fail late at runtime
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.Scheduler.PickupMaxPendingAge <= 0 {
		return fmt.Errorf("PICKUP_MAX_PENDING_AGE must be positive")
	}
	if c.Upload.MaxSizeBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_SIZE_MB must be positive")
	}
	return nil
}

// GetDSN returns PostgreSQL connection string
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Origins splits the comma-separated allowed origins
func (c *CORSConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt gets an environment variable as integer with a fallback value
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvAsBool gets an environment variable as bool with a fallback value
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("15m") with a fallback value
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
