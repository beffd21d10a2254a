package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds every setting of the server, the seed script and the terminal dashboard.
// Every parameter has exactly one environment variable; there are no fallback chains.
type Config struct {
	// Server
	Port        string
	Host        string
	Environment string
	CORSOrigins []string

	// Database
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBPath         string
	DBLogLevel     string
	DBMaxOpenConns int
	DBConnTimeout  time.Duration
	SeedOnInit     bool

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StatsCacheTTL time.Duration

	// Dashboard storage
	StorageBackend string
	StoragePath    string
	StorageMaxSize int64
	APIURL         string
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		Host:           getEnv("HOST", "0.0.0.0"),
		Environment:    getEnv("APP_ENV", "development"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		DBDriver:       getEnv("DB_DRIVER", DriverSQLite),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "seguimiento_grupos"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBPath:         getEnv("DB_PATH", "/tmp/seguimiento.db"),
		DBLogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		StoragePath:    getEnv("STORAGE_PATH", "./data"),
		APIURL:         getEnv("API_URL", "http://localhost:8080"),
	}

	var err error
	if config.DBMaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return nil, err
	}
	if config.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if config.DBConnTimeout, err = getDuration("DB_CONN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if config.StatsCacheTTL, err = getDuration("STATS_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if config.SeedOnInit, err = strconv.ParseBool(getEnv("SEED_ON_INIT", "true")); err != nil {
		return nil, fmt.Errorf("SEED_ON_INIT: %w", err)
	}
	if maxSize, err := strconv.ParseInt(getEnv("STORAGE_MAX_SIZE", "5242880"), 10, 64); err == nil {
		config.StorageMaxSize = maxSize
	} else {
		config.StorageMaxSize = 5 * 1024 * 1024
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DBDriver)
	}
	switch c.StorageBackend {
	case "local", "redis", "api":
	default:
		return fmt.Errorf("STORAGE_BACKEND must be local, redis or api, got %q", c.StorageBackend)
	}
	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}
	return nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s connect_timeout=%d TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, int(c.DBConnTimeout.Seconds()),
	)
}

// DatabaseLabel is the human readable backend name reported by /api/status.
func (c *Config) DatabaseLabel() string {
	if c.DBDriver == DriverPostgres {
		return "PostgreSQL"
	}
	return "SQLite"
}

func (c *Config) IsProduction() bool { return c.Environment == "production" }

// getEnv returns the variable or defaultValue when it is unset or empty
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v, err := time.ParseDuration(getEnv(key, defaultValue.String()))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
