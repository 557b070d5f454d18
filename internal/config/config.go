package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API      APIConfig
	Server   ServerConfig
	Database DatabaseConfig
	UserID   int64 // acting user for foodctl
}

// APIConfig describes the backend the managers talk to.
type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type ServerConfig struct {
	Port           string
	Host           string
	Env            string
	Token          string        // bearer token required by the devserver, empty disables the check
	RateLimit      int           // requests per client per minute, 0 disables limiting
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Driver   string // "sqlite3" or "postgres"
	Path     string // sqlite file, ":memory:" allowed
	URL      string // Full database URL
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("CAMPUS_EATS_API_URL", "http://localhost:8080/api"), "/"),
			Token:   getEnv("CAMPUS_EATS_TOKEN", ""),
			Timeout: getEnvAsDuration("CAMPUS_EATS_TIMEOUT", 15*time.Second),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Host:           getEnv("HOST", "localhost"),
			Env:            getEnv("ENV", "development"),
			Token:          getEnv("DEVSERVER_TOKEN", ""),
			RateLimit:      getEnvAsInt("DEVSERVER_RATE_LIMIT", 0),
			RequestTimeout: getEnvAsDuration("DEVSERVER_REQUEST_TIMEOUT", 30*time.Second),
		},
		Database: parseDatabaseConfig(),
		UserID:   int64(getEnvAsInt("CAMPUS_EATS_USER_ID", 0)),
	}

	return config, nil
}

// Addr is the listen address of the devserver.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// IsDevelopment reports whether the server runs in development mode.
func (s ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func parseDatabaseConfig() DatabaseConfig {
	// Check if DATABASE_URL is provided
	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL != "" {
		return parseDatabaseURL(databaseURL)
	}

	driver := getEnv("DB_DRIVER", "sqlite3")
	if driver == "sqlite3" {
		return DatabaseConfig{
			Driver: driver,
			Path:   getEnv("DB_PATH", "campus_eats.db"),
		}
	}

	// Fall back to individual environment variables
	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvAsInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "campus_eats"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func parseDatabaseURL(databaseURL string) DatabaseConfig {
	config := DatabaseConfig{
		Driver: "postgres",
		URL:    databaseURL,
	}

	if path, ok := strings.CutPrefix(databaseURL, "sqlite://"); ok {
		config.Driver = "sqlite3"
		config.Path = path
		return config
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		// If parsing fails, return the URL as-is
		return config
	}

	config.Host = u.Hostname()
	if u.Port() != "" {
		config.Port, _ = strconv.Atoi(u.Port())
	} else {
		config.Port = 5432 // Default PostgreSQL port
	}

	if u.User != nil {
		config.User = u.User.Username()
		config.Password, _ = u.User.Password()
	}

	config.DBName = strings.TrimPrefix(u.Path, "/")

	config.SSLMode = u.Query().Get("sslmode")
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("20s") or a bare number of
// milliseconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
