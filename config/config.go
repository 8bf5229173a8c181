package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ListenAddr string

	CSVPath      string
	StoreBackend string // "postgres", "sqlite" or "none"
	SQLitePath   string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	APIBaseURL    string
	HTTPTimeoutMs int

	MaxConcurrency int
	MaxRetries     int

	MapPointCap int
	ChartWidth  int
	ChartHeight int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8000"),

		CSVPath:      getEnv("CSV_PATH", "./data/rental_data.csv"),
		StoreBackend: getEnv("STORE_BACKEND", "none"),
		SQLitePath:   getEnv("SQLITE_PATH", "./rentvision.db"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "rentvision"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "rentvision123"),
		PostgresDB:       getEnv("POSTGRES_DB", "rental_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:8000"),
		HTTPTimeoutMs: getEnvInt("HTTP_TIMEOUT_MS", 10000),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		MapPointCap: getEnvInt("MAP_POINT_CAP", 2000),
		ChartWidth:  getEnvInt("CHART_WIDTH", 640),
		ChartHeight: getEnvInt("CHART_HEIGHT", 360),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
