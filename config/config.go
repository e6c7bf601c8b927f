package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config stores the process-level application configuration: external service
// credentials and the optional Redis/MySQL/MinIO backends. Per-run tuning
// (thresholds, concurrency) comes from CLI flags, not the environment.
type Config struct {
	// Recognition service endpoints.
	ShazamAPIURL    string
	ACRAccessKey    string
	ACRAccessSecret string
	ACRHost         string

	// Egress proxy pool, comma-separated URLs. Empty means direct.
	ProxyPool []string

	// Redis result cache (optional; disabled when RedisHost is empty).
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// MySQL run history (optional; disabled when DBHost is empty).
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// MinIO report archive (optional; disabled when MinioEndpoint is empty).
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool

	// Logging.
	LogLevel      string
	LogOutputPath string

	FFmpegPath string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	var pool []string
	if raw := getEnv("PROXY_POOL", ""); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				pool = append(pool, p)
			}
		}
	}

	return &Config{
		ShazamAPIURL:    getEnv("SHAZAM_API_URL", "https://amp.shazam.com/discovery/v5/en/US/android/-/tag"),
		ACRAccessKey:    os.Getenv("ACR_ACCESS_KEY"),
		ACRAccessSecret: os.Getenv("ACR_ACCESS_SECRET"),
		ACRHost:         getEnv("ACR_HOST", "identify-us-west-2.acrcloud.com"),

		ProxyPool: pool,

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "setradar"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "setradar-reports"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", true),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogOutputPath: getEnv("LOG_OUTPUT_PATH", ""),

		FFmpegPath: getEnv("FFMPEG_PATH", "ffmpeg"),
	}
}

// HistoryEnabled reports whether MySQL run history is configured.
func (c *Config) HistoryEnabled() bool { return c.DBHost != "" }

// CacheEnabled reports whether the Redis result cache is configured.
func (c *Config) CacheEnabled() bool { return c.RedisHost != "" }

// ArchiveEnabled reports whether the MinIO report archive is configured.
func (c *Config) ArchiveEnabled() bool { return c.MinioEndpoint != "" }
