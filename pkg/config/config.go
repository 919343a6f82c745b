// pkg/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Port           string
	APIPrefix      string
	AllowedOrigins []string
	Timezone       *time.Location
}

type PostgresConfig struct {
	DSN         string
	AutoMigrate bool
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// AuthServiceConfig describes the external NutriPAE-AUTH service the gateway delegates to.
type AuthServiceConfig struct {
	URL              string
	ModuleIdentifier string
	Timeout          time.Duration
}

type CacheConfig struct {
	ParametricTTL time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Auth     AuthServiceConfig
	Cache    CacheConfig
	Log      LogConfig
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded.")
	}

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			APIPrefix:      getEnv("API_PREFIX_STR", "/api/v1"),
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
			Timezone:       getLocation("APP_TIMEZONE", "America/Bogota"),
		},
		Postgres: PostgresConfig{
			DSN:         databaseURL(),
			AutoMigrate: getBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		Auth: AuthServiceConfig{
			URL:              authServiceURL(),
			ModuleIdentifier: getEnv("MODULE_IDENTIFIER", "nutripae-rh"),
			Timeout:          getDuration("AUTH_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			ParametricTTL: getDuration("PARAMETRIC_CACHE_TTL", 10*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "debug"),
			File:  getEnv("LOG_FILE", "./logs/app.log"),
		},
	}
}

// databaseURL prefers DATABASE_URL and otherwise assembles it from the POSTGRES_* variables.
func databaseURL() string {
	if dsn, ok := os.LookupEnv("DATABASE_URL"); ok && dsn != "" {
		return dsn
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("POSTGRES_USER", "postgres"),
		getEnv("POSTGRES_PASSWORD", "postgres"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_HOST_PORT", "5432"),
		getEnv("POSTGRES_DB", "nutripae-rh"),
	)
}

func authServiceURL() string {
	if u, ok := os.LookupEnv("NUTRIPAE_AUTH_URL"); ok && u != "" {
		return strings.TrimRight(u, "/")
	}
	return fmt.Sprintf("http://%s:%s%s",
		getEnv("NUTRIPAE_AUTH_HOST", "localhost"),
		getEnv("NUTRIPAE_AUTH_PORT", "8000"),
		getEnv("NUTRIPAE_AUTH_PREFIX_STR", "/api/v1"),
	)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid duration in %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func getLocation(key, fallback string) *time.Location {
	loc, err := time.LoadLocation(getEnv(key, fallback))
	if err != nil {
		log.Printf("Warning: unknown timezone in %s, falling back to UTC: %v", key, err)
		return time.UTC
	}
	return loc
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
