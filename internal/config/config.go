package config

import (
	"os"
	"strconv"
	"strings"
)

// Config gathers every runtime setting; loaded once at startup from the
// environment (configs/.env via godotenv in dev).
type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	Database DatabaseConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the postgres connection string
func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Enabled   bool
}

// Load reads configuration from environment variables with development defaults
func Load() Config {
	cfg := Config{
		Port:        envOr("PORT", "8080"),
		GinMode:     envOr("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(envOr("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173"), ","),
		Database: DatabaseConfig{
			Host:     envOr("DB_HOST", "localhost"),
			Port:     envOr("DB_PORT", "5432"),
			User:     envOr("DB_USER", "postgres"),
			Password: envOr("DB_PASSWORD", "postgres"),
			Name:     envOr("DB_NAME", "gestaomv"),
			SSLMode:  envOr("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envIntOr("REDIS_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    envOr("MINIO_BUCKET", "gestaomv-photos"),
			UseSSL:    envOr("MINIO_USE_SSL", "false") == "true",
		},
	}

	// Redis and MinIO are optional collaborators; absent endpoints disable them
	cfg.Redis.Enabled = cfg.Redis.Addr != ""
	cfg.MinIO.Enabled = cfg.MinIO.Endpoint != ""

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
