package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port           string
	IsProduction   bool
	LogLevel       string
	UploadDir      string
	ExportDir      string
	MaxUploadBytes int64
	StrictHeader   bool
	AllowOrigins   []string

	UploadTTL       time.Duration
	ExportTTL       time.Duration
	JobStatusTTL    time.Duration
	CleanupInterval time.Duration
}

const (
	defaultPort            = "8080"
	defaultUploadDir       = "storage/uploads"
	defaultExportDir       = "tmp/exports"
	defaultMaxUploadBytes  = 10 << 20
	defaultUploadTTL       = time.Hour
	defaultExportTTL       = 2 * time.Hour
	defaultJobStatusTTL    = time.Hour
	defaultCleanupInterval = 10 * time.Minute
)

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", defaultPort)
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("UPLOAD_DIR", defaultUploadDir)
	viper.SetDefault("EXPORT_DIR", defaultExportDir)
	viper.SetDefault("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	viper.SetDefault("UPLOAD_TTL", defaultUploadTTL.String())
	viper.SetDefault("EXPORT_TTL", defaultExportTTL.String())
	viper.SetDefault("JOB_STATUS_TTL", defaultJobStatusTTL.String())
	viper.SetDefault("CLEANUP_INTERVAL", defaultCleanupInterval.String())
	viper.SetDefault("STRICT_HEADER", false)
	viper.SetDefault("ALLOW_ORIGINS", "")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:         viper.GetString("PORT"),
		IsProduction: viper.GetBool("IS_PRODUCTION"),
		LogLevel:     viper.GetString("LOG_LEVEL"),
		UploadDir:    viper.GetString("UPLOAD_DIR"),
		ExportDir:    viper.GetString("EXPORT_DIR"),
		StrictHeader: viper.GetBool("STRICT_HEADER"),
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
		slog.Warn("PORT not set", slog.String("default", cfg.Port))
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = defaultUploadDir
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = defaultExportDir
	}

	cfg.MaxUploadBytes = viper.GetInt64("MAX_UPLOAD_BYTES")
	if cfg.MaxUploadBytes <= 0 {
		slog.Warn("Invalid value for MAX_UPLOAD_BYTES", slog.String("value", viper.GetString("MAX_UPLOAD_BYTES")))
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	for _, origin := range strings.Split(viper.GetString("ALLOW_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	cfg.UploadTTL = durationOrDefault("UPLOAD_TTL", defaultUploadTTL)
	cfg.ExportTTL = durationOrDefault("EXPORT_TTL", defaultExportTTL)
	cfg.JobStatusTTL = durationOrDefault("JOB_STATUS_TTL", defaultJobStatusTTL)
	cfg.CleanupInterval = durationOrDefault("CLEANUP_INTERVAL", defaultCleanupInterval)

	return cfg, nil
}

// durationOrDefault parses a duration key such as "90m" or "2h". Invalid or
// non-positive values fall back to def.
func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("Invalid duration, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Duration("default", def),
		)
		return def
	}
	return d
}
