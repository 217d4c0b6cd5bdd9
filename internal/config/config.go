package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sitedash/sitedash/internal/mirror"
	"github.com/sitedash/sitedash/internal/storage"
	"github.com/sitedash/sitedash/pkg/logger"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Log       logger.Options
	Media     MediaConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// MongoDBConfig: an empty URI selects the in-memory repository.
type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
	// ConnectAttempts and ConnectBackoff bound the startup connect loop.
	ConnectAttempts int
	ConnectBackoff  time.Duration
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	MirrorKey string
	MirrorTTL time.Duration
}

func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type MediaConfig struct {
	MinIO         *storage.MinIOConfig
	MaxBytes      int64
	PublicBaseURL string
	URLTTL        time.Duration
}

// LoadConfig loads configuration from environment variables and an optional
// .env file (ENV_FILE, default ".env").
func LoadConfig() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10)
	v.SetDefault("MONGODB_DATABASE", "dashboard_app")
	v.SetDefault("MONGODB_COLLECTION", "components")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("MONGODB_CONNECT_ATTEMPTS", 5)
	v.SetDefault("MONGODB_CONNECT_BACKOFF", "1s")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MIRROR_KEY", mirror.DefaultKey)
	v.SetDefault("REDIS_MIRROR_TTL", 0)
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_MAX_SIZE_MB", 50)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("MEDIA_MAX_BYTES", 5*1024*1024)
	v.SetDefault("MEDIA_URL_TTL_HOURS", 168)

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			Host:            v.GetString("SERVER_HOST"),
			Environment:     v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:     time.Duration(v.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout:    time.Duration(v.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
			ShutdownTimeout: time.Duration(v.GetInt("SERVER_SHUTDOWN_TIMEOUT")) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:        v.GetString("MONGODB_URI"),
			Database:   v.GetString("MONGODB_DATABASE"),
			Collection: v.GetString("MONGODB_COLLECTION"),
			Timeout:    time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,

			ConnectAttempts: v.GetInt("MONGODB_CONNECT_ATTEMPTS"),
			ConnectBackoff:  v.GetDuration("MONGODB_CONNECT_BACKOFF"),
		},
		Redis: RedisConfig{
			Host:      v.GetString("REDIS_HOST"),
			Port:      v.GetString("REDIS_PORT"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        v.GetInt("REDIS_DB"),
			MirrorKey: v.GetString("REDIS_MIRROR_KEY"),
			MirrorTTL: time.Duration(v.GetInt("REDIS_MIRROR_TTL")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Log: logger.Options{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			Compress:   v.GetBool("LOG_COMPRESS"),
		},
		Media: MediaConfig{
			MinIO:         storage.LoadMinIOConfig(),
			MaxBytes:      v.GetInt64("MEDIA_MAX_BYTES"),
			PublicBaseURL: v.GetString("MEDIA_PUBLIC_BASE_URL"),
			URLTTL:        time.Duration(v.GetInt("MEDIA_URL_TTL_HOURS")) * time.Hour,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT must not be empty"))
	}
	if c.MongoDB.URI != "" && (c.MongoDB.Database == "" || c.MongoDB.Collection == "") {
		errs = append(errs, errors.New("MONGODB_DATABASE and MONGODB_COLLECTION are required with MONGODB_URI"))
	}
	if c.MongoDB.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("MONGODB_TIMEOUT must be positive, got %s", c.MongoDB.Timeout))
	}
	if c.MongoDB.ConnectAttempts < 1 {
		errs = append(errs, fmt.Errorf("MONGODB_CONNECT_ATTEMPTS must be at least 1, got %d", c.MongoDB.ConnectAttempts))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, fmt.Errorf("REDIS_DB must not be negative, got %d", c.Redis.DB))
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
		}
		if c.RateLimit.UseRedis && c.RateLimit.WindowSeconds <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_WINDOW_SECONDS must be positive"))
		}
	}
	if c.Media.MaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("MEDIA_MAX_BYTES must be positive, got %d", c.Media.MaxBytes))
	}
	return errors.Join(errs...)
}
