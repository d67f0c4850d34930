package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/realestate/rems-frontend/pkg/logger"
)

// Session persistence backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
	SessionBackendMongo  = "mongo"
	SessionBackendFile   = "file"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	API       APIConfig
	Session   SessionConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Upload    UploadConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// APIConfig points at the REMS backend REST API.
type APIConfig struct {
	BaseURL      string
	ImageBaseURL string
}

type SessionConfig struct {
	Backend    string
	CookieName string
	TTL        time.Duration
	Dir        string
	Prefix     string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type UploadConfig struct {
	MaxBytes int64
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "3000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("API_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("IMAGE_BASE_URL", "http://localhost:8080")
	v.SetDefault("SESSION_BACKEND", SessionBackendMemory)
	v.SetDefault("SESSION_COOKIE", "rems_sid")
	v.SetDefault("SESSION_TTL_MINUTES", 10080)
	v.SetDefault("SESSION_DIR", ".rems/sessions")
	v.SetDefault("SESSION_PREFIX", "session:")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("MONGODB_DATABASE", "rems_frontend")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("UPLOAD_MAX_BYTES", 10*1024*1024)

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		API: APIConfig{
			BaseURL:      strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			ImageBaseURL: strings.TrimRight(v.GetString("IMAGE_BASE_URL"), "/"),
		},
		Session: SessionConfig{
			Backend:    strings.ToLower(strings.TrimSpace(v.GetString("SESSION_BACKEND"))),
			CookieName: v.GetString("SESSION_COOKIE"),
			TTL:        time.Duration(v.GetInt("SESSION_TTL_MINUTES")) * time.Minute,
			Dir:        v.GetString("SESSION_DIR"),
			Prefix:     v.GetString("SESSION_PREFIX"),
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Upload: UploadConfig{
			MaxBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
		},
	}

	switch cfg.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis, SessionBackendMongo, SessionBackendFile:
	default:
		logger.Warnf("unknown SESSION_BACKEND %q; falling back to %s", cfg.Session.Backend, SessionBackendMemory)
		cfg.Session.Backend = SessionBackendMemory
	}
	if cfg.Session.Backend == SessionBackendRedis && cfg.Redis.Host == "" {
		logger.Warnf("SESSION_BACKEND=redis but REDIS_HOST is not set")
	}
	if cfg.Session.Backend == SessionBackendMongo && cfg.MongoDB.URI == "" {
		logger.Warnf("SESSION_BACKEND=mongo but MONGODB_URI is not set")
	}

	return cfg, nil
}

// RedisAddr returns host:port for the configured Redis server, or "" when unset.
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return c.Redis.Host + ":" + c.Redis.Port
}
