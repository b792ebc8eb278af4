package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Ledger backends selectable with LEDGER_BACKEND.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Ledger    LedgerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type LedgerConfig struct {
	Backend       string
	Dir           string
	DocumentsLog  string
	VotesLog      string
	PreviewLength int
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	KeyPrefix string
}

// Addr returns host:port.
func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5010")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LEDGER_BACKEND", BackendFile)
	v.SetDefault("LEDGER_DIR", "./data")
	v.SetDefault("LEDGER_DOCUMENTS_LOG", "documents.jsonl")
	v.SetDefault("LEDGER_VOTES_LOG", "votes.jsonl")
	v.SetDefault("LEDGER_PREVIEW_LENGTH", 80)
	v.SetDefault("MONGODB_DATABASE", "actadigital")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "ledger:")
	v.SetDefault("MINIO_BUCKET", "ledger-snapshots")
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	env := v.GetString("SERVER_ENVIRONMENT")
	format := v.GetString("LOG_FORMAT")
	if format == "" {
		format = "json"
		if env == "development" {
			format = "console"
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  env,
			ReadTimeout:  time.Duration(v.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: format,
		},
		Ledger: LedgerConfig{
			Backend:       strings.ToLower(strings.TrimSpace(v.GetString("LEDGER_BACKEND"))),
			Dir:           v.GetString("LEDGER_DIR"),
			DocumentsLog:  v.GetString("LEDGER_DOCUMENTS_LOG"),
			VotesLog:      v.GetString("LEDGER_VOTES_LOG"),
			PreviewLength: v.GetInt("LEDGER_PREVIEW_LENGTH"),
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:      v.GetString("REDIS_HOST"),
			Port:      v.GetString("REDIS_PORT"),
			Password:  v.GetString("REDIS_PASSWORD"),
			DB:        v.GetInt("REDIS_DB"),
			KeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combinations LoadConfig cannot default away.
func (c *Config) Validate() error {
	switch c.Ledger.Backend {
	case BackendFile:
		if c.Ledger.DocumentsLog == "" || c.Ledger.VotesLog == "" {
			return fmt.Errorf("ledger log names must not be empty")
		}
		if filepath.Clean(c.Ledger.DocumentsLog) == filepath.Clean(c.Ledger.VotesLog) {
			return fmt.Errorf("LEDGER_DOCUMENTS_LOG and LEDGER_VOTES_LOG must differ, both are %q", c.Ledger.DocumentsLog)
		}
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("LEDGER_BACKEND=redis requires REDIS_HOST")
		}
	case BackendMongo:
		if c.MongoDB.URI == "" {
			return fmt.Errorf("LEDGER_BACKEND=mongo requires MONGODB_URI")
		}
	default:
		return fmt.Errorf("unknown LEDGER_BACKEND %q", c.Ledger.Backend)
	}
	if c.Ledger.PreviewLength <= 0 {
		return fmt.Errorf("LEDGER_PREVIEW_LENGTH must be positive, got %d", c.Ledger.PreviewLength)
	}
	return nil
}
