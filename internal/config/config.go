package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root application configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Minio    MinioConfig    `yaml:"minio"`
	LLM      LLMConfig      `yaml:"llm"`
	Receipts ReceiptsConfig `yaml:"receipts"`
	Jobs     JobsConfig     `yaml:"jobs"`
	Log      LogConfig      `yaml:"log"`
}

type AppConfig struct {
	Name     string `yaml:"name"     env:"APP_NAME"     env-default:"savor"`
	Timezone string `yaml:"timezone" env:"APP_TIMEZONE" env-default:"Local"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type DatabaseConfig struct {
	DSN         string `yaml:"dsn"          env:"DATABASE_URL"          env-required:"true"`
	MaxConns    int32  `yaml:"max_conns"    env:"DATABASE_MAX_CONNS"    env-default:"10"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"DATABASE_AUTO_MIGRATE" env-default:"true"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"     env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"   env:"MINIO_ENDPOINT"   env-default:"localhost:9000"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY" env-default:"minioadmin"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY" env-default:"minioadmin"`
	UseSSL    bool   `yaml:"use_ssl"    env:"MINIO_USE_SSL"    env-default:"false"`
	Region    string `yaml:"region"     env:"MINIO_REGION"     env-default:"us-east-1"`
	Bucket    string `yaml:"bucket"     env:"MINIO_BUCKET"     env-default:"receipts"`
}

// LLMConfig selects and configures the external model provider.
type LLMConfig struct {
	Provider  string        `yaml:"provider"   env:"LLM_PROVIDER"   env-default:"anthropic"`
	Model     string        `yaml:"model"      env:"LLM_MODEL"`
	APIKey    string        `yaml:"api_key"    env:"LLM_API_KEY"`
	BaseURL   string        `yaml:"base_url"   env:"LLM_BASE_URL"`
	Timeout   time.Duration `yaml:"timeout"    env:"LLM_TIMEOUT"    env-default:"45s"`
	MaxTokens int64         `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"2048"`
}

type ReceiptsConfig struct {
	MaxUploadBytes int64         `yaml:"max_upload_bytes" env:"RECEIPTS_MAX_UPLOAD_BYTES" env-default:"10485760"`
	Concurrency    int           `yaml:"concurrency"      env:"RECEIPTS_CONCURRENCY"      env-default:"4"`
	RateLimit      int           `yaml:"rate_limit"       env:"RECEIPTS_RATE_LIMIT"       env-default:"20"`
	RateWindow     time.Duration `yaml:"rate_window"      env:"RECEIPTS_RATE_WINDOW"      env-default:"1h"`
	ExpiringDays   int           `yaml:"expiring_days"    env:"RECEIPTS_EXPIRING_DAYS"    env-default:"5"`
	// ImageURLExpiry bounds the presigned link returned for an archived
	// receipt image. Zero disables the link.
	ImageURLExpiry time.Duration `yaml:"image_url_expiry" env:"RECEIPTS_IMAGE_URL_EXPIRY" env-default:"15m"`
}

type JobsConfig struct {
	Enabled        bool          `yaml:"enabled"         env:"JOBS_ENABLED"         env-default:"true"`
	ExpiryInterval time.Duration `yaml:"expiry_interval" env:"JOBS_EXPIRY_INTERVAL" env-default:"1h"`
	AlertDays      int           `yaml:"alert_days"      env:"JOBS_ALERT_DAYS"      env-default:"3"`
	AutoExpire     bool          `yaml:"auto_expire"     env:"JOBS_AUTO_EXPIRE"     env-default:"false"`
}

type LogConfig struct {
	Level       string `yaml:"level"       env:"LOG_LEVEL"       env-default:"info"`
	Environment string `yaml:"environment" env:"LOG_ENVIRONMENT" env-default:"development"`
}

// Load reads configuration from a YAML file and environment variables.
// A .env file in the working directory is loaded first when present.
// The YAML path comes from CONFIG_PATH (fallback "./config.yaml"); a missing
// default file means ENV + defaults only.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate checks cross-field constraints cleanenv cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.LLM.Provider) {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderAnthropic, ProviderOpenAI, c.LLM.Provider))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, errors.New("llm.timeout must be positive"))
	}
	if c.Receipts.Concurrency <= 0 {
		errs = append(errs, errors.New("receipts.concurrency must be positive"))
	}
	if c.Receipts.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("receipts.max_upload_bytes must be positive"))
	}
	if c.Jobs.AlertDays < 0 {
		errs = append(errs, errors.New("jobs.alert_days cannot be negative"))
	}
	if _, err := c.App.Location(); err != nil {
		errs = append(errs, fmt.Errorf("app.timezone: %w", err))
	}

	return errors.Join(errs...)
}

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Location resolves the configured timezone used to decide "today".
func (a AppConfig) Location() (*time.Location, error) {
	if a.Timezone == "" || strings.EqualFold(a.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(a.Timezone)
}
