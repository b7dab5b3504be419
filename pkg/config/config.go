package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for wilco-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (database password, generation API key, JWT secret) must only come
// from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Auth configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Generation service configuration
	Generation GenerationConfig `yaml:"generation"`

	// Dataset storage configuration
	Datasets DatasetConfig `yaml:"datasets"`

	// Sandbox execution limits
	Sandbox SandboxConfig `yaml:"sandbox"`
}

// AuthConfig holds authentication-related configuration.
// Token mechanics are deliberately thin: the engine only needs a resolved
// (tenant_id, user_id) pair per request.
type AuthConfig struct {
	// EnableVerification controls whether bearer tokens are validated.
	// Set to false for local development.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// JWTSecret signs and verifies bearer tokens (HS256).
	JWTSecret string `yaml:"-" env:"AUTH_JWT_SECRET"` // Secret - not in YAML
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"wilco"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"wilco_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`

	// Pool recycling knobs. Connections older than the lifetime or idle
	// longer than the idle window are closed and replaced.
	ConnMaxLifetimeMinutes int `yaml:"conn_max_lifetime_minutes" env:"PGCONN_MAX_LIFETIME_MINUTES" env-default:"60"`
	ConnMaxIdleMinutes     int `yaml:"conn_max_idle_minutes" env:"PGCONN_MAX_IDLE_MINUTES" env-default:"30"`
}

// ConnMaxLifetime returns the connection lifetime as a duration.
func (c *DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// ConnMaxIdleTime returns the idle window as a duration.
func (c *DatabaseConfig) ConnMaxIdleTime() time.Duration {
	return time.Duration(c.ConnMaxIdleMinutes) * time.Minute
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// GenerationConfig holds settings for the external text-generation service.
type GenerationConfig struct {
	// Provider selects the client implementation: "anthropic" or "openai".
	Provider string `yaml:"provider" env:"GENERATION_PROVIDER" env-default:"anthropic"`

	// Model is the model identifier sent with every request.
	Model string `yaml:"model" env:"GENERATION_MODEL" env-default:"claude-sonnet-4-20250514"`

	// BaseURL overrides the service endpoint (OpenAI-compatible providers).
	BaseURL string `yaml:"base_url" env:"GENERATION_BASE_URL" env-default:""`

	// APIKey authenticates against the generation service.
	APIKey string `yaml:"-" env:"GENERATION_API_KEY"` // Secret - not in YAML

	// MaxOutputTokens bounds the length of a generated snippet.
	MaxOutputTokens int `yaml:"max_output_tokens" env:"GENERATION_MAX_OUTPUT_TOKENS" env-default:"2000"`
}

// DatasetConfig holds dataset file storage settings.
type DatasetConfig struct {
	// DataDir is the directory where uploaded dataset files are stored.
	DataDir string `yaml:"data_dir" env:"DATASETS_DATA_DIR" env-default:"./data"`

	// MaxUploadBytes limits the size of a single uploaded file.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" env:"DATASETS_MAX_UPLOAD_BYTES" env-default:"52428800"`
}

// SandboxConfig bounds snippet execution.
type SandboxConfig struct {
	// ExecutionTimeoutSeconds is the wall-clock budget for a single snippet.
	ExecutionTimeoutSeconds int `yaml:"execution_timeout_seconds" env:"SANDBOX_EXECUTION_TIMEOUT_SECONDS" env-default:"30"`

	// MaxResultRows caps the number of rows in a normalized result.
	MaxResultRows int `yaml:"max_result_rows" env:"SANDBOX_MAX_RESULT_ROWS" env-default:"10000"`
}

// ExecutionTimeout returns the execution budget as a duration.
func (c *SandboxConfig) ExecutionTimeout() time.Duration {
	return time.Duration(c.ExecutionTimeoutSeconds) * time.Second
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config. If config.yaml is absent, environment variables alone
// are used.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Generation.Provider {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("unknown generation provider %q", c.Generation.Provider)
	}
	if c.Auth.EnableVerification && c.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required when auth verification is enabled")
	}
	if c.Sandbox.ExecutionTimeoutSeconds <= 0 {
		return fmt.Errorf("sandbox execution timeout must be positive")
	}
	return nil
}
