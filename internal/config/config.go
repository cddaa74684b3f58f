package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds runtime configuration for every service. Each service validates
// only the groups it uses.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	Models  ModelConfig
	Storage StorageConfig
	Notify  NotifyConfig
	Ledger  LedgerConfig
}

// ModelConfig carries the settings of all three model backends plus the
// evaluator. Which backend is used is decided by llm.Select.
type ModelConfig struct {
	BedrockRegion    string `env:"BEDROCK_REGION"`
	BedrockModelID   string `env:"BEDROCK_MODEL_ID"`
	BedrockAccessKey string `env:"BEDROCK_ACCESS_KEY"`
	BedrockSecretKey string `env:"BEDROCK_SECRET_KEY"`

	GoogleAPIKey  string `env:"GOOGLE_API_KEY"`
	GoogleModel   string `env:"GOOGLE_MODEL" envDefault:"gemini-2.0-flash-lite"`
	GoogleBaseURL string `env:"GOOGLE_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/" validate:"omitempty,url"`

	OllamaHost  string `env:"OLLAMA_HOST" envDefault:"http://localhost:11434" validate:"omitempty,url"`
	OllamaModel string `env:"OLLAMA_MODEL" envDefault:"gemma3:1b"`

	EvaluatorModel string `env:"EVALUATOR_MODEL" envDefault:"gemini-2.0-flash-lite"`
}

// StorageConfig points at the object store holding uploads. Services do not
// validate it at startup: a missing bucket is reported per request as a 500.
type StorageConfig struct {
	Bucket       string `env:"S3_BUCKET_NAME" validate:"required"`
	Region       string `env:"AWS_REGION" envDefault:"us-east-1" validate:"required"`
	Endpoint     string `env:"S3_ENDPOINT" validate:"omitempty,url"` // S3-compatible stores (MinIO, LocalStack)
	UsePathStyle bool   `env:"S3_USE_PATH_STYLE"`
	Provider     string `env:"OBJECT_STORE_PROVIDER" envDefault:"s3" validate:"oneof=s3 memory"`
}

// NotifyConfig selects how the process service receives object-created events.
type NotifyConfig struct {
	Provider string `env:"NOTIFY_PROVIDER" envDefault:"lambda" validate:"oneof=lambda nats"`
	URL      string `env:"NOTIFY_URL" validate:"required_if=Provider nats"`
	Subject  string `env:"NOTIFY_SUBJECT" envDefault:"bucket.events" validate:"required"`
}

// LedgerConfig selects where processing outcomes are recorded.
type LedgerConfig struct {
	Provider string `env:"STORE_PROVIDER" envDefault:"none" validate:"oneof=none postgres"`
	DBURL    string `env:"DB_URL" validate:"required_if=Provider postgres"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads a .env file when present, then configuration from environment
// variables with defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env file", "err", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// Validate checks a configuration group (StorageConfig, NotifyConfig, ...).
func Validate(group any) error {
	return validate.Struct(group)
}
