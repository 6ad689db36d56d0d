package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hukuk-asistani/storage"
)

// Config holds every setting read from the environment
type Config struct {
	GeminiAPIKey string        `envconfig:"GEMINI_API_KEY" required:"true"`
	GeminiModel  string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-pro"`
	ModelTimeout time.Duration `envconfig:"MODEL_TIMEOUT" default:"60s"`

	Port        string `envconfig:"PORT" default:"3001"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	StorageType      string `envconfig:"STORAGE_TYPE" default:"local"`
	StorageLocalPath string `envconfig:"STORAGE_LOCAL_PATH" default:"./uploads"`
	S3Bucket         string `envconfig:"AWS_S3_BUCKET"`
	S3Region         string `envconfig:"AWS_REGION" default:"us-east-1"`
	AWSAccessKey     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey     string `envconfig:"AWS_SECRET_ACCESS_KEY"`

	MaxUploadBytes   int64  `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	PetitionFontPath string `envconfig:"PETITION_FONT_PATH"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads .env (current directory first, then the project root as seen
// from cmd/<name>/) and processes the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("../../.env")
	}
	return FromEnv()
}

// FromEnv processes the environment without touching .env files
func FromEnv() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch storage.StorageType(c.StorageType) {
	case storage.StorageTypeLocal:
	case storage.StorageTypeS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET is required when STORAGE_TYPE=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

// Storage returns the storage backend settings
func (c *Config) Storage() storage.StorageConfig {
	return storage.StorageConfig{
		Type:         storage.StorageType(c.StorageType),
		LocalPath:    c.StorageLocalPath,
		S3Bucket:     c.S3Bucket,
		S3Region:     c.S3Region,
		AWSAccessKey: c.AWSAccessKey,
		AWSSecretKey: c.AWSSecretKey,
	}
}

// NewLogger builds a production zap logger at the configured level
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
