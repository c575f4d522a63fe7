package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string

	DB  DBConfig
	JWT JWTConfig
	AWS AWSConfig

	// GradingFile is an optional YAML file overriding grading constants.
	GradingFile string

	// RedisURL enables the analytics report cache when set.
	RedisURL    string
	CORSOrigins []string
	// OTelExporter is "none" or "stdout".
	OTelExporter    string
	ShutdownTimeout time.Duration
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

type JWTConfig struct {
	Secret []byte
	TTL    time.Duration
}

// AWSConfig is optional. An empty Region disables S3, SES, SNS and Rekognition.
type AWSConfig struct {
	Region        string
	S3Bucket      string
	CloudFrontURL string
	SESSender     string
	SNSFCMArn     string
}

func (c AWSConfig) Enabled() bool { return c.Region != "" }

// Load reads a .env file when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "nutrilog"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: []byte(os.Getenv("JWT_SECRET")),
			TTL:    time.Duration(getEnvAsInt("JWT_TTL_HOURS", 72)) * time.Hour,
		},
		AWS: AWSConfig{
			Region:        os.Getenv("AWS_REGION"),
			S3Bucket:      os.Getenv("S3_BUCKET"),
			CloudFrontURL: os.Getenv("CLOUDFRONT_URL"),
			SESSender:     os.Getenv("SES_SENDER"),
			SNSFCMArn:     os.Getenv("SNS_FCM_ARN"),
		},
		GradingFile:     os.Getenv("GRADING_CONFIG"),
		RedisURL:        os.Getenv("REDIS_URL"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		OTelExporter:    strings.ToLower(getEnv("OTEL_EXPORTER", "none")),
		ShutdownTimeout: time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if len(c.JWT.Secret) == 0 {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL_HOURS must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	switch c.OTelExporter {
	case "none", "stdout":
	default:
		return fmt.Errorf("invalid OTEL_EXPORTER: %s (must be none or stdout)", c.OTelExporter)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
