package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultJWTSecret = "your-very-secret-key-for-stay-service"

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds all configuration for the service.
type Config struct {
	ServiceName         string        `mapstructure:"SERVICE_NAME"`
	HTTPPort            string        `mapstructure:"HTTP_PORT"`
	GRPCPort            string        `mapstructure:"GRPC_PORT"`
	HTTPShutdownTimeout time.Duration `mapstructure:"HTTP_SHUTDOWN_TIMEOUT"`

	StoreDriver          string `mapstructure:"STORE_DRIVER"`
	MongoURI             string `mapstructure:"MONGO_URI"`
	MongoDatabase        string `mapstructure:"MONGO_DATABASE"`
	MongoUseTransactions bool   `mapstructure:"MONGO_USE_TRANSACTIONS"`
	PostgresDSN          string `mapstructure:"POSTGRES_DSN"`

	RedisAddress  string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	HouseCacheTTL time.Duration `mapstructure:"HOUSE_CACHE_TTL"`

	NATSURL string `mapstructure:"NATS_URL"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	JWTSecret          string `mapstructure:"JWT_SECRET"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	PrometheusMetricsPort  string `mapstructure:"PROMETHEUS_METRICS_PORT"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	LogFormat              string `mapstructure:"LOG_FORMAT"`
	LogOutputFile          string `mapstructure:"LOG_OUTPUT_FILE"`
	OTExporterOTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// LoadConfig reads configuration from environment variables. The .env file,
// if any, is loaded by main before this is called.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVICE_NAME", "stay-service")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("GRPC_PORT", "50055")
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("STORE_DRIVER", StoreMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "samuraitravel")
	v.SetDefault("MONGO_USE_TRANSACTIONS", true)
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("REDIS_ADDRESS", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("HOUSE_CACHE_TTL", "1h")
	v.SetDefault("NATS_URL", "")
	v.SetDefault("MINIO_ENDPOINT", "")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "houses")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("PROMETHEUS_METRICS_PORT", "9095")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_OUTPUT_FILE", "stdout")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected store driver has what it needs.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return errors.New("MONGO_URI and MONGO_DATABASE are required for the mongo store")
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.HTTPPort == "" {
		return errors.New("HTTP_PORT is required")
	}
	return nil
}

// LoggerConfig maps the LOG_* keys onto the logger's own config.
func (c *Config) LoggerConfig() *logger.LoggerConfig {
	return &logger.LoggerConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		OutputFile: c.LogOutputFile,
	}
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// LogSummary writes the loaded configuration at debug level, without secrets.
func (c *Config) LogSummary(appLogger *logger.Logger) {
	if c.JWTSecret == defaultJWTSecret || c.JWTSecret == "" {
		appLogger.Warn("JWT_SECRET is set to its default insecure value or is empty. Please set a strong secret in your environment.")
	}
	appLogger.Debug("Configuration loaded",
		zap.String("service_name", c.ServiceName),
		zap.String("http_port", c.HTTPPort),
		zap.String("grpc_port", c.GRPCPort),
		zap.String("store_driver", c.StoreDriver),
		zap.String("mongo_database", c.MongoDatabase),
		zap.Bool("mongo_transactions", c.MongoUseTransactions),
		zap.Bool("postgres_dsn_present", c.PostgresDSN != ""),
		zap.String("redis_address", c.RedisAddress),
		zap.Duration("house_cache_ttl", c.HouseCacheTTL),
		zap.String("nats_url", c.NATSURL),
		zap.String("minio_endpoint", c.MinioEndpoint),
		zap.String("prometheus_port", c.PrometheusMetricsPort),
		zap.String("otel_endpoint", c.OTExporterOTLPEndpoint),
	)
}
