package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// DebugModeEnv is the environment variable for debug mode.
	DebugModeEnv = "DEBUG_MODE"

	// DBDriverEnv selects the storage backend: "postgres" or "sqlite".
	DBDriverEnv = "DB_DRIVER"

	// DBHostEnv is the environment variable for database host.
	DBHostEnv = "DB_HOST"

	// DBPortEnv is the environment variable for database port.
	DBPortEnv = "DB_PORT"

	// DBUserEnv is the environment variable for database user.
	DBUserEnv = "DB_USER"

	// DBPassEnv is the environment variable for database password.
	DBPassEnv = "DB_PASS"

	// DBNameEnv is the environment variable for database name.
	DBNameEnv = "DB_NAME"

	// DBPathEnv is the environment variable for the SQLite database file.
	DBPathEnv = "DB_PATH"

	// HTTPServerPortEnv is the environment variable for HTTP server port.
	HTTPServerPortEnv = "HTTP_SERVER_PORT"

	// MetricsServerPortEnv is the environment variable for metrics server port.
	MetricsServerPortEnv = "METRICS_SERVER_PORT"

	// JWTSecretEnv is the environment variable for the HMAC key that signs bearer tokens.
	JWTSecretEnv = "JWT_SECRET"

	// APIBaseURLEnv is the environment variable for the API address used by the CLI.
	APIBaseURLEnv = "API_BASE_URL"

	// APITokenEnv is the environment variable for the bearer token sent by the CLI.
	APITokenEnv = "API_TOKEN"

	// EnvFilePath is the environment variable for .env file path (only for local/test environment).
	EnvFilePath = "ENV_PATH"

	// DefaultEnvFilePath is the default path to the .env file.
	DefaultEnvFilePath = ".env"

	// AWSRegionEnv is the environment variable for AWS region.
	AWSRegionEnv = "AWS_REGION"

	// AWSEndpointEnv is the environment variable for AWS endpoint.
	AWSEndpointEnv = "AWS_ENDPOINT"

	// SQSQueueURLEnv is the environment variable for SQS queue URL.
	SQSQueueURLEnv = "SQS_QUEUE_URL"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultDBPath     = "inventory.db"
	defaultAPIBaseURL = "http://localhost:8080/api"
)

var (
	// ErrMissingConfig is returned when required configuration values are missing.
	ErrMissingConfig = errors.New("missing config data")

	// ErrUnknownDriver is returned when DB_DRIVER names an unsupported backend.
	ErrUnknownDriver = errors.New("unknown database driver")
)

// Config represents the application configuration.
type Config struct {
	DebugMode     bool
	Database      DB
	HTTPServer    Server
	MetricsServer Server
	Auth          Auth
	AWS           AWSConfig
}

// AWSConfig represents AWS-specific configuration settings.
type AWSConfig struct {
	Region      string
	Endpoint    string
	SQSQueueURL string
}

// NotificationsEnabled reports whether product notifications should be published.
func (a AWSConfig) NotificationsEnabled() bool {
	return a.SQSQueueURL != ""
}

// RequireQueue fails when no SQS queue is configured.
func (a AWSConfig) RequireQueue() error {
	if err := allNonEmpty(map[string]string{SQSQueueURLEnv: a.SQSQueueURL}); err != nil {
		return fmt.Errorf("AWS configuration incomplete: %w", err)
	}
	return nil
}

// DB represents database configuration settings.
type DB struct {
	Driver   string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	Path     string
}

// Server represents server configuration settings.
type Server struct {
	Port string
}

// Auth holds bearer token settings. An empty secret rejects every token.
type Auth struct {
	JWTSecret string
}

// ClientConfig is the configuration of the command line front-end.
type ClientConfig struct {
	APIBaseURL string
	APIToken   string
}

func allNonEmpty(keyValues map[string]string) error {
	for key, value := range keyValues {
		if value == "" {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("error", "value is empty"))
			return fmt.Errorf("%w for key: %s", ErrMissingConfig, key)
		}
	}
	return nil
}

func allNumbers(keyValues map[string]string) error {
	for key, value := range keyValues {
		_, err := strconv.Atoi(value)
		if err != nil {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("value", value), slog.String("error", err.Error()))
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if err := allNonEmpty(map[string]string{
			DBHostEnv: c.Database.Host,
			DBUserEnv: c.Database.User,
			DBNameEnv: c.Database.Name,
		}); err != nil {
			return fmt.Errorf("database configuration incomplete: %w", err)
		}
		if err := allNumbers(map[string]string{DBPortEnv: c.Database.Port}); err != nil {
			return fmt.Errorf("invalid port number: %w", err)
		}
	case DriverSQLite:
		if err := allNonEmpty(map[string]string{DBPathEnv: c.Database.Path}); err != nil {
			return fmt.Errorf("database configuration incomplete: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}

	if err := allNonEmpty(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("server port configuration incomplete: %w", err)
	}

	if err := allNumbers(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	return nil
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnv(name, defaultValue string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return defaultValue
}

// ApplyEnvFile loads environment variables from the specified .env files.
func ApplyEnvFile(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func applyDefaultEnvFile() {
	envPath := getEnv(EnvFilePath, DefaultEnvFilePath)
	if err := ApplyEnvFile(envPath); err != nil {
		// just log the error, maybe all envs are set in another way
		slog.Info("failed to load from .env", slog.Any("err", err))
	}
}

// LoadFromEnv loads configuration from environment variables and validates it.
func LoadFromEnv() (*Config, error) {
	applyDefaultEnvFile()

	conf := &Config{
		DebugMode: getEnvAsBool(DebugModeEnv, false),
		Database: DB{
			Driver:   getEnv(DBDriverEnv, DriverPostgres),
			Host:     os.Getenv(DBHostEnv),
			User:     os.Getenv(DBUserEnv),
			Password: os.Getenv(DBPassEnv),
			Name:     os.Getenv(DBNameEnv),
			Port:     os.Getenv(DBPortEnv),
			Path:     getEnv(DBPathEnv, defaultDBPath),
		},
		HTTPServer: Server{
			Port: os.Getenv(HTTPServerPortEnv),
		},
		MetricsServer: Server{
			Port: os.Getenv(MetricsServerPortEnv),
		},
		Auth: Auth{
			JWTSecret: os.Getenv(JWTSecretEnv),
		},
		AWS: LoadAWSFromEnv(),
	}

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}

// LoadAWSFromEnv reads the AWS settings only. The notification service needs nothing else.
func LoadAWSFromEnv() AWSConfig {
	return AWSConfig{
		Region:      os.Getenv(AWSRegionEnv),
		Endpoint:    os.Getenv(AWSEndpointEnv),
		SQSQueueURL: os.Getenv(SQSQueueURLEnv),
	}
}

// LoadNotificationFromEnv loads the AWS settings of the notification service,
// which requires a queue to consume from.
func LoadNotificationFromEnv() (AWSConfig, error) {
	applyDefaultEnvFile()
	conf := LoadAWSFromEnv()
	if err := conf.RequireQueue(); err != nil {
		return AWSConfig{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}

// LoadClientFromEnv loads the command line front-end configuration.
func LoadClientFromEnv() ClientConfig {
	applyDefaultEnvFile()
	return ClientConfig{
		APIBaseURL: getEnv(APIBaseURLEnv, defaultAPIBaseURL),
		APIToken:   os.Getenv(APITokenEnv),
	}
}
