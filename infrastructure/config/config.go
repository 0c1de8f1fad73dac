package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverDynamoDB = "dynamodb"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress  string        `yaml:"serverAddress"`
	Environment    string        `yaml:"environment"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`

	// Logging
	LogLevel string `yaml:"logLevel"`

	// Storage configuration
	StorageDriver    string `yaml:"storageDriver"`
	SQLitePath       string `yaml:"sqlitePath"`
	AWSRegion        string `yaml:"awsRegion"`
	TableName        string `yaml:"tableName"`
	DynamoDBEndpoint string `yaml:"dynamodbEndpoint"`
	BoardID          string `yaml:"boardId"`

	// Events
	EnableEvents bool   `yaml:"enableEvents"`
	EventBusName string `yaml:"eventBusName"`

	// Feature flags
	EnableMetrics  bool     `yaml:"enableMetrics"`
	EnableTracing  bool     `yaml:"enableTracing"`
	EnableCORS     bool     `yaml:"enableCors"`
	AllowedOrigins []string `yaml:"allowedOrigins"`

	// Requests per client IP per minute. Zero disables the limit.
	RateLimitPerMinute int `yaml:"rateLimitPerMinute"`

	News NewsConfig `yaml:"news"`
}

// NewsConfig configures the news source. An empty APIKey disables news.
type NewsConfig struct {
	APIKey   string        `yaml:"apiKey"`
	Endpoint string        `yaml:"endpoint"`
	Keyword  string        `yaml:"keyword"`
	PageSize int           `yaml:"pageSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		ServerAddress:  ":8080",
		Environment:    "development",
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
		StorageDriver:  DriverMemory,
		SQLitePath:     "relationmap.db",
		AWSRegion:      "us-west-2",
		TableName:      "relationmap",
		BoardID:        "default",
		EventBusName:   "relationmap-events",
		EnableMetrics:  true,
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		News: NewsConfig{
			Endpoint: "https://eventregistry.org/api/v1/article/getArticles",
			Keyword:  "France",
			PageSize: 10,
			CacheTTL: 15 * time.Minute,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path and then environment variables, in increasing priority
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.loadEnvironmentVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfig loads configuration from CONFIG_FILE and the environment
func LoadConfig() (*Config, error) {
	return Load(os.Getenv("CONFIG_FILE"))
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnvironmentVariables() {
	setString(&c.ServerAddress, "SERVER_ADDRESS")
	setString(&c.Environment, "ENVIRONMENT")
	setDuration(&c.RequestTimeout, "REQUEST_TIMEOUT")
	setString(&c.LogLevel, "LOG_LEVEL")

	setString(&c.StorageDriver, "STORAGE_DRIVER")
	setString(&c.SQLitePath, "SQLITE_PATH")
	setString(&c.AWSRegion, "AWS_REGION")
	setString(&c.TableName, "TABLE_NAME")
	setString(&c.DynamoDBEndpoint, "DYNAMODB_ENDPOINT")
	setString(&c.BoardID, "BOARD_ID")

	setBool(&c.EnableEvents, "ENABLE_EVENTS")
	setString(&c.EventBusName, "EVENT_BUS_NAME")
	setBool(&c.EnableMetrics, "ENABLE_METRICS")
	setBool(&c.EnableTracing, "ENABLE_TRACING")
	setBool(&c.EnableCORS, "ENABLE_CORS")
	if origins := getEnv("ALLOWED_ORIGINS", ""); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}

	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)

	setString(&c.News.APIKey, "NEWS_API_KEY")
	setString(&c.News.Endpoint, "NEWS_ENDPOINT")
	setString(&c.News.Keyword, "NEWS_KEYWORD")
	c.News.PageSize = getEnvInt("NEWS_PAGE_SIZE", c.News.PageSize)
	setDuration(&c.News.CacheTTL, "NEWS_CACHE_TTL")
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("SERVER_ADDRESS is required")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL %q is invalid", c.LogLevel)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	switch c.StorageDriver {
	case DriverMemory:
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverDynamoDB:
		if c.TableName == "" {
			return fmt.Errorf("TABLE_NAME is required for the dynamodb driver")
		}
		if c.BoardID == "" {
			return fmt.Errorf("BOARD_ID is required for the dynamodb driver")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER %q is not one of memory, sqlite, dynamodb", c.StorageDriver)
	}

	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.EnableEvents && c.EventBusName == "" {
		return fmt.Errorf("EVENT_BUS_NAME is required when events are enabled")
	}
	if c.News.PageSize <= 0 || c.News.PageSize > 100 {
		return fmt.Errorf("NEWS_PAGE_SIZE must be between 1 and 100")
	}
	if c.News.CacheTTL < 0 {
		return fmt.Errorf("NEWS_CACHE_TTL must not be negative")
	}
	return nil
}

// Level returns the parsed log level, falling back to info
func (c *Config) Level() zapcore.Level {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// NewsEnabled reports whether a news API key is configured
func (c *Config) NewsEnabled() bool {
	return c.News.APIKey != ""
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func setString(dst *string, key string)          { *dst = getEnv(key, *dst) }
func setBool(dst *bool, key string)              { *dst = getEnvBool(key, *dst) }
func setDuration(dst *time.Duration, key string) { *dst = getEnvDuration(key, *dst) }

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
