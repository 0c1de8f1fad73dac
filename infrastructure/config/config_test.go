package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// clearEnv blanks every key the loader reads so the host environment does
// not leak into a test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_ADDRESS", "ENVIRONMENT", "REQUEST_TIMEOUT", "LOG_LEVEL",
		"STORAGE_DRIVER", "SQLITE_PATH", "AWS_REGION", "TABLE_NAME",
		"DYNAMODB_ENDPOINT", "BOARD_ID", "ENABLE_EVENTS", "EVENT_BUS_NAME",
		"ENABLE_METRICS", "ENABLE_TRACING", "ENABLE_CORS", "ALLOWED_ORIGINS",
		"NEWS_API_KEY", "NEWS_ENDPOINT", "NEWS_KEYWORD", "NEWS_PAGE_SIZE",
		"NEWS_CACHE_TTL", "RATE_LIMIT_PER_MINUTE", "CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, 15*time.Minute, cfg.News.CacheTTL)
	assert.Equal(t, 10, cfg.News.PageSize)
	assert.False(t, cfg.NewsEnabled())
	assert.Equal(t, zapcore.InfoLevel, cfg.Level())
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	// Arrange
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
serverAddress: ":9000"
logLevel: debug
storageDriver: sqlite
sqlitePath: /tmp/board.db
news:
  apiKey: from-file
  cacheTTL: 5m
`)
	t.Setenv("SERVER_ADDRESS", ":9100")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("NEWS_PAGE_SIZE", "25")

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.ServerAddress)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level())
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "/tmp/board.db", cfg.SQLitePath)
	assert.Equal(t, "from-file", cfg.News.APIKey)
	assert.Equal(t, 5*time.Minute, cfg.News.CacheTTL)
	assert.Equal(t, 25, cfg.News.PageSize)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.True(t, cfg.NewsEnabled())
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.StorageDriver = "postgres" }, wantErr: true},
		{name: "sqlite without path", mutate: func(c *Config) { c.StorageDriver = DriverSQLite; c.SQLitePath = "" }, wantErr: true},
		{name: "dynamodb without table", mutate: func(c *Config) { c.StorageDriver = DriverDynamoDB; c.TableName = "" }, wantErr: true},
		{name: "dynamodb", mutate: func(c *Config) { c.StorageDriver = DriverDynamoDB }},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "events without bus", mutate: func(c *Config) { c.EnableEvents = true; c.EventBusName = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantErr: true},
		{name: "page size too large", mutate: func(c *Config) { c.News.PageSize = 101 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	// Arrange
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "logLevel: info\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	w, err := NewWatcher(path, cfg, zap.NewNop())
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond
	changed := make(chan *Config, 4)
	w.OnChange(func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})
	w.Start()
	defer w.Stop()

	// Act
	writeFile(t, path, "logLevel: debug\n")

	// Assert
	select {
	case next := <-changed:
		assert.Equal(t, zapcore.DebugLevel, next.Level())
		assert.Equal(t, "debug", w.Current().LogLevel)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload the configuration")
	}
}

func TestWatcher_KeepsCurrentOnInvalidFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "logLevel: warn\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	w, err := NewWatcher(path, cfg, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	writeFile(t, path, "logLevel: shouting\n")
	w.reload()

	assert.Equal(t, "warn", w.Current().LogLevel)
}
