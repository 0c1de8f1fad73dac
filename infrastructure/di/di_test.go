package di

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relationmap/application/commands"
	"relationmap/infrastructure/config"
)

func TestInitializeContainer(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, cfg *config.Config)
	}{
		{name: "memory", mutate: func(*testing.T, *config.Config) {}},
		{name: "sqlite", mutate: func(t *testing.T, cfg *config.Config) {
			cfg.StorageDriver = config.DriverSQLite
			cfg.SQLitePath = filepath.Join(t.TempDir(), "board.db")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			cfg := config.Default()
			tt.mutate(t, cfg)
			ctx := context.Background()

			// Act
			c, cleanup, err := InitializeContainer(ctx, cfg)
			require.NoError(t, err)
			defer cleanup()

			// Assert
			require.NotNil(t, c.Points)
			require.NotNil(t, c.Metrics)
			assert.False(t, c.News.Enabled())

			p, err := c.Points.Create(ctx, commands.CreatePointCommand{Name: "Alice"})
			require.NoError(t, err)
			got, err := c.Repositories.Points.GetByID(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, "Alice", got.Name)
		})
	}
}

func TestProvideLogLevelFollowsConfig(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "warn"

	level := ProvideLogLevel(cfg)

	assert.Equal(t, cfg.Level(), level.Level())
}
