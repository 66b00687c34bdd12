package config_test

import (
	"testing"

	"kasir/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 10, cfg.PageLimit)
	assert.False(t, cfg.AuthRequired)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_DSN", "host=db user=kasir dbname=kasir sslmode=disable")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("PAGE_LIMIT", "25")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.True(t, cfg.AuthRequired)
	assert.Equal(t, 25, cfg.PageLimit)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mongo")

	_, err := config.Load(viper.New())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestValidate_PageLimit(t *testing.T) {
	cfg := config.Config{DBDriver: "sqlite", DatabaseDSN: "x.db", UploadDir: "u", PageLimit: 0}
	assert.Error(t, cfg.Validate())
}
