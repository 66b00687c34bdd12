// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every setting the application reads at startup.
type Config struct {
	AppPort      string
	DBDriver     string // "sqlite" or "postgres"
	DatabaseDSN  string
	UploadDir    string
	RabbitMQURL  string // Empty disables the AMQP event bus
	JWTSecret    string
	AuthRequired bool
	PageLimit    int
	CORSOrigins  string
}

// Load reads configuration from environment variables on top of the defaults.
// A nil viper instance means the global one.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "kasir.db")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("JWT_SECRET", "dev_secret_key_change_me")
	v.SetDefault("AUTH_REQUIRED", false)
	v.SetDefault("PAGE_LIMIT", 10)
	v.SetDefault("CORS_ORIGINS", "*")
	v.AutomaticEnv()

	cfg := Config{
		AppPort:      v.GetString("APP_PORT"),
		DBDriver:     strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:  v.GetString("DATABASE_DSN"),
		UploadDir:    v.GetString("UPLOAD_DIR"),
		RabbitMQURL:  v.GetString("RABBITMQ_URL"),
		JWTSecret:    v.GetString("JWT_SECRET"),
		AuthRequired: v.GetBool("AUTH_REQUIRED"),
		PageLimit:    v.GetInt("PAGE_LIMIT"),
		CORSOrigins:  v.GetString("CORS_ORIGINS"),
	}
	if !strings.HasPrefix(cfg.AppPort, ":") && !strings.Contains(cfg.AppPort, ":") {
		cfg.AppPort = ":" + cfg.AppPort
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN must not be empty")
	}
	if c.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	if c.PageLimit <= 0 {
		return fmt.Errorf("PAGE_LIMIT must be greater than 0")
	}
	if c.AuthRequired && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_REQUIRED is set")
	}
	return nil
}
