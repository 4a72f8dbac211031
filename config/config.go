// Package config loads application settings from an optional YAML file
// overlaid by TASKTRACKER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TASKTRACKER"

// DefaultConfigName is the file looked up in the working directory when no path is given.
const DefaultConfigName = "tasktracker"

// Config holds the application settings.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	StorageDriver string
	TasksDBPath   string
	AuthDBPath    string
	DatabaseDebug bool

	JWTSecret     string
	JWTIssuer     string
	JWTAccessTTL  time.Duration
	JWTRefreshTTL time.Duration
	BcryptCost    int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":3000")
	v.SetDefault("shutdown_timeout", 30*time.Second)
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.tasks_db", "tasks.db")
	v.SetDefault("storage.auth_db", "auth.db")
	v.SetDefault("database.debug", false)
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "task-tracker")
	v.SetDefault("jwt.access_ttl", 15*time.Minute)
	v.SetDefault("jwt.refresh_ttl", 7*24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 12)
}

// Load reads configuration. An empty path looks for tasktracker.yaml in the
// working directory and falls back to defaults when it is absent; an explicit
// path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		HTTPAddr:        v.GetString("http.addr"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		StorageDriver:   strings.ToLower(v.GetString("storage.driver")),
		TasksDBPath:     v.GetString("storage.tasks_db"),
		AuthDBPath:      v.GetString("storage.auth_db"),
		DatabaseDebug:   v.GetBool("database.debug"),
		JWTSecret:       v.GetString("jwt.secret"),
		JWTIssuer:       v.GetString("jwt.issuer"),
		JWTAccessTTL:    v.GetDuration("jwt.access_ttl"),
		JWTRefreshTTL:   v.GetDuration("jwt.refresh_ttl"),
		BcryptCost:      v.GetInt("auth.bcrypt_cost"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("storage.driver must be sqlite or memory, got %q", c.StorageDriver)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	if c.HTTPAddr == "" {
		return errors.New("http.addr is required")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.JWTAccessTTL <= 0 || c.JWTRefreshTTL <= 0 {
		return errors.New("jwt token lifetimes must be positive")
	}
	return nil
}
