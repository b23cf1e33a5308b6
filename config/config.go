package config

import (
	"fmt"

	"github.com/vida-academica/backend/auth"
	"github.com/vida-academica/backend/database"
	"github.com/vida-academica/backend/logger"
	"github.com/vida-academica/backend/observability"
	"github.com/vida-academica/backend/server"
)

// BaseConfig contains the fields every deployment needs.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "vida-academica"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
}

// Validate validates base configuration.
func (c *BaseConfig) Validate() error {
	switch c.Environment {
	case "development", "staging", "production":
		return nil
	}
	return fmt.Errorf("base.environment must be one of [development, staging, production] (got: %s)", c.Environment)
}

// AppConfig is the whole service configuration.
type AppConfig struct {
	Base     BaseConfig                `yaml:"base" mapstructure:"base"`
	Logging  logger.Config             `yaml:"logging" mapstructure:"logging"`
	Server   server.Config             `yaml:"server" mapstructure:"server"`
	Database database.Config           `yaml:"database" mapstructure:"database"`
	Auth     auth.Config               `yaml:"auth" mapstructure:"auth"`
	Metrics  observability.MeterConfig `yaml:"metrics" mapstructure:"metrics"`
}

// ApplyDefaults cascades defaults through every section.
func (c *AppConfig) ApplyDefaults() {
	c.Base.ApplyDefaults()
	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Metrics.ApplyDefaults()
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = c.Base.Name
	}
	if c.Metrics.Environment == "" {
		c.Metrics.Environment = c.Base.Environment
	}
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.Base.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// LoadApp loads, defaults and validates the full configuration.
func LoadApp(opts ...LoaderOption) (*AppConfig, error) {
	var cfg AppConfig
	if err := Load(&cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
