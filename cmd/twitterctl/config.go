package main

import (
	"fmt"
	"time"

	"github.com/kbukum/twitterkit/config"
	"github.com/kbukum/twitterkit/observability"
	"github.com/kbukum/twitterkit/twitter"
	"github.com/kbukum/twitterkit/util"
	"github.com/kbukum/twitterkit/version"
)

// Config is the twitterctl configuration. It is read from config.yml,
// then .env, then TWITTERCTL_* variables. API credentials are not part
// of it; they come from the TWITTER_* variables the client reads itself.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	API       APIConfig            `yaml:"api" mapstructure:"api"`
	Retry     RetryConfig          `yaml:"retry" mapstructure:"retry"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// APIConfig overrides the client's connection defaults.
type APIConfig struct {
	Endpoint      string        `yaml:"endpoint" mapstructure:"endpoint"`
	MediaEndpoint string        `yaml:"media_endpoint" mapstructure:"media_endpoint"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	OpenTimeout   time.Duration `yaml:"open_timeout" mapstructure:"open_timeout"`
	VerifySSL     bool          `yaml:"verify_ssl" mapstructure:"verify_ssl"`
}

// RetryConfig bounds retries of failed calls.
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = appName
	}
	c.ServiceConfig.ApplyDefaults()
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = 1
	}
	if c.Telemetry.Enabled {
		c.Telemetry.ServiceVersion = util.Coalesce(c.Telemetry.ServiceVersion, version.Short())
		c.Telemetry.Environment = util.Coalesce(c.Telemetry.Environment, c.Environment)
		c.Telemetry.ApplyDefaults(c.Name)
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if c.API.Timeout < 0 || c.API.OpenTimeout < 0 {
		return fmt.Errorf("config.api: timeouts must not be negative")
	}
	if c.Telemetry.Enabled {
		return c.Telemetry.Validate()
	}
	return nil
}

// apply copies the overrides onto a client configuration.
func (a APIConfig) apply(cfg *twitter.Configuration) {
	if a.Endpoint != "" {
		cfg.Endpoint = a.Endpoint
	}
	if a.MediaEndpoint != "" {
		cfg.MediaEndpoint = a.MediaEndpoint
	}
	if a.Timeout > 0 {
		cfg.ConnectionOptions.Timeout = a.Timeout
	}
	if a.OpenTimeout > 0 {
		cfg.ConnectionOptions.OpenTimeout = a.OpenTimeout
	}
	cfg.ConnectionOptions.SSL.Verify = a.VerifySSL
}
