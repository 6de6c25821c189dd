package httpclient

import (
	"fmt"
	"net/http"
	"time"
)

const (
	defaultName        = "httpclient"
	defaultTimeout     = 30 * time.Second
	defaultOpenTimeout = 10 * time.Second
)

// Config configures the HTTP transport.
type Config struct {
	// Name identifies the adapter in logs and spans.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to relative request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds the whole exchange, body read included. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// OpenTimeout bounds connection setup (dial and TLS handshake). Defaults to 10s.
	OpenTimeout time.Duration `yaml:"open_timeout" mapstructure:"open_timeout"`

	// Auth is applied to every request unless the request overrides it.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// TLS configures the transport's TLS settings.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Transport replaces the base round tripper. Timeouts and TLS are not
	// applied to a custom transport; authentication still is.
	Transport http.RoundTripper `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaultOpenTimeout
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.OpenTimeout <= 0 {
		return fmt.Errorf("httpclient: open timeout must be positive")
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return fmt.Errorf("httpclient: %w", err)
		}
	}
	if err := c.Auth.validate(); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	return nil
}
