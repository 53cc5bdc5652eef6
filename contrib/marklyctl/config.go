// Package marklyctl implements the marklyctl command-line client: the
// Markly dashboard's views rendered as subcommands over the SDK.
package marklyctl

import (
	"fmt"
	"net/url"
	"os"

	"github.com/marklyhq/markly.go/session"
)

// DefaultEndpoint is the hosted Markly API origin.
const DefaultEndpoint = "https://markly-api.essamaboelmgd.cloud"

// Config holds the settings shared by every subcommand.
type Config struct {
	// Endpoint is the API origin, without a trailing slash.
	Endpoint string
	// Dir is where the bearer token is persisted.
	Dir string
	// Verbose enables debug logging to stderr.
	Verbose bool
}

// NewConfig creates a Config from the environment: MARKLY_ENDPOINT and
// MARKLY_CONFIG_DIR override the defaults.
func NewConfig() (*Config, error) {
	cfg := &Config{Endpoint: DefaultEndpoint}
	if v := os.Getenv("MARKLY_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("MARKLY_CONFIG_DIR"); v != "" {
		cfg.Dir = v
	} else {
		dir, err := session.DefaultDir()
		if err != nil {
			return nil, err
		}
		cfg.Dir = dir
	}
	return cfg, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("endpoint %q is not a valid URL", c.Endpoint)
	}
	if c.Dir == "" {
		return fmt.Errorf("config directory is required")
	}
	return nil
}
