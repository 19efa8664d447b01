package config

import (
	"fmt"
	"net/url"

	"github.com/invopop/jsonschema"
)

// Validate checks the fields the service cannot run without.
func (c *Config) Validate() error {
	if c.Trakt.ClientID == "" {
		return fmt.Errorf("trakt.client_id is required")
	}
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if c.Server.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.Server.BaseURL); err != nil {
			return fmt.Errorf("server.base_url is not a valid URL: %w", err)
		}
	}
	if _, err := url.ParseRequestURI(c.Actions.DecoyURL); err != nil {
		return fmt.Errorf("actions.decoy_url is not a valid URL: %w", err)
	}
	if c.Actions.RetryAttempts < 1 {
		return fmt.Errorf("actions.retry_attempts must be positive")
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
