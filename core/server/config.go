package server

import (
	"fmt"
	"strconv"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// AllowLocalSources lets API requests name files on the server's file
	// system and their own database URLs. Object URLs and queries against the
	// configured database are always allowed.
	AllowLocalSources bool `mapstructure:"allow_local_sources" default:"false"`
	// BodyLimitKB caps the size of a request body.
	BodyLimitKB int `mapstructure:"body_limit_kb" default:"64"`
}

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	return ":" + c.Port
}

// Validate checks the port and body limit.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port %q", c.Port)
	}
	if c.BodyLimitKB <= 0 {
		return fmt.Errorf("body limit must be positive, got %d", c.BodyLimitKB)
	}
	return nil
}
