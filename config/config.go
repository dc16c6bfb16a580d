// Package config loads and validates the Fakebook server configuration.
// Configuration comes from a JSON file layered over defaults, with
// FAKEBOOK_* environment variables taking precedence for deploy-time
// values such as the auth secret.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fakebook/fakebook/errors"
)

// Config is the top-level server configuration
type Config struct {
	Server  ServerConfig  `json:"server"`
	Auth    AuthConfig    `json:"auth"`
	Dataset DatasetConfig `json:"dataset"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// BindAddress is the HTTP bind address (default: ":4000")
	BindAddress string `json:"bind_address"`

	// GraphQLPath is the graph query endpoint path (default: "/graphql")
	GraphQLPath string `json:"graphql_path"`

	// EnablePlayground enables the GraphQL Playground UI (default: true)
	EnablePlayground bool `json:"enable_playground"`

	// EnableCORS enables CORS headers (default: true)
	EnableCORS bool `json:"enable_cors"`

	// CORSOrigins lists allowed CORS origins (default: ["*"])
	CORSOrigins []string `json:"cors_origins,omitempty"`

	// TimeoutStr is the request read/write timeout (default: "30s")
	TimeoutStr string `json:"timeout,omitempty"`

	// timeout is the parsed duration (internal use)
	timeout time.Duration
}

// AuthConfig holds credential configuration
type AuthConfig struct {
	// Secret signs issued tokens. Required; the FAKEBOOK_AUTH_SECRET
	// environment variable takes precedence over the file value.
	Secret string `json:"secret,omitempty"`

	// TokenTTLStr is the token lifetime from issuance (default: "1h")
	TokenTTLStr string `json:"token_ttl,omitempty"`

	// ttl is the parsed duration (internal use)
	ttl time.Duration
}

// DatasetConfig locates the seed dataset loaded at startup
type DatasetConfig struct {
	// Path is the JSON dataset file (default: "data/db.json")
	Path string `json:"path"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BindAddress:      ":4000",
			GraphQLPath:      "/graphql",
			EnablePlayground: true,
			EnableCORS:       true,
			CORSOrigins:      []string{"*"},
			TimeoutStr:       "30s",
		},
		Auth: AuthConfig{
			TokenTTLStr: "1h",
		},
		Dataset: DatasetConfig{
			Path: "data/db.json",
		},
	}
}

// Load reads the configuration file at path over the defaults, applies
// environment overrides, and validates the result. An empty path loads
// defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapFatal(err, "Config", "Load", "read config file")
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapInvalid(err, "Config", "Load", "config unmarshal")
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays FAKEBOOK_* environment variables
func (c *Config) applyEnv() {
	if v := os.Getenv("FAKEBOOK_AUTH_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("FAKEBOOK_BIND_ADDRESS"); v != "" {
		c.Server.BindAddress = v
	}
	if v := os.Getenv("FAKEBOOK_DATASET"); v != "" {
		c.Dataset.Path = v
	}
}

// Validate ensures the configuration is valid, filling defaults for
// unset optional values
func (c *Config) Validate() error {
	if c.Server.BindAddress == "" {
		c.Server.BindAddress = ":4000"
	}

	if c.Server.GraphQLPath == "" {
		c.Server.GraphQLPath = "/graphql"
	}
	if c.Server.GraphQLPath[0] != '/' {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"graphql_path must start with /")
	}

	if c.Server.TimeoutStr == "" {
		c.Server.timeout = 30 * time.Second
	} else {
		timeout, err := time.ParseDuration(c.Server.TimeoutStr)
		if err != nil {
			return errors.WrapInvalid(err, "Config", "Validate",
				fmt.Sprintf("invalid timeout format: %s", c.Server.TimeoutStr))
		}
		if timeout < 100*time.Millisecond || timeout > 5*time.Minute {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
				"timeout must be between 100ms and 5m")
		}
		c.Server.timeout = timeout
	}

	if c.Server.EnableCORS && len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}

	if c.Auth.Secret == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate",
			"auth secret is required (set auth.secret or FAKEBOOK_AUTH_SECRET)")
	}

	if c.Auth.TokenTTLStr == "" {
		c.Auth.ttl = time.Hour
	} else {
		ttl, err := time.ParseDuration(c.Auth.TokenTTLStr)
		if err != nil {
			return errors.WrapInvalid(err, "Config", "Validate",
				fmt.Sprintf("invalid token_ttl format: %s", c.Auth.TokenTTLStr))
		}
		if ttl < time.Minute {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
				"token_ttl must be at least 1m")
		}
		c.Auth.ttl = ttl
	}

	if c.Dataset.Path == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate",
			"dataset path is required")
	}

	return nil
}

// Timeout returns the parsed request timeout
func (c *Config) Timeout() time.Duration {
	return c.Server.timeout
}

// TokenTTL returns the parsed token lifetime
func (c *Config) TokenTTL() time.Duration {
	return c.Auth.ttl
}
