package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Auth.Secret = "test-secret"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config with secret",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing secret",
			mutate:  func(c *Config) { c.Auth.Secret = "" },
			wantErr: true,
		},
		{
			name:    "graphql path without leading slash",
			mutate:  func(c *Config) { c.Server.GraphQLPath = "graphql" },
			wantErr: true,
		},
		{
			name:    "empty graphql path defaults",
			mutate:  func(c *Config) { c.Server.GraphQLPath = "" },
			wantErr: false,
		},
		{
			name:    "timeout too short",
			mutate:  func(c *Config) { c.Server.TimeoutStr = "10ms" },
			wantErr: true,
		},
		{
			name:    "unparseable timeout",
			mutate:  func(c *Config) { c.Server.TimeoutStr = "soon" },
			wantErr: true,
		},
		{
			name:    "token ttl too short",
			mutate:  func(c *Config) { c.Auth.TokenTTLStr = "5s" },
			wantErr: true,
		},
		{
			name:    "missing dataset path",
			mutate:  func(c *Config) { c.Dataset.Path = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := &Config{
		Auth:    AuthConfig{Secret: "s"},
		Dataset: DatasetConfig{Path: "db.json"},
	}
	cfg.Server.EnableCORS = true

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":4000", cfg.Server.BindAddress)
	assert.Equal(t, "/graphql", cfg.Server.GraphQLPath)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, time.Hour, cfg.TokenTTL())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{
		"server": {"bind_address": ":9999", "timeout": "10s"},
		"auth": {"secret": "file-secret", "token_ttl": "30m"},
		"dataset": {"path": "other.json"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.BindAddress)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, "file-secret", cfg.Auth.Secret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL())
	assert.Equal(t, "other.json", cfg.Dataset.Path)

	// Defaults survive for unset fields.
	assert.Equal(t, "/graphql", cfg.Server.GraphQLPath)
	assert.True(t, cfg.Server.EnablePlayground)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FAKEBOOK_AUTH_SECRET", "env-secret")
	t.Setenv("FAKEBOOK_BIND_ADDRESS", ":8123")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Auth.Secret)
	assert.Equal(t, ":8123", cfg.Server.BindAddress)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does/not/exist.json")
	assert.Error(t, err)
}
