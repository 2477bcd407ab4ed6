// Package config loads the migration settings from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

const DefaultEndpoint = "https://api.github.com/graphql"

type Config struct {
	// Source account (export, check source).
	SourceOrg   string
	SourceToken string

	// Target account (import phases, check target).
	TargetOrg   string
	TargetToken string

	Endpoint    string
	SnapshotDir string
	MappingDir  string
	Throttle    bool
	Verbose     bool
}

func getEnvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Load reads the environment after attempting a .env load. Credential
// presence is not enforced here; each phase requires only its own side.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		SourceOrg:   os.Getenv("GITHUB_ORG"),
		SourceToken: os.Getenv("GITHUB_TOKEN"),
		TargetOrg:   os.Getenv("GITHUB_ORG_TARGET"),
		TargetToken: os.Getenv("GITHUB_TOKEN_TARGET"),
		Endpoint:    getEnvWithDefault("GITHUB_GRAPHQL_URL", DefaultEndpoint),
		SnapshotDir: getEnvWithDefault("SNAPSHOT_DIR", "."),
		MappingDir:  getEnvWithDefault("MAPPING_DIR", "."),
		Throttle:    os.Getenv("GITHUB_LOCAL_THROTTLE") == "1",
		Verbose:     os.Getenv("GHM_VERBOSE") == "1",
	}, nil
}

func (c *Config) RequireSource() error {
	if c.SourceOrg == "" {
		return errors.New("the GITHUB_ORG environment variable is missing")
	}
	if c.SourceToken == "" {
		return errors.New("the GITHUB_TOKEN environment variable is missing")
	}
	return nil
}

func (c *Config) RequireTarget() error {
	if c.TargetOrg == "" {
		return errors.New("the GITHUB_ORG_TARGET environment variable is missing")
	}
	if c.TargetToken == "" {
		return errors.New("the GITHUB_TOKEN_TARGET environment variable is missing")
	}
	return nil
}
