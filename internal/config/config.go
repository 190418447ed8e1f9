// Package config handles loading and validation of readiness.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dooor-ai/readiness/pkg/types"
)

// ConfigFileName is the expected file name inside the config directory.
const ConfigFileName = "readiness.yaml"

// Defaults applied when the file leaves fields empty.
const (
	defaultDomain          = "dooor.ai"
	defaultCatalogPath     = "products.yaml"
	defaultUserFieldsPath  = "user_fields.json"
	defaultUptimeRobotURL  = "https://api.uptimerobot.com"
	defaultPostHogURL      = "https://us.posthog.com"
	defaultMonitorCacheTTL = "5m"
)

// Load reads and parses readiness.yaml from the given directory, then applies
// environment-variable overrides for credentials.
func Load(dir string) (*types.ServiceConfig, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg types.ServiceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Env wins over the file for credential fields.
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("applying env overrides: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *types.ServiceConfig) {
	if cfg.Domain == "" {
		cfg.Domain = defaultDomain
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = defaultCatalogPath
	}
	if cfg.UserFields.Provider == "" {
		cfg.UserFields.Provider = "file"
	}
	if cfg.UserFields.Provider == "file" && cfg.UserFields.File == nil {
		cfg.UserFields.File = &types.FileStoreConfig{Path: defaultUserFieldsPath}
	}
	if cfg.UptimeRobot.BaseURL == "" {
		cfg.UptimeRobot.BaseURL = defaultUptimeRobotURL
	}
	if cfg.UptimeRobot.CacheTTL == "" {
		cfg.UptimeRobot.CacheTTL = defaultMonitorCacheTTL
	}
	if cfg.PostHog.BaseURL == "" {
		cfg.PostHog.BaseURL = defaultPostHogURL
	}
}

func validate(cfg *types.ServiceConfig) error {
	switch cfg.UserFields.Provider {
	case "file":
		if cfg.UserFields.File == nil || cfg.UserFields.File.Path == "" {
			return fmt.Errorf("userFields.file.path is required when provider is file")
		}
	case "dynamodb":
		if cfg.UserFields.DynamoDB == nil || cfg.UserFields.DynamoDB.TableName == "" {
			return fmt.Errorf("userFields.dynamodb.tableName is required when provider is dynamodb")
		}
	default:
		return fmt.Errorf("unknown userFields provider %q", cfg.UserFields.Provider)
	}

	if _, err := time.ParseDuration(cfg.UptimeRobot.CacheTTL); err != nil {
		return fmt.Errorf("uptimeRobot.cacheTtl: %w", err)
	}
	return nil
}

// MonitorCacheTTL returns the parsed monitor cache TTL. Load already
// validated the string.
func MonitorCacheTTL(cfg *types.ServiceConfig) time.Duration {
	d, err := time.ParseDuration(cfg.UptimeRobot.CacheTTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}
