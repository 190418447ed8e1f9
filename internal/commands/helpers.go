// Package commands implements the CLI subcommands for the readiness binary.
package commands

import (
	"context"
	"fmt"

	"github.com/dooor-ai/readiness/internal/catalog"
	"github.com/dooor-ai/readiness/internal/config"
	"github.com/dooor-ai/readiness/internal/engine"
	"github.com/dooor-ai/readiness/internal/monitorcache"
	"github.com/dooor-ai/readiness/internal/signal"
	"github.com/dooor-ai/readiness/internal/userfields"
	"github.com/dooor-ai/readiness/pkg/types"
)

// newStore creates the configured user-fields store.
func newStore(ctx context.Context, cfg *types.ServiceConfig) (userfields.Store, error) {
	switch cfg.UserFields.Provider {
	case "file":
		return userfields.NewFileStore(cfg.UserFields.File.Path), nil
	case "dynamodb":
		store, err := userfields.NewDynamoDBStore(cfg.UserFields.DynamoDB)
		if err != nil {
			return nil, err
		}
		if err := store.Start(ctx); err != nil {
			return nil, fmt.Errorf("connecting to DynamoDB: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported userFields provider: %s", cfg.UserFields.Provider)
	}
}

// buildEngine wires the catalog, store, and collectors into an engine.
func buildEngine(ctx context.Context, cfg *types.ServiceConfig) (*engine.Engine, userfields.Store, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	collectors := engine.Collectors{
		Staging:  signal.NewStagingProber(nil),
		Security: signal.NewSecurityInspector(nil),
		Bugs:     signal.NewJiraClient(cfg.Jira, nil),
		Monitors: monitorcache.New(
			signal.NewUptimeRobotClient(cfg.UptimeRobot, nil),
			config.MonitorCacheTTL(cfg),
		),
		Analytics: signal.NewPostHogClient(cfg.PostHog, nil),
	}

	return engine.New(cat, store, collectors, cfg.Domain), store, nil
}

// loadConfig loads readiness.yaml from the working directory and resolves
// any Secrets Manager credentials.
func loadConfig(ctx context.Context) (*types.ServiceConfig, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := config.FillSecrets(ctx, cfg); err != nil {
		return nil, fmt.Errorf("resolving secrets: %w", err)
	}
	return cfg, nil
}
