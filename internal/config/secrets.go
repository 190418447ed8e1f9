package config

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/dooor-ai/readiness/pkg/types"
)

// upstreamSecrets is the JSON shape of the Secrets Manager document.
type upstreamSecrets struct {
	JiraAPIToken    string `json:"jiraApiToken"`
	JiraUsername    string `json:"jiraUsername"`
	UptimeRobotKey  string `json:"uptimeRobotApiKey"`
	PostHogAPIKey   string `json:"posthogApiKey"`
	ReadinessAPIKey string `json:"readinessApiKey"`
}

// secretsAPI is the subset of the Secrets Manager client used here.
type secretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// FillSecrets fetches the configured Secrets Manager document and fills any
// credential fields the file and environment left empty. A nil or empty
// secrets section is a no-op.
func FillSecrets(ctx context.Context, cfg *types.ServiceConfig) error {
	if cfg.Secrets == nil || cfg.Secrets.SecretID == "" {
		return nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Secrets.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Secrets.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("loading AWS config: %w", err)
	}

	return fillSecrets(ctx, cfg, secretsmanager.NewFromConfig(awsCfg))
}

func fillSecrets(ctx context.Context, cfg *types.ServiceConfig, client secretsAPI) error {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &cfg.Secrets.SecretID,
	})
	if err != nil {
		return fmt.Errorf("fetching secret %s: %w", cfg.Secrets.SecretID, err)
	}
	if out.SecretString == nil {
		return fmt.Errorf("secret %s has no string value", cfg.Secrets.SecretID)
	}

	var secrets upstreamSecrets
	if err := json.Unmarshal([]byte(*out.SecretString), &secrets); err != nil {
		return fmt.Errorf("parsing secret %s: %w", cfg.Secrets.SecretID, err)
	}

	if cfg.Jira.APIToken == "" {
		cfg.Jira.APIToken = secrets.JiraAPIToken
	}
	if cfg.Jira.Username == "" {
		cfg.Jira.Username = secrets.JiraUsername
	}
	if cfg.UptimeRobot.APIKey == "" {
		cfg.UptimeRobot.APIKey = secrets.UptimeRobotKey
	}
	if cfg.PostHog.APIKey == "" {
		cfg.PostHog.APIKey = secrets.PostHogAPIKey
	}
	if cfg.Server != nil && cfg.Server.APIKey == "" {
		cfg.Server.APIKey = secrets.ReadinessAPIKey
	}
	return nil
}
