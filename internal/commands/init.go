package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dooor-ai/readiness/internal/config"
)

const configTemplate = `# Readiness service configuration.
# Credentials may be left empty here and supplied via environment variables
# (JIRA_URL, JIRA_USERNAME, JIRA_API_TOKEN, UPTIMEROBOT_API_KEY,
# POSTHOG_API_KEY, READINESS_API_KEY) or an AWS Secrets Manager document.
domain: dooor.ai
catalogPath: products.yaml

server:
  addr: ":3000"

userFields:
  provider: file
  file:
    path: user_fields.json

jira:
  baseUrl: ""
  username: ""
  apiToken: ""

uptimeRobot:
  apiKey: ""
  cacheTtl: 5m

posthog:
  apiKey: ""
  dateFrom: "2024-07-01"

# secrets:
#   secretId: readiness/upstream
#   region: us-east-1

# poller:
#   enabled: true
#   interval: 5m

# telemetry:
#   enabled: true
#   endpoint: localhost:4317
#   serviceName: readiness
`

const catalogTemplate = `products:
  - id: chorus
    name: Chorus
    description: Conversation intelligence for clinical teams
    jiraProject: CHORUS
    analytics:
      projectId: "12345"
  - id: cadence
    name: Cadence
    description: Scheduling and care coordination
    jiraProject: CADENCE
`

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold readiness.yaml and products.yaml in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}
}

func runInit() error {
	files := map[string]string{
		config.ConfigFileName: configTemplate,
		"products.yaml":       catalogTemplate,
	}

	for name, content := range files {
		if _, err := os.Stat(name); err == nil {
			color.Yellow("skipping %s: already exists", name)
			continue
		}
		if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		color.Green("created %s", name)
	}

	fmt.Println("\nEdit products.yaml to match your catalog, then run: readiness serve")
	return nil
}
