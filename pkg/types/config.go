package types

// ServiceConfig is the top-level readiness.yaml configuration. Credential
// fields carry env tags so deployments can keep secrets out of the file; env
// values override whatever the file says.
type ServiceConfig struct {
	Domain      string            `yaml:"domain"`
	CatalogPath string            `yaml:"catalogPath"`
	Server      *ServerConfig     `yaml:"server,omitempty"`
	UserFields  UserFieldsConfig  `yaml:"userFields"`
	Jira        JiraConfig        `yaml:"jira"`
	UptimeRobot UptimeRobotConfig `yaml:"uptimeRobot"`
	PostHog     PostHogConfig     `yaml:"posthog"`
	Secrets     *SecretsConfig    `yaml:"secrets,omitempty"`
	Telemetry   *TelemetryConfig  `yaml:"telemetry,omitempty"`
	Poller      *PollerConfig     `yaml:"poller,omitempty"`
}

// PollerConfig enables background catalog re-evaluation.
type PollerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Interval string `yaml:"interval,omitempty"` // e.g. "5m"
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string `yaml:"addr,omitempty"`
	APIKey         string `yaml:"apiKey,omitempty" env:"READINESS_API_KEY"`
	MaxRequestBody int64  `yaml:"maxRequestBody,omitempty"`
}

// UserFieldsConfig selects and configures the stage/observations store.
type UserFieldsConfig struct {
	Provider string           `yaml:"provider,omitempty"` // "file" (default) or "dynamodb"
	File     *FileStoreConfig `yaml:"file,omitempty"`
	DynamoDB *DynamoDBConfig  `yaml:"dynamodb,omitempty"`
}

// FileStoreConfig configures the JSON flat-file store.
type FileStoreConfig struct {
	Path string `yaml:"path"`
}

// DynamoDBConfig configures the DynamoDB-backed store.
type DynamoDBConfig struct {
	TableName   string `yaml:"tableName"`
	Region      string `yaml:"region,omitempty"`
	Endpoint    string `yaml:"endpoint,omitempty"` // for DynamoDB Local
	CreateTable bool   `yaml:"createTable,omitempty"`
}

// JiraConfig holds issue-tracker credentials.
type JiraConfig struct {
	BaseURL  string `yaml:"baseUrl,omitempty" env:"JIRA_URL"`
	Username string `yaml:"username,omitempty" env:"JIRA_USERNAME"`
	APIToken string `yaml:"apiToken,omitempty" env:"JIRA_API_TOKEN"`
}

// UptimeRobotConfig holds uptime-monitor settings.
type UptimeRobotConfig struct {
	BaseURL           string `yaml:"baseUrl,omitempty"`
	APIKey            string `yaml:"apiKey,omitempty" env:"UPTIMEROBOT_API_KEY"`
	CacheTTL          string `yaml:"cacheTtl,omitempty"`          // e.g. "5m"
	ResponseTimeLimit int    `yaml:"responseTimeLimit,omitempty"` // raw sample cap per monitor
}

// PostHogConfig holds analytics credentials and the fixed query window start.
type PostHogConfig struct {
	BaseURL  string `yaml:"baseUrl,omitempty"`
	APIKey   string `yaml:"apiKey,omitempty" env:"POSTHOG_API_KEY"`
	DateFrom string `yaml:"dateFrom,omitempty"` // "YYYY-MM-DD"
}

// SecretsConfig points at an optional AWS Secrets Manager secret holding a
// JSON document of upstream credentials, filled into empty config fields.
type SecretsConfig struct {
	SecretID string `yaml:"secretId"`
	Region   string `yaml:"region,omitempty"`
}

// TelemetryConfig enables the OpenTelemetry exporters.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint,omitempty"` // OTLP gRPC, host:port
	ServiceName string `yaml:"serviceName,omitempty"`
}
