package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dooor-ai/readiness/internal/metrics"
	"github.com/dooor-ai/readiness/pkg/types"
)

const jiraTimeout = 5 * time.Second

// Priority sets for the two bug-count severity thresholds.
var (
	CriticalPriorities   = []string{"Highest", "High"}
	MediumPlusPriorities = []string{"Highest", "High", "Medium"}
)

// JiraClient counts open bug-labeled issues per project. Results come with an
// ok flag: false means the count is unavailable (missing credentials, upstream
// failure, open breaker), which is not the same as zero open bugs.
type JiraClient struct {
	baseURL  string
	username string
	apiToken string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	logger   *slog.Logger
}

// NewJiraClient creates a Jira bug counter.
func NewJiraClient(cfg types.JiraConfig, logger *slog.Logger) *JiraClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &JiraClient{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		username: cfg.Username,
		apiToken: cfg.APIToken,
		client:   &http.Client{Timeout: jiraTimeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "jira",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
		}),
		logger: logger,
	}
}

// OpenBugsByPriority counts open bug-labeled issues in project matching any of
// the given priorities.
func (c *JiraClient) OpenBugsByPriority(ctx context.Context, project string, priorities []string) (int, bool) {
	clauses := make([]string, len(priorities))
	for i, p := range priorities {
		clauses[i] = fmt.Sprintf("priority = %q", p)
	}
	jql := fmt.Sprintf("project = %q AND labels = \"bug\" AND status != \"Done\" AND (%s)",
		project, strings.Join(clauses, " OR "))
	return c.count(ctx, jql)
}

// OpenBugs counts all open bug-labeled issues in project regardless of priority.
func (c *JiraClient) OpenBugs(ctx context.Context, project string) (int, bool) {
	jql := fmt.Sprintf("project = %q AND labels = \"bug\" AND status != \"Done\"", project)
	return c.count(ctx, jql)
}

func (c *JiraClient) count(ctx context.Context, jql string) (int, bool) {
	if c.baseURL == "" || c.username == "" || c.apiToken == "" {
		c.logger.Warn("jira credentials missing, bug counts unavailable")
		return 0, false
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.search(ctx, jql)
	})
	if err != nil {
		metrics.CollectorErrors.Add(1)
		c.logger.Warn("jira search failed", "jql", jql, "error", err)
		return 0, false
	}
	return out.(int), true
}

func (c *JiraClient) search(ctx context.Context, jql string) (int, error) {
	params := url.Values{}
	params.Set("jql", jql)
	params.Set("maxResults", "0") // only the count is used

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/rest/api/3/search?"+params.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("jira search: status %d", resp.StatusCode)
	}

	var body struct {
		Total int `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decoding jira response: %w", err)
	}
	return body.Total, nil
}
