package signal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dooor-ai/readiness/internal/metrics"
	"github.com/dooor-ai/readiness/pkg/types"
)

const (
	posthogTimeout = 8 * time.Second

	defaultAnalyticsEvent = "$pageview"
	defaultDateFrom       = "2024-07-01"
)

// PostHogClient counts active users for products that declare an analytics
// capability in the catalog. Products without one get "unavailable", never a
// hardcoded zero.
type PostHogClient struct {
	baseURL  string
	apiKey   string
	dateFrom string
	client   *http.Client
	logger   *slog.Logger
	now      func() time.Time
}

// NewPostHogClient creates an analytics client.
func NewPostHogClient(cfg types.PostHogConfig, logger *slog.Logger) *PostHogClient {
	if logger == nil {
		logger = slog.Default()
	}
	dateFrom := cfg.DateFrom
	if dateFrom == "" {
		dateFrom = defaultDateFrom
	}
	return &PostHogClient{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		dateFrom: dateFrom,
		client:   &http.Client{Timeout: posthogTimeout},
		logger:   logger,
		now:      time.Now,
	}
}

type trendsQuery struct {
	Kind      string        `json:"kind"`
	Series    []trendSeries `json:"series"`
	DateRange dateRange     `json:"dateRange"`
	Interval  string        `json:"interval"`
}

type trendSeries struct {
	Event string `json:"event"`
	Math  string `json:"math"`
}

type dateRange struct {
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

// ActiveUsers returns the active-user count for a product's analytics source.
// A nil capability means the product has no analytics at all; any upstream
// failure also resolves to unavailable.
func (c *PostHogClient) ActiveUsers(ctx context.Context, capability *types.AnalyticsConfig) (int, bool) {
	if capability == nil {
		return 0, false
	}
	if c.apiKey == "" {
		c.logger.Warn("posthog api key missing, active users unavailable")
		return 0, false
	}

	count, err := c.query(ctx, capability)
	if err != nil {
		metrics.CollectorErrors.Add(1)
		c.logger.Warn("posthog query failed", "project", capability.ProjectID, "error", err)
		return 0, false
	}
	return count, true
}

func (c *PostHogClient) query(ctx context.Context, capability *types.AnalyticsConfig) (int, error) {
	event := capability.Event
	if event == "" {
		event = defaultAnalyticsEvent
	}

	body := struct {
		Query trendsQuery `json:"query"`
	}{
		Query: trendsQuery{
			Kind:   "TrendsQuery",
			Series: []trendSeries{{Event: event, Math: "dau"}},
			DateRange: dateRange{
				DateFrom: c.dateFrom,
				DateTo:   c.now().Format("2006-01-02"),
			},
			Interval: "month",
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	url := fmt.Sprintf("%s/api/projects/%s/query/", c.baseURL, capability.ProjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("posthog query: status %d", resp.StatusCode)
	}

	var out struct {
		Results []struct {
			Count float64 `json:"count"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decoding posthog response: %w", err)
	}
	if len(out.Results) == 0 {
		return 0, nil
	}
	return int(out.Results[0].Count), nil
}
