package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dooor-ai/readiness/internal/metrics"
	"github.com/dooor-ai/readiness/pkg/types"
)

const (
	uptimeRobotTimeout = 8 * time.Second

	// DefaultResponseTimeLimit caps the raw response-time samples requested
	// per monitor.
	DefaultResponseTimeLimit = 50
)

// Monitor is one entry in the UptimeRobot getMonitors payload. Uptime ratios
// arrive as strings; an empty ratio means the upstream has no data.
type Monitor struct {
	FriendlyName       string         `json:"friendly_name"`
	URL                string         `json:"url"`
	CustomUptimeRatio  string         `json:"custom_uptime_ratio"`
	AllTimeUptimeRatio string         `json:"all_time_uptime_ratio"`
	ResponseTimes      []ResponseTime `json:"response_times"`
}

// ResponseTime is one raw latency sample in milliseconds.
type ResponseTime struct {
	Datetime int64   `json:"datetime"`
	Value    float64 `json:"value"`
}

// MonitorPayload is the full getMonitors response body.
type MonitorPayload struct {
	Stat     string    `json:"stat"`
	Monitors []Monitor `json:"monitors"`
	Error    *apiError `json:"error,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// FindMonitor returns the monitor whose friendly name matches name.
func (p *MonitorPayload) FindMonitor(name string) (Monitor, bool) {
	for _, m := range p.Monitors {
		if m.FriendlyName == name {
			return m, true
		}
	}
	return Monitor{}, false
}

// Signal converts a monitor into the uptime/latency slice of a SignalSet.
// The 30-day ratio is preferred, with the all-time ratio as fallback; a
// monitor with neither yields an absent uptime, not 0%.
func (m Monitor) Signal() types.UptimeSignal {
	var sig types.UptimeSignal
	if r, err := strconv.ParseFloat(m.CustomUptimeRatio, 64); err == nil {
		sig.Uptime = &r
	} else if r, err := strconv.ParseFloat(m.AllTimeUptimeRatio, 64); err == nil {
		sig.Uptime = &r
	}
	if len(m.ResponseTimes) > 0 {
		sig.Latency = latencyStats(m.ResponseTimes)
	}
	return sig
}

func latencyStats(samples []ResponseTime) *types.LatencyStats {
	values := make([]float64, len(samples))
	var sum float64
	for i, s := range samples {
		values[i] = s.Value
		sum += s.Value
	}
	sort.Float64s(values)

	return &types.LatencyStats{
		Average: sum / float64(len(values)),
		Min:     values[0],
		Max:     values[len(values)-1],
		P95:     percentile(values, 0.95),
		P99:     percentile(values, 0.99),
	}
}

// percentile selects sorted[floor(p*n)], clamped to the last valid index.
// No interpolation: for 10 samples, p95 indexes 9 and picks the maximum.
func percentile(sorted []float64, p float64) float64 {
	idx := int(math.Floor(p * float64(len(sorted))))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// UptimeRobotClient fetches the account-wide monitor listing. One call covers
// every monitored product, which is what makes the batch cache worthwhile.
type UptimeRobotClient struct {
	baseURL string
	apiKey  string
	limit   int
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewUptimeRobotClient creates an uptime-monitor client.
func NewUptimeRobotClient(cfg types.UptimeRobotConfig, logger *slog.Logger) *UptimeRobotClient {
	if logger == nil {
		logger = slog.Default()
	}
	limit := cfg.ResponseTimeLimit
	if limit <= 0 {
		limit = DefaultResponseTimeLimit
	}
	return &UptimeRobotClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		limit:   limit,
		client:  &http.Client{Timeout: uptimeRobotTimeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "uptimerobot",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
		}),
		logger: logger,
	}
}

// FetchMonitors performs one getMonitors call with 30-day uptime ratios and,
// when includeResponseTimes is set, the recent raw response-time window.
func (c *UptimeRobotClient) FetchMonitors(ctx context.Context, includeResponseTimes bool) (*MonitorPayload, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("uptimerobot api key missing")
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.getMonitors(ctx, includeResponseTimes)
	})
	if err != nil {
		metrics.CollectorErrors.Add(1)
		return nil, err
	}
	return out.(*MonitorPayload), nil
}

func (c *UptimeRobotClient) getMonitors(ctx context.Context, includeResponseTimes bool) (*MonitorPayload, error) {
	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("format", "json")
	form.Set("custom_uptime_ratios", "30")
	form.Set("logs", "0")
	if includeResponseTimes {
		form.Set("response_times", "1")
		form.Set("response_times_limit", strconv.Itoa(c.limit))
	} else {
		form.Set("response_times", "0")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/getMonitors", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("uptimerobot getMonitors: status %d", resp.StatusCode)
	}

	var payload MonitorPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding uptimerobot response: %w", err)
	}
	if payload.Stat != "ok" {
		msg := "unknown error"
		if payload.Error != nil {
			msg = payload.Error.Message
		}
		return nil, fmt.Errorf("uptimerobot api error: %s", msg)
	}
	return &payload, nil
}
