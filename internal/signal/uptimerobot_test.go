package signal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dooor-ai/readiness/pkg/types"
)

const monitorsBody = `{
	"stat": "ok",
	"monitors": [
		{
			"friendly_name": "chorus",
			"url": "https://chorus-staging.dooor.ai",
			"custom_uptime_ratio": "99.912",
			"response_times": [
				{"datetime": 1700000000, "value": 120},
				{"datetime": 1700000060, "value": 480}
			]
		},
		{
			"friendly_name": "cadence",
			"url": "https://cadence-staging.dooor.ai",
			"custom_uptime_ratio": "",
			"all_time_uptime_ratio": "96.500"
		},
		{
			"friendly_name": "duet",
			"url": "https://duet-staging.dooor.ai",
			"custom_uptime_ratio": ""
		}
	]
}`

func uptimeClient(baseURL string) *UptimeRobotClient {
	return NewUptimeRobotClient(types.UptimeRobotConfig{
		BaseURL: baseURL,
		APIKey:  "u123-abc",
	}, nil)
}

func TestFetchMonitors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/getMonitors", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "u123-abc", r.PostForm.Get("api_key"))
		assert.Equal(t, "json", r.PostForm.Get("format"))
		assert.Equal(t, "30", r.PostForm.Get("custom_uptime_ratios"))
		assert.Equal(t, "1", r.PostForm.Get("response_times"))
		assert.Equal(t, "50", r.PostForm.Get("response_times_limit"))
		assert.Equal(t, "0", r.PostForm.Get("logs"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(monitorsBody))
	}))
	defer srv.Close()

	payload, err := uptimeClient(srv.URL).FetchMonitors(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, payload.Monitors, 3)
}

func TestFetchMonitorsWithoutResponseTimes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "0", r.PostForm.Get("response_times"))
		assert.Empty(t, r.PostForm.Get("response_times_limit"))
		_, _ = w.Write([]byte(`{"stat": "ok", "monitors": []}`))
	}))
	defer srv.Close()

	payload, err := uptimeClient(srv.URL).FetchMonitors(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, payload.Monitors)
}

func TestFetchMonitorsMissingAPIKey(t *testing.T) {
	c := NewUptimeRobotClient(types.UptimeRobotConfig{BaseURL: "http://example.invalid"}, nil)
	_, err := c.FetchMonitors(context.Background(), true)
	require.Error(t, err)
}

func TestFetchMonitorsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"stat": "fail", "error": {"type": "invalid_parameter", "message": "api_key is wrong"}}`))
	}))
	defer srv.Close()

	_, err := uptimeClient(srv.URL).FetchMonitors(context.Background(), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key is wrong")
}

func TestFindMonitor(t *testing.T) {
	p := &MonitorPayload{Monitors: []Monitor{
		{FriendlyName: "chorus"},
		{FriendlyName: "cadence"},
	}}

	m, ok := p.FindMonitor("cadence")
	assert.True(t, ok)
	assert.Equal(t, "cadence", m.FriendlyName)

	_, ok = p.FindMonitor("ghost")
	assert.False(t, ok)
}

func TestMonitorSignal(t *testing.T) {
	m := Monitor{
		CustomUptimeRatio: "99.912",
		ResponseTimes: []ResponseTime{
			{Value: 120},
			{Value: 480},
		},
	}

	sig := m.Signal()
	require.NotNil(t, sig.Uptime)
	assert.InDelta(t, 99.912, *sig.Uptime, 0.0001)
	require.NotNil(t, sig.Latency)
	assert.InDelta(t, 300, sig.Latency.Average, 0.001)
	assert.InDelta(t, 120, sig.Latency.Min, 0.001)
	assert.InDelta(t, 480, sig.Latency.Max, 0.001)
}

func TestMonitorSignalAllTimeFallback(t *testing.T) {
	m := Monitor{AllTimeUptimeRatio: "96.500"}
	sig := m.Signal()
	require.NotNil(t, sig.Uptime)
	assert.InDelta(t, 96.5, *sig.Uptime, 0.0001)
}

func TestMonitorSignalNoRatio(t *testing.T) {
	sig := Monitor{}.Signal()
	assert.Nil(t, sig.Uptime)
	assert.Nil(t, sig.Latency)
}

func TestPercentileSelection(t *testing.T) {
	samples := make([]ResponseTime, 0, 10)
	for v := 10.0; v <= 100; v += 10 {
		samples = append(samples, ResponseTime{Value: v})
	}

	stats := latencyStats(samples)
	assert.InDelta(t, 55, stats.Average, 0.001)
	assert.InDelta(t, 10, stats.Min, 0.001)
	assert.InDelta(t, 100, stats.Max, 0.001)
	// floor(0.95*10)=9 indexes the last sample; no interpolation
	assert.InDelta(t, 100, stats.P95, 0.001)
	assert.InDelta(t, 100, stats.P99, 0.001)
}

func TestPercentileSingleSample(t *testing.T) {
	stats := latencyStats([]ResponseTime{{Value: 42}})
	assert.InDelta(t, 42, stats.P95, 0.001)
	assert.InDelta(t, 42, stats.P99, 0.001)
}
