package signal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dooor-ai/readiness/pkg/types"
)

func posthogClient(baseURL string) *PostHogClient {
	c := NewPostHogClient(types.PostHogConfig{
		BaseURL: baseURL,
		APIKey:  "phx_test",
	}, nil)
	c.now = func() time.Time { return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestActiveUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/projects/12345/query/", r.URL.Path)
		assert.Equal(t, "Bearer phx_test", r.Header.Get("Authorization"))

		var body struct {
			Query struct {
				Kind   string `json:"kind"`
				Series []struct {
					Event string `json:"event"`
					Math  string `json:"math"`
				} `json:"series"`
				DateRange struct {
					DateFrom string `json:"date_from"`
					DateTo   string `json:"date_to"`
				} `json:"dateRange"`
				Interval string `json:"interval"`
			} `json:"query"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "TrendsQuery", body.Query.Kind)
		assert.Len(t, body.Query.Series, 1)
		assert.Equal(t, "$pageview", body.Query.Series[0].Event)
		assert.Equal(t, "dau", body.Query.Series[0].Math)
		assert.Equal(t, "2024-07-01", body.Query.DateRange.DateFrom)
		assert.Equal(t, "2025-03-15", body.Query.DateRange.DateTo)
		assert.Equal(t, "month", body.Query.Interval)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [{"count": 342}]}`))
	}))
	defer srv.Close()

	n, ok := posthogClient(srv.URL).ActiveUsers(context.Background(), &types.AnalyticsConfig{ProjectID: "12345"})
	require.True(t, ok)
	assert.Equal(t, 342, n)
}

func TestActiveUsersCustomEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query struct {
				Series []struct {
					Event string `json:"event"`
				} `json:"series"`
			} `json:"query"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "session_started", body.Query.Series[0].Event)
		_, _ = w.Write([]byte(`{"results": [{"count": 10}]}`))
	}))
	defer srv.Close()

	n, ok := posthogClient(srv.URL).ActiveUsers(context.Background(), &types.AnalyticsConfig{
		ProjectID: "12345",
		Event:     "session_started",
	})
	require.True(t, ok)
	assert.Equal(t, 10, n)
}

func TestActiveUsersNoCapability(t *testing.T) {
	n, ok := posthogClient("http://example.invalid").ActiveUsers(context.Background(), nil)
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestActiveUsersMissingAPIKey(t *testing.T) {
	c := NewPostHogClient(types.PostHogConfig{BaseURL: "http://example.invalid"}, nil)
	n, ok := c.ActiveUsers(context.Background(), &types.AnalyticsConfig{ProjectID: "12345"})
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestActiveUsersUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	n, ok := posthogClient(srv.URL).ActiveUsers(context.Background(), &types.AnalyticsConfig{ProjectID: "12345"})
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestActiveUsersEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	n, ok := posthogClient(srv.URL).ActiveUsers(context.Background(), &types.AnalyticsConfig{ProjectID: "12345"})
	assert.True(t, ok)
	assert.Zero(t, n)
}
