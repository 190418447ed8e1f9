package signal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dooor-ai/readiness/internal/metrics"
	"github.com/dooor-ai/readiness/pkg/types"
)

const securityTimeout = 10 * time.Second

// requiredSecurityHeaders must all be present for the security_headers
// criterion to pass. Presence-only, case-insensitive.
var requiredSecurityHeaders = []string{
	"Strict-Transport-Security",
	"X-Content-Type-Options",
	"X-Frame-Options",
}

// SecurityInspector checks a product's public URL for essential security
// response headers.
type SecurityInspector struct {
	client *http.Client
	logger *slog.Logger
}

// NewSecurityInspector creates a security-header inspector.
func NewSecurityInspector(logger *slog.Logger) *SecurityInspector {
	if logger == nil {
		logger = slog.Default()
	}
	return &SecurityInspector{
		client: &http.Client{Timeout: securityTimeout},
		logger: logger,
	}
}

// Check reports whether all required security headers are present on the
// response from url. Any fetch failure is false, never an error.
func (i *SecurityInspector) Check(ctx context.Context, url string) bool {
	headers, _, err := i.fetchHeaders(ctx, url)
	if err != nil {
		metrics.CollectorErrors.Add(1)
		i.logger.Warn("security header check failed", "url", url, "error", err)
		return false
	}

	for _, h := range requiredSecurityHeaders {
		if headers.Get(h) == "" {
			return false
		}
	}
	return true
}

// Report returns the detailed per-header view for url.
func (i *SecurityInspector) Report(ctx context.Context, url string) (*types.SecurityReport, error) {
	headers, status, err := i.fetchHeaders(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	report := &types.SecurityReport{
		URL:        url,
		StatusCode: status,
		Headers:    make(map[string]types.HeaderCheck, len(requiredSecurityHeaders)),
		Passed:     true,
	}
	for _, h := range requiredSecurityHeaders {
		v := headers.Get(h)
		report.Headers[h] = types.HeaderCheck{Present: v != "", Value: v}
		if v == "" {
			report.Passed = false
		}
	}
	return report, nil
}

func (i *SecurityInspector) fetchHeaders(ctx context.Context, url string) (http.Header, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.Header, resp.StatusCode, nil
}
