// Package signal implements the per-upstream collectors. Each collector
// swallows its own upstream errors and resolves to a value or an explicit
// "unavailable" — a down upstream lowers a product's score, it never fails an
// evaluation.
package signal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dooor-ai/readiness/internal/metrics"
)

// stagingTimeout bounds each probe so a catalog-wide evaluation stays fast
// even when several staging environments are down.
const stagingTimeout = 3 * time.Second

// StagingProber checks whether a product's staging deployment answers.
type StagingProber struct {
	client *http.Client
	logger *slog.Logger
}

// NewStagingProber creates a staging prober. Redirects are not followed so a
// 307 from the deployment itself stays observable.
func NewStagingProber(logger *slog.Logger) *StagingProber {
	if logger == nil {
		logger = slog.Default()
	}
	return &StagingProber{
		client: &http.Client{
			Timeout: stagingTimeout,
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

// Alive issues a GET against url and reports whether the deployment is up.
// 200 and 307 both count as alive (staging environments redirect unauthenticated
// traffic to login). Any other status, network error, or timeout is not alive;
// Alive never returns an error.
func (p *StagingProber) Alive(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		metrics.CollectorErrors.Add(1)
		p.logger.Warn("staging probe failed", "url", url, "error", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusTemporaryRedirect
}
