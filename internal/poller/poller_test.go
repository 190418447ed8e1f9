package poller_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dooor-ai/readiness/internal/catalog"
	"github.com/dooor-ai/readiness/internal/engine"
	"github.com/dooor-ai/readiness/internal/poller"
	"github.com/dooor-ai/readiness/internal/testutil"
	"github.com/dooor-ai/readiness/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitFor(t *testing.T, timeout time.Duration, check func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for condition: %s", msg)
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cat, err := catalog.New([]types.Product{
		{ID: "chorus", Name: "Chorus", Analytics: &types.AnalyticsConfig{ProjectID: "1"}},
	})
	require.NoError(t, err)
	return engine.New(cat, testutil.NewMockStore(), testutil.PassingCollectors("dooor.ai", "chorus"), "dooor.ai")
}

func TestPollerEvaluatesOnStart(t *testing.T) {
	p := poller.New(testEngine(t), time.Hour, nil)
	p.Start(context.Background())
	defer p.Stop(context.Background())

	waitFor(t, 2*time.Second, func() bool {
		return len(p.LastStatuses()) == 1
	}, "first poll to complete")

	assert.Equal(t, types.StatusReady, p.LastStatuses()["chorus"])
}

func TestPollerStop(t *testing.T) {
	p := poller.New(testEngine(t), 10*time.Millisecond, nil)
	p.Start(context.Background())

	waitFor(t, 2*time.Second, func() bool {
		return len(p.LastStatuses()) == 1
	}, "first poll to complete")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	p.Stop(ctx)
}
