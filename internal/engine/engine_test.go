package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dooor-ai/readiness/internal/catalog"
	"github.com/dooor-ai/readiness/internal/engine"
	"github.com/dooor-ai/readiness/internal/testutil"
	"github.com/dooor-ai/readiness/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testCatalog(t *testing.T, ids ...string) *catalog.Catalog {
	t.Helper()
	products := make([]types.Product, len(ids))
	for i, id := range ids {
		products[i] = types.Product{
			ID:        id,
			Name:      id,
			Analytics: &types.AnalyticsConfig{ProjectID: "1"},
		}
	}
	cat, err := catalog.New(products)
	require.NoError(t, err)
	return cat
}

func TestEvaluateAllPassing(t *testing.T) {
	cat := testCatalog(t, "chorus")
	store := testutil.NewMockStore()
	require.NoError(t, store.SetStage(context.Background(), "chorus", "beta"))

	eng := engine.New(cat, store, testutil.PassingCollectors("dooor.ai", "chorus"), "dooor.ai")

	rec, err := eng.Evaluate(context.Background(), "chorus")
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "chorus", rec.ProductID)
	assert.Equal(t, "https://chorus-staging.dooor.ai", rec.URL)
	assert.Equal(t, "beta", rec.Stage)
	assert.Equal(t, types.StatusReady, rec.Status)
	assert.Equal(t, 100.0, rec.ReadinessScore)
	assert.False(t, rec.EvaluatedAt.IsZero())

	require.Len(t, rec.Criteria, len(types.AllCriteria))
	for c, pass := range rec.Criteria {
		assert.True(t, pass, "criterion %s", c)
	}
}

func TestEvaluateStagingDown(t *testing.T) {
	cat := testCatalog(t, "chorus")
	collectors := testutil.PassingCollectors("dooor.ai", "chorus")
	collectors.Staging = &testutil.StubStaging{} // nothing up

	eng := engine.New(cat, testutil.NewMockStore(), collectors, "dooor.ai")

	rec, err := eng.Evaluate(context.Background(), "chorus")
	require.NoError(t, err)

	assert.Equal(t, types.StatusBlocked, rec.Status)
	assert.InDelta(t, 100.0*12.0/13.0, rec.ReadinessScore, 0.001)
	assert.False(t, rec.Criteria[types.CriterionStaging])
	assert.True(t, rec.Criteria[types.CriterionSecurityHeaders])
}

func TestEvaluateCollectorsUnavailable(t *testing.T) {
	cat := testCatalog(t, "chorus")
	collectors := testutil.PassingCollectors("dooor.ai", "chorus")
	collectors.Bugs = &testutil.StubBugs{Unavailable: true}
	collectors.Analytics = &testutil.StubAnalytics{Unavailable: true}
	collectors.Monitors = &testutil.StubMonitors{} // no stats for anyone

	eng := engine.New(cat, testutil.NewMockStore(), collectors, "dooor.ai")

	rec, err := eng.Evaluate(context.Background(), "chorus")
	require.NoError(t, err)

	// unavailable signals degrade, they never fail the evaluation
	assert.Equal(t, types.StatusBlocked, rec.Status)
	assert.False(t, rec.Criteria[types.CriterionBugsCritical])
	assert.False(t, rec.Criteria[types.CriterionUptime95])
	assert.False(t, rec.Criteria[types.CriterionActiveUsers1])
	assert.True(t, rec.Criteria[types.CriterionStaging])
}

func TestEvaluateUnknownProduct(t *testing.T) {
	cat := testCatalog(t, "chorus")
	eng := engine.New(cat, testutil.NewMockStore(), testutil.PassingCollectors("dooor.ai", "chorus"), "dooor.ai")

	_, err := eng.Evaluate(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrProductNotFound)
}

func TestEvaluateStoreFailureDegrades(t *testing.T) {
	cat := testCatalog(t, "chorus")
	store := testutil.NewMockStore()
	store.FailGet(assert.AnError)

	eng := engine.New(cat, store, testutil.PassingCollectors("dooor.ai", "chorus"), "dooor.ai")

	rec, err := eng.Evaluate(context.Background(), "chorus")
	require.NoError(t, err)
	assert.Empty(t, rec.Stage)
	assert.Equal(t, types.StatusReady, rec.Status)
}

func TestEvaluateAllCatalogOrder(t *testing.T) {
	ids := []string{"chorus", "cadence", "kenna", "duet"}
	cat := testCatalog(t, ids...)
	eng := engine.New(cat, testutil.NewMockStore(), testutil.PassingCollectors("dooor.ai", ids...), "dooor.ai")

	records := eng.EvaluateAll(context.Background())
	require.Len(t, records, 4)
	for i, rec := range records {
		assert.Equal(t, ids[i], rec.ProductID)
		assert.Equal(t, types.StatusReady, rec.Status)
	}
}

func TestEvaluateAllSingleBatchCall(t *testing.T) {
	ids := []string{"chorus", "cadence", "kenna", "duet"}
	cat := testCatalog(t, ids...)

	collectors := testutil.PassingCollectors("dooor.ai", ids...)
	monitors := collectors.Monitors.(*testutil.StubMonitors)

	eng := engine.New(cat, testutil.NewMockStore(), collectors, "dooor.ai")
	eng.EvaluateAll(context.Background())

	assert.Equal(t, int64(1), monitors.BatchCalls())
}

func TestRefreshMonitors(t *testing.T) {
	cat := testCatalog(t, "chorus")
	collectors := testutil.PassingCollectors("dooor.ai", "chorus")
	monitors := collectors.Monitors.(*testutil.StubMonitors)

	eng := engine.New(cat, testutil.NewMockStore(), collectors, "dooor.ai")
	eng.RefreshMonitors()

	assert.Equal(t, int64(1), monitors.Clears())
}

func TestSecurityReport(t *testing.T) {
	cat := testCatalog(t, "chorus")
	collectors := testutil.PassingCollectors("dooor.ai", "chorus")
	collectors.Security = &testutil.StubSecurity{
		Pass:   true,
		Result: &types.SecurityReport{URL: "https://chorus-staging.dooor.ai", Passed: true},
	}

	eng := engine.New(cat, testutil.NewMockStore(), collectors, "dooor.ai")

	report, err := eng.SecurityReport(context.Background(), "chorus")
	require.NoError(t, err)
	assert.True(t, report.Passed)

	_, err = eng.SecurityReport(context.Background(), "ghost")
	assert.ErrorIs(t, err, engine.ErrProductNotFound)
}
