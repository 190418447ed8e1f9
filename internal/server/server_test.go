package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dooor-ai/readiness/internal/catalog"
	"github.com/dooor-ai/readiness/internal/engine"
	"github.com/dooor-ai/readiness/internal/server"
	"github.com/dooor-ai/readiness/internal/testutil"
	"github.com/dooor-ai/readiness/pkg/types"
)

var catalogIDs = []string{"chorus", "cadence", "kenna", "duet"}

func testServer(t *testing.T, apiKey string) (*server.Server, *testutil.MockStore) {
	t.Helper()

	products := make([]types.Product, len(catalogIDs))
	for i, id := range catalogIDs {
		products[i] = types.Product{ID: id, Name: id, Analytics: &types.AnalyticsConfig{ProjectID: "1"}}
	}
	cat, err := catalog.New(products)
	require.NoError(t, err)

	store := testutil.NewMockStore()
	eng := engine.New(cat, store, testutil.PassingCollectors("dooor.ai", catalogIDs...), "dooor.ai")
	return server.New(":0", eng, store, apiKey, 1<<20), store
}

func doRequest(t *testing.T, s *server.Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := testServer(t, "")
	rec := doRequest(t, s, http.MethodGet, "/api/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHealthDegraded(t *testing.T) {
	s, store := testServer(t, "")
	store.FailPing(assert.AnError)

	rec := doRequest(t, s, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
}

func TestListProducts(t *testing.T) {
	s, _ := testServer(t, "")
	rec := doRequest(t, s, http.MethodGet, "/api/products", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Products []types.ReadinessRecord `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Products, len(catalogIDs))
	for i, record := range body.Products {
		assert.Equal(t, catalogIDs[i], record.ProductID)
		assert.Equal(t, types.StatusReady, record.Status)
	}
}

func TestGetProduct(t *testing.T) {
	s, _ := testServer(t, "")
	rec := doRequest(t, s, http.MethodGet, "/api/products/chorus", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var record types.ReadinessRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "chorus", record.ProductID)
	assert.Equal(t, 100.0, record.ReadinessScore)
}

func TestGetProductNotFound(t *testing.T) {
	s, _ := testServer(t, "")
	rec := doRequest(t, s, http.MethodGet, "/api/products/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSecurity(t *testing.T) {
	s, _ := testServer(t, "")
	rec := doRequest(t, s, http.MethodGet, "/api/products/chorus/security", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateStage(t *testing.T) {
	s, store := testServer(t, "")
	rec := doRequest(t, s, http.MethodPatch, "/api/products/chorus/stage", `{"stage":"beta"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	fields, err := store.Get(context.Background(), "chorus")
	require.NoError(t, err)
	assert.Equal(t, "beta", fields.Stage)
}

func TestUpdateStageInvalid(t *testing.T) {
	s, _ := testServer(t, "")
	rec := doRequest(t, s, http.MethodPatch, "/api/products/chorus/stage", `{"stage":"launched"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStageUnknownProduct(t *testing.T) {
	s, _ := testServer(t, "")
	rec := doRequest(t, s, http.MethodPatch, "/api/products/ghost/stage", `{"stage":"beta"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateObservations(t *testing.T) {
	s, store := testServer(t, "")
	rec := doRequest(t, s, http.MethodPatch, "/api/products/chorus/observations", `{"observations":"pending pentest"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	fields, err := store.Get(context.Background(), "chorus")
	require.NoError(t, err)
	assert.Equal(t, "pending pentest", fields.Observations)
}

func TestRefreshCache(t *testing.T) {
	s, _ := testServer(t, "")
	rec := doRequest(t, s, http.MethodPost, "/api/cache/refresh", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["refreshed"])
}

func TestAPIKeyRequired(t *testing.T) {
	s, _ := testServer(t, "sekret")

	rec := doRequest(t, s, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/products", "", map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/products", "", map[string]string{"X-API-Key": "sekret"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyHealthExempt(t *testing.T) {
	s, _ := testServer(t, "sekret")
	rec := doRequest(t, s, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := testServer(t, "")

	rec := doRequest(t, s, http.MethodGet, "/api/health", "", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = doRequest(t, s, http.MethodGet, "/api/health", "", map[string]string{"X-Request-ID": "req-42"})
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestDebugVars(t *testing.T) {
	s, _ := testServer(t, "")
	rec := doRequest(t, s, http.MethodGet, "/debug/vars", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "evaluations_total")
}
