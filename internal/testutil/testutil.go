// Package testutil provides shared fakes for readiness tests.
package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dooor-ai/readiness/internal/engine"
	"github.com/dooor-ai/readiness/internal/monitorcache"
	"github.com/dooor-ai/readiness/internal/signal"
	"github.com/dooor-ai/readiness/internal/userfields"
	"github.com/dooor-ai/readiness/pkg/types"
)

// Compile-time interface satisfaction checks.
var (
	_ userfields.Store     = (*MockStore)(nil)
	_ monitorcache.Fetcher = (*FakeMonitorAPI)(nil)
	_ engine.StagingProber = (*StubStaging)(nil)
	_ engine.BugCounter    = (*StubBugs)(nil)
)

// MockStore is an in-memory user-fields store for testing.
type MockStore struct {
	mu      sync.Mutex
	fields  map[string]types.UserFields
	pingErr error
	getErr  error
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{fields: make(map[string]types.UserFields)}
}

// FailPing makes subsequent Ping calls return err.
func (s *MockStore) FailPing(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pingErr = err
}

// FailGet makes subsequent Get calls return err.
func (s *MockStore) FailGet(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr = err
}

func (s *MockStore) Get(_ context.Context, productID string) (types.UserFields, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return types.UserFields{}, s.getErr
	}
	return s.fields[productID], nil
}

func (s *MockStore) SetStage(_ context.Context, productID, stage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.fields[productID]
	f.Stage = stage
	s.fields[productID] = f
	return nil
}

func (s *MockStore) SetObservations(_ context.Context, productID, observations string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.fields[productID]
	f.Observations = observations
	s.fields[productID] = f
	return nil
}

func (s *MockStore) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pingErr
}

// FakeMonitorAPI serves a fixed monitor payload and counts upstream calls, so
// cache tests can assert how many fetches actually happened.
type FakeMonitorAPI struct {
	Payload *signal.MonitorPayload
	Err     error
	calls   atomic.Int64
}

func (f *FakeMonitorAPI) FetchMonitors(context.Context, bool) (*signal.MonitorPayload, error) {
	f.calls.Add(1)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Payload, nil
}

// Calls returns the number of upstream fetches performed so far.
func (f *FakeMonitorAPI) Calls() int64 {
	return f.calls.Load()
}

// StubStaging answers staging probes from a fixed per-URL map. URLs not in the
// map read as down.
type StubStaging struct {
	Up map[string]bool
}

func (s *StubStaging) Alive(_ context.Context, url string) bool {
	return s.Up[url]
}

// StubSecurity answers header checks with a fixed result.
type StubSecurity struct {
	Pass   bool
	Result *types.SecurityReport
	Err    error
}

func (s *StubSecurity) Check(context.Context, string) bool {
	return s.Pass
}

func (s *StubSecurity) Report(context.Context, string) (*types.SecurityReport, error) {
	return s.Result, s.Err
}

// StubBugs returns fixed bug counts. Unavailable reports every count as
// absent, matching an unreachable tracker.
type StubBugs struct {
	Critical    int
	MediumPlus  int
	Total       int
	Unavailable bool
}

func (s *StubBugs) OpenBugsByPriority(_ context.Context, _ string, priorities []string) (int, bool) {
	if s.Unavailable {
		return 0, false
	}
	if len(priorities) == 2 {
		return s.Critical, true
	}
	return s.MediumPlus, true
}

func (s *StubBugs) OpenBugs(context.Context, string) (int, bool) {
	if s.Unavailable {
		return 0, false
	}
	return s.Total, true
}

// StubAnalytics returns a fixed active-user count for any capability.
type StubAnalytics struct {
	Users       int
	Unavailable bool
}

func (s *StubAnalytics) ActiveUsers(_ context.Context, capability *types.AnalyticsConfig) (int, bool) {
	if s.Unavailable || capability == nil {
		return 0, false
	}
	return s.Users, true
}

// StubMonitors serves fixed uptime signals per product id and counts batch
// calls.
type StubMonitors struct {
	Stats      map[string]types.UptimeSignal
	batchCalls atomic.Int64
	clears     atomic.Int64
}

func (s *StubMonitors) AllProductStats(_ context.Context, ids []string) map[string]types.UptimeSignal {
	s.batchCalls.Add(1)
	out := make(map[string]types.UptimeSignal, len(ids))
	for _, id := range ids {
		out[id] = s.Stats[id]
	}
	return out
}

func (s *StubMonitors) ProductStats(_ context.Context, id string) types.UptimeSignal {
	return s.Stats[id]
}

func (s *StubMonitors) Clear() {
	s.clears.Add(1)
}

// BatchCalls returns how many AllProductStats calls were made.
func (s *StubMonitors) BatchCalls() int64 {
	return s.batchCalls.Load()
}

// Clears returns how many Clear calls were made.
func (s *StubMonitors) Clears() int64 {
	return s.clears.Load()
}

// PassingCollectors returns a collector bundle where every signal for the
// given product ids passes all criteria.
func PassingCollectors(domain string, ids ...string) engine.Collectors {
	up := make(map[string]bool, len(ids))
	stats := make(map[string]types.UptimeSignal, len(ids))
	for _, id := range ids {
		up["https://"+id+"-staging."+domain] = true
		uptime := 99.95
		stats[id] = types.UptimeSignal{
			Uptime: &uptime,
			Latency: &types.LatencyStats{
				Average: 120,
				Min:     80,
				Max:     400,
				P95:     300,
				P99:     380,
			},
		}
	}
	return engine.Collectors{
		Staging:   &StubStaging{Up: up},
		Security:  &StubSecurity{Pass: true},
		Bugs:      &StubBugs{Critical: 0, MediumPlus: 2, Total: 5},
		Monitors:  &StubMonitors{Stats: stats},
		Analytics: &StubAnalytics{Users: 250},
	}
}
