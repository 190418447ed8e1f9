// Package engine implements the core readiness evaluation logic: fan out to
// every signal collector for a product, normalize the results into the fixed
// criteria set, and assemble the readiness record.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/dooor-ai/readiness/internal/catalog"
	"github.com/dooor-ai/readiness/internal/criteria"
	"github.com/dooor-ai/readiness/internal/metrics"
	"github.com/dooor-ai/readiness/internal/scoring"
	"github.com/dooor-ai/readiness/internal/signal"
	"github.com/dooor-ai/readiness/internal/userfields"
	"github.com/dooor-ai/readiness/pkg/types"
)

// ErrProductNotFound is returned when the requested id is not in the catalog.
// It is the only hard failure an evaluation can produce; everything else
// degrades into failing criteria.
var ErrProductNotFound = errors.New("product not found")

// defaultParallelism bounds concurrent product evaluations in EvaluateAll.
const defaultParallelism = 4

// StagingProber reports whether a product's staging deployment answers.
type StagingProber interface {
	Alive(ctx context.Context, url string) bool
}

// SecurityInspector checks security headers on a product URL.
type SecurityInspector interface {
	Check(ctx context.Context, url string) bool
	Report(ctx context.Context, url string) (*types.SecurityReport, error)
}

// BugCounter counts open bugs for a project. ok=false means unavailable.
type BugCounter interface {
	OpenBugsByPriority(ctx context.Context, project string, priorities []string) (int, bool)
	OpenBugs(ctx context.Context, project string) (int, bool)
}

// AnalyticsClient resolves active users for a product's analytics capability.
type AnalyticsClient interface {
	ActiveUsers(ctx context.Context, capability *types.AnalyticsConfig) (int, bool)
}

// MonitorSource resolves uptime and latency, batched or per product.
type MonitorSource interface {
	AllProductStats(ctx context.Context, ids []string) map[string]types.UptimeSignal
	ProductStats(ctx context.Context, id string) types.UptimeSignal
	Clear()
}

// Collectors bundles the signal sources the engine fans out to.
type Collectors struct {
	Staging   StagingProber
	Security  SecurityInspector
	Bugs      BugCounter
	Monitors  MonitorSource
	Analytics AnalyticsClient
}

// Engine is the evaluation orchestrator. It is the only component that knows
// about every signal type.
type Engine struct {
	catalog      *catalog.Catalog
	store        userfields.Store
	collectors   Collectors
	domain       string
	parallelism  int
	logger       *slog.Logger
	tracer       trace.Tracer
	evalDuration otelmetric.Float64Histogram
}

// New creates an evaluation engine over the given catalog, user-fields store,
// and collectors. Staging and public URLs derive from domain.
func New(cat *catalog.Catalog, store userfields.Store, collectors Collectors, domain string) *Engine {
	meter := otel.Meter("readiness/engine")
	evalDuration, err := meter.Float64Histogram("readiness.evaluation.duration",
		otelmetric.WithDescription("Wall time of a single product evaluation"),
		otelmetric.WithUnit("s"))
	if err != nil {
		slog.Default().Warn("creating evaluation histogram", "error", err)
	}

	return &Engine{
		catalog:      cat,
		store:        store,
		collectors:   collectors,
		domain:       domain,
		parallelism:  defaultParallelism,
		logger:       slog.Default(),
		tracer:       otel.Tracer("readiness/engine"),
		evalDuration: evalDuration,
	}
}

// SetLogger overrides the default logger.
func (e *Engine) SetLogger(l *slog.Logger) {
	if l != nil {
		e.logger = l
	}
}

// Catalog exposes the product catalog to the API layer.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Evaluate computes the readiness record for one product. The monitor source
// is consulted per product since no pre-fetched batch exists.
func (e *Engine) Evaluate(ctx context.Context, productID string) (*types.ReadinessRecord, error) {
	p, ok := e.catalog.Get(productID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return e.evaluateProduct(ctx, p, nil), nil
}

// EvaluateAll evaluates the whole catalog. The monitor cache is pre-warmed
// with one batch call, then products are evaluated concurrently; the returned
// slice always follows catalog order.
func (e *Engine) EvaluateAll(ctx context.Context) []*types.ReadinessRecord {
	products := e.catalog.Products()
	batch := e.collectors.Monitors.AllProductStats(ctx, e.catalog.IDs())

	records := make([]*types.ReadinessRecord, len(products))
	g := new(errgroup.Group)
	g.SetLimit(e.parallelism)
	for i, p := range products {
		g.Go(func() error {
			records[i] = e.evaluateProduct(ctx, p, batch)
			return nil
		})
	}
	_ = g.Wait() // evaluations never return errors; failures degrade into criteria
	return records
}

// SecurityReport returns the detailed security-header view for one product.
func (e *Engine) SecurityReport(ctx context.Context, productID string) (*types.SecurityReport, error) {
	p, ok := e.catalog.Get(productID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return e.collectors.Security.Report(ctx, e.stagingURL(p.ID))
}

// RefreshMonitors drops the monitor cache, forcing the next evaluation to
// fetch fresh uptime data.
func (e *Engine) RefreshMonitors() {
	e.collectors.Monitors.Clear()
}

// evaluateProduct runs the three stages for one product: fan-out, normalize,
// assemble. batch, when non-nil, supplies pre-fetched uptime data so the
// monitor upstream is not consulted again.
func (e *Engine) evaluateProduct(ctx context.Context, p types.Product, batch map[string]types.UptimeSignal) *types.ReadinessRecord {
	ctx, span := e.tracer.Start(ctx, "engine.evaluate",
		trace.WithAttributes(attribute.String("product.id", p.ID)))
	defer span.End()
	start := time.Now()

	url := e.stagingURL(p.ID)
	project := p.BugProject()

	// Fan-out: all collectors run concurrently; none may block or fail
	// another. Each goroutine writes a distinct field.
	var sig types.SignalSet
	var fields types.UserFields

	g := new(errgroup.Group)
	g.Go(func() error {
		sig.StagingAlive = e.collectors.Staging.Alive(ctx, url)
		return nil
	})
	g.Go(func() error {
		if n, ok := e.collectors.Bugs.OpenBugsByPriority(ctx, project, signal.CriticalPriorities); ok {
			sig.BugsCritical = &n
		}
		return nil
	})
	g.Go(func() error {
		if n, ok := e.collectors.Bugs.OpenBugsByPriority(ctx, project, signal.MediumPlusPriorities); ok {
			sig.BugsMediumPlus = &n
		}
		return nil
	})
	g.Go(func() error {
		if n, ok := e.collectors.Bugs.OpenBugs(ctx, project); ok {
			sig.BugsTotal = &n
		}
		return nil
	})
	g.Go(func() error {
		var us types.UptimeSignal
		if batch != nil {
			us = batch[p.ID]
		} else {
			us = e.collectors.Monitors.ProductStats(ctx, p.ID)
		}
		sig.Uptime, sig.Latency = us.Uptime, us.Latency
		return nil
	})
	g.Go(func() error {
		sig.SecurityHeaders = e.collectors.Security.Check(ctx, url)
		return nil
	})
	g.Go(func() error {
		if n, ok := e.collectors.Analytics.ActiveUsers(ctx, p.Analytics); ok {
			sig.ActiveUsers = &n
		}
		return nil
	})
	g.Go(func() error {
		f, err := e.store.Get(ctx, p.ID)
		if err != nil {
			metrics.EvaluationErrors.Add(1)
			e.logger.Warn("loading user fields", "product", p.ID, "error", err)
			return nil
		}
		fields = f
		return nil
	})
	_ = g.Wait()

	// Normalize and assemble.
	cs := criteria.Normalize(sig)
	score, status := scoring.Score(cs)

	metrics.EvaluationsTotal.Add(1)
	if e.evalDuration != nil {
		e.evalDuration.Record(ctx, time.Since(start).Seconds(),
			otelmetric.WithAttributes(attribute.String("product.id", p.ID)))
	}
	span.SetAttributes(
		attribute.String("readiness.status", string(status)),
		attribute.Float64("readiness.score", score),
	)

	return &types.ReadinessRecord{
		ID:             ulid.Make().String(),
		ProductID:      p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Stage:          fields.Stage,
		Observations:   fields.Observations,
		Status:         status,
		ReadinessScore: score,
		URL:            url,
		Criteria:       cs,
		EvaluatedAt:    time.Now(),
	}
}

func (e *Engine) stagingURL(productID string) string {
	return fmt.Sprintf("https://%s-staging.%s", productID, e.domain)
}
