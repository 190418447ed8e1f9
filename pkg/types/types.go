// Package types defines the public domain types for the product readiness service.
package types

import "time"

// Product is one catalog entry. The catalog file is the single source of truth
// for which products exist; everything else references products by ID.
type Product struct {
	ID          string           `yaml:"id" json:"id"`
	Name        string           `yaml:"name" json:"name"`
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
	JiraProject string           `yaml:"jiraProject,omitempty" json:"-"`
	Analytics   *AnalyticsConfig `yaml:"analytics,omitempty" json:"-"`
}

// BugProject returns the issue-tracker project key for the product,
// defaulting to the product ID when none is configured.
func (p Product) BugProject() string {
	if p.JiraProject != "" {
		return p.JiraProject
	}
	return p.ID
}

// AnalyticsConfig declares a product's analytics capability. Products without
// one have no analytics signal at all, as opposed to zero users.
type AnalyticsConfig struct {
	Provider  string `yaml:"provider" json:"provider"`
	ProjectID string `yaml:"projectId" json:"projectId"`
	Event     string `yaml:"event,omitempty" json:"event,omitempty"`
}

// LatencyStats holds response-time statistics in milliseconds, derived
// client-side from the monitor's recent raw samples.
type LatencyStats struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	P95     float64 `json:"p95"`
	P99     float64 `json:"p99"`
}

// UptimeSignal is the monitor-derived slice of a SignalSet. Nil fields mean
// the upstream had no data for the product.
type UptimeSignal struct {
	Uptime  *float64      `json:"uptime,omitempty"`
	Latency *LatencyStats `json:"latency,omitempty"`
}

// SignalSet holds the raw collector outputs for one product at one point in
// time. Nil pointers mean "upstream unavailable", which is distinct from a
// real zero: an absent uptime must never read as 0% uptime.
type SignalSet struct {
	StagingAlive    bool
	BugsCritical    *int
	BugsMediumPlus  *int
	BugsTotal       *int
	Uptime          *float64
	Latency         *LatencyStats
	SecurityHeaders bool
	ActiveUsers     *int
}

// CriteriaSet maps each fixed criterion to its pass/fail outcome. Every
// evaluation produces the same key set (see AllCriteria), so scores are
// comparable across products.
type CriteriaSet map[Criterion]bool

// UserFields are the user-editable fields attached to a readiness record.
// They are owned by the userfields store, never derived.
type UserFields struct {
	Stage        string `json:"stage,omitempty" dynamodbav:"stage,omitempty"`
	Observations string `json:"observations,omitempty" dynamodbav:"observations,omitempty"`
}

// ReadinessRecord is the externally visible evaluation result for one product.
// It is pure derived state, recomputed on every request and never persisted.
type ReadinessRecord struct {
	ID             string      `json:"evaluationId"`
	ProductID      string      `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description,omitempty"`
	Stage          string      `json:"stage,omitempty"`
	Observations   string      `json:"observations,omitempty"`
	Status         Status      `json:"status"`
	ReadinessScore float64     `json:"readinessScore"`
	URL            string      `json:"url"`
	Criteria       CriteriaSet `json:"criteria"`
	EvaluatedAt    time.Time   `json:"evaluatedAt"`
}

// HeaderCheck records the presence of one security header on a response.
type HeaderCheck struct {
	Present bool   `json:"present"`
	Value   string `json:"value,omitempty"`
}

// SecurityReport is the detailed per-header view behind the security_headers
// criterion.
type SecurityReport struct {
	URL        string                 `json:"url"`
	StatusCode int                    `json:"statusCode"`
	Headers    map[string]HeaderCheck `json:"headers"`
	Passed     bool                   `json:"passed"`
}
