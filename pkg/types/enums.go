package types

// Status is the tri-state readiness status of a product.
type Status string

// Status values. The scorer only ever derives Ready or Blocked — the two are
// exhaustive over boolean criteria. InProgress stays in the vocabulary because
// the dashboard contract names it, but nothing in this codebase produces it.
const (
	StatusReady      Status = "ready"
	StatusBlocked    Status = "blocked"
	StatusInProgress Status = "in-progress"
)

// Criterion names one fixed pass/fail check derived from a raw signal.
type Criterion string

// The fixed criterion set. Identical for every product, every evaluation.
const (
	CriterionStaging         Criterion = "staging"
	CriterionBugsCritical    Criterion = "bugs_critical"
	CriterionBugsMediumPlus  Criterion = "bugs_medium_plus"
	CriterionBugsAll         Criterion = "bugs_all"
	CriterionUptime99        Criterion = "uptime_99"
	CriterionUptime95        Criterion = "uptime_95"
	CriterionLatencyAvg500   Criterion = "latency_avg_500"
	CriterionLatencyAvg1000  Criterion = "latency_avg_1000"
	CriterionLatencyP95      Criterion = "latency_p95"
	CriterionSecurityHeaders Criterion = "security_headers"
	CriterionActiveUsers1    Criterion = "active_users_1"
	CriterionActiveUsers2    Criterion = "active_users_2"
	CriterionActiveUsers3    Criterion = "active_users_3"
)

// AllCriteria lists every criterion in canonical order.
var AllCriteria = []Criterion{
	CriterionStaging,
	CriterionBugsCritical,
	CriterionBugsMediumPlus,
	CriterionBugsAll,
	CriterionUptime99,
	CriterionUptime95,
	CriterionLatencyAvg500,
	CriterionLatencyAvg1000,
	CriterionLatencyP95,
	CriterionSecurityHeaders,
	CriterionActiveUsers1,
	CriterionActiveUsers2,
	CriterionActiveUsers3,
}

// Stage vocabulary for the user-editable stage field.
const (
	StageDiscovery   = "discovery"
	StageDevelopment = "development"
	StageBeta        = "beta"
	StageGA          = "ga"
	StageSunset      = "sunset"
)

// ValidStage reports whether s is one of the known stage values.
func ValidStage(s string) bool {
	switch s {
	case StageDiscovery, StageDevelopment, StageBeta, StageGA, StageSunset:
		return true
	}
	return false
}
