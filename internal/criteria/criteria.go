// Package criteria converts raw signal sets into the fixed pass/fail criteria.
package criteria

import "github.com/dooor-ai/readiness/pkg/types"

// Thresholds are deliberately constants, not configuration: the criterion set
// and its meaning must be identical for every product so scores stay
// comparable.
const (
	uptimeReadyPct    = 99.0
	uptimeWarnPct     = 95.0
	latencyAvgTightMS = 500.0
	latencyAvgLooseMS = 1000.0
	latencyP95MS      = 1500.0
	bugsMediumPlusMax = 5
	bugsTotalMax      = 10
	usersTier1        = 0
	usersTier2        = 10
	usersTier3        = 100
)

// Normalize derives the fixed criterion set from a signal set. An absent
// signal fails every criterion that depends on it — missing data never counts
// as passing.
func Normalize(s types.SignalSet) types.CriteriaSet {
	cs := make(types.CriteriaSet, len(types.AllCriteria))

	cs[types.CriterionStaging] = s.StagingAlive
	cs[types.CriterionSecurityHeaders] = s.SecurityHeaders

	cs[types.CriterionBugsCritical] = s.BugsCritical != nil && *s.BugsCritical == 0
	cs[types.CriterionBugsMediumPlus] = s.BugsMediumPlus != nil && *s.BugsMediumPlus <= bugsMediumPlusMax
	cs[types.CriterionBugsAll] = s.BugsTotal != nil && *s.BugsTotal <= bugsTotalMax

	cs[types.CriterionUptime99] = s.Uptime != nil && *s.Uptime >= uptimeReadyPct
	cs[types.CriterionUptime95] = s.Uptime != nil && *s.Uptime >= uptimeWarnPct

	cs[types.CriterionLatencyAvg500] = s.Latency != nil && s.Latency.Average < latencyAvgTightMS
	cs[types.CriterionLatencyAvg1000] = s.Latency != nil && s.Latency.Average < latencyAvgLooseMS
	cs[types.CriterionLatencyP95] = s.Latency != nil && s.Latency.P95 < latencyP95MS

	cs[types.CriterionActiveUsers1] = s.ActiveUsers != nil && *s.ActiveUsers > usersTier1
	cs[types.CriterionActiveUsers2] = s.ActiveUsers != nil && *s.ActiveUsers > usersTier2
	cs[types.CriterionActiveUsers3] = s.ActiveUsers != nil && *s.ActiveUsers > usersTier3

	return cs
}
