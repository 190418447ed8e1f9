// Package metrics exposes runtime counters via expvar.
package metrics

import "expvar"

var (
	EvaluationsTotal      = expvar.NewInt("evaluations_total")
	EvaluationErrors      = expvar.NewInt("evaluation_errors")
	CollectorErrors       = expvar.NewInt("collector_errors")
	MonitorCacheHits      = expvar.NewInt("monitor_cache_hits")
	MonitorCacheMisses    = expvar.NewInt("monitor_cache_misses")
	MonitorCacheRefreshes = expvar.NewInt("monitor_cache_refreshes")
	UserFieldWrites       = expvar.NewInt("user_field_writes")
)
