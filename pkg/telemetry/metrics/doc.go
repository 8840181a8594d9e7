// Package metrics provides Prometheus metrics for the sigil daemon.
//
// The collector tracks condition evaluation outcomes and latency, the
// compiled-predicate cache, sanitizer rejections, and regex pattern
// validation results. All metrics share a configurable namespace
// (default "sigil") and are exposed through the standard promhttp
// handler:
//
//	collector := metrics.NewCollector(cfg, nil)
//	http.Handle("/metrics", collector.Handler())
//
// Example exposition:
//
//	# HELP sigil_eval_evaluations_total Total number of condition evaluations
//	# TYPE sigil_eval_evaluations_total counter
//	sigil_eval_evaluations_total{outcome="active"} 1234
package metrics
