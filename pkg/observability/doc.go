/*
Package observability provides Prometheus metrics for the pipeline editor.

Metrics are registered on a caller-supplied registerer so tests and embedded
hosts stay isolated from the global default registry. Hooks returns a
domain.LifecycleHooks value that feeds the counters from engine events.
*/
package observability
