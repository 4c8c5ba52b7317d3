// Package metrics publishes engine counters via the standard library's
// expvar facility. Counters cover preview compiles, isolated transform
// failures, tool-call batches by operation, and reconciler merges. The
// server binary renders these in Prometheus text exposition format.
package metrics
