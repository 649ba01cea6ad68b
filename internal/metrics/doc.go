// Package metrics provides the build observability hooks: a Recorder
// interface consumed by the pipeline, a no-op default, and a Prometheus
// implementation served in daemon mode.
package metrics
