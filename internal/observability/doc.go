// Package observability exposes run metrics to Prometheus.
package observability
