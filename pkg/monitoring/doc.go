// Package monitoring defines the Prometheus collectors of the analyzer and an
// echo middleware that records request metrics. All collectors live in
// Registry, which Handler serves.
package monitoring
