// Package metrics defines the sinks that record planning runs. Sinks are
// created by type name from configuration: infra/metrics registers the
// "prometheus" and "influx" sinks, and NewSink combines several configured
// sinks into a MultiSink.
package metrics
