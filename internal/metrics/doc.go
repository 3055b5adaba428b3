// Package metrics records task timings and outcomes of asset builds.
//
// Components receive a Recorder and default to NoopRecorder, so nothing has
// to check for a nil recorder:
//
//	svc := build.NewService(fs)                                    // no metrics
//	svc = svc.WithRecorder(metrics.NewPrometheusRecorder(registry)) // Prometheus
//
// Builds are short-lived processes, so metrics are not served over HTTP.
// WriteTextfile writes a registry in the node exporter textfile format
// instead, to be picked up by its textfile collector.
package metrics
