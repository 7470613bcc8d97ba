// Package telemetry provides a way to capture telemetry data during the archive processing.
//
// The package provides a struct type [Data] that holds all telemetry data of one run,
// and hooks that forward [Data] to Amazon EventBridge or Prometheus.
package telemetry
