package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors that are fed by [Metrics.Hook].
type Metrics struct {
	runs     *prometheus.CounterVec
	entries  *prometheus.CounterVec
	bytes    prometheus.Counter
	duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raita",
			Subsystem: "extract",
			Name:      "runs_total",
			Help:      "Processed archives by outcome.",
		}, []string{"outcome"}),
		entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "raita",
			Subsystem: "extract",
			Name:      "entries_total",
			Help:      "Archive entries by outcome.",
		}, []string{"outcome"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "raita",
			Subsystem: "extract",
			Name:      "uploaded_bytes_total",
			Help:      "Uncompressed bytes relayed to the destination store.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "raita",
			Subsystem: "extract",
			Name:      "run_duration_seconds",
			Help:      "Duration of archive runs.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
	}

	for _, c := range []prometheus.Collector{m.runs, m.entries, m.bytes, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hook returns a [TelemetryHook] that updates the collectors from [Data].
func (m *Metrics) Hook() TelemetryHook {
	return func(ctx context.Context, d *Data) {
		outcome := "complete"
		switch {
		case d.OpenFailed:
			outcome = "open_error"
		case d.StreamError != nil:
			outcome = "stream_error"
		}
		m.runs.WithLabelValues(outcome).Inc()
		m.entries.WithLabelValues("uploaded").Add(float64(d.UploadedEntries))
		m.entries.WithLabelValues("failed").Add(float64(d.FailedEntries))
		m.entries.WithLabelValues("skipped_dir").Add(float64(d.SkippedDirs))
		m.entries.WithLabelValues("skipped_media").Add(float64(d.SkippedMedia))
		m.bytes.Add(float64(d.UploadedBytes))
		m.duration.Observe(d.Duration.Seconds())
	}
}
