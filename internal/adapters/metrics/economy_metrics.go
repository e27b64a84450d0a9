package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EconomyMetricsCollector handles build and resource-flow metrics
type EconomyMetricsCollector struct {
	// Build lifecycle metrics
	buildsStarted   *prometheus.CounterVec
	buildsCompleted *prometheus.CounterVec
	buildsCancelled *prometheus.CounterVec
	buildsRejected  *prometheus.CounterVec
	buildBatchSize  *prometheus.HistogramVec

	// Resource flow metrics
	resourcesMoved *prometheus.CounterVec

	// Sweep metrics
	sweepPlayers  prometheus.Gauge
	sweepDuration prometheus.Histogram
}

// NewEconomyMetricsCollector creates a new economy metrics collector
func NewEconomyMetricsCollector() *EconomyMetricsCollector {
	return &EconomyMetricsCollector{
		buildsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "builds_started_total",
				Help:      "Total number of builds started by track and kind",
			},
			[]string{"track", "kind"},
		),

		buildsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "builds_completed_total",
				Help:      "Total number of builds completed by track and kind",
			},
			[]string{"track", "kind"},
		),

		buildsCancelled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "builds_cancelled_total",
				Help:      "Total number of builds cancelled by track and kind",
			},
			[]string{"track", "kind"},
		),

		buildsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "builds_rejected_total",
				Help:      "Total number of refused build starts by track and reason",
			},
			[]string{"track", "reason"},
		),

		// Units per started build (1 for levelled tracks)
		buildBatchSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "build_batch_size",
				Help:      "Units per started build",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
			[]string{"track"},
		),

		// Absolute amounts; direction is carried by the transaction type
		resourcesMoved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resources_moved_total",
				Help:      "Resources charged, refunded or granted by transaction type and resource",
			},
			[]string{"type", "resource"},
		),

		sweepPlayers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sweep_players",
				Help:      "Players touched by the most recent completion sweep",
			},
		),

		sweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sweep_duration_seconds",
				Help:      "Completion sweep duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
		),
	}
}

// Register registers all economy metrics with the Prometheus registry
func (c *EconomyMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.buildsStarted,
		c.buildsCompleted,
		c.buildsCancelled,
		c.buildsRejected,
		c.buildBatchSize,
		c.resourcesMoved,
		c.sweepPlayers,
		c.sweepDuration,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

func (c *EconomyMetricsCollector) RecordBuildStarted(track, kind string, amount int) {
	c.buildsStarted.WithLabelValues(track, kind).Inc()
	c.buildBatchSize.WithLabelValues(track).Observe(float64(amount))
}

func (c *EconomyMetricsCollector) RecordBuildCompleted(track, kind string, amount int) {
	c.buildsCompleted.WithLabelValues(track, kind).Inc()
}

func (c *EconomyMetricsCollector) RecordBuildCancelled(track, kind string, amount int) {
	c.buildsCancelled.WithLabelValues(track, kind).Inc()
}

func (c *EconomyMetricsCollector) RecordBuildRejected(track, reason string) {
	c.buildsRejected.WithLabelValues(track, reason).Inc()
}

// RecordResourceMovement adds the absolute amount; zero amounts are skipped
func (c *EconomyMetricsCollector) RecordResourceMovement(transactionType, resource string, amount int64) {
	if amount == 0 {
		return
	}
	if amount < 0 {
		amount = -amount
	}
	c.resourcesMoved.WithLabelValues(transactionType, resource).Add(float64(amount))
}

func (c *EconomyMetricsCollector) RecordSweep(players int, duration float64) {
	c.sweepPlayers.Set(float64(players))
	c.sweepDuration.Observe(duration)
}
