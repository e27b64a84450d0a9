package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// CommandMetricsCollector handles all command/query execution metrics
type CommandMetricsCollector struct {
	commandDuration *prometheus.HistogramVec
	commandsTotal   *prometheus.CounterVec
}

// NewCommandMetricsCollector creates a new command metrics collector
func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "command_duration_seconds",
				Help:      "Command execution duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"command", "status"},
		),

		// status is success, rejected (a domain refusal) or error
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "commands_total",
				Help:      "Total number of commands executed by type, status and rejection reason",
			},
			[]string{"command", "status", "reason"},
		),
	}
}

// Register registers all command metrics with the Prometheus registry
func (c *CommandMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.commandDuration,
		c.commandsTotal,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordCommandExecution records one command outcome
func (c *CommandMetricsCollector) RecordCommandExecution(commandName string, duration float64, err error) {
	status, reason := commandStatus(err)
	c.commandDuration.WithLabelValues(commandName, status).Observe(duration)
	c.commandsTotal.WithLabelValues(commandName, status, reason).Inc()
}

func commandStatus(err error) (status, reason string) {
	switch reason := shared.RejectionReason(err); reason {
	case "":
		return "success", ""
	case "internal":
		return "error", reason
	default:
		return "rejected", reason
	}
}
