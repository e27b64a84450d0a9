package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "colony"
	// Subsystem for economy engine metrics
	subsystem = "economy"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalEconomyCollector is the singleton economy metrics collector
	// Set by SetGlobalEconomyCollector() when metrics are enabled
	globalEconomyCollector EconomyMetricsRecorder
)

// EconomyMetricsRecorder defines the interface for recording economy events.
// Application code records through the package-level Record* functions.
type EconomyMetricsRecorder interface {
	RecordBuildStarted(track, kind string, amount int)
	RecordBuildCompleted(track, kind string, amount int)
	RecordBuildCancelled(track, kind string, amount int)
	RecordBuildRejected(track, reason string)
	RecordResourceMovement(transactionType, resource string, amount int64)
	RecordSweep(players int, duration float64)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalEconomyCollector sets the global economy metrics collector
func SetGlobalEconomyCollector(collector EconomyMetricsRecorder) {
	globalEconomyCollector = collector
}

// RecordBuildStarted records an accepted build globally
func RecordBuildStarted(track, kind string, amount int) {
	if globalEconomyCollector != nil {
		globalEconomyCollector.RecordBuildStarted(track, kind, amount)
	}
}

// RecordBuildCompleted records a resolved build globally
func RecordBuildCompleted(track, kind string, amount int) {
	if globalEconomyCollector != nil {
		globalEconomyCollector.RecordBuildCompleted(track, kind, amount)
	}
}

// RecordBuildCancelled records a cancelled build globally
func RecordBuildCancelled(track, kind string, amount int) {
	if globalEconomyCollector != nil {
		globalEconomyCollector.RecordBuildCancelled(track, kind, amount)
	}
}

// RecordBuildRejected records a refused build start globally
func RecordBuildRejected(track, reason string) {
	if globalEconomyCollector != nil {
		globalEconomyCollector.RecordBuildRejected(track, reason)
	}
}

// RecordResourceMovement records one commodity of a ledger transaction globally
func RecordResourceMovement(transactionType, resource string, amount int64) {
	if globalEconomyCollector != nil {
		globalEconomyCollector.RecordResourceMovement(transactionType, resource, amount)
	}
}

// RecordSweep records one completion sweep globally
func RecordSweep(players int, duration float64) {
	if globalEconomyCollector != nil {
		globalEconomyCollector.RecordSweep(players, duration)
	}
}
