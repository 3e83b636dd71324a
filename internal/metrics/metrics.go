// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus collectors for the lifecount service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Lifecycle metrics
	phaseEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecount_phase_entries_total",
		Help: "Phase-entry notifications received, by phase",
	}, []string{"phase"})

	phaseCounts = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lifecount_phase_counts",
		Help: "Current accumulated count per phase",
	}, []string{"phase"})

	illegalTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecount_illegal_transitions_total",
		Help: "Phase entries inconsistent with the lifecycle machine, by transition",
	}, []string{"from", "to"})

	resetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lifecount_resets_total",
		Help: "Explicit counter resets",
	})

	// Persistence metrics
	restoreTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecount_restore_total",
		Help: "Snapshot restore attempts by outcome",
	}, []string{"outcome"}) // outcome=restored|empty|corrupt

	storeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecount_store_errors_total",
		Help: "Snapshot store failures by operation",
	}, []string{"operation"}) // operation=save|load

	journalErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lifecount_journal_errors_total",
		Help: "Journal append failures",
	})

	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecount_http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "route", "code"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lifecount_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

// RecordPhaseEntry counts one received phase-entry notification and moves
// the per-phase gauge to the new accumulated count.
func RecordPhaseEntry(phase string, newCount int64) {
	phaseEntriesTotal.WithLabelValues(phase).Inc()
	phaseCounts.WithLabelValues(phase).Set(float64(newCount))
}

// SetPhaseCount updates the per-phase gauge without counting an entry,
// used after restore and reset.
func SetPhaseCount(phase string, count int64) {
	phaseCounts.WithLabelValues(phase).Set(float64(count))
}

// RecordIllegalTransition counts a delivery that no legal walk of the
// external machine would produce.
func RecordIllegalTransition(from, to string) {
	illegalTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordReset counts an explicit counter reset.
func RecordReset() {
	resetsTotal.Inc()
}

// RecordRestore counts a restore attempt. Outcome is one of "restored",
// "empty" or "corrupt".
func RecordRestore(outcome string) {
	restoreTotal.WithLabelValues(outcome).Inc()
}

// RecordStoreError counts a snapshot store failure for the given
// operation ("save" or "load").
func RecordStoreError(operation string) {
	storeErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordJournalError counts a journal append failure.
func RecordJournalError() {
	journalErrorsTotal.Inc()
}

// RecordHTTPRequest counts a completed HTTP request and observes its
// latency.
func RecordHTTPRequest(method, route, code string, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, route, code).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(seconds)
}
