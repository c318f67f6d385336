package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "constellation"

// Graph source names used as label values.
const (
	SourceTemplate = "template"
	SourceGeneric  = "generic"
	SourceModel    = "model"
)

var (
	// GraphsServed counts graphs handed out. Labels: source.
	GraphsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "graph",
		Name:      "served_total",
		Help:      "Graphs returned to callers by source",
	}, []string{"source"})

	// ValidationFailures counts rejected graphs. Labels: origin
	// (internal, external), kind.
	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "graph",
		Name:      "validation_failures_total",
		Help:      "Graphs rejected by the validator",
	}, []string{"origin", "kind"})

	// SourceRequests counts calls to the external model source. Labels:
	// outcome (ok, retryable_error, rejected).
	SourceRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "requests_total",
		Help:      "Calls to the external graph source",
	}, []string{"outcome"})

	// SourceDuration measures a single external source call.
	SourceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "duration_seconds",
		Help:      "Latency of a single external source call",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	})

	// Fallbacks counts generations answered by the local pipeline after
	// the external source failed. Labels: kind.
	Fallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "fallbacks_total",
		Help:      "Generations that fell back to local graphs",
	}, []string{"kind"})
)
