package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InvoicesProcessed counts completed extractions by provider and method.
	InvoicesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wildoctave",
		Name:      "invoices_processed_total",
		Help:      "Invoices processed, by provider and extraction method.",
	}, []string{"provider", "method"})

	// ExtractionFallbacks counts structured-to-text fallbacks by reason.
	ExtractionFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wildoctave",
		Name:      "extraction_fallbacks_total",
		Help:      "Structured extraction fallbacks to plain-text OCR.",
	}, []string{"provider", "reason"})

	// PlaceholderResponses counts requests that degraded to a placeholder invoice.
	PlaceholderResponses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wildoctave",
		Name:      "placeholder_responses_total",
		Help:      "Requests that exhausted every extraction path.",
	})

	// EnhancementFailures counts remote enhancement calls that fell back to local rules.
	EnhancementFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wildoctave",
		Name:      "enhancement_failures_total",
		Help:      "Remote enhancement failures handled by the local rule engine.",
	})

	// Exports counts export downloads by format.
	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wildoctave",
		Name:      "exports_total",
		Help:      "Line-item exports, by format.",
	}, []string{"format"})

	// RequestDuration observes wall time of invoice processing requests.
	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wildoctave",
		Name:      "process_request_duration_seconds",
		Help:      "End-to-end invoice processing duration.",
		Buckets:   prometheus.DefBuckets,
	})
)
