// Package metrics holds the Prometheus collectors for publishing, domain
// and cleanup activity. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backlink"

// Publish outcomes.
const (
	OutcomePublished = "published"
	OutcomeExisting  = "existing"
	OutcomeFailed    = "failed"
)

// Metrics is the set of domain collectors.
type Metrics struct {
	postsPublished  *prometheus.CounterVec
	contentSource   *prometheus.CounterVec
	aliasPatches    *prometheus.CounterVec
	domainsAdded    prometheus.Counter
	duplicates      *prometheus.CounterVec
	vendorDuration  *prometheus.HistogramVec
	schemaFallbacks *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		postsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_published_total",
			Help:      "Publish attempts by outcome",
		}, []string{"outcome"}),
		contentSource: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "post_content_source_total",
			Help:      "Published post bodies by source (request, llm, fallback)",
		}, []string{"source"}),
		aliasPatches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_alias_patches_total",
			Help:      "Hosting site alias updates by operation",
		}, []string{"operation"}),
		domainsAdded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domains_added_total",
			Help:      "Hostnames newly attached to the hosting site",
		}),
		duplicates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_posts_removed_total",
			Help:      "Duplicate blog posts removed by table and mode",
		}, []string{"table", "mode"}),
		vendorDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vendor_request_duration_seconds",
			Help:      "Outbound vendor API latency",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"vendor", "operation", "result"}),
		schemaFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_column_fallbacks_total",
			Help:      "Inserts retried without a column missing from the schema",
		}, []string{"table", "column"}),
	}
}

// PostPublished counts a publish attempt.
func (m *Metrics) PostPublished(outcome string) {
	if m == nil {
		return
	}
	m.postsPublished.WithLabelValues(outcome).Inc()
}

// ContentSource counts where a post body came from.
func (m *Metrics) ContentSource(source string) {
	if m == nil {
		return
	}
	m.contentSource.WithLabelValues(source).Inc()
}

// AliasPatched counts a PATCH of the hosting site's alias list.
func (m *Metrics) AliasPatched(operation string) {
	if m == nil {
		return
	}
	m.aliasPatches.WithLabelValues(operation).Inc()
}

// DomainsAdded counts hostnames newly attached.
func (m *Metrics) DomainsAdded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.domainsAdded.Add(float64(n))
}

// DuplicatesRemoved counts removed duplicates.
func (m *Metrics) DuplicatesRemoved(table, mode string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.duplicates.WithLabelValues(table, mode).Add(float64(n))
}

// SchemaFallback counts an insert retried without column.
func (m *Metrics) SchemaFallback(table, column string) {
	if m == nil {
		return
	}
	m.schemaFallbacks.WithLabelValues(table, column).Inc()
}

// ObserveVendor records the latency of one vendor call started at start.
func (m *Metrics) ObserveVendor(vendor, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.vendorDuration.WithLabelValues(vendor, operation, result).Observe(time.Since(start).Seconds())
}
