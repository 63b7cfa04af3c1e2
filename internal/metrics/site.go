package metrics

import "github.com/prometheus/client_golang/prometheus"

// Site Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nicsite",
			Name:      "search_queries_total",
			Help:      "Total number of search queries",
		},
		[]string{"outcome"}, // inactive, hit, miss
	)

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nicsite",
			Name:      "scan_request_submissions_total",
			Help:      "Total number of scan request submissions",
		},
		[]string{"outcome"}, // success, validation_failed, bot, in_flight, delivery_failed
	)

	ManifestLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nicsite",
			Name:      "manifest_loads_total",
			Help:      "Total number of site manifest load attempts",
		},
		[]string{"status"}, // ok, error
	)

	MailRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nicsite",
			Name:      "mail_requests_total",
			Help:      "Total number of mail provider requests",
		},
		[]string{"status"}, // success, config_error, template_error, auth_error, unreachable, error
	)

	MailRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nicsite",
			Name:      "mail_request_duration_seconds",
			Help:      "Mail provider request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	SearchIndexSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nicsite",
			Name:      "search_index_records",
			Help:      "Number of records in the site search index",
		},
	)
)

// RegisterSiteMetrics registers domain metrics explicitly (no init()).
func RegisterSiteMetrics() {
	prometheus.MustRegister(SearchQueriesTotal)
	prometheus.MustRegister(SubmissionsTotal)
	prometheus.MustRegister(ManifestLoadsTotal)
	prometheus.MustRegister(MailRequestsTotal)
	prometheus.MustRegister(MailRequestDuration)
	prometheus.MustRegister(SearchIndexSize)
}
