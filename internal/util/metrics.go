package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sessions_active",
		Help: "Number of mounted sessions by kind",
	}, []string{"kind"})

	AuthSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_submissions_total",
		Help: "Total number of simulated sign-in submissions",
	}, []string{"role", "mode"})

	AuthRedirectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_redirects_total",
		Help: "Total number of completed sign-ins by dashboard",
	}, []string{"dashboard"})

	VoiceCapturesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_captures_total",
		Help: "Total number of voice captures by outcome",
	}, []string{"outcome"})

	ParseFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parse_fallbacks_total",
		Help: "Total number of parsed fields that fell back to a default",
	}, []string{"field"})

	VendorOrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vendor_orders_placed_total",
		Help: "Total number of vendor orders confirmed",
	})

	VendorOrdersMatchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vendor_orders_matched_total",
		Help: "Total number of vendor orders bound to a supplier",
	})

	IncomingOrdersDecidedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "incoming_orders_decided_total",
		Help: "Total number of incoming orders accepted or rejected",
	}, []string{"status"})

	StockItemsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_items_added_total",
		Help: "Total number of inventory items added",
	})

	EventsPublishFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_publish_failed_total",
		Help: "Total number of marketplace events that could not be published",
	}, []string{"event_type"})

	ActivityJournaledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "activity_journaled_total",
		Help: "Total number of marketplace events written to the activity journal",
	}, []string{"event_type"})

	IdempotentReplaysTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idempotent_replays_total",
		Help: "Total number of requests answered from a stored idempotency key",
	}, []string{"operation"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
