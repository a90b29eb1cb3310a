// Package metrics declares the Prometheus collectors of the service. They are
// registered in the default registry and served by the API on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DonationsTotal counts donation status changes by target status.
	DonationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ryv_donations_total",
			Help: "Donation status changes by resulting status",
		},
		[]string{"status", "source"},
	)

	// DonatedAmount accumulates the completed donation amounts in minor units.
	DonatedAmount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ryv_donated_amount_minor_units",
			Help: "Sum of completed donation amounts in minor units",
		},
		[]string{"currency"},
	)

	// RefundsTotal counts refunds by outcome.
	RefundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ryv_refunds_total",
			Help: "Refund attempts by outcome",
		},
		[]string{"outcome"},
	)

	// MilestonesReached counts milestones flipped to completed.
	MilestonesReached = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ryv_milestones_reached_total",
			Help: "Campaign milestones reached",
		},
	)

	// LocalizationLookups counts localization lookups by tier and result.
	LocalizationLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ryv_localization_lookups_total",
			Help: "Localization lookups by cache tier and result",
		},
		[]string{"tier", "result"},
	)

	// WebhookEvents counts processed Stripe webhook events.
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ryv_webhook_events_total",
			Help: "Stripe webhook events by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	// HTTPRequestDuration observes HTTP request durations.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ryv_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	// NotificationsSent counts outbound notifications by channel and outcome.
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ryv_notifications_sent_total",
			Help: "Outbound notifications by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)
)

// RecordDonation records a donation status change.
func RecordDonation(status, source, currency string, amount int64) {
	DonationsTotal.WithLabelValues(status, source).Inc()
	if status == "Completed" {
		DonatedAmount.WithLabelValues(currency).Add(float64(amount))
	}
}

// RecordLocalizationLookup records a lookup on the given tier.
func RecordLocalizationLookup(tier string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	LocalizationLookups.WithLabelValues(tier, result).Inc()
}

// RecordHTTPRequest observes the duration of a served request.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordNotification records an outbound notification.
func RecordNotification(channel string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failed"
	}
	NotificationsSent.WithLabelValues(channel, outcome).Inc()
}
