package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lws_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lws_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	BookingSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lws_booking_submissions_total",
			Help: "Booking submissions by outcome",
		},
		[]string{"outcome"},
	)

	ConfirmationEmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lws_confirmation_emails_total",
			Help: "Confirmation email attempts by status",
		},
		[]string{"status"},
	)

	ConfirmationSMSTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lws_confirmation_sms_total",
			Help: "Confirmation SMS attempts by status",
		},
		[]string{"status"},
	)

	ContactMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lws_contact_messages_total",
			Help: "Contact form submissions by status",
		},
		[]string{"status"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lws_active_sessions",
			Help: "Booking wizard sessions currently held",
		},
	)
)

func RecordHTTPRequest(method, route, status string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func RecordBookingSubmission(outcome string) {
	BookingSubmissionsTotal.WithLabelValues(outcome).Inc()
}

func RecordConfirmationEmail(status string) {
	ConfirmationEmailsTotal.WithLabelValues(status).Inc()
}

func RecordConfirmationSMS(status string) {
	ConfirmationSMSTotal.WithLabelValues(status).Inc()
}

func RecordContactMessage(status string) {
	ContactMessagesTotal.WithLabelValues(status).Inc()
}
