package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SubscribersCreated   prometheus.Counter
	SubscribersConfirmed prometheus.Counter
	EmailSendFailures    prometheus.Counter
	RequestDuration      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SubscribersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_subscribers_created_total",
			Help: "Total number of pending subscribers created",
		}),
		SubscribersConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_subscribers_confirmed_total",
			Help: "Total number of subscribers confirmed via token redemption",
		}),
		EmailSendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_confirmation_email_failures_total",
			Help: "Total number of confirmation emails that failed to send after commit",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "newsletter_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncrementSubscribersCreated increments the pending-subscriber counter by 1.
func (m *Metrics) IncrementSubscribersCreated() {
	m.SubscribersCreated.Inc()
}

// IncrementSubscribersConfirmed increments the confirmed-subscriber counter by 1.
func (m *Metrics) IncrementSubscribersConfirmed() {
	m.SubscribersConfirmed.Inc()
}

// IncrementEmailSendFailures increments the failed-email counter by 1.
func (m *Metrics) IncrementEmailSendFailures() {
	m.EmailSendFailures.Inc()
}
