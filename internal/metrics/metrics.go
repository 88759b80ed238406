package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mileage_recorder"

// Outcome label values for WebhookRequests
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)

var (
	AppMessagesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appmessages_received_total",
		Help:      "Total number of app messages delivered by the watch",
	})

	ReadingsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "readings_rejected_total",
		Help:      "Total number of app messages rejected by strict validation",
	})

	WebhookRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_requests_total",
		Help:      "Total number of webhook requests by outcome",
	}, []string{"outcome"})

	WebhookLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "webhook_request_duration_seconds",
		Help:      "Latency of webhook requests",
		Buckets:   prometheus.DefBuckets,
	})
)
