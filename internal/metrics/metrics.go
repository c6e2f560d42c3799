package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rbmgw_webhook_events_total",
			Help: "Inbound webhook events by classification and outcome",
		},
		[]string{"classification", "outcome"}, // message|receipt|... , accepted|rejected
	)

	SignatureFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rbmgw_signature_failures_total",
			Help: "Requests rejected for missing or invalid signatures",
		},
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		WebhookEventsTotal,
		SignatureFailuresTotal,
	)
}
