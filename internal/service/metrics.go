package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reviewsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviews_submitted_total",
		Help: "Total number of successfully submitted reviews",
	})

	reviewAppendFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "review_append_failures_total",
		Help: "Total number of review submissions rejected by the store",
	})

	reviewValidationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "review_validation_failures_total",
		Help: "Total number of review submissions rejected by validation",
	})

	feedLiveEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_live_events_total",
		Help: "Total number of added-record events received from the store",
	})

	feedDuplicateEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_duplicate_events_total",
		Help: "Total number of added-record events dropped as duplicates",
	})

	contactForwardedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contact_forwarded_total",
		Help: "Total number of contact submissions forwarded upstream",
	})

	contactForwardFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contact_forward_failures_total",
		Help: "Total number of contact forwarding failures",
	})
)
