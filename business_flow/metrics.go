package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reviewPagesServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_pages_served_total",
			Help: "Review pages served, by result (rows, empty, error)",
		},
		[]string{"result"},
	)
	reviewSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_submissions_total",
			Help: "Review submissions, by result (completed, partial, none_selected, rejected)",
		},
		[]string{"result"},
	)
	reviewStepFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_step_failures_total",
			Help: "Failed submission steps, by step",
		},
		[]string{"step"},
	)
	reviewEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_emails_total",
			Help: "Review notification emails sent, by recipient kind (supervisor, fallback)",
		},
		[]string{"recipient"},
	)
)
