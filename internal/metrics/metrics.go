package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// SubmissionDuration tracks how long the store takes to accept a submission
	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campaign_submission_duration_seconds",
			Help:    "Duration of campaign form submissions in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"outcome"},
	)

	// MessagesGenerated counts messages produced by the language model per campaign run
	MessagesGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campaign_messages_generated_total",
			Help: "Number of campaign messages generated and stored",
		},
	)

	// MessagesSent counts WhatsApp send attempts
	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_messages_sent_total",
			Help: "Number of WhatsApp messages sent, by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordSubmission records the duration of a campaign submission
func RecordSubmission(outcome string, duration float64) {
	SubmissionDuration.WithLabelValues(outcome).Observe(duration)
}

func RecordGenerated(n int) {
	MessagesGenerated.Add(float64(n))
}

func RecordSent(outcome string) {
	MessagesSent.WithLabelValues(outcome).Inc()
}
