package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Chat outcomes
const (
	OutcomeAnswered = "answered"
	OutcomeFallback = "fallback"
	OutcomeInvalid  = "invalid"
)

// Metrics groups the counters the API exports at /metrics
type Metrics struct {
	ChatRequests     *prometheus.CounterVec
	StrategyFailures *prometheus.CounterVec
	References       *prometheus.CounterVec
	Uploads          *prometheus.CounterVec
	PetitionsCreated prometheus.Counter
	PetitionFailures prometheus.Counter
}

// New creates the counters and registers them with reg. A nil reg leaves
// them unregistered, which tests rely on.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hukuk_chat_requests_total",
			Help: "Chat requests by outcome.",
		}, []string{"outcome"}),
		StrategyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hukuk_model_strategy_failures_total",
			Help: "Failed model calls by answer strategy and failure reason.",
		}, []string{"strategy", "reason"}),
		References: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hukuk_legal_references_total",
			Help: "Legal references returned to clients, by where they came from.",
		}, []string{"source"}),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hukuk_document_uploads_total",
			Help: "Document uploads by content type and outcome.",
		}, []string{"type", "outcome"}),
		PetitionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hukuk_petitions_generated_total",
			Help: "Petitions generated and stored.",
		}),
		PetitionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hukuk_petition_failures_total",
			Help: "Petition generations that failed after validation.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.ChatRequests,
			m.StrategyFailures,
			m.References,
			m.Uploads,
			m.PetitionsCreated,
			m.PetitionFailures,
		)
	}
	return m
}

// Noop returns unregistered counters
func Noop() *Metrics {
	return New(nil)
}
