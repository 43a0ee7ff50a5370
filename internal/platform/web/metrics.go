package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/mathfacts/internal/drill"
)

// Metrics holds the server's Prometheus collectors. Each server gets its own
// registry so tests can build as many servers as they like.
type Metrics struct {
	registry       *prometheus.Registry
	answers        *prometheus.CounterVec
	levelEvents    *prometheus.CounterVec
	activeSessions prometheus.GaugeFunc
}

// NewMetrics creates and registers the collectors. active reports the number
// of live sessions at scrape time.
func NewMetrics(active func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mathfacts_answers_total",
			Help: "Answers submitted, by result.",
		}, []string{"result"}),
		levelEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mathfacts_level_events_total",
			Help: "Level starts, restarts, advances and wins.",
		}, []string{"event"}),
		activeSessions: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "mathfacts_active_sessions",
			Help: "Browser sessions currently held in memory.",
		}, func() float64 { return float64(active()) }),
	}

	m.registry.MustRegister(
		m.answers,
		m.levelEvents,
		m.activeSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveStart counts a level chosen from the selector.
func (m *Metrics) ObserveStart() {
	m.levelEvents.WithLabelValues("start").Inc()
}

// ObserveOutcome counts one Submit result.
func (m *Metrics) ObserveOutcome(out drill.Outcome) {
	switch {
	case !out.Valid:
		m.answers.WithLabelValues("invalid").Inc()
	case out.Correct:
		m.answers.WithLabelValues("correct").Inc()
	default:
		m.answers.WithLabelValues("incorrect").Inc()
	}

	switch {
	case out.Won:
		m.levelEvents.WithLabelValues("win").Inc()
	case out.Advanced:
		m.levelEvents.WithLabelValues("advance").Inc()
	case out.Restarted:
		m.levelEvents.WithLabelValues("restart").Inc()
	}
}
