// Package metrics holds the Prometheus collectors of the host.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tournament_engine"

type Metrics struct {
	registry *prometheus.Registry

	CommandsTotal    *prometheus.CounterVec
	CommandDuration  *prometheus.HistogramVec
	ArchiveUploads   *prometheus.CounterVec
	BroadcastsTotal  prometheus.Counter
	TournamentsGauge *prometheus.GaugeVec
}

// New registers the host collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands applied, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Time to load, apply and save one command.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"kind"}),
		ArchiveUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_uploads_total",
			Help:      "Archive artefacts uploaded, by outcome.",
		}, []string{"outcome"}),
		BroadcastsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcasts_total",
			Help:      "Tournament updates pushed to websocket rooms.",
		}),
		TournamentsGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tournaments",
			Help:      "Stored tournaments by status.",
		}, []string{"status"}),
	}
	m.registry.MustRegister(
		m.CommandsTotal,
		m.CommandDuration,
		m.ArchiveUploads,
		m.BroadcastsTotal,
		m.TournamentsGauge,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveCommand records one command application.
func (m *Metrics) ObserveCommand(kind string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.CommandsTotal.WithLabelValues(kind, outcome).Inc()
	m.CommandDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

// SetTournamentCounts replaces the per-status gauge values.
func (m *Metrics) SetTournamentCounts(counts map[string]int) {
	m.TournamentsGauge.Reset()
	for status, n := range counts {
		m.TournamentsGauge.WithLabelValues(status).Set(float64(n))
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
