// Package metrics — счётчики Prometheus для HTTP-запросов и событий домена.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "news_notes"

type Metrics struct {
	registry *prometheus.Registry

	Requests         *prometheus.CounterVec
	Duration         *prometheus.HistogramVec
	CommentsRejected prometheus.Counter
	SlugConflicts    prometheus.Counter
	NewsImported     prometheus.Counter
}

// New регистрирует метрики в собственном реестре сервиса.
func New(service string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	labels := prometheus.Labels{"service": service}

	return &Metrics{
		registry: reg,
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "HTTP requests by route, method and status code.",
			ConstLabels: labels,
		}, []string{"route", "method", "code"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"route", "method"}),
		CommentsRejected: f.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "comments_rejected_total",
			Help:        "Comments rejected for banned words.",
			ConstLabels: labels,
		}),
		SlugConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "note_slug_conflicts_total",
			Help:        "Note writes rejected because the slug is taken.",
			ConstLabels: labels,
		}),
		NewsImported: f.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "news_imported_total",
			Help:        "News items imported from RSS feeds.",
			ConstLabels: labels,
		}),
	}
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry нужен тестам и для регистрации внешних коллекторов.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
