package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors of the service.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec // labels: route, code
	PipelineDur      prometheus.Histogram
	DatasetLoads     *prometheus.CounterVec // labels: result=ok|cache|error
	DatasetRows      prometheus.Gauge
	RSISubstitutions prometheus.Counter
}

// NewMetrics builds the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casesignal_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		PipelineDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "casesignal_pipeline_duration_seconds",
			Help:    "Time to extract, clean and compute one region's indicators",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casesignal_dataset_loads_total",
			Help: "Dataset load attempts by result",
		}, []string{"result"}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "casesignal_dataset_rows",
			Help: "Rows in the current dataset snapshot",
		}),
		RSISubstitutions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "casesignal_rsi_substitutions_total",
			Help: "RSI windows without activity that were given the neutral value",
		}),
	}

	m.Registry.MustRegister(
		m.HTTPRequests,
		m.PipelineDur,
		m.DatasetLoads,
		m.DatasetRows,
		m.RSISubstitutions,
	)
	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveLoad records a dataset load outcome.
func (m *Metrics) ObserveLoad(rows int, fromCache bool, err error) {
	switch {
	case err != nil:
		m.DatasetLoads.WithLabelValues("error").Inc()
	case fromCache:
		m.DatasetLoads.WithLabelValues("cache").Inc()
		m.DatasetRows.Set(float64(rows))
	default:
		m.DatasetLoads.WithLabelValues("ok").Inc()
		m.DatasetRows.Set(float64(rows))
	}
}
