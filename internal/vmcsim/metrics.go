package vmcsim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// simMetrics holds the collectors of one simulator. Each simulator has its own
// registry so that several can run in one process.
type simMetrics struct {
	registry *prometheus.Registry

	// requestsTotal counts requests by method, route and status.
	requestsTotal *prometheus.CounterVec

	// requestDuration measures request handling time by method and route.
	requestDuration *prometheus.HistogramVec

	// tasksTotal counts tasks started by type.
	tasksTotal *prometheus.CounterVec

	// sddcs tracks the SDDCs currently known to the simulator.
	sddcs prometheus.Gauge
}

func newSimMetrics() *simMetrics {
	m := &simMetrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vmcsim_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vmcsim_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"method", "route"},
		),
		tasksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vmcsim_tasks_started_total",
				Help: "Total number of tasks started",
			},
			[]string{"task_type"},
		),
		sddcs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "vmcsim_sddcs",
				Help: "Number of SDDCs known to the simulator",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.requestsTotal,
		m.requestDuration,
		m.tasksTotal,
		m.sddcs,
	)

	return m
}
