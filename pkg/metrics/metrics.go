package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all scheduling service metrics
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Solver metrics
	SolverRuns     *prometheus.CounterVec
	SolverDuration *prometheus.HistogramVec
	SolverNodes    prometheus.Histogram

	// Business metrics
	PlansCreated        *prometheus.CounterVec
	PlanMakespanMinutes prometheus.Gauge
	PlanJobs            prometheus.Histogram

	// Event metrics
	EventsPublished *prometheus.CounterVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "mes",
	}
}

// New creates a new Metrics instance
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()

	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method", "path"},
	)

	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests currently being processed",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.SolverRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "solver_runs_total",
			Help:      "Total number of solver runs by method and outcome",
		},
		[]string{"service", "method", "outcome"},
	)

	m.SolverDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "solver_duration_seconds",
			Help:      "Solver wall-clock duration in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
		},
		[]string{"service", "method"},
	)

	m.SolverNodes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "solver_search_nodes",
			Help:        "Number of search nodes visited per exact solver run",
			Buckets:     prometheus.ExponentialBuckets(10, 10, 7),
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.PlansCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "plans_created_total",
			Help:      "Total number of production plans created",
		},
		[]string{"service", "method"},
	)

	m.PlanMakespanMinutes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "plan_makespan_minutes",
			Help:        "Makespan of the most recently created plan in minutes",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.PlanJobs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "plan_jobs",
			Help:        "Number of jobs per created plan",
			Buckets:     []float64{1, 2, 3, 5, 8, 13, 21, 34},
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "events_published_total",
			Help:      "Total number of domain events published",
		},
		[]string{"service", "topic", "event_type", "status"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SolverRuns,
		m.SolverDuration,
		m.SolverNodes,
		m.PlansCreated,
		m.PlanMakespanMinutes,
		m.PlanJobs,
		m.EventsPublished,
	)

	return m
}

// Handler returns an http.Handler exposing the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a completed HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// RecordSolverRun records a solver run by method and outcome
func (m *Metrics) RecordSolverRun(method, outcome string, duration time.Duration) {
	m.SolverRuns.WithLabelValues(m.serviceName, method, outcome).Inc()
	m.SolverDuration.WithLabelValues(m.serviceName, method).Observe(duration.Seconds())
}

// RecordSolverNodes records the nodes visited by an exact search
func (m *Metrics) RecordSolverNodes(nodes int) {
	m.SolverNodes.Observe(float64(nodes))
}

// RecordPlanCreated records a created plan
func (m *Metrics) RecordPlanCreated(method string, jobs int, makespanMinutes float64) {
	m.PlansCreated.WithLabelValues(m.serviceName, method).Inc()
	m.PlanJobs.Observe(float64(jobs))
	m.PlanMakespanMinutes.Set(makespanMinutes)
}

// RecordEventPublished records a published domain event
func (m *Metrics) RecordEventPublished(topic, eventType, status string) {
	m.EventsPublished.WithLabelValues(m.serviceName, topic, eventType, status).Inc()
}
