// Package metrics owns the prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "curriculum"

// Update results.
const (
	ResultOK         = "ok"
	ResultInvalid    = "invalid"
	ResultNotFound   = "not_found"
	ResultStoreError = "store_error"
)

// Metrics bundles the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	CourseUpdates *prometheus.CounterVec
	CreditsEarned prometheus.Gauge
	CreditsNeeded prometheus.Gauge
	GradeAverage  prometheus.Gauge
	GradedCourses prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CourseUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "course_updates_total",
			Help:      "Course update attempts by result.",
		}, []string{"result"}),
		CreditsEarned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "credits_earned",
			Help:      "Credits of passed courses.",
		}),
		CreditsNeeded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "credits_required",
			Help:      "Credits of all courses in the catalog.",
		}),
		GradeAverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "grade_average",
			Help:      "Average of recorded grades above zero; 0 when none.",
		}),
		GradedCourses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graded_courses",
			Help:      "Courses with a recorded grade.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.CourseUpdates,
		m.CreditsEarned,
		m.CreditsNeeded,
		m.GradeAverage,
		m.GradedCourses,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveUpdate counts one course update attempt.
func (m *Metrics) ObserveUpdate(result string) {
	if m == nil {
		return
	}
	m.CourseUpdates.WithLabelValues(result).Inc()
}

// SetProgress publishes the current aggregates.
func (m *Metrics) SetProgress(earned, required, graded int, average *float64) {
	if m == nil {
		return
	}
	m.CreditsEarned.Set(float64(earned))
	m.CreditsNeeded.Set(float64(required))
	m.GradedCourses.Set(float64(graded))
	if average != nil {
		m.GradeAverage.Set(*average)
	} else {
		m.GradeAverage.Set(0)
	}
}
