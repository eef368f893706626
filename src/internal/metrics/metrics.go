// Package metrics exposes Prometheus collectors for list builds.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blocklist"

// Recorder owns a registry with the build collectors. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	buildDuration *prometheus.HistogramVec
	domains       *prometheus.GaugeVec
	rejections    *prometheus.CounterVec
	failures      *prometheus.CounterVec
	mismatches    prometheus.Gauge
	lastRun       prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		buildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "build_duration_seconds",
				Help:      "Duration of a single list build in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"list"},
		),
		domains: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "domains",
				Help:      "Number of domains written by the last build of a list",
			},
			[]string{"list"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_rejections_total",
				Help:      "Domains rejected by validation",
			},
			[]string{"list", "reason"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "build_failures_total",
				Help:      "List builds that failed",
			},
			[]string{"list"},
		),
		mismatches: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "consistency_mismatches",
				Help:      "Lists whose output formats disagree in entry count",
			},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time of the last completed pipeline run",
			},
		),
	}

	r.registry.MustRegister(
		r.buildDuration, r.domains, r.rejections, r.failures, r.mismatches, r.lastRun,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveBuild records a successful build of list.
func (r *Recorder) ObserveBuild(list string, duration time.Duration, domains int) {
	if r == nil {
		return
	}
	r.buildDuration.WithLabelValues(list).Observe(duration.Seconds())
	r.domains.WithLabelValues(list).Set(float64(domains))
}

// AddRejections counts n domains of list rejected for reason.
func (r *Recorder) AddRejections(list, reason string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.rejections.WithLabelValues(list, reason).Add(float64(n))
}

func (r *Recorder) RecordFailure(list string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(list).Inc()
}

func (r *Recorder) SetMismatches(n int) {
	if r == nil {
		return
	}
	r.mismatches.Set(float64(n))
}

func (r *Recorder) MarkRun(at time.Time) {
	if r == nil {
		return
	}
	r.lastRun.Set(float64(at.Unix()))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
