// Package metrics records Prometheus metrics for a single raid-report run.
//
// The tool runs once and exits, so metrics live in a per-run registry and are
// pushed to a Pushgateway when one is configured, as recommended for batch jobs.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	namespace = "raid_report"

	// DefaultJob is the Pushgateway job name
	DefaultJob = "raid_report"

	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultDryRun  = "dry_run"
)

// Run holds the metrics of one report run
type Run struct {
	registry *prometheus.Registry

	rowsParsed      prometheus.Counter
	rowsSkipped     prometheus.Counter
	sends           *prometheus.CounterVec
	participants    prometheus.Gauge
	nonContributors prometheus.Gauge
	lastRun         prometheus.Gauge
}

// NewRun creates a Run with its own registry
func NewRun() *Run {
	r := &Run{
		registry: prometheus.NewRegistry(),
		rowsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_parsed_total",
			Help:      "Result table rows that produced a participation record.",
		}),
		rowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "Result table rows skipped for having fewer than three cells.",
		}),
		sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sends_total",
			Help:      "Report sends by result.",
		}, []string{"result"}),
		participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "participants",
			Help:      "Members listed in the last parsed raid.",
		}),
		nonContributors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "non_contributors",
			Help:      "Members with no raid score in the last parsed raid.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}),
	}

	r.registry.MustRegister(
		r.rowsParsed,
		r.rowsSkipped,
		r.sends,
		r.participants,
		r.nonContributors,
		r.lastRun,
	)

	return r
}

// Registry exposes the run's registry
func (r *Run) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveExtraction records table parsing results
func (r *Run) ObserveExtraction(parsed, skipped int) {
	r.rowsParsed.Add(float64(parsed))
	r.rowsSkipped.Add(float64(skipped))
	r.participants.Set(float64(parsed))
}

// ObserveNonContributors records the number of members with no score
func (r *Run) ObserveNonContributors(n int) {
	r.nonContributors.Set(float64(n))
}

// ObserveSend records the outcome of the report send
func (r *Run) ObserveSend(result string) {
	r.sends.WithLabelValues(result).Inc()
}

// Finish stamps the completion time
func (r *Run) Finish(now time.Time) {
	r.lastRun.Set(float64(now.Unix()))
}

// Push sends the run's metrics to a Pushgateway, replacing the job's previous group
func (r *Run) Push(ctx context.Context, gatewayURL, job string) error {
	if job == "" {
		job = DefaultJob
	}
	if err := push.New(gatewayURL, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics: %w", err)
	}
	return nil
}
