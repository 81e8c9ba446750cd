package metrics

import (
	"lockedflow/internal/core/loop"
	"lockedflow/internal/core/timer"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// SnapshotSource provides the latest timer reading.
type SnapshotSource interface {
	Snapshot() timer.Snapshot
}

var states = []timer.State{timer.StateStopped, timer.StateRunning, timer.StatePaused}

// Collector exports the live timer snapshot as Prometheus metrics.
type Collector struct {
	source SnapshotSource

	elapsed  *prometheus.Desc
	target   *prometheus.Desc
	progress *prometheus.Desc
	state    *prometheus.Desc

	transitions *prometheus.CounterVec
	completions prometheus.Counter
	idlePauses  prometheus.Counter
}

// NewCollector creates a Collector reading from source.
func NewCollector(source SnapshotSource) *Collector {
	return &Collector{
		source: source,
		elapsed: prometheus.NewDesc(
			"lockedflow_elapsed_seconds",
			"Total elapsed time of the timer",
			nil, nil,
		),
		target: prometheus.NewDesc(
			"lockedflow_target_seconds",
			"Configured countdown target, absent when no target is set",
			nil, nil,
		),
		progress: prometheus.NewDesc(
			"lockedflow_progress_percent",
			"Elapsed time as a percentage of the target",
			nil, nil,
		),
		state: prometheus.NewDesc(
			"lockedflow_state",
			"Current timer state, 1 for the active state",
			[]string{"state"}, nil,
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lockedflow_transitions_total",
				Help: "State transitions by destination state",
			},
			[]string{"to"},
		),
		completions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lockedflow_completions_total",
			Help: "Runs stopped automatically on reaching the target",
		}),
		idlePauses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lockedflow_idle_pauses_total",
			Help: "Runs paused after user inactivity",
		}),
	}
}

// Describe implements prometheus.Collector.
func (collector *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.elapsed
	ch <- collector.target
	ch <- collector.progress
	ch <- collector.state
	collector.transitions.Describe(ch)
	collector.completions.Describe(ch)
	collector.idlePauses.Describe(ch)
}

// Collect implements prometheus.Collector.
func (collector *Collector) Collect(ch chan<- prometheus.Metric) {
	snapshot := collector.source.Snapshot()

	ch <- prometheus.MustNewConstMetric(collector.elapsed, prometheus.GaugeValue, snapshot.Elapsed.Seconds())
	if snapshot.HasTarget {
		ch <- prometheus.MustNewConstMetric(collector.target, prometheus.GaugeValue, snapshot.Target.Seconds())
	}
	ch <- prometheus.MustNewConstMetric(collector.progress, prometheus.GaugeValue, snapshot.Progress)
	for _, state := range states {
		value := 0.0
		if state == snapshot.State {
			value = 1
		}
		ch <- prometheus.MustNewConstMetric(collector.state, prometheus.GaugeValue, value, string(state))
	}

	collector.transitions.Collect(ch)
	collector.completions.Collect(ch)
	collector.idlePauses.Collect(ch)
}

// Observe updates counters from a driver event.
func (collector *Collector) Observe(event loop.Event) {
	switch event.Type {
	case loop.EventStateChange:
		collector.transitions.WithLabelValues(string(event.Snapshot.State)).Inc()
	case loop.EventCompleted:
		collector.transitions.WithLabelValues(string(event.Snapshot.State)).Inc()
		collector.completions.Inc()
	case loop.EventIdlePause:
		collector.idlePauses.Inc()
	}
}

// Run observes events until the channel is closed.
func (collector *Collector) Run(events <-chan loop.Event) {
	for event := range events {
		collector.Observe(event)
	}
}

// NewRegistry returns a registry holding collector and the Go runtime collectors.
func NewRegistry(collector *Collector) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collector, collectors.NewGoCollector())
	return registry
}
