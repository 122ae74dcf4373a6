package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ipcsim"

// Call outcomes recorded by the world.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Recorder exports runtime events. A nil *Recorder drops everything.
type Recorder struct {
	registry *prometheus.Registry

	transitions    *prometheus.CounterVec
	calls          *prometheus.CounterVec
	frame          prometheus.Gauge
	softFailures   *prometheus.CounterVec
	activeSystems  prometheus.Gauge
	layoutRebuilds prometheus.Counter
	elements       prometheus.Gauge
	observed       *prometheus.GaugeVec
}

// NewRecorder registers every collector on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "world",
				Name:      "transitions_total",
				Help:      "Count of world state transitions.",
			},
			[]string{"from", "to"},
		),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "world",
				Name:      "calls_total",
				Help:      "Count of world lifecycle calls by outcome.",
			},
			[]string{"op", "outcome"},
		),
		frame: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "world",
				Name:      "frame",
				Help:      "Current engine frame.",
			},
		),
		softFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "backend",
				Name:      "soft_failures_total",
				Help:      "Count of systems shut down during build.",
			},
			[]string{"system"},
		),
		activeSystems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "backend",
				Name:      "active_systems",
				Help:      "Number of valid registered systems.",
			},
		),
		layoutRebuilds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "aggregation",
				Name:      "layout_rebuilds_total",
				Help:      "Count of aggregation layout rebuilds.",
			},
		),
		elements: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "aggregation",
				Name:      "elements",
				Help:      "Total elements in the global aggregation buffer.",
			},
		),
		observed: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "frame",
				Name:      "observer_value",
				Help:      "Latest value of each frame observer.",
			},
			[]string{"observer"},
		),
	}
	r.registry.MustRegister(
		r.transitions,
		r.calls,
		r.frame,
		r.softFailures,
		r.activeSystems,
		r.layoutRebuilds,
		r.elements,
		r.observed,
	)
	return r
}

// Registry is nil for a nil recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) Transition(from, to string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(from, to).Inc()
}

func (r *Recorder) Call(op, outcome string) {
	if r == nil {
		return
	}
	r.calls.WithLabelValues(op, outcome).Inc()
}

func (r *Recorder) SetFrame(frame uint64) {
	if r == nil {
		return
	}
	r.frame.Set(float64(frame))
}

func (r *Recorder) SoftFailure(system string) {
	if r == nil {
		return
	}
	r.softFailures.WithLabelValues(system).Inc()
}

func (r *Recorder) SetActiveSystems(n int) {
	if r == nil {
		return
	}
	r.activeSystems.Set(float64(n))
}

func (r *Recorder) LayoutRebuilt(total int) {
	if r == nil {
		return
	}
	r.layoutRebuilds.Inc()
	r.elements.Set(float64(total))
}

// Publish copies each observer's current value into a gauge.
func (r *Recorder) Publish(observers ...Observer) {
	if r == nil {
		return
	}
	for _, o := range observers {
		r.observed.WithLabelValues(o.Name()).Set(o.Value())
	}
}
