package telemetry

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gstc"

// DispatchMetrics records command round trips and outstanding bus waits.
// A nil *DispatchMetrics is valid and records nothing.
type DispatchMetrics struct {
	dispatches    *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	waitsInflight prometheus.Gauge
}

// NewDispatchMetrics registers the dispatch collectors with reg. A nil reg
// disables metrics and returns nil.
func NewDispatchMetrics(reg prometheus.Registerer) (*DispatchMetrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &DispatchMetrics{
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_total",
				Help:      "Total number of commands dispatched to the daemon",
			},
			[]string{"verb", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Round-trip time of dispatched commands",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"verb"},
		),
		waitsInflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "bus_waits_inflight",
				Help:      "Number of bus waits blocked on the daemon",
			},
		),
	}

	r := &registrar{reg: reg}
	m.dispatches = register(r, m.dispatches)
	m.duration = register(r, m.duration)
	m.waitsInflight = register(r, m.waitsInflight)
	if err := r.rollback(); err != nil {
		return nil, err
	}

	return m, nil
}

// registrar registers a group of collectors. Collectors already present in
// the registry are reused; on any other failure the group is unregistered.
type registrar struct {
	reg   prometheus.Registerer
	added []prometheus.Collector
	err   error
}

func register[T prometheus.Collector](r *registrar, c T) T {
	if r.err != nil {
		return c
	}
	err := r.reg.Register(c)
	if err == nil {
		r.added = append(r.added, c)
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing
		}
	}
	r.err = err
	return c
}

// rollback unregisters what this group added if any registration failed,
// and returns that failure.
func (r *registrar) rollback() error {
	if r.err == nil {
		return nil
	}
	for _, c := range r.added {
		r.reg.Unregister(c)
	}
	return r.err
}

// ObserveDispatch records one round trip.
func (m *DispatchMetrics) ObserveDispatch(verb, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(verb, result).Inc()
	m.duration.WithLabelValues(verb).Observe(elapsed.Seconds())
}

// WaitStarted records a bus wait handed to its worker.
func (m *DispatchMetrics) WaitStarted() {
	if m == nil {
		return
	}
	m.waitsInflight.Inc()
}

// WaitDone records a bus wait whose worker finished.
func (m *DispatchMetrics) WaitDone() {
	if m == nil {
		return
	}
	m.waitsInflight.Dec()
}

// CommandMetrics records commands served by the fake daemon. A nil
// *CommandMetrics is valid and records nothing.
type CommandMetrics struct {
	commands *prometheus.CounterVec
	waits    prometheus.Gauge
}

// NewCommandMetrics registers the daemon-side collectors with reg. A nil
// reg disables metrics and returns nil.
func NewCommandMetrics(reg prometheus.Registerer) (*CommandMetrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &CommandMetrics{
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gstd_fake",
				Name:      "commands_total",
				Help:      "Total number of commands served",
			},
			[]string{"transport", "verb", "code"},
		),
		waits: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "gstd_fake",
				Name:      "bus_reads_blocked",
				Help:      "Number of bus message reads waiting for a message",
			},
		),
	}

	r := &registrar{reg: reg}
	m.commands = register(r, m.commands)
	m.waits = register(r, m.waits)
	if err := r.rollback(); err != nil {
		return nil, err
	}

	return m, nil
}

// ObserveCommand records one served command and the code it returned.
func (m *CommandMetrics) ObserveCommand(transport, verb string, code int) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(transport, verb, strconv.Itoa(code)).Inc()
}

// ReadBlocked records a bus read that started waiting.
func (m *CommandMetrics) ReadBlocked() {
	if m == nil {
		return
	}
	m.waits.Inc()
}

// ReadUnblocked records a bus read that stopped waiting.
func (m *CommandMetrics) ReadUnblocked() {
	if m == nil {
		return
	}
	m.waits.Dec()
}
