// Package metrics exposes session and audio counters to Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cwbudde/algo-livecode/dsp/ring"
	"github.com/cwbudde/algo-livecode/dsp/slot"
	"github.com/cwbudde/algo-livecode/internal/session"
)

const namespace = "livecode"

// New returns a registry with collectors over s. sl and inputs may be nil.
func New(s *session.Session, sl *slot.Slot, inputs []*ring.Stream) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(newSessionCollector(s))

	if sl != nil {
		reg.MustRegister(
			counterFunc("frames_total", "Frames produced by the output slot.", nil, sl.Frames),
			counterFunc("swaps_total", "Transitions started by the audio side.", nil, sl.Swaps),
			counterFunc("nonfinite_samples_total", "Non-finite samples replaced by silence.", nil, sl.NonFinite),
		)
	}

	for i, in := range inputs {
		labels := prometheus.Labels{"channel": strconv.Itoa(i)}
		reg.MustRegister(
			counterFunc("input_dropped_samples_total", "Capture samples dropped on a full stream.", labels, in.Dropped),
			counterFunc("input_underruns_total", "Capture reads that found an empty stream.", labels, in.Underruns),
		)
	}

	return reg
}

func counterFunc(name, help string, labels prometheus.Labels, fn func() uint64) prometheus.Collector {
	return prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        name,
		Help:        help,
		ConstLabels: labels,
	}, func() float64 { return float64(fn()) })
}

// sessionCollector reads the session counters at scrape time.
type sessionCollector struct {
	s          *session.Session
	statements *prometheus.Desc
	bindings   *prometheus.Desc
}

func newSessionCollector(s *session.Session) *sessionCollector {
	return &sessionCollector{
		s: s,
		statements: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "statements_total"),
			"Statements submitted, by result.",
			[]string{"result"}, nil,
		),
		bindings: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "bindings"),
			"Names bound in the environment.",
			nil, nil,
		),
	}
}

func (c *sessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.statements
	ch <- c.bindings
}

func (c *sessionCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.s.Stats()
	for _, r := range []struct {
		label string
		n     uint64
	}{
		{"ok", st.OK},
		{"rejected", st.Rejected},
		{"parse_error", st.ParseErrors},
	} {
		ch <- prometheus.MustNewConstMetric(c.statements, prometheus.CounterValue, float64(r.n), r.label)
	}
	ch <- prometheus.MustNewConstMetric(c.bindings, prometheus.GaugeValue, float64(c.s.Len()))
}
