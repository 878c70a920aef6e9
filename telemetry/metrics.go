// Package telemetry exports lane activity as Prometheus metrics.
package telemetry

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/timewinder-dev/duosort/lanes"
)

const namespace = "duosort"

type Metrics struct {
	StepsTotal  *prometheus.CounterVec
	IdleTotal   *prometheus.CounterVec
	ErrorsTotal *prometheus.CounterVec
	Running     *prometheus.GaugeVec
	Mutations   *prometheus.GaugeVec
}

// NewMetrics registers the lane metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StepsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "lane",
				Name:      "steps_total",
				Help:      "Steps delivered by lane and algorithm",
			},
			[]string{"lane", "algorithm"},
		),
		IdleTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "lane",
				Name:      "idle_total",
				Help:      "Times a lane went idle",
			},
			[]string{"lane"},
		),
		ErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Errors reported by context",
			},
			[]string{"context"},
		),
		Running: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "lane",
				Name:      "running",
				Help:      "1 while a lane is producing steps",
			},
			[]string{"lane"},
		),
		Mutations: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "lane",
				Name:      "mutations",
				Help:      "Mutation count of the latest step",
			},
			[]string{"lane"},
		),
	}
}

// Instrument is a lanes.Display that updates Metrics and forwards to another display.
type Instrument struct {
	m    *Metrics
	next lanes.Display
}

var _ lanes.Display = (*Instrument)(nil)

func NewInstrument(m *Metrics, next lanes.Display) *Instrument {
	if next == nil {
		next = lanes.Discard{}
	}
	return &Instrument{m: m, next: next}
}

func laneLabel(lane int) string {
	return strconv.Itoa(lane)
}

func (in *Instrument) OnStep(lane int, snapshot []int, count int, algorithm, complexity string) {
	l := laneLabel(lane)
	in.m.StepsTotal.WithLabelValues(l, algorithm).Inc()
	in.m.Running.WithLabelValues(l).Set(1)
	in.m.Mutations.WithLabelValues(l).Set(float64(count))
	in.next.OnStep(lane, snapshot, count, algorithm, complexity)
}

func (in *Instrument) OnLaneIdle(lane int) {
	l := laneLabel(lane)
	in.m.IdleTotal.WithLabelValues(l).Inc()
	in.m.Running.WithLabelValues(l).Set(0)
	in.next.OnLaneIdle(lane)
}

func (in *Instrument) OnError(context, message string) {
	in.m.ErrorsTotal.WithLabelValues(context).Inc()
	in.next.OnError(context, message)
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// NewServeMux returns a mux with the metrics handler on /metrics.
func NewServeMux(g prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	return mux
}
