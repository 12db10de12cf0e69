package prom

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder exports action counters on its own registry.
type Recorder struct {
	registry  *prometheus.Registry
	actions   *prometheus.CounterVec
	conflicts prometheus.Counter
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "homestead",
			Name:      "actions_total",
			Help:      "Player actions by action and outcome.",
		}, []string{"action", "outcome"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "homestead",
			Name:      "action_conflict_retries_total",
			Help:      "Action attempts retried after a version conflict.",
		}),
	}
	reg.MustRegister(
		r.actions,
		r.conflicts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) RecordSuccess(action string) {
	r.actions.WithLabelValues(action, "success").Inc()
}

func (r *Recorder) RecordConflict() {
	r.conflicts.Inc()
}

func (r *Recorder) RecordFailure() {
	r.actions.WithLabelValues("any", "failure").Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
