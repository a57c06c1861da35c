// Package metrics counts what a batch run did and writes the counters to a
// node-exporter textfile when the run ends:
//
//	eqbar_days_total{secu,status}
//	eqbar_instrument_failures_total{secu,reason}
//	eqbar_bars_written_total{secu,interval}
//	eqbar_ticks_dropped_total{secu}
//	eqbar_day_build_seconds{secu}
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns a private registry so concurrent runs and tests do not
// share counters.
type Recorder struct {
	reg *prometheus.Registry

	days      *prometheus.CounterVec
	failures  *prometheus.CounterVec
	written   *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	buildTime *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		days: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eqbar_days_total",
			Help: "Trading days processed, by outcome (ok, empty, failed).",
		}, []string{"secu", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eqbar_instrument_failures_total",
			Help: "Instruments left out of a day's tables, by error kind.",
		}, []string{"secu", "reason"}),
		written: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eqbar_bars_written_total",
			Help: "Bar rows written, by interval.",
		}, []string{"secu", "interval"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eqbar_ticks_dropped_total",
			Help: "Out-of-session ticks skipped under the drop policy.",
		}, []string{"secu"}),
		buildTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eqbar_day_build_seconds",
			Help:    "Wall time to load, build and write one day.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"secu"}),
	}
	r.reg.MustRegister(r.days, r.failures, r.written, r.dropped, r.buildTime)
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

func (r *Recorder) Day(secu, status string, took time.Duration) {
	r.days.WithLabelValues(secu, status).Inc()
	r.buildTime.WithLabelValues(secu).Observe(took.Seconds())
}

func (r *Recorder) InstrumentFailure(secu, reason string) {
	r.failures.WithLabelValues(secu, reason).Inc()
}

func (r *Recorder) BarsWritten(secu, interval string, n int) {
	r.written.WithLabelValues(secu, interval).Add(float64(n))
}

func (r *Recorder) TicksDropped(secu string, n int) {
	if n > 0 {
		r.dropped.WithLabelValues(secu).Add(float64(n))
	}
}

// WriteTextfile writes every metric to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
