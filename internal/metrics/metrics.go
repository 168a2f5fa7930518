// Package metrics exposes Prometheus counters for list mutations.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder counts mutations, rejected input and failed commits. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	mutations      *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	commitFailures prometheus.Counter
}

// NewRecorder creates the counters and registers them with reg when reg is
// non-nil.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hammer",
			Name:      "mutations_total",
			Help:      "List mutations applied, by operation.",
		}, []string{"op"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hammer",
			Name:      "validation_rejections_total",
			Help:      "Operations ignored because of empty input, by operation.",
		}, []string{"op"}),
		commitFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hammer",
			Name:      "commit_failures_total",
			Help:      "Saves that failed after an operation was applied in memory.",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.mutations, r.rejections, r.commitFailures)
	}
	return r
}

// Mutation counts one applied operation.
func (r *Recorder) Mutation(op string) {
	if r == nil {
		return
	}
	r.mutations.WithLabelValues(op).Inc()
}

// Rejected counts one operation dropped for empty input.
func (r *Recorder) Rejected(op string) {
	if r == nil {
		return
	}
	r.rejections.WithLabelValues(op).Inc()
}

// CommitFailed counts one failed save.
func (r *Recorder) CommitFailed() {
	if r == nil {
		return
	}
	r.commitFailures.Inc()
}

// MutationCounter exposes the per-op counter, mainly for tests.
func (r *Recorder) MutationCounter(op string) prometheus.Counter {
	return r.mutations.WithLabelValues(op)
}

// RejectionCounter exposes the per-op rejection counter.
func (r *Recorder) RejectionCounter(op string) prometheus.Counter {
	return r.rejections.WithLabelValues(op)
}

// CommitFailureCounter exposes the commit failure counter.
func (r *Recorder) CommitFailureCounter() prometheus.Counter {
	return r.commitFailures
}
