package metrics

import (
	"sync"

	"vritti/backend/assessment"
	"vritti/backend/gate"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for gate activity. It implements
// gate.Observer.
type Metrics struct {
	gateModes       *prometheus.CounterVec
	assessments     *prometheus.CounterVec
	assessmentScore *prometheus.HistogramVec
	invalidAnswers  *prometheus.CounterVec
	storageErrors   *prometheus.CounterVec
}

var _ gate.Observer = (*Metrics)(nil)

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default returns the instance registered with the global registry.
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNew(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNew registers the collectors with reg and panics on a registration
// error. Tests pass a fresh prometheus.NewRegistry().
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		gateModes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vritti",
			Subsystem: "gate",
			Name:      "mode_selected_total",
			Help:      "Gate evaluations by resulting mode.",
		}, []string{"mode"}),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vritti",
			Subsystem: "assessment",
			Name:      "completed_total",
			Help:      "Completed questionnaires by instrument and severity band.",
		}, []string{"instrument", "severity"}),
		assessmentScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vritti",
			Subsystem: "assessment",
			Name:      "total_score",
			Help:      "Total scores of completed questionnaires.",
			Buckets:   []float64{4, 9, 14, 19, 27},
		}, []string{"instrument"}),
		invalidAnswers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vritti",
			Subsystem: "assessment",
			Name:      "invalid_answers_total",
			Help:      "Answers rejected as outside the instrument's options.",
		}, []string{"instrument"}),
		storageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vritti",
			Subsystem: "store",
			Name:      "degraded_total",
			Help:      "Profile storage operations that fell back to session-only state.",
		}, []string{"op"}),
	}
	reg.MustRegister(m.gateModes, m.assessments, m.assessmentScore, m.invalidAnswers, m.storageErrors)
	return m
}

func (m *Metrics) ModeSelected(mode gate.Mode) {
	m.gateModes.WithLabelValues(mode.String()).Inc()
}

func (m *Metrics) AssessmentCompleted(res assessment.Result) {
	m.assessments.WithLabelValues(res.Instrument, string(res.Severity)).Inc()
	m.assessmentScore.WithLabelValues(res.Instrument).Observe(float64(res.TotalScore))
}

func (m *Metrics) InvalidAnswer(instrument string) {
	m.invalidAnswers.WithLabelValues(instrument).Inc()
}

func (m *Metrics) StorageDegraded(op string) {
	m.storageErrors.WithLabelValues(op).Inc()
}
