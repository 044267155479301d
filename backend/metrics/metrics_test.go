package metrics

import (
	"testing"

	"vritti/backend/assessment"
	"vritti/backend/gate"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCount(t *testing.T) {
	m := MustNew(prometheus.NewRegistry())

	m.ModeSelected(gate.ModeCollectName)
	m.ModeSelected(gate.ModeRunAssessment)
	m.ModeSelected(gate.ModeRunAssessment)
	m.AssessmentCompleted(assessment.Result{Instrument: assessment.PHQ9, TotalScore: 6, Severity: assessment.SeverityMild})
	m.InvalidAnswer(assessment.PHQ9)
	m.StorageDegraded("set")
	m.StorageDegraded("set")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.gateModes.WithLabelValues("collect_name")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.gateModes.WithLabelValues("run_assessment")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assessments.WithLabelValues("phq9", "Mild depression")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invalidAnswers.WithLabelValues("phq9")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.storageErrors.WithLabelValues("set")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.assessmentScore))
}

func TestMustNewPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustNew(reg)
	assert.Panics(t, func() { MustNew(reg) })
}
