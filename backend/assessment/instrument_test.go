package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPHQ9Bands(t *testing.T) {
	inst := PHQ9Instrument()
	require.Equal(t, 9, inst.Len())
	require.Equal(t, 27, inst.MaxScore())

	want := func(score int) Severity {
		switch {
		case score <= 4:
			return SeverityMinimal
		case score <= 9:
			return SeverityMild
		case score <= 14:
			return SeverityModerate
		case score <= 19:
			return SeverityModeratelySevere
		default:
			return SeveritySevere
		}
	}
	for score := 0; score <= 27; score++ {
		got, err := inst.Classify(score)
		require.NoError(t, err)
		assert.Equal(t, want(score), got, "score %d", score)
	}
}

func TestPHQ9Boundaries(t *testing.T) {
	inst := PHQ9Instrument()
	cases := []struct {
		score int
		want  Severity
	}{
		{4, SeverityMinimal},
		{5, SeverityMild},
		{9, SeverityMild},
		{10, SeverityModerate},
		{14, SeverityModerate},
		{15, SeverityModeratelySevere},
		{19, SeverityModeratelySevere},
		{20, SeveritySevere},
	}
	for _, tc := range cases {
		got, err := inst.Classify(tc.score)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "score %d", tc.score)
	}

	_, err := inst.Classify(28)
	assert.ErrorIs(t, err, ErrScoreOutOfRange)
	_, err = inst.Classify(-1)
	assert.ErrorIs(t, err, ErrScoreOutOfRange)
}

func TestGAD7(t *testing.T) {
	inst, err := Builtin().Lookup(GAD7)
	require.NoError(t, err)
	assert.Equal(t, 7, inst.Len())
	assert.Equal(t, 21, inst.MaxScore())

	for score, want := range map[int]Severity{
		4: "Minimal anxiety", 5: "Mild anxiety", 10: "Moderate anxiety", 15: "Severe anxiety", 21: "Severe anxiety",
	} {
		got, err := inst.Classify(score)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBuiltinCatalog(t *testing.T) {
	all := Builtin().All()
	require.Len(t, all, 2)
	assert.Equal(t, PHQ9, all[0].ID)
	assert.Equal(t, GAD7, all[1].ID)
	assert.Equal(t, "Nearly every day", all[1].Options[3].Label)

	_, err := Builtin().Lookup("bdi")
	assert.ErrorIs(t, err, ErrUnknownInstrument)
}

func TestParseCatalogValidation(t *testing.T) {
	cases := map[string]string{
		"gap": `
- id: x
  options: [{value: 0, label: a}, {value: 1, label: b}]
  questions: [q1, q2]
  bands: [{min: 0, max: 0, label: low}, {min: 2, max: 2, label: high}]`,
		"overlap": `
- id: x
  options: [{value: 0, label: a}, {value: 1, label: b}]
  questions: [q1, q2]
  bands: [{min: 0, max: 1, label: low}, {min: 1, max: 2, label: high}]`,
		"short": `
- id: x
  options: [{value: 0, label: a}, {value: 1, label: b}]
  questions: [q1, q2]
  bands: [{min: 0, max: 1, label: low}]`,
		"options out of order": `
- id: x
  options: [{value: 1, label: a}, {value: 0, label: b}]
  questions: [q1]
  bands: [{min: 0, max: 1, label: all}]`,
		"duplicate": `
- id: x
  options: [{value: 0, label: a}, {value: 1, label: b}]
  questions: [q1]
  bands: [{min: 0, max: 1, label: all}]
- id: x
  options: [{value: 0, label: a}, {value: 1, label: b}]
  questions: [q1]
  bands: [{min: 0, max: 1, label: all}]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(doc))
			assert.Error(t, err)
		})
	}

	c, err := ParseCatalog([]byte(`
- id: x
  options: [{value: 0, label: a}, {value: 1, label: b}]
  questions: [q1, q2]
  bands: [{min: 2, max: 2, label: high}, {min: 0, max: 1, label: low}]`))
	require.NoError(t, err)
	inst, err := c.Lookup("x")
	require.NoError(t, err)
	sev, err := inst.Classify(2)
	require.NoError(t, err)
	assert.Equal(t, Severity("high"), sev)
}
