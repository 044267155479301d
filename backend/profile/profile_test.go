package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"vritti/backend/assessment"
	"vritti/backend/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(days int) { c.t = c.t.AddDate(0, 0, days) }

func newTestProfile(t *testing.T) (*Profile, store.Store, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2025, 9, 21, 10, 0, 0, 0, time.UTC)}
	s := store.Scoped(store.NewMemoryBackend(), "device-1")
	return New(s, WithClock(c.now)), s, c
}

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, store.ErrStorageUnavailable
}

func (brokenStore) Set(context.Context, string, string) error {
	return store.ErrStorageUnavailable
}

func TestDisplayName(t *testing.T) {
	p, s, _ := newTestProfile(t)
	ctx := context.Background()

	name, err := p.DisplayName(ctx)
	require.NoError(t, err)
	assert.Empty(t, name)

	_, err = p.SetDisplayName(ctx, "   \t")
	assert.ErrorIs(t, err, ErrEmptyName)
	_, ok, _ := s.Get(ctx, KeyDisplayName)
	assert.False(t, ok, "blank name must not be written")

	name, err = p.SetDisplayName(ctx, "  Sam ")
	require.NoError(t, err)
	assert.Equal(t, "Sam", name)

	raw, _, _ := s.Get(ctx, KeyDisplayName)
	assert.Equal(t, "Sam", raw)
}

func TestMood(t *testing.T) {
	p, s, c := newTestProfile(t)
	ctx := context.Background()

	m, err := p.Mood(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = p.SetMood(ctx, "ecstatic")
	assert.ErrorIs(t, err, ErrInvalidMood)

	m, err = p.SetMood(ctx, " Happy ")
	require.NoError(t, err)
	assert.Equal(t, MoodHappy, m)

	m, err = p.Mood(ctx)
	require.NoError(t, err)
	assert.Equal(t, MoodHappy, m)

	today, ok, err := p.MoodOn(ctx, c.t)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, MoodHappy, today)

	raw, _, _ := s.Get(ctx, "vritti_mood_2025-09-21")
	assert.Equal(t, "happy", raw)

	require.NoError(t, s.Set(ctx, KeyMood, "great"))
	m, err = p.Mood(ctx)
	require.NoError(t, err)
	assert.Empty(t, m, "unknown stored mood reads as unset")
}

func TestStreak(t *testing.T) {
	p, _, c := newTestProfile(t)
	ctx := context.Background()

	n, err := p.Streak(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	steps := []struct {
		advance int
		want    int
	}{
		{0, 1}, // first engagement
		{0, 1}, // same day
		{1, 2},
		{1, 3},
		{0, 3},
		{2, 1}, // missed a day
		{1, 2},
	}
	for i, step := range steps {
		c.advance(step.advance)
		got, err := p.RecordEngagement(ctx)
		require.NoError(t, err)
		assert.Equal(t, step.want, got, "step %d", i)

		stored, err := p.Streak(ctx)
		require.NoError(t, err)
		assert.Equal(t, step.want, stored)
	}
}

func TestInteractionsAdvanceStreak(t *testing.T) {
	p, _, c := newTestProfile(t)
	ctx := context.Background()

	_, err := p.SetMood(ctx, "sad")
	require.NoError(t, err)
	c.advance(1)
	label, err := p.RecordActivity(ctx, " Breathing Exercise ")
	require.NoError(t, err)
	assert.Equal(t, "breathing exercise", label)

	n, _ := p.Streak(ctx)
	assert.Equal(t, 2, n)

	last, err := p.LastActivity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "breathing exercise", last)

	_, err = p.RecordActivity(ctx, "  ")
	assert.ErrorIs(t, err, ErrEmptyActivity)
}

func TestSleepHours(t *testing.T) {
	p, _, _ := newTestProfile(t)
	ctx := context.Background()

	_, ok, err := p.SleepHours(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, p.SetSleepHours(ctx, 25), ErrInvalidSleepHours)
	assert.ErrorIs(t, p.SetSleepHours(ctx, -1), ErrInvalidSleepHours)

	require.NoError(t, p.SetSleepHours(ctx, 7))
	h, ok, err := p.SleepHours(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, h)
}

func TestJournal(t *testing.T) {
	p, _, c := newTestProfile(t)
	ctx := context.Background()

	j, err := p.LatestJournal(ctx)
	require.NoError(t, err)
	assert.Nil(t, j)

	_, err = p.SaveJournal(ctx, "  \n ")
	assert.ErrorIs(t, err, ErrEmptyJournal)

	_, err = p.SaveJournal(ctx, "first")
	require.NoError(t, err)
	c.advance(1)
	saved, err := p.SaveJournal(ctx, "second")
	require.NoError(t, err)

	j, err = p.LatestJournal(ctx)
	require.NoError(t, err)
	require.NotNil(t, j)
	assert.Equal(t, "second", j.Text)
	assert.True(t, saved.Date.Equal(j.Date))
}

func TestAssessmentRoundTrip(t *testing.T) {
	p, _, c := newTestProfile(t)
	ctx := context.Background()

	a, err := p.Assessment(ctx, assessment.PHQ9)
	require.NoError(t, err)
	assert.Nil(t, a)

	res, err := assessment.Score(assessment.PHQ9Instrument(), []int{0, 1, 1, 0, 2, 1, 0, 1, 0})
	require.NoError(t, err)
	require.NoError(t, p.SaveAssessment(ctx, res))

	a, err = p.Assessment(ctx, assessment.PHQ9)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, 6, a.TotalScore)
	assert.Equal(t, assessment.SeverityMild, a.Severity)
	assert.Equal(t, []int{0, 1, 1, 0, 2, 1, 0, 1, 0}, a.Answers)
	require.NotNil(t, a.CompletedAt)
	assert.True(t, a.CompletedAt.Equal(c.t))
}

func TestAssessmentPartialWritesReadAsIncomplete(t *testing.T) {
	p, s, _ := newTestProfile(t)
	ctx := context.Background()

	// a crash after the score but before the completed flag
	require.NoError(t, s.Set(ctx, "vritti_phq9_score", "22"))
	require.NoError(t, s.Set(ctx, "vritti_phq9_severity", "Severe depression"))
	a, err := p.Assessment(ctx, assessment.PHQ9)
	require.NoError(t, err)
	assert.Nil(t, a)

	// flag without a usable score
	require.NoError(t, s.Set(ctx, "vritti_phq9_completed", "true"))
	require.NoError(t, s.Set(ctx, "vritti_phq9_score", "99"))
	a, err = p.Assessment(ctx, assessment.PHQ9)
	require.NoError(t, err)
	assert.Nil(t, a)

	require.NoError(t, s.Set(ctx, "vritti_phq9_score", "22"))
	require.NoError(t, s.Set(ctx, "vritti_phq9_severity", "Mild depression"))
	a, err = p.Assessment(ctx, assessment.PHQ9)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, assessment.SeveritySevere, a.Severity, "severity is derived from the score")
	assert.Nil(t, a.Answers)
}

func TestResetAssessmentKeepsName(t *testing.T) {
	p, s, _ := newTestProfile(t)
	ctx := context.Background()

	_, err := p.SetDisplayName(ctx, "Sam")
	require.NoError(t, err)
	res, err := assessment.Score(assessment.PHQ9Instrument(), []int{3, 3, 3, 3, 3, 3, 2, 1, 1})
	require.NoError(t, err)
	require.Equal(t, 22, res.TotalScore)
	require.NoError(t, p.SaveAssessment(ctx, res))

	require.NoError(t, p.ResetAssessment(ctx, assessment.PHQ9))
	a, err := p.Assessment(ctx, assessment.PHQ9)
	require.NoError(t, err)
	assert.Nil(t, a)

	raw, _, _ := s.Get(ctx, "vritti_phq9_score")
	assert.Equal(t, "22", raw)
	name, _ := p.DisplayName(ctx)
	assert.Equal(t, "Sam", name)
}

func TestAssessmentUnknownInstrument(t *testing.T) {
	p, _, _ := newTestProfile(t)
	_, err := p.Assessment(context.Background(), "bdi")
	assert.ErrorIs(t, err, assessment.ErrUnknownInstrument)
}

func TestSnapshot(t *testing.T) {
	p, _, _ := newTestProfile(t)
	ctx := context.Background()

	s, err := p.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{}, s)

	_, err = p.SetDisplayName(ctx, "Sam")
	require.NoError(t, err)
	_, err = p.SetMood(ctx, "neutral")
	require.NoError(t, err)
	require.NoError(t, p.SetSleepHours(ctx, 6))

	s, err = p.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sam", s.DisplayName)
	assert.Equal(t, MoodNeutral, s.Mood)
	assert.Equal(t, 1, s.StreakCount)
	require.NotNil(t, s.SleepHours)
	assert.Equal(t, 6, *s.SleepHours)
	assert.Nil(t, s.Assessment)
}

func TestStorageUnavailableSurfaces(t *testing.T) {
	p := New(brokenStore{})
	ctx := context.Background()

	_, err := p.SetDisplayName(ctx, "Sam")
	assert.True(t, errors.Is(err, store.ErrStorageUnavailable))

	s, err := p.Snapshot(ctx)
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
	assert.Equal(t, Snapshot{}, s)

	err = p.SaveAssessment(ctx, assessment.Result{Instrument: assessment.PHQ9, Answers: make([]int, 9)})
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
}
