// Package profile gives typed access to the per-device wellness profile kept
// in a store.Store: display name, mood, streak, last activity, sleep, the
// latest journal entry and questionnaire results.
//
// Each field is an independent key. Nothing is written transactionally, so
// readers tolerate partially written state; an assessment only counts once its
// completed flag, written last, reads "true".
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"vritti/backend/assessment"
	"vritti/backend/store"
)

var (
	ErrEmptyName         = errors.New("display name is empty")
	ErrInvalidMood       = errors.New("invalid mood")
	ErrEmptyActivity     = errors.New("activity label is empty")
	ErrInvalidSleepHours = errors.New("sleep hours out of range")
	ErrEmptyJournal      = errors.New("journal entry is empty")
)

type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
)

func ParseMood(s string) (Mood, error) {
	switch m := Mood(strings.ToLower(strings.TrimSpace(s))); m {
	case MoodHappy, MoodNeutral, MoodSad:
		return m, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidMood)
}

// Assessment is a completed questionnaire result as read back from storage.
type Assessment struct {
	Instrument  string              `json:"instrument"`
	Answers     []int               `json:"answers,omitempty"`
	TotalScore  int                 `json:"total_score"`
	Severity    assessment.Severity `json:"severity"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
}

type Journal struct {
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

type Snapshot struct {
	DisplayName  string      `json:"display_name"`
	Mood         Mood        `json:"mood,omitempty"`
	StreakCount  int         `json:"streak_count"`
	LastActivity string      `json:"last_activity,omitempty"`
	SleepHours   *int        `json:"sleep_hours,omitempty"`
	Journal      *Journal    `json:"latest_journal,omitempty"`
	Assessment   *Assessment `json:"assessment,omitempty"`
}

type Profile struct {
	store   store.Store
	catalog *assessment.Catalog
	now     func() time.Time
}

type Option func(*Profile)

func WithClock(now func() time.Time) Option {
	return func(p *Profile) { p.now = now }
}

func WithCatalog(c *assessment.Catalog) Option {
	return func(p *Profile) { p.catalog = c }
}

func New(s store.Store, opts ...Option) *Profile {
	p := &Profile{store: s, catalog: assessment.Builtin(), now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Profile) DisplayName(ctx context.Context) (string, error) {
	v, _, err := p.store.Get(ctx, KeyDisplayName)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

// SetDisplayName stores the trimmed name and returns it. A blank name is
// rejected with ErrEmptyName before anything is written.
func (p *Profile) SetDisplayName(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, p.store.Set(ctx, KeyDisplayName, name)
}

// Mood returns the latest mood, or "" when none was ever selected or the
// stored value is not a known mood.
func (p *Profile) Mood(ctx context.Context) (Mood, error) {
	v, ok, err := p.store.Get(ctx, KeyMood)
	if err != nil || !ok {
		return "", err
	}
	m, perr := ParseMood(v)
	if perr != nil {
		return "", nil
	}
	return m, nil
}

// MoodOn returns the mood selected on the calendar day of t.
func (p *Profile) MoodOn(ctx context.Context, t time.Time) (Mood, bool, error) {
	v, ok, err := p.store.Get(ctx, moodOnKey(t.Format(dayLayout)))
	if err != nil || !ok {
		return "", false, err
	}
	m, perr := ParseMood(v)
	if perr != nil {
		return "", false, nil
	}
	return m, true, nil
}

// SetMood overwrites the current mood, records it for today and counts the
// interaction towards the streak.
func (p *Profile) SetMood(ctx context.Context, raw string) (Mood, error) {
	m, err := ParseMood(raw)
	if err != nil {
		return "", err
	}
	errs := []error{
		p.store.Set(ctx, KeyMood, string(m)),
		p.store.Set(ctx, moodOnKey(p.now().Format(dayLayout)), string(m)),
	}
	_, serr := p.RecordEngagement(ctx)
	errs = append(errs, serr)
	return m, errors.Join(errs...)
}

func (p *Profile) LastActivity(ctx context.Context) (string, error) {
	v, _, err := p.store.Get(ctx, KeyLastActivity)
	return v, err
}

// RecordActivity stores the lower-cased label of the activity the user just
// opened and counts it towards the streak.
func (p *Profile) RecordActivity(ctx context.Context, label string) (string, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return "", ErrEmptyActivity
	}
	err := p.store.Set(ctx, KeyLastActivity, label)
	_, serr := p.RecordEngagement(ctx)
	return label, errors.Join(err, serr)
}

func (p *Profile) Streak(ctx context.Context) (int, error) {
	v, ok, err := p.store.Get(ctx, KeyStreak)
	if err != nil || !ok {
		return 0, err
	}
	n, perr := strconv.Atoi(v)
	if perr != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

// RecordEngagement advances the streak for today: unchanged when today was
// already counted, +1 when the last counted day was yesterday, otherwise a
// new streak of 1.
func (p *Profile) RecordEngagement(ctx context.Context) (int, error) {
	today := p.now().Format(dayLayout)
	last, _, err := p.store.Get(ctx, KeyStreakDay)
	if err != nil {
		return 0, err
	}
	count, err := p.Streak(ctx)
	if err != nil {
		return 0, err
	}

	switch {
	case last == today && count > 0:
		return count, nil
	case last != "" && isDayBefore(last, today):
		count++
	default:
		count = 1
	}
	return count, errors.Join(
		p.store.Set(ctx, KeyStreak, strconv.Itoa(count)),
		p.store.Set(ctx, KeyStreakDay, today),
	)
}

func isDayBefore(last, today string) bool {
	l, err := time.Parse(dayLayout, last)
	if err != nil {
		return false
	}
	t, err := time.Parse(dayLayout, today)
	if err != nil {
		return false
	}
	return l.AddDate(0, 0, 1).Equal(t)
}

func (p *Profile) SleepHours(ctx context.Context) (int, bool, error) {
	v, ok, err := p.store.Get(ctx, KeySleepHours)
	if err != nil || !ok {
		return 0, false, err
	}
	n, perr := strconv.Atoi(v)
	if perr != nil || n < 0 || n > 24 {
		return 0, false, nil
	}
	return n, true, nil
}

func (p *Profile) SetSleepHours(ctx context.Context, hours int) error {
	if hours < 0 || hours > 24 {
		return fmt.Errorf("%d: %w", hours, ErrInvalidSleepHours)
	}
	return p.store.Set(ctx, KeySleepHours, strconv.Itoa(hours))
}

func (p *Profile) LatestJournal(ctx context.Context) (*Journal, error) {
	v, ok, err := p.store.Get(ctx, KeyJournal)
	if err != nil || !ok {
		return nil, err
	}
	var j Journal
	if json.Unmarshal([]byte(v), &j) != nil {
		return nil, nil
	}
	return &j, nil
}

// SaveJournal replaces the latest journal entry. Only the newest entry is
// kept.
func (p *Profile) SaveJournal(ctx context.Context, text string) (Journal, error) {
	if strings.TrimSpace(text) == "" {
		return Journal{}, ErrEmptyJournal
	}
	j := Journal{Text: text, Date: p.now().UTC()}
	data, err := json.Marshal(j)
	if err != nil {
		return Journal{}, err
	}
	return j, p.store.Set(ctx, KeyJournal, string(data))
}

// Assessment reads back a completed result. It returns nil, not an error,
// when the completed flag is not "true" or the stored score is unusable:
// either way the questionnaire has to be taken (again).
func (p *Profile) Assessment(ctx context.Context, instrument string) (*Assessment, error) {
	inst, err := p.catalog.Lookup(instrument)
	if err != nil {
		return nil, err
	}
	done, _, err := p.store.Get(ctx, completedKey(instrument))
	if err != nil || done != "true" {
		return nil, err
	}
	raw, ok, err := p.store.Get(ctx, scoreKey(instrument))
	if err != nil || !ok {
		return nil, err
	}
	score, perr := strconv.Atoi(raw)
	if perr != nil {
		return nil, nil
	}
	severity, cerr := inst.Classify(score)
	if cerr != nil {
		return nil, nil
	}

	a := &Assessment{Instrument: instrument, TotalScore: score, Severity: severity}
	if raw, ok, err := p.store.Get(ctx, answersKey(instrument)); err == nil && ok {
		if answers, ok := parseAnswers(raw, inst); ok {
			a.Answers = answers
		}
	}
	if raw, ok, err := p.store.Get(ctx, completedAtKey(instrument)); err == nil && ok {
		if at, perr := time.Parse(time.RFC3339, raw); perr == nil {
			a.CompletedAt = &at
		}
	}
	return a, nil
}

func parseAnswers(raw string, inst *assessment.Instrument) ([]int, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != inst.Len() {
		return nil, false
	}
	out := make([]int, len(parts))
	for n, s := range parts {
		a, err := strconv.Atoi(s)
		if err != nil || !inst.ValidAnswer(a) {
			return nil, false
		}
		out[n] = a
	}
	return out, true
}

// SaveAssessment persists a completed result, writing the completed flag
// last. Every key is attempted even when an earlier write fails; the joined
// error reports all failures.
func (p *Profile) SaveAssessment(ctx context.Context, res assessment.Result) error {
	answers := make([]string, len(res.Answers))
	for n, a := range res.Answers {
		answers[n] = strconv.Itoa(a)
	}
	var errs []error
	for _, kv := range [][2]string{
		{scoreKey(res.Instrument), strconv.Itoa(res.TotalScore)},
		{severityKey(res.Instrument), string(res.Severity)},
		{answersKey(res.Instrument), strings.Join(answers, ",")},
		{completedAtKey(res.Instrument), p.now().UTC().Format(time.RFC3339)},
		{completedKey(res.Instrument), "true"},
	} {
		errs = append(errs, p.store.Set(ctx, kv[0], kv[1]))
	}
	return errors.Join(errs...)
}

// ResetAssessment clears the completed flag for a retake. The previous score
// stays stored but no longer counts as completed.
func (p *Profile) ResetAssessment(ctx context.Context, instrument string) error {
	return p.store.Set(ctx, completedKey(instrument), "false")
}

// Snapshot reads every field. Fields whose read fails are left at their zero
// value; the joined error lists the failures.
func (p *Profile) Snapshot(ctx context.Context) (Snapshot, error) {
	var (
		s    Snapshot
		errs []error
		err  error
	)
	s.DisplayName, err = p.DisplayName(ctx)
	errs = append(errs, err)
	s.Mood, err = p.Mood(ctx)
	errs = append(errs, err)
	s.StreakCount, err = p.Streak(ctx)
	errs = append(errs, err)
	s.LastActivity, err = p.LastActivity(ctx)
	errs = append(errs, err)

	hours, ok, err := p.SleepHours(ctx)
	errs = append(errs, err)
	if ok {
		s.SleepHours = &hours
	}
	s.Journal, err = p.LatestJournal(ctx)
	errs = append(errs, err)
	s.Assessment, err = p.Assessment(ctx, assessment.PHQ9)
	errs = append(errs, err)

	return s, errors.Join(errs...)
}
