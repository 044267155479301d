// Package gate decides what a device sees when a view opens: the name prompt,
// the PHQ-9 questionnaire, or the dashboard itself.
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"vritti/backend/assessment"
	"vritti/backend/profile"

	"github.com/sirupsen/logrus"
)

type Mode int

const (
	ModeCollectName Mode = iota
	ModeRunAssessment
	ModeShowContent
)

func (m Mode) String() string {
	switch m {
	case ModeCollectName:
		return "collect_name"
	case ModeRunAssessment:
		return "run_assessment"
	case ModeShowContent:
		return "show_content"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

var ErrWrongMode = errors.New("operation not allowed in current mode")

// Decide applies the gate rule. The name check always comes first.
func Decide(hasName, hasAssessment bool) Mode {
	switch {
	case !hasName:
		return ModeCollectName
	case !hasAssessment:
		return ModeRunAssessment
	default:
		return ModeShowContent
	}
}

// Observer receives gate events. Implementations must be safe for concurrent
// use across gates.
type Observer interface {
	ModeSelected(Mode)
	AssessmentCompleted(assessment.Result)
	InvalidAnswer(instrument string)
	StorageDegraded(op string)
}

type nopObserver struct{}

func (nopObserver) ModeSelected(Mode)                     {}
func (nopObserver) AssessmentCompleted(assessment.Result) {}
func (nopObserver) InvalidAnswer(string)                  {}
func (nopObserver) StorageDegraded(string)                {}

// Question describes the step awaiting an answer.
type Question struct {
	Instrument string              `json:"instrument"`
	Prompt     string              `json:"prompt"`
	Step       int                 `json:"step"`
	Total      int                 `json:"total"`
	Text       string              `json:"text"`
	Options    []assessment.Option `json:"options"`
	Progress   float64             `json:"progress"`
}

// Gate is the per-device session state machine. Storage failures never block
// a transition: what could not be written is remembered for the session.
type Gate struct {
	mu sync.Mutex

	profile *profile.Profile
	inst    *assessment.Instrument
	log     logrus.FieldLogger
	obs     Observer

	evaluated bool
	mode      Mode
	engine    *assessment.Engine

	// session-only facts, kept when storage refused them
	named    bool
	assessed bool
	retaking bool
	degraded bool
}

type Option func(*Gate)

func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Gate) { g.log = l }
}

func WithObserver(o Observer) Option {
	return func(g *Gate) {
		if o != nil {
			g.obs = o
		}
	}
}

// WithInstrument overrides the gating questionnaire, PHQ-9 by default.
func WithInstrument(inst *assessment.Instrument) Option {
	return func(g *Gate) { g.inst = inst }
}

func New(p *profile.Profile, opts ...Option) *Gate {
	g := &Gate{
		profile: p,
		inst:    assessment.PHQ9Instrument(),
		log:     logrus.StandardLogger(),
		obs:     nopObserver{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) Profile() *profile.Profile { return g.profile }

// Mode returns the last evaluated mode, evaluating first if needed.
func (g *Gate) Mode(ctx context.Context) Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ensure(ctx)
	return g.mode
}

// Degraded reports whether some state of this session could not be saved.
func (g *Gate) Degraded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.degraded
}

// Evaluate re-reads the profile and selects the mode.
func (g *Gate) Evaluate(ctx context.Context) Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.evaluate(ctx)
}

func (g *Gate) ensure(ctx context.Context) {
	if !g.evaluated {
		g.evaluate(ctx)
	}
}

func (g *Gate) evaluate(ctx context.Context) Mode {
	g.evaluated = true

	name, err := g.profile.DisplayName(ctx)
	if err != nil {
		g.storageFailed("get", err)
	}
	hasName := name != "" || g.named

	hasAssessment := g.assessed
	if hasName && !g.retaking && !hasAssessment {
		a, err := g.profile.Assessment(ctx, g.inst.ID)
		if err != nil {
			g.storageFailed("get", err)
		}
		hasAssessment = a != nil
	}
	if g.retaking {
		hasAssessment = false
	}

	g.setMode(Decide(hasName, hasAssessment))
	return g.mode
}

func (g *Gate) setMode(m Mode) {
	g.mode = m
	switch {
	case m != ModeRunAssessment:
		g.engine = nil
	case g.engine == nil || g.engine.Completed():
		g.engine = assessment.NewEngine(g.inst)
	}
	g.obs.ModeSelected(m)
}

func (g *Gate) storageFailed(op string, err error) {
	g.degraded = true
	g.obs.StorageDegraded(op)
	g.log.WithError(err).WithField("op", op).Warn("Profile storage unavailable, keeping session-only state")
}

// SubmitName stores the display name and moves on. A blank name returns
// profile.ErrEmptyName and leaves the gate in CollectName.
func (g *Gate) SubmitName(ctx context.Context, name string) (Mode, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ensure(ctx)

	if g.mode != ModeCollectName {
		return g.mode, ErrWrongMode
	}
	if _, err := g.profile.SetDisplayName(ctx, name); err != nil {
		if errors.Is(err, profile.ErrEmptyName) {
			return g.mode, err
		}
		g.storageFailed("set", err)
	}
	g.named = true
	return g.evaluate(ctx), nil
}

// Question returns the current questionnaire step, or nil outside
// RunAssessment.
func (g *Gate) Question(ctx context.Context) *Question {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ensure(ctx)
	return g.question()
}

func (g *Gate) question() *Question {
	if g.mode != ModeRunAssessment || g.engine == nil {
		return nil
	}
	return &Question{
		Instrument: g.inst.ID,
		Prompt:     g.inst.Prompt,
		Step:       g.engine.Step(),
		Total:      g.inst.Len(),
		Text:       g.engine.Question(),
		Options:    g.inst.Options,
		Progress:   g.engine.Progress(),
	}
}

// Answer feeds one answer to the running questionnaire. When it completes,
// the result is persisted and the gate moves to ShowContent, even if the
// write failed.
func (g *Gate) Answer(ctx context.Context, value int) (*assessment.Result, Mode, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ensure(ctx)

	if g.mode != ModeRunAssessment {
		return nil, g.mode, ErrWrongMode
	}
	res, err := g.engine.Answer(value)
	if err != nil {
		if errors.Is(err, assessment.ErrInvalidAnswer) {
			g.obs.InvalidAnswer(g.inst.ID)
		}
		return nil, g.mode, err
	}
	if res == nil {
		return nil, g.mode, nil
	}

	if err := g.profile.SaveAssessment(ctx, *res); err != nil {
		g.storageFailed("set", err)
	}
	g.assessed = true
	g.retaking = false
	g.obs.AssessmentCompleted(*res)
	g.log.WithFields(logrus.Fields{
		"instrument": res.Instrument,
		"score":      res.TotalScore,
	}).Info("Assessment completed")

	g.setMode(ModeShowContent)
	return res, g.mode, nil
}

// Retake restarts the questionnaire from ShowContent. The display name is
// kept.
func (g *Gate) Retake(ctx context.Context) (Mode, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ensure(ctx)

	if g.mode != ModeShowContent {
		return g.mode, ErrWrongMode
	}
	if err := g.profile.ResetAssessment(ctx, g.inst.ID); err != nil {
		g.storageFailed("set", err)
	}
	g.assessed = false
	g.retaking = true
	g.engine = nil
	g.setMode(ModeRunAssessment)
	return g.mode, nil
}
