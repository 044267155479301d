package assessment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAnswer is returned for an answer outside the instrument's
	// option values. The engine state is left untouched.
	ErrInvalidAnswer = errors.New("invalid answer")
	ErrCompleted     = errors.New("assessment already completed")
	ErrAnswerCount   = errors.New("wrong number of answers")
)

// Result is the terminal emission of a completed run.
type Result struct {
	Instrument string   `json:"instrument"`
	Answers    []int    `json:"answers"`
	TotalScore int      `json:"total_score"`
	Severity   Severity `json:"severity"`
}

// Engine walks an instrument one question at a time. It has no side effects;
// callers persist the Result themselves.
type Engine struct {
	inst    *Instrument
	answers []int
	result  *Result
}

func NewEngine(inst *Instrument) *Engine {
	return &Engine{inst: inst, answers: make([]int, 0, inst.Len())}
}

func (e *Engine) Instrument() *Instrument { return e.inst }

// Step is the zero-based index of the question awaiting an answer. Once the
// engine has completed it equals the instrument length.
func (e *Engine) Step() int { return len(e.answers) }

func (e *Engine) Completed() bool { return e.result != nil }

// Question returns the text of the current question, or "" once completed.
func (e *Engine) Question() string {
	if e.Completed() {
		return ""
	}
	return e.inst.Questions[e.Step()]
}

// Progress is the fraction of questions answered, in [0, 1].
func (e *Engine) Progress() float64 {
	return float64(e.Step()) / float64(e.inst.Len())
}

func (e *Engine) Answers() []int {
	return append([]int(nil), e.answers...)
}

func (e *Engine) Result() (Result, bool) {
	if e.result == nil {
		return Result{}, false
	}
	r := *e.result
	r.Answers = append([]int(nil), e.result.Answers...)
	return r, true
}

// Answer records a for the current step. On the last step it returns the
// completed Result; before that it returns nil.
func (e *Engine) Answer(a int) (*Result, error) {
	if e.Completed() {
		return nil, ErrCompleted
	}
	if !e.inst.ValidAnswer(a) {
		return nil, fmt.Errorf("step %d: %d: %w", e.Step(), a, ErrInvalidAnswer)
	}
	e.answers = append(e.answers, a)
	if e.Step() < e.inst.Len() {
		return nil, nil
	}

	r, err := Score(e.inst, e.answers)
	if err != nil {
		// unreachable: every recorded answer was validated above
		e.answers = e.answers[:len(e.answers)-1]
		return nil, err
	}
	e.result = &r
	out := r
	return &out, nil
}

// Score validates a complete answer sheet and classifies its sum.
func Score(inst *Instrument, answers []int) (Result, error) {
	if len(answers) != inst.Len() {
		return Result{}, fmt.Errorf("%s: got %d answers, want %d: %w", inst.ID, len(answers), inst.Len(), ErrAnswerCount)
	}
	total := 0
	for n, a := range answers {
		if !inst.ValidAnswer(a) {
			return Result{}, fmt.Errorf("%s question %d: %d: %w", inst.ID, n, a, ErrInvalidAnswer)
		}
		total += a
	}
	sev, err := inst.Classify(total)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Instrument: inst.ID,
		Answers:    append([]int(nil), answers...),
		TotalScore: total,
		Severity:   sev,
	}, nil
}
