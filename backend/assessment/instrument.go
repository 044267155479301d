// Package assessment implements fixed-length Likert screening questionnaires
// such as PHQ-9: the instrument definitions, stateless scoring and the
// one-question-at-a-time engine.
package assessment

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// PHQ9 is the instrument that gates access to the dashboard.
const PHQ9 = "phq9"

const GAD7 = "gad7"

// Severity is a band label derived from a total score.
type Severity string

const (
	SeverityMinimal          Severity = "Minimal depression"
	SeverityMild             Severity = "Mild depression"
	SeverityModerate         Severity = "Moderate depression"
	SeverityModeratelySevere Severity = "Moderately severe depression"
	SeveritySevere           Severity = "Severe depression"
)

var (
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrScoreOutOfRange   = errors.New("score out of range")
)

//go:embed instruments.yaml
var builtinYAML []byte

type Option struct {
	Value int    `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Band maps the inclusive score range [Min, Max] to a label.
type Band struct {
	Min   int      `yaml:"min" json:"min"`
	Max   int      `yaml:"max" json:"max"`
	Label Severity `yaml:"label" json:"label"`
}

type Instrument struct {
	ID        string   `yaml:"id" json:"id"`
	Name      string   `yaml:"name" json:"name"`
	Prompt    string   `yaml:"prompt" json:"prompt"`
	Options   []Option `yaml:"options" json:"options"`
	Questions []string `yaml:"questions" json:"questions"`
	Bands     []Band   `yaml:"bands" json:"bands"`
}

// Len is the number of questions, which is also the number of answers a
// completed run records.
func (i *Instrument) Len() int { return len(i.Questions) }

func (i *Instrument) MaxAnswer() int { return len(i.Options) - 1 }

func (i *Instrument) MaxScore() int { return i.Len() * i.MaxAnswer() }

// ValidAnswer reports whether a is one of the instrument's option values.
func (i *Instrument) ValidAnswer(a int) bool {
	return a >= 0 && a <= i.MaxAnswer()
}

// Classify returns the band label for a total score.
func (i *Instrument) Classify(score int) (Severity, error) {
	for _, b := range i.Bands {
		if score >= b.Min && score <= b.Max {
			return b.Label, nil
		}
	}
	return "", fmt.Errorf("%s score %d: %w", i.ID, score, ErrScoreOutOfRange)
}

// Validate checks that options are numbered 0..k in order and that the bands
// tile [0, MaxScore] with no gap and no overlap.
func (i *Instrument) Validate() error {
	if i.ID == "" {
		return errors.New("instrument without id")
	}
	if len(i.Questions) == 0 {
		return fmt.Errorf("%s: no questions", i.ID)
	}
	if len(i.Options) < 2 {
		return fmt.Errorf("%s: need at least two options", i.ID)
	}
	for n, o := range i.Options {
		if o.Value != n {
			return fmt.Errorf("%s: option %d has value %d", i.ID, n, o.Value)
		}
	}
	if len(i.Bands) == 0 {
		return fmt.Errorf("%s: no bands", i.ID)
	}

	bands := append([]Band(nil), i.Bands...)
	sort.Slice(bands, func(a, b int) bool { return bands[a].Min < bands[b].Min })
	next := 0
	for _, b := range bands {
		if b.Min != next {
			return fmt.Errorf("%s: bands leave a gap or overlap at %d", i.ID, next)
		}
		if b.Max < b.Min {
			return fmt.Errorf("%s: band %q is empty", i.ID, b.Label)
		}
		next = b.Max + 1
	}
	if next-1 != i.MaxScore() {
		return fmt.Errorf("%s: bands end at %d, max score is %d", i.ID, next-1, i.MaxScore())
	}
	return nil
}

// Catalog is a read-only set of instruments keyed by id.
type Catalog struct {
	byID  map[string]*Instrument
	order []string
}

// ParseCatalog decodes a YAML list of instruments and validates each one.
func ParseCatalog(data []byte) (*Catalog, error) {
	var list []*Instrument
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode instruments: %w", err)
	}
	c := &Catalog{byID: make(map[string]*Instrument, len(list))}
	for _, inst := range list {
		if err := inst.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[inst.ID]; dup {
			return nil, fmt.Errorf("duplicate instrument %q", inst.ID)
		}
		c.byID[inst.ID] = inst
		c.order = append(c.order, inst.ID)
	}
	return c, nil
}

func (c *Catalog) Lookup(id string) (*Instrument, error) {
	inst, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownInstrument)
	}
	return inst, nil
}

func (c *Catalog) All() []*Instrument {
	out := make([]*Instrument, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

var builtin = mustParse(builtinYAML)

func mustParse(data []byte) *Catalog {
	c, err := ParseCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Builtin returns the instruments shipped with the service.
func Builtin() *Catalog { return builtin }

// PHQ9Instrument returns the built-in PHQ-9 definition.
func PHQ9Instrument() *Instrument {
	inst, _ := builtin.Lookup(PHQ9)
	return inst
}
