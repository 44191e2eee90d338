/*
Package segment assembles one segment of a score.

A segment maker is configured with a list of time signatures, a grouping of
measures into stages and a score template. Commands are registered together
with a scope: a voice and a range of stages. Running the maker builds the
score in a fixed sequence of passes:

▪︎ build an empty score from the template,

▪︎ fill the global context with a skip and a multi-measure rest per measure,
carrying time signatures, bar numbers and metronome marks,

▪︎ label stages,

▪︎ make the rhythm of every voice and fill the gaps between rhythm commands
with rests (or skips),

▪︎ stitch ties requested by rhythm commands,

▪︎ apply all other commands in the order of registration,

▪︎ carry clefs, instruments and metronome marks over from the previous
segment, unless set explicitly,

▪︎ decorate: spacing, repeats, clock time, instrument names, transposition,
rehearsal mark, final bar line and markup,

▪︎ check the result,

▪︎ compute the metadata handed on to the next segment.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package segment

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/scorekit/command"
	"github.com/npillmayer/scorekit/markup"
	"github.com/npillmayer/scorekit/notation"
	"github.com/npillmayer/scorekit/template"
)

// tracer writes to trace with key 'scorekit.segment'
func tracer() tracing.Trace {
	return tracing.Select("scorekit.segment")
}

// Scope identifies the music of a voice from stage Start to stage Stop,
// both inclusive and counted from 1. A negative Stop counts from the last
// stage (-1 is the last stage); zero means Stop = Start.
type Scope struct {
	Voice       string
	Start, Stop int
}

// NewScope creates a scope.
func NewScope(voice string, start, stop int) Scope {
	return Scope{Voice: voice, Start: start, Stop: stop}
}

// Stages creates a scope over all stages of a voice.
func Stages(voice string) Scope {
	return Scope{Voice: voice, Start: 1, Stop: -1}
}

func (s Scope) String() string {
	return fmt.Sprintf("%s[%d:%d]", s.Voice, s.Start, s.Stop)
}

// CompoundScope is a union of scopes. Commands registered with a compound
// scope are applied once, to the leaves of all scopes in order.
type CompoundScope []Scope

func (cs CompoundScope) String() string {
	parts := make([]string, len(cs))
	for i, s := range cs {
		parts[i] = s.String()
	}
	return strings.Join(parts, " + ")
}

// Wrapper pairs a command with its scope.
type Wrapper struct {
	Command command.Command
	Scope   CompoundScope
}

func (w Wrapper) String() string {
	return fmt.Sprintf("%s @ %s", w.Command, w.Scope)
}

// RepeatPolicy tells what to do with repeated pitch classes.
type RepeatPolicy string

// Policies for checks which may either pass, color or fail.
const (
	Ignore RepeatPolicy = "ignore"
	Color  RepeatPolicy = "color"
	Raise  RepeatPolicy = "raise"
)

// MeasureMark places a metronome mark (by name) at a measure, counted from 1.
type MeasureMark struct {
	Measure int    `validate:"min=1"`
	Mark    string `validate:"required"`
}

// MeasureSpan is a range of measures, counted from 1, both inclusive.
type MeasureSpan struct {
	Start int `validate:"min=1"`
	Stop  int `validate:"gtefield=Start"`
}

// Config configures a segment maker.
type Config struct {
	Name             string                   `validate:"required"`
	TimeSignatures   []notation.TimeSignature `validate:"required,min=1,dive"`
	MeasuresPerStage []int                    `validate:"omitempty,dive,min=1"`
	Template         template.ScoreTemplate   `validate:"required"`
	MetronomeMarks   map[string]notation.MetronomeMark
	MetronomeMarkMap []MeasureMark `validate:"omitempty,dive"`
	Previous         *Metadata

	AllowEmptySelections   bool
	ColorOutOfRangePitches bool
	ColorOctaves           bool
	RepeatPitchClasses     RepeatPolicy `validate:"omitempty,oneof=ignore color raise"`
	IgnoreUnpitchedNotes   bool

	LabelStages         bool
	LabelClockTime      bool
	HideInstrumentNames bool
	Spacing             *notation.Duration
	VoltaMeasures       []MeasureSpan `validate:"omitempty,dive"`
	TransposeScore      bool
	RehearsalMark       string
	FinalBarline        string `validate:"omitempty,barline"`
	FinalMarkup         *markup.Markup
}

// configValidate is the validator instance for segment configurations.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	configValidate.RegisterStructValidation(validateConfig, Config{})
	configValidate.RegisterStructValidation(validateTimeSignature, notation.TimeSignature{})
	if err := configValidate.RegisterValidation("barline", validateBarline); err != nil {
		panic(fmt.Sprintf("segment: failed to register bar line validation: %v", err))
	}
}

var barlines = map[string]bool{"|": true, "|.": true, "||": true, ".|": true, ".|.": true, ";": true, ":|.": true}

// validateBarline checks a bar line abbreviation.
func validateBarline(fl validator.FieldLevel) bool {
	return barlines[fl.Field().String()]
}

// validateConfig checks the relations between the fields of a Config.
func validateConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	n := len(cfg.TimeSignatures)
	if len(cfg.MeasuresPerStage) > 0 {
		sum := 0
		for _, m := range cfg.MeasuresPerStage {
			sum += m
		}
		if sum != n {
			sl.ReportError(cfg.MeasuresPerStage, "MeasuresPerStage", "MeasuresPerStage", "measuresum", fmt.Sprint(n))
		}
	}
	for _, mm := range cfg.MetronomeMarkMap {
		if _, ok := cfg.MetronomeMarks[mm.Mark]; !ok || mm.Measure > n {
			sl.ReportError(cfg.MetronomeMarkMap, "MetronomeMarkMap", "MetronomeMarkMap", "metronomemark", mm.Mark)
		}
	}
	last := 0
	for _, v := range cfg.VoltaMeasures {
		if v.Start <= last || v.Stop > n {
			sl.ReportError(cfg.VoltaMeasures, "VoltaMeasures", "VoltaMeasures", "volta", fmt.Sprint(v.Start))
		}
		last = v.Stop
	}
	if cfg.Spacing != nil && (cfg.Spacing.IsZero() || cfg.Spacing.Less(notation.Duration{})) {
		sl.ReportError(cfg.Spacing, "Spacing", "Spacing", "spacing", "")
	}
}

func validateTimeSignature(sl validator.StructLevel) {
	ts := sl.Current().Interface().(notation.TimeSignature)
	if ts.Numerator <= 0 || ts.Denominator <= 0 || ts.Denominator&(ts.Denominator-1) != 0 {
		sl.ReportError(ts, "TimeSignature", "TimeSignature", "timesignature", ts.String())
	}
}

// stageCount returns the number of stages, one stage spanning all measures
// if MeasuresPerStage is empty.
func (cfg Config) stageCount() int {
	if len(cfg.MeasuresPerStage) == 0 {
		return 1
	}
	return len(cfg.MeasuresPerStage)
}

// Maker assembles a segment.
type Maker struct {
	cfg      Config
	wrappers []Wrapper
}

// NewMaker validates a configuration and creates a maker.
func NewMaker(cfg Config) (*Maker, error) {
	if err := configValidate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("segment %q: invalid configuration: %w", cfg.Name, err)
	}
	if cfg.RepeatPitchClasses == "" {
		cfg.RepeatPitchClasses = Ignore
	}
	return &Maker{cfg: cfg}, nil
}

// Config returns the configuration of the maker.
func (m *Maker) Config() Config { return m.cfg }

// Wrappers returns the registered commands in order of registration.
func (m *Maker) Wrappers() []Wrapper { return m.wrappers }

// Append registers commands for a scope.
func (m *Maker) Append(scope Scope, cmds ...command.Command) error {
	return m.AppendCompound(CompoundScope{scope}, cmds...)
}

// AppendCompound registers commands for a compound scope.
func (m *Maker) AppendCompound(scope CompoundScope, cmds ...command.Command) error {
	if len(scope) == 0 {
		return ScopeError{Issue: "empty compound scope"}
	}
	for _, s := range scope {
		if err := m.checkScope(s); err != nil {
			return err
		}
	}
	for _, c := range cmds {
		if c == nil {
			return ScopeError{Scope: scope[0], Issue: "nil command"}
		}
		m.wrappers = append(m.wrappers, Wrapper{Command: c, Scope: scope})
	}
	return nil
}

func (m *Maker) checkScope(s Scope) error {
	if _, _, ok := template.FindVoice(m.cfg.Template, s.Voice); !ok {
		return ScopeError{Scope: s, Issue: "unknown voice"}
	}
	if _, _, err := resolveStages(s, m.cfg.stageCount()); err != nil {
		return err
	}
	return nil
}

// resolveStages returns the 0-based stage range [first, last] of a scope.
func resolveStages(s Scope, n int) (int, int, error) {
	start, stop := s.Start, s.Stop
	if stop == 0 {
		stop = start
	}
	if stop < 0 {
		stop += n + 1
	}
	if start < 1 || start > n || stop < start || stop > n {
		return 0, 0, ScopeError{Scope: s, Issue: fmt.Sprintf("stages out of range 1…%d", n)}
	}
	return start - 1, stop - 1, nil
}
