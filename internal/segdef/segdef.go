/*
Package segdef reads segment definitions from TOML files.

A definition describes the configuration of a segment and a list of
commands, each with a type, a scope and the parameters of its type:

	[segment]
	name = "A"
	template = "single-staff"
	time_signatures = ["4/8", "3/8", "4/8", "3/8"]

	[[command]]
	type = "rhythm"
	voice = "MusicVoice"
	maker = "notes"
	value = "1/8"
	beam = true

	[[command]]
	type = "pitches"
	voice = "MusicVoice"
	pitches = "19 13 15 16 17 23"
	cyclic = true

Without stages, a command is scoped to all stages of its voice.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package segdef

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'scorekit.segdef'
func tracer() tracing.Trace {
	return tracing.Select("scorekit.segdef")
}

// Definition is the content of a segment definition file.
type Definition struct {
	Segment          SegmentDef        `toml:"segment" validate:"required"`
	MetronomeMarks   map[string]string `toml:"metronome_marks"`
	MetronomeMarkMap []MarkDef         `toml:"metronome_mark_map" validate:"omitempty,dive"`
	Voltas           []VoltaDef        `toml:"volta" validate:"omitempty,dive"`
	Commands         []CommandDef      `toml:"command" validate:"omitempty,dive"`
}

// SegmentDef holds the settings of a segment.
type SegmentDef struct {
	Name                   string   `toml:"name" validate:"required"`
	Template               string   `toml:"template" validate:"required"`
	TimeSignatures         []string `toml:"time_signatures" validate:"required,min=1"`
	MeasuresPerStage       []int    `toml:"measures_per_stage" validate:"omitempty,dive,min=1"`
	Previous               string   `toml:"previous"`
	AllowEmptySelections   bool     `toml:"allow_empty_selections"`
	ColorOutOfRangePitches bool     `toml:"color_out_of_range_pitches"`
	ColorOctaves           bool     `toml:"color_octaves"`
	RepeatPitchClasses     string   `toml:"repeat_pitch_classes" validate:"omitempty,oneof=ignore color raise"`
	IgnoreUnpitchedNotes   bool     `toml:"ignore_unpitched_notes"`
	LabelStages            bool     `toml:"label_stages"`
	LabelClockTime         bool     `toml:"label_clock_time"`
	HideInstrumentNames    bool     `toml:"hide_instrument_names"`
	Spacing                string   `toml:"spacing"`
	TransposeScore         bool     `toml:"transpose_score"`
	RehearsalMark          string   `toml:"rehearsal_mark"`
	FinalBarline           string   `toml:"final_barline"`
	FinalMarkup            string   `toml:"final_markup"`
}

// MarkDef places a named metronome mark at a measure.
type MarkDef struct {
	Measure int    `toml:"measure" validate:"min=1"`
	Mark    string `toml:"mark" validate:"required"`
}

// VoltaDef repeats a range of measures.
type VoltaDef struct {
	Start int `toml:"start" validate:"min=1"`
	Stop  int `toml:"stop" validate:"gtefield=Start"`
}

// ScopeDef is a voice with an optional stage range [first, last].
type ScopeDef struct {
	Voice  string `toml:"voice" validate:"required"`
	Stages []int  `toml:"stages" validate:"max=2"`
}

// CommandDef is a command of a definition. Which parameters apply depends
// on the type of the command.
type CommandDef struct {
	Type     string     `toml:"type" validate:"required"`
	Voice    string     `toml:"voice"`
	Stages   []int      `toml:"stages" validate:"max=2"`
	Scopes   []ScopeDef `toml:"scope" validate:"omitempty,dive"`
	Selector string     `toml:"selector"`

	// rhythm
	Maker       string `toml:"maker"`
	Value       string `toml:"value"`
	Counts      []int  `toml:"counts"`
	Denominator int64  `toml:"denominator"`
	Beam        bool   `toml:"beam"`
	TieFirst    bool   `toml:"tie_first"`
	TieLast     bool   `toml:"tie_last"`

	// pitches and staff positions
	Pitches   string `toml:"pitches"`
	Cyclic    bool   `toml:"cyclic"`
	Persist   string `toml:"persist"`
	Positions []int  `toml:"positions"`
	Exact     bool   `toml:"exact"`
	Start     string `toml:"start"`
	Stop      string `toml:"stop"`
	Center    int    `toml:"center"`
	Semitones int    `toml:"semitones"`

	// indicators
	Points     string   `toml:"points"`
	Descriptor string   `toml:"descriptor"`
	Names      []string `toml:"names"`
	Markup     []string `toml:"markup"`
	Clef       string   `toml:"clef"`
	Instrument string   `toml:"instrument"`
	Color      string   `toml:"color"`
	Context    string   `toml:"context"`
	Grob       string   `toml:"grob"`
	Property   string   `toml:"property"`
	Setting    string   `toml:"setting"`
	Style      string   `toml:"style"`
}

func (cd CommandDef) String() string {
	if cd.Voice != "" {
		return fmt.Sprintf("%s@%s", cd.Type, cd.Voice)
	}
	return cd.Type
}

// defValidate is the validator instance for definitions.
var defValidate *validator.Validate

func init() {
	defValidate = validator.New()
	defValidate.RegisterStructValidation(validateCommandDef, CommandDef{})
}

// validateCommandDef checks that a command has exactly one way of scoping.
func validateCommandDef(sl validator.StructLevel) {
	cd := sl.Current().Interface().(CommandDef)
	if (cd.Voice == "") == (len(cd.Scopes) == 0) {
		sl.ReportError(cd.Voice, "Voice", "Voice", "voiceorscope", "")
	}
	if len(cd.Scopes) > 0 && len(cd.Stages) > 0 {
		sl.ReportError(cd.Stages, "Stages", "Stages", "stageswithscope", "")
	}
}

// Load reads and validates a definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	def, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tracer().Infof("loaded segment definition %s from %s", def.Segment.Name, path)
	return def, nil
}

// Parse reads and validates a definition. Unknown keys are errors.
func Parse(data string) (*Definition, error) {
	var def Definition
	md, err := toml.Decode(data, &def)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := defValidate.Struct(&def); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}
	for i, cd := range def.Commands {
		if _, ok := builders[cd.Type]; !ok {
			return nil, fmt.Errorf("command %d: unknown type %q", i+1, cd.Type)
		}
	}
	return &def, nil
}
