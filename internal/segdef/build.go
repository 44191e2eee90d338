package segdef

import (
	"fmt"
	"sort"

	"github.com/npillmayer/scorekit/command"
	"github.com/npillmayer/scorekit/markup"
	"github.com/npillmayer/scorekit/notation"
	"github.com/npillmayer/scorekit/rhythm"
	"github.com/npillmayer/scorekit/segment"
	"github.com/npillmayer/scorekit/template"
)

// Builder creates a command from its definition. The selector parsed from
// the definition is nil if none was given.
type Builder func(cd CommandDef, sel notation.Selector) (command.Command, error)

var builders = map[string]Builder{
	"rhythm":          buildRhythm,
	"pitches":         buildPitches,
	"staff_positions": buildStaffPositions,
	"interpolate":     buildInterpolation,
	"bcps":            buildBowContactPoints,
	"hairpin":         buildHairpin,
	"tie":             buildTie(false),
	"untie":           buildTie(true),
	"articulations":   buildArticulations,
	"dynamics":        buildDynamics,
	"markup":          buildMarkup,
	"clef":            buildClef,
	"instrument":      buildInstrument,
	"register":        buildRegister,
	"transpose":       buildTranspose,
	"color":           buildColor,
	"override":        buildOverride,
	"notehead":        buildNotehead,
	"fuse":            buildFuse,
}

// RegisterBuilder adds a command type or replaces the builder of one.
func RegisterBuilder(typ string, b Builder) {
	builders[typ] = b
}

// CommandTypes lists the known command types, sorted.
func CommandTypes() []string {
	types := make([]string, 0, len(builders))
	for t := range builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Config converts the segment settings of a definition to a segment
// configuration. prev is the metadata of the previous segment, or nil.
func (def *Definition) Config(prev *segment.Metadata) (segment.Config, error) {
	sd := def.Segment
	tmpl, err := template.Lookup(sd.Template)
	if err != nil {
		return segment.Config{}, err
	}
	ts, err := notation.TimeSignatures(sd.TimeSignatures...)
	if err != nil {
		return segment.Config{}, err
	}
	cfg := segment.Config{
		Name:                   sd.Name,
		TimeSignatures:         ts,
		MeasuresPerStage:       sd.MeasuresPerStage,
		Template:               tmpl,
		Previous:               prev,
		AllowEmptySelections:   sd.AllowEmptySelections,
		ColorOutOfRangePitches: sd.ColorOutOfRangePitches,
		ColorOctaves:           sd.ColorOctaves,
		RepeatPitchClasses:     segment.RepeatPolicy(sd.RepeatPitchClasses),
		IgnoreUnpitchedNotes:   sd.IgnoreUnpitchedNotes,
		LabelStages:            sd.LabelStages,
		LabelClockTime:         sd.LabelClockTime,
		HideInstrumentNames:    sd.HideInstrumentNames,
		TransposeScore:         sd.TransposeScore,
		RehearsalMark:          sd.RehearsalMark,
		FinalBarline:           sd.FinalBarline,
	}
	if len(def.MetronomeMarks) > 0 {
		cfg.MetronomeMarks = make(map[string]notation.MetronomeMark, len(def.MetronomeMarks))
		for name, spec := range def.MetronomeMarks {
			mm, err := notation.ParseMetronomeMark(name, spec)
			if err != nil {
				return segment.Config{}, err
			}
			cfg.MetronomeMarks[name] = mm
		}
	}
	for _, m := range def.MetronomeMarkMap {
		cfg.MetronomeMarkMap = append(cfg.MetronomeMarkMap, segment.MeasureMark{Measure: m.Measure, Mark: m.Mark})
	}
	for _, v := range def.Voltas {
		cfg.VoltaMeasures = append(cfg.VoltaMeasures, segment.MeasureSpan{Start: v.Start, Stop: v.Stop})
	}
	if sd.Spacing != "" {
		d, err := notation.ParseDuration(sd.Spacing)
		if err != nil {
			return segment.Config{}, fmt.Errorf("spacing: %w", err)
		}
		cfg.Spacing = &d
	}
	if sd.FinalMarkup != "" {
		m := markup.String(sd.FinalMarkup)
		cfg.FinalMarkup = &m
	}
	return cfg, nil
}

// Maker creates a segment maker with all commands of the definition
// registered.
func (def *Definition) Maker(prev *segment.Metadata) (*segment.Maker, error) {
	cfg, err := def.Config(prev)
	if err != nil {
		return nil, err
	}
	m, err := segment.NewMaker(cfg)
	if err != nil {
		return nil, err
	}
	for i, cd := range def.Commands {
		cmd, scope, err := buildCommand(cd)
		if err != nil {
			return nil, fmt.Errorf("command %d (%s): %w", i+1, cd, err)
		}
		if err := m.AppendCompound(scope, cmd); err != nil {
			return nil, fmt.Errorf("command %d (%s): %w", i+1, cd, err)
		}
	}
	tracer().Debugf("segment %s: %d commands registered", cfg.Name, len(def.Commands))
	return m, nil
}

func buildCommand(cd CommandDef) (command.Command, segment.CompoundScope, error) {
	b, ok := builders[cd.Type]
	if !ok {
		return nil, nil, fmt.Errorf("unknown command type %q", cd.Type)
	}
	sel, err := ParseSelector(cd.Selector)
	if err != nil {
		return nil, nil, err
	}
	cmd, err := b(cd, sel)
	if err != nil {
		return nil, nil, err
	}
	var scope segment.CompoundScope
	if cd.Voice != "" {
		scope = append(scope, scopeOf(cd.Voice, cd.Stages))
	}
	for _, s := range cd.Scopes {
		scope = append(scope, scopeOf(s.Voice, s.Stages))
	}
	return cmd, scope, nil
}

// scopeOf converts a stage list: none means all stages, one a single stage,
// two a range.
func scopeOf(voice string, stages []int) segment.Scope {
	switch len(stages) {
	case 0:
		return segment.Stages(voice)
	case 1:
		return segment.NewScope(voice, stages[0], 0)
	}
	return segment.NewScope(voice, stages[0], stages[1])
}

// --- Builders ------------------------------------------------------------------

func buildRhythm(cd CommandDef, _ notation.Selector) (command.Command, error) {
	var maker rhythm.Maker
	switch cd.Maker {
	case "notes", "":
		value := notation.D(1, 8)
		if cd.Value != "" {
			d, err := notation.ParseDuration(cd.Value)
			if err != nil {
				return nil, err
			}
			value = d
		}
		m, err := rhythm.Notes(value)
		if err != nil {
			return nil, err
		}
		maker = m
	case "talea":
		m, err := rhythm.NewTalea(cd.Counts, cd.Denominator)
		if err != nil {
			return nil, err
		}
		maker = m
	case "rests":
		maker = rhythm.MultimeasureRests{}
	case "skips":
		maker = rhythm.Skips{}
	default:
		return nil, fmt.Errorf("unknown rhythm maker %q", cd.Maker)
	}
	rc, err := rhythm.New(maker, cd.Beam)
	if err != nil {
		return nil, err
	}
	rc.TieFirst, rc.TieLast = cd.TieFirst, cd.TieLast
	return rc, nil
}

func buildPitches(cd CommandDef, sel notation.Selector) (command.Command, error) {
	pc, err := command.NewPitchCommand(cd.Pitches, cd.Cyclic)
	if err != nil {
		return nil, err
	}
	pc.Persist, pc.Selector = cd.Persist, sel
	return pc, nil
}

func buildStaffPositions(cd CommandDef, sel notation.Selector) (command.Command, error) {
	sp, err := command.NewStaffPositionCommand(cd.Positions, cd.Exact)
	if err != nil {
		return nil, err
	}
	sp.Selector = sel
	return sp, nil
}

func buildInterpolation(cd CommandDef, sel notation.Selector) (command.Command, error) {
	ic, err := command.NewInterpolationCommand(cd.Start, cd.Stop)
	if err != nil {
		return nil, err
	}
	ic.Selector = sel
	return ic, nil
}

func buildBowContactPoints(cd CommandDef, sel notation.Selector) (command.Command, error) {
	bc, err := command.NewBowContactPointCommand(cd.Points)
	if err != nil {
		return nil, err
	}
	bc.Selector = sel
	return bc, nil
}

func buildHairpin(cd CommandDef, sel notation.Selector) (command.Command, error) {
	hc, err := command.NewHairpinCommand(cd.Descriptor)
	if err != nil {
		return nil, err
	}
	hc.Selector = sel
	return hc, nil
}

func buildTie(untie bool) Builder {
	return func(_ CommandDef, sel notation.Selector) (command.Command, error) {
		return &command.TieCommand{Untie: untie, Selector: sel}, nil
	}
}

func buildArticulations(cd CommandDef, sel notation.Selector) (command.Command, error) {
	ic, err := command.Articulations(cd.Names...)
	if err != nil {
		return nil, err
	}
	ic.Selector = sel
	return ic, nil
}

func buildDynamics(cd CommandDef, sel notation.Selector) (command.Command, error) {
	ic, err := command.Dynamics(cd.Names...)
	if err != nil {
		return nil, err
	}
	ic.Selector = sel
	return ic, nil
}

func buildMarkup(cd CommandDef, sel notation.Selector) (command.Command, error) {
	if len(cd.Markup) == 0 {
		return nil, command.ArgumentError{Command: "MarkupCommand", Issue: "no markup"}
	}
	ms := make([]markup.Markup, len(cd.Markup))
	for i, text := range cd.Markup {
		ms[i] = markup.Lookup(text)
	}
	ic := command.MarkupCommand(ms...)
	ic.Selector = sel
	return ic, nil
}

func buildClef(cd CommandDef, sel notation.Selector) (command.Command, error) {
	cc, err := command.NewClefCommand(cd.Clef)
	if err != nil {
		return nil, err
	}
	cc.Selector = sel
	return cc, nil
}

func buildInstrument(cd CommandDef, sel notation.Selector) (command.Command, error) {
	ic, err := command.NewInstrumentCommand(cd.Instrument)
	if err != nil {
		return nil, err
	}
	ic.Selector = sel
	return ic, nil
}

func buildRegister(cd CommandDef, sel notation.Selector) (command.Command, error) {
	return &command.RegisterCommand{Center: cd.Center, Selector: sel}, nil
}

func buildTranspose(cd CommandDef, sel notation.Selector) (command.Command, error) {
	return &command.TransposeCommand{Semitones: cd.Semitones, Selector: sel}, nil
}

func buildColor(cd CommandDef, sel notation.Selector) (command.Command, error) {
	if cd.Color == "" {
		return nil, command.ArgumentError{Command: "ColorCommand", Issue: "no color"}
	}
	return &command.ColorCommand{Color: cd.Color, Selector: sel}, nil
}

func buildOverride(cd CommandDef, sel notation.Selector) (command.Command, error) {
	oc, err := command.NewOverrideCommand(cd.Grob, cd.Property, cd.Setting)
	if err != nil {
		return nil, err
	}
	oc.Context, oc.Selector = cd.Context, sel
	return oc, nil
}

func buildNotehead(cd CommandDef, sel notation.Selector) (command.Command, error) {
	nc, err := command.NewNoteheadCommand(cd.Style)
	if err != nil {
		return nil, err
	}
	nc.Selector = sel
	return nc, nil
}

func buildFuse(_ CommandDef, sel notation.Selector) (command.Command, error) {
	return &command.FuseCommand{Selector: sel}, nil
}
