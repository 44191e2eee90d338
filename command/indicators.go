package command

import (
	"fmt"
	"strings"

	"github.com/npillmayer/scorekit/instrument"
	"github.com/npillmayer/scorekit/markup"
	"github.com/npillmayer/scorekit/notation"
)

// IndicatorCommand attaches indicators to the heads of pitched logical
// ties, cycling through Indicators. With FirstOnly set, all indicators go to
// the first head.
type IndicatorCommand struct {
	Name       string
	Indicators []notation.Indicator
	FirstOnly  bool
	Selector   notation.Selector
}

// Articulations creates a command attaching articulations like "accent" or
// "staccato" cyclically.
func Articulations(names ...string) (*IndicatorCommand, error) {
	if len(names) == 0 {
		return nil, argError("Articulations", "no articulations")
	}
	inds := make([]notation.Indicator, len(names))
	for i, n := range names {
		n = strings.TrimPrefix(strings.TrimSpace(n), `\`)
		if n == "" || strings.ContainsAny(n, " \t{}") {
			return nil, argError("Articulations", "invalid articulation %q", names[i])
		}
		inds[i] = notation.Articulation{Name: n}
	}
	return &IndicatorCommand{Name: "Articulations", Indicators: inds}, nil
}

// Dynamics creates a command attaching dynamics like "p", "f ancora" or
// `"ff"` cyclically.
func Dynamics(specs ...string) (*IndicatorCommand, error) {
	if len(specs) == 0 {
		return nil, argError("Dynamics", "no dynamics")
	}
	inds := make([]notation.Indicator, len(specs))
	for i, s := range specs {
		d, err := markup.ParseDynamic(s)
		if err != nil {
			return nil, argError("Dynamics", "%v", err)
		}
		inds[i] = d
	}
	return &IndicatorCommand{Name: "Dynamics", Indicators: inds}, nil
}

// MarkupCommand attaches markup to the first pitched logical tie.
func MarkupCommand(ms ...markup.Markup) *IndicatorCommand {
	inds := make([]notation.Indicator, len(ms))
	for i, m := range ms {
		inds[i] = m
	}
	return &IndicatorCommand{Name: "Markup", Indicators: inds, FirstOnly: true}
}

func (c *IndicatorCommand) String() string {
	parts := make([]string, len(c.Indicators))
	for i, ind := range c.Indicators {
		parts[i] = strings.ReplaceAll(ind.Lilypond(), "\n", " ")
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, ", "))
}

// Apply implements Command.
func (c *IndicatorCommand) Apply(state *State, sel notation.Selection) error {
	if len(c.Indicators) == 0 {
		return argError(c.Name, "no indicators")
	}
	sel, err := narrow(c, c.Selector, sel)
	if err != nil {
		return err
	}
	plts := sel.PLTs()
	if len(plts) == 0 {
		return fmt.Errorf("%s: no pitched logical ties: %w", c, ErrEmptySelection)
	}
	if c.FirstOnly {
		for _, ind := range c.Indicators {
			attach(plts[0].Head(), ind)
		}
		return nil
	}
	for i, plt := range plts {
		attach(plt.Head(), c.Indicators[i%len(c.Indicators)])
	}
	return nil
}

func attach(l *notation.Leaf, ind notation.Indicator) {
	if d, ok := ind.(notation.Dynamic); ok {
		attachExclusive(l, d)
		return
	}
	l.Attach(ind)
}

// --- Clefs and instruments -------------------------------------------------

// ClefCommand attaches a clef to the first leaf of the selection.
type ClefCommand struct {
	Clef     notation.Clef
	Selector notation.Selector
}

// NewClefCommand checks the clef name.
func NewClefCommand(name string) (*ClefCommand, error) {
	clef, err := notation.ParseClef(name)
	if err != nil {
		return nil, argError("ClefCommand", "%v", err)
	}
	return &ClefCommand{Clef: clef}, nil
}

func (c *ClefCommand) String() string { return fmt.Sprintf("ClefCommand(%s)", c.Clef) }

// Apply implements Command.
func (c *ClefCommand) Apply(state *State, sel notation.Selection) error {
	sel, err := narrow(c, c.Selector, sel)
	if err != nil {
		return err
	}
	attachExclusive(sel.Leaves()[0], c.Clef)
	return nil
}

// InstrumentCommand attaches an instrument change to the first leaf of the
// selection.
type InstrumentCommand struct {
	Instrument instrument.Instrument
	Selector   notation.Selector
}

// NewInstrumentCommand looks up an instrument in the instrument library.
func NewInstrumentCommand(key string) (*InstrumentCommand, error) {
	inst, ok := instrument.Lookup(key)
	if !ok {
		return nil, argError("InstrumentCommand", "unknown instrument %q", key)
	}
	return &InstrumentCommand{Instrument: inst}, nil
}

func (c *InstrumentCommand) String() string {
	return fmt.Sprintf("InstrumentCommand(%s)", c.Instrument.Key)
}

// Apply implements Command.
func (c *InstrumentCommand) Apply(state *State, sel notation.Selection) error {
	sel, err := narrow(c, c.Selector, sel)
	if err != nil {
		return err
	}
	attachExclusive(sel.Leaves()[0], c.Instrument.Change())
	return nil
}

// --- Overrides ---------------------------------------------------------------

// ColorCommand colors the note heads of all pitched leaves.
type ColorCommand struct {
	Color    string
	Selector notation.Selector
}

func (c *ColorCommand) String() string { return fmt.Sprintf("ColorCommand(%s)", c.Color) }

// Apply implements Command.
func (c *ColorCommand) Apply(state *State, sel notation.Selection) error {
	if c.Color == "" {
		return argError("ColorCommand", "no color")
	}
	sel, err := narrow(c, c.Selector, sel)
	if err != nil {
		return err
	}
	for _, l := range sel.Pitched().Leaves() {
		attachExclusive(l, notation.Color{Name: c.Color})
	}
	return nil
}

// OverrideCommand overrides a grob property from the first to the last
// leaf of the selection, e.g. Grob "Beam", Property "positions",
// Value "#'(3 . 3)".
type OverrideCommand struct {
	Context  string
	Grob     string
	Property string
	Value    string
	Selector notation.Selector
}

// NewOverrideCommand checks its arguments.
func NewOverrideCommand(grob, property, value string) (*OverrideCommand, error) {
	if grob == "" || property == "" || value == "" {
		return nil, argError("OverrideCommand", "grob, property and value are required")
	}
	return &OverrideCommand{Grob: grob, Property: property, Value: value}, nil
}

func (c *OverrideCommand) target() string {
	if c.Context != "" {
		return c.Context + "." + c.Grob + "." + c.Property
	}
	return c.Grob + "." + c.Property
}

func (c *OverrideCommand) String() string {
	return fmt.Sprintf("OverrideCommand(%s = %s)", c.target(), c.Value)
}

// Apply implements Command.
func (c *OverrideCommand) Apply(state *State, sel notation.Selection) error {
	sel, err := narrow(c, c.Selector, sel)
	if err != nil {
		return err
	}
	leaves := sel.Leaves()
	leaves[0].Attach(notation.Literal{
		Text: fmt.Sprintf(`\override %s = %s`, c.target(), c.Value),
		At:   notation.SiteBefore,
	})
	leaves[len(leaves)-1].Attach(notation.Literal{
		Text: fmt.Sprintf(`\revert %s`, c.target()),
		At:   notation.SiteAfter,
	})
	return nil
}

var noteheadStyles = map[string]bool{
	"default": true, "harmonic": true, "harmonic-black": true, "harmonic-mixed": true,
	"triangle": true, "cross": true, "xcircle": true, "slash": true, "diamond": true,
}

// NoteheadCommand sets the note head style of every pitched leaf.
type NoteheadCommand struct {
	Style    string
	Selector notation.Selector
}

// NewNoteheadCommand checks the note head style.
func NewNoteheadCommand(style string) (*NoteheadCommand, error) {
	if !noteheadStyles[style] {
		return nil, argError("NoteheadCommand", "unknown note head style %q", style)
	}
	return &NoteheadCommand{Style: style}, nil
}

func (c *NoteheadCommand) String() string { return fmt.Sprintf("NoteheadCommand(%s)", c.Style) }

// Apply implements Command.
func (c *NoteheadCommand) Apply(state *State, sel notation.Selection) error {
	sel, err := narrow(c, c.Selector, sel)
	if err != nil {
		return err
	}
	for _, l := range sel.Pitched().Leaves() {
		l.Attach(notation.Literal{
			Text: fmt.Sprintf(`\once \override NoteHead.style = #'%s`, c.Style),
			At:   notation.SiteBefore,
		})
	}
	return nil
}

// --- Ties --------------------------------------------------------------------

// TieCommand ties adjacent pitched leaves of the selection together, or
// removes all ties from the selection if Untie is set. Tied runs become
// logical ties, so they take the pitches of their first leaf.
type TieCommand struct {
	Untie    bool
	Selector notation.Selector
}

func (c *TieCommand) String() string {
	if c.Untie {
		return "UntieCommand()"
	}
	return "TieCommand()"
}

// Apply implements Command.
func (c *TieCommand) Apply(state *State, sel notation.Selection) error {
	sel, err := narrow(c, c.Selector, sel)
	if err != nil {
		return err
	}
	leaves := sel.Leaves()
	if c.Untie {
		for _, l := range leaves {
			l.Tied = false
		}
		return nil
	}
	var run []*notation.Leaf
	flush := func() {
		if len(run) > 1 {
			lt := &notation.LogicalTie{Leaves: run}
			lt.SetPitches(run[0].Pitches)
		}
		run = nil
	}
	for i, l := range leaves {
		if !l.IsPitched() {
			flush()
			continue
		}
		run = append(run, l)
		if i+1 < len(leaves) && leaves[i+1].IsPitched() && l.Next() == leaves[i+1] {
			l.Tied = true
			continue
		}
		flush()
	}
	return nil
}
