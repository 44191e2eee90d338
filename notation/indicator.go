package notation

import (
	"fmt"
	"strings"
)

// Site tells where an indicator is formatted relative to the leaf body.
type Site uint8

const (
	// SiteBefore indicators are written on lines preceding the leaf body.
	SiteBefore Site = iota
	// SiteAfter indicators are written on lines following the leaf body.
	SiteAfter
)

// Indicator is anything attachable to a leaf. Lilypond may return more than
// one line, separated by newlines.
type Indicator interface {
	Site() Site
	Lilypond() string
}

// exclusiveKind returns a non-empty key for indicators of which a leaf may
// carry at most one.
func exclusiveKind(ind Indicator) string {
	switch ind.(type) {
	case Clef:
		return "clef"
	case TimeSignature:
		return "time signature"
	case MetronomeMark:
		return "metronome mark"
	case InstrumentChange:
		return "instrument"
	case Dynamic:
		return "dynamic"
	case BowContactPoint:
		return "bow contact point"
	}
	return ""
}

// Articulation is a LilyPond articulation like "accent" or "upbow".
type Articulation struct {
	Name string
}

// Frequently used articulations.
var (
	Accent   = Articulation{"accent"}
	Staccato = Articulation{"staccato"}
	Tenuto   = Articulation{"tenuto"}
	Marcato  = Articulation{"marcato"}
	Fermata  = Articulation{"fermata"}
	UpBow    = Articulation{"upbow"}
	DownBow  = Articulation{"downbow"}
)

func (a Articulation) Site() Site { return SiteAfter }

func (a Articulation) Lilypond() string { return `-\` + a.Name }

// Dynamic is a dynamic mark. Scheme, if set, is a complete LilyPond
// expression producing a custom dynamic script and replaces the plain name.
type Dynamic struct {
	Name   string
	Scheme string
}

func (d Dynamic) Site() Site { return SiteAfter }

func (d Dynamic) Lilypond() string {
	if d.Scheme != "" {
		return d.Scheme
	}
	return `\` + d.Name
}

// HairpinStart starts a crescendo or decrescendo. Shape is one of
// "<", ">", "o<", ">o".
type HairpinStart struct {
	Shape string
}

func (h HairpinStart) Site() Site { return SiteAfter }

func (h HairpinStart) Lilypond() string {
	var cmd string
	if strings.Contains(h.Shape, "<") {
		cmd = `\<`
	} else {
		cmd = `\>`
	}
	if strings.Contains(h.Shape, "o") {
		return "- \\tweak circled-tip ##t\n" + cmd
	}
	return cmd
}

// HairpinStop ends a hairpin without a dynamic.
type HairpinStop struct{}

func (HairpinStop) Site() Site       { return SiteAfter }
func (HairpinStop) Lilypond() string { return `\!` }

// BeamStart and BeamStop delimit a manual beam.
type BeamStart struct{}
type BeamStop struct{}

func (BeamStart) Site() Site       { return SiteAfter }
func (BeamStart) Lilypond() string { return "[" }
func (BeamStop) Site() Site        { return SiteAfter }
func (BeamStop) Lilypond() string  { return "]" }

// InstrumentChange sets the instrument of a staff. Key identifies the
// instrument in an instrument library.
type InstrumentChange struct {
	Key       string
	Name      string
	ShortName string
	Context   string
	Hidden    bool
}

func (i InstrumentChange) Site() Site { return SiteBefore }

func (i InstrumentChange) Lilypond() string {
	ctx := i.Context
	if ctx == "" {
		ctx = "Staff"
	}
	if i.Hidden {
		return fmt.Sprintf("%% instrument: %s", i.Key)
	}
	return fmt.Sprintf("\\set %s.instrumentName = \\markup { %s }\n\\set %s.shortInstrumentName = \\markup { %s }",
		ctx, escapeMarkup(i.Name), ctx, escapeMarkup(i.ShortName))
}

// BowContactPoint is a fractional bow position between frog (0) and tip (1)
// or fingerboard and bridge, shown as a stacked fraction above the staff.
type BowContactPoint struct {
	Num, Den int
}

// Ratio returns the contact point as an exact fraction.
func (b BowContactPoint) Ratio() Duration {
	return D(int64(b.Num), int64(b.Den))
}

func (b BowContactPoint) Site() Site { return SiteAfter }

func (b BowContactPoint) Lilypond() string {
	return fmt.Sprintf(`^ \markup { \fraction %d %d }`, b.Num, b.Den)
}

// Color colors the note head of a leaf.
type Color struct {
	Name string
}

func (c Color) Site() Site { return SiteBefore }

func (c Color) Lilypond() string {
	return fmt.Sprintf("\\once \\override Accidental.color = #%s\n\\once \\override NoteHead.color = #%s", c.Name, c.Name)
}

// Literal is verbatim LilyPond code.
type Literal struct {
	Text string
	At   Site
}

func (l Literal) Site() Site       { return l.At }
func (l Literal) Lilypond() string { return l.Text }

// RehearsalMark is a boxed letter or text at the start of a segment.
type RehearsalMark struct {
	Text string
}

func (r RehearsalMark) Site() Site { return SiteBefore }

func (r RehearsalMark) Lilypond() string {
	return fmt.Sprintf(`\mark \markup { \bold { %s } }`, escapeMarkup(r.Text))
}

// BarLine is a bar line with a LilyPond abbreviation like "|.".
type BarLine struct {
	Abbreviation string
}

func (b BarLine) Site() Site { return SiteAfter }

func (b BarLine) Lilypond() string {
	return fmt.Sprintf(`\bar "%s"`, b.Abbreviation)
}

// SpacingSection starts a new proportional spacing section.
type SpacingSection struct {
	Duration Duration
}

func (s SpacingSection) Site() Site { return SiteBefore }

func (s SpacingSection) Lilypond() string {
	return fmt.Sprintf("\\newSpacingSection\n\\set Score.proportionalNotationDuration = #(ly:make-moment %d %d)",
		s.Duration.Num(), s.Duration.Den())
}

// BarNumber sets the current bar number.
type BarNumber struct {
	Number int
}

func (b BarNumber) Site() Site { return SiteBefore }

func (b BarNumber) Lilypond() string {
	return fmt.Sprintf(`\set Score.currentBarNumber = #%d`, b.Number)
}

func escapeMarkup(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \\{}#\"") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}
