/*
Package rhythm makes the rhythmic skeleton of a voice.

A rhythm maker fills a list of divisions (usually the durations of the
measures a command is scoped to) with leaves. The leaves of notes are
written as middle C and flagged as not yet pitched; pitch commands replace
them later.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package rhythm

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/scorekit/command"
	"github.com/npillmayer/scorekit/notation"
)

// tracer writes to trace with key 'scorekit.rhythm'
func tracer() tracing.Trace {
	return tracing.Select("scorekit.rhythm")
}

// Maker fills divisions with leaves. The leaves made for division i must
// sum up to divisions[i] exactly.
type Maker interface {
	fmt.Stringer
	Make(divisions []notation.Duration) ([][]*notation.Leaf, error)
}

// Command wraps a rhythm maker. It is the only kind of command which
// creates leaves; the segment maker calls Make for the measures a rhythm
// command is scoped to.
type Command struct {
	Maker    Maker
	Beam     bool // beam each division with two or more beamable leaves
	TieFirst bool // tie the first leaf to the preceding leaf of the voice
	TieLast  bool // tie the last leaf to the following leaf of the voice
}

var _ command.Command = (*Command)(nil)

// New creates a rhythm command.
func New(maker Maker, beam bool) (*Command, error) {
	if maker == nil {
		return nil, command.ArgumentError{Command: "RhythmCommand", Issue: "no rhythm maker"}
	}
	return &Command{Maker: maker, Beam: beam}, nil
}

func (c *Command) String() string {
	var opts []string
	if c.Beam {
		opts = append(opts, "beam")
	}
	if c.TieFirst {
		opts = append(opts, "tie first")
	}
	if c.TieLast {
		opts = append(opts, "tie last")
	}
	if len(opts) == 0 {
		return fmt.Sprintf("RhythmCommand(%s)", c.Maker)
	}
	return fmt.Sprintf("RhythmCommand(%s, %s)", c.Maker, strings.Join(opts, ", "))
}

// Make creates the leaves for a list of divisions.
func (c *Command) Make(divisions []notation.Duration) ([]*notation.Leaf, error) {
	if len(divisions) == 0 {
		return nil, nil
	}
	groups, err := c.Maker.Make(divisions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	if len(groups) != len(divisions) {
		return nil, fmt.Errorf("%s: made %d divisions instead of %d", c, len(groups), len(divisions))
	}
	var leaves []*notation.Leaf
	for i, g := range groups {
		if d := notation.Select(g).Duration(); !d.Equal(divisions[i]) {
			return nil, fmt.Errorf("%s: division %d has duration %s instead of %s", c, i, d, divisions[i])
		}
		if c.Beam {
			beam(g)
		}
		leaves = append(leaves, g...)
	}
	if len(leaves) > 0 {
		if c.TieFirst {
			leaves[0].SetFlag(notation.FlagTieToMe)
		}
		if c.TieLast {
			leaves[len(leaves)-1].SetFlag(notation.FlagTieFromMe)
		}
	}
	tracer().Debugf("%s: made %d leaves for %d divisions", c, len(leaves), len(divisions))
	return leaves, nil
}

// Apply re-rhythms a selection of adjacent leaves in place, treating the
// selection as one division.
func (c *Command) Apply(state *command.State, sel notation.Selection) error {
	leaves := sel.Leaves()
	if len(leaves) == 0 {
		return fmt.Errorf("%s: %w", c, command.ErrEmptySelection)
	}
	parent := leaves[0].Parent()
	start := parent.Index(leaves[0])
	for i, l := range leaves {
		if l.Parent() != parent || parent.Index(l) != start+i {
			return command.ArgumentError{Command: c.String(), Issue: "selection is not contiguous"}
		}
	}
	made, err := c.Make([]notation.Duration{sel.Duration()})
	if err != nil {
		return err
	}
	comps := make([]notation.Component, len(made))
	for i, l := range made {
		comps[i] = l
	}
	parent.Replace(start, start+len(leaves), comps...)
	state.MarkMutated()
	return nil
}

func beam(group []*notation.Leaf) {
	if len(group) < 2 {
		return
	}
	for _, l := range group {
		if !l.Written.Beamable() || l.Kind == notation.MultiMeasureRestLeaf || l.Kind == notation.SkipLeaf {
			return
		}
	}
	first, last := group[0], group[len(group)-1]
	if !first.IsPitched() || !last.IsPitched() {
		return
	}
	first.Attach(notation.BeamStart{})
	last.Attach(notation.BeamStop{})
}

func placeholder(d notation.Duration) *notation.Leaf {
	l := notation.NewNote(notation.MiddleC, d)
	l.SetFlag(notation.FlagNotYetPitched)
	return l
}

// --- Makers ------------------------------------------------------------------

// NoteRhythm fills each division with notes of an even value; a remainder
// shorter than the value is filled with shorter assignable notes.
type NoteRhythm struct {
	Value notation.Duration
}

// Notes creates an even note rhythm.
func Notes(value notation.Duration) (NoteRhythm, error) {
	if value.IsZero() || value.Less(notation.Duration{}) || !value.IsAssignable() {
		return NoteRhythm{}, command.ArgumentError{Command: "NoteRhythm", Issue: fmt.Sprintf("note value %s is not assignable", value)}
	}
	return NoteRhythm{Value: value}, nil
}

func (r NoteRhythm) String() string { return "notes " + r.Value.String() }

// Make implements Maker.
func (r NoteRhythm) Make(divisions []notation.Duration) ([][]*notation.Leaf, error) {
	if r.Value.IsZero() {
		return nil, fmt.Errorf("zero note value")
	}
	groups := make([][]*notation.Leaf, len(divisions))
	for i, d := range divisions {
		rest := d
		for !rest.Less(r.Value) {
			groups[i] = append(groups[i], placeholder(r.Value))
			rest = rest.Sub(r.Value)
		}
		if !rest.IsZero() {
			for _, p := range rest.Partition() {
				groups[i] = append(groups[i], placeholder(p))
			}
		}
	}
	return groups, nil
}

// Talea cycles through counts of a unit 1/Denominator. Negative counts are
// rests. Notes crossing a division boundary are split and tied; counts
// whose duration is not assignable are split into tied assignable notes.
type Talea struct {
	Counts      []int
	Denominator int64
}

// NewTalea checks counts and denominator.
func NewTalea(counts []int, denominator int64) (Talea, error) {
	if len(counts) == 0 || denominator <= 0 {
		return Talea{}, command.ArgumentError{Command: "Talea", Issue: "need counts and a positive denominator"}
	}
	if denominator&(denominator-1) != 0 {
		return Talea{}, command.ArgumentError{Command: "Talea", Issue: fmt.Sprintf("denominator %d is not a power of two", denominator)}
	}
	for _, c := range counts {
		if c == 0 {
			return Talea{}, command.ArgumentError{Command: "Talea", Issue: "zero count"}
		}
	}
	return Talea{Counts: counts, Denominator: denominator}, nil
}

func (t Talea) String() string {
	return fmt.Sprintf("talea %v/%d", t.Counts, t.Denominator)
}

// Make implements Maker.
func (t Talea) Make(divisions []notation.Duration) ([][]*notation.Leaf, error) {
	if len(t.Counts) == 0 || t.Denominator <= 0 {
		return nil, fmt.Errorf("empty talea")
	}
	groups := make([][]*notation.Leaf, len(divisions))
	cursor := 0
	var pending notation.Duration
	pendingRest := false
	var prev *notation.Leaf // last note made, to tie continuations
	for i, d := range divisions {
		room := d
		for !room.IsZero() {
			if pending.IsZero() {
				c := t.Counts[cursor%len(t.Counts)]
				cursor++
				pendingRest = c < 0
				if c < 0 {
					c = -c
				}
				pending = notation.D(int64(c), t.Denominator)
				prev = nil
			}
			piece := pending
			if room.Less(piece) {
				piece = room
			}
			for _, p := range piece.Partition() {
				var l *notation.Leaf
				if pendingRest {
					l = notation.NewRest(p)
				} else {
					l = placeholder(p)
					if prev != nil {
						prev.Tied = true
					}
					prev = l
				}
				groups[i] = append(groups[i], l)
			}
			pending = pending.Sub(piece)
			room = room.Sub(piece)
		}
	}
	return groups, nil
}

// MultimeasureRests fills each division with a multi-measure rest.
type MultimeasureRests struct{}

func (MultimeasureRests) String() string { return "multi-measure rests" }

// Make implements Maker.
func (MultimeasureRests) Make(divisions []notation.Duration) ([][]*notation.Leaf, error) {
	groups := make([][]*notation.Leaf, len(divisions))
	for i, d := range divisions {
		groups[i] = []*notation.Leaf{notation.NewMultiMeasureRest(d)}
	}
	return groups, nil
}

// Skips fills each division with a skip.
type Skips struct{}

func (Skips) String() string { return "skips" }

// Make implements Maker.
func (Skips) Make(divisions []notation.Duration) ([][]*notation.Leaf, error) {
	groups := make([][]*notation.Leaf, len(divisions))
	for i, d := range divisions {
		groups[i] = []*notation.Leaf{notation.NewSkip(d)}
	}
	return groups, nil
}

// Divisions returns the durations of a list of time signatures.
func Divisions(ts []notation.TimeSignature) []notation.Duration {
	divs := make([]notation.Duration, len(ts))
	for i, t := range ts {
		divs[i] = t.Duration()
	}
	return divs
}
