/*
Package command holds the commands that mutate the music of a segment.

A command is applied to the leaves selected by its scope. Most commands
narrow this selection further with a selector, walk the resulting logical
ties and rewrite them in place: pitches, staff positions, ties, hairpins,
articulations, markup, clefs and instruments.

Commands are validated when they are constructed; New… constructors return
an ArgumentError for arguments that cannot work. Failures while applying a
command are reported as errors, never as panics.

Commands may record state to be carried into the next segment (e.g., the
number of pitches consumed from a cyclic pitch list). State is kept in a
State value owned by the segment maker.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package command

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/scorekit/notation"
)

// tracer writes to trace with key 'scorekit.command'
func tracer() tracing.Trace {
	return tracing.Select("scorekit.command")
}

// Command mutates a selection of leaves.
type Command interface {
	fmt.Stringer
	Apply(*State, notation.Selection) error
}

// Persisted is the state a command carries into the next segment.
type Persisted struct {
	PitchesConsumed int `yaml:"pitches_consumed" cbor:"1,keyasint" json:"pitches_consumed"`
}

// State is shared by all commands of a segment run.
type State struct {
	// Previous holds the persisted state of the previous segment, keyed by
	// the persistence name of a command.
	Previous map[string]Persisted
	// DefaultClefs holds the clef in effect at the start of the segment,
	// keyed by staff name.
	DefaultClefs map[string]notation.Clef
	persist      map[string]Persisted
	mutated      bool
}

// NewState creates a state for a segment run.
func NewState(previous map[string]Persisted) *State {
	if previous == nil {
		previous = map[string]Persisted{}
	}
	return &State{
		Previous:     previous,
		DefaultClefs: map[string]notation.Clef{},
		persist:      map[string]Persisted{},
	}
}

// Recall returns what a command persisted under name in the previous segment.
func (s *State) Recall(name string) (Persisted, bool) {
	p, ok := s.Previous[name]
	return p, ok
}

// Remember records state to persist under name.
func (s *State) Remember(name string, p Persisted) {
	s.persist[name] = p
}

// Persist returns everything remembered during this run.
func (s *State) Persist() map[string]Persisted {
	out := make(map[string]Persisted, len(s.persist))
	for k, v := range s.persist {
		out[k] = v
	}
	return out
}

// MarkMutated signals that the structure of the score (its leaves) changed.
func (s *State) MarkMutated() { s.mutated = true }

// Mutated reports and resets the mutation flag.
func (s *State) Mutated() bool {
	m := s.mutated
	s.mutated = false
	return m
}

// EffectiveClef returns the clef in effect at leaf l: the closest clef
// attached at or before l in its voice, else the staff's default clef,
// else treble.
func (s *State) EffectiveClef(l *notation.Leaf) notation.Clef {
	for x := l; x != nil; x = x.Prev() {
		if c, ok := notation.IndicatorOf[notation.Clef](x); ok {
			return c
		}
	}
	if s != nil {
		if staff := l.Staff(); staff != nil {
			if c, ok := s.DefaultClefs[staff.Name]; ok {
				return c
			}
		}
	}
	return notation.Treble
}

// narrow applies an optional selector and fails for empty results.
func narrow(cmd Command, sel notation.Selector, s notation.Selection) (notation.Selection, error) {
	if sel != nil {
		s = sel(s)
	}
	if s.IsEmpty() {
		return s, fmt.Errorf("%s: %w", cmd, ErrEmptySelection)
	}
	return s, nil
}

// attachExclusive attaches ind after removing indicators of the same type.
func attachExclusive[T notation.Indicator](l *notation.Leaf, ind T) {
	l.Detach(func(x notation.Indicator) bool {
		_, ok := x.(T)
		return ok
	})
	l.Attach(ind)
}
