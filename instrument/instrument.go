/*
Package instrument holds a small library of instruments with their ranges,
clefs and transpositions.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package instrument

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/scorekit/notation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Instrument describes a (possibly transposing) instrument.
type Instrument struct {
	Key          string // library key, e.g. "violin"
	Name         string // instrument name markup, e.g. "Violin"
	ShortName    string // short instrument name markup, e.g. "Vn."
	Range        notation.PitchRange
	AllowedClefs []notation.Clef
	// Transposition is the interval in semitones from sounding to written
	// pitch: a clarinet in B-flat sounds a major second lower than written,
	// so its transposition is +2.
	Transposition int
}

var titler = cases.Title(language.English)

// New creates an instrument. Name is derived from key if empty.
func New(key, name, shortName, pitchRange string, clefs ...notation.Clef) (Instrument, error) {
	r, err := notation.ParsePitchRange(pitchRange)
	if err != nil {
		return Instrument{}, err
	}
	if name == "" {
		name = titler.String(key)
	}
	if len(clefs) == 0 {
		clefs = []notation.Clef{notation.Treble}
	}
	return Instrument{
		Key:          key,
		Name:         name,
		ShortName:    shortName,
		Range:        r,
		AllowedClefs: clefs,
	}, nil
}

// DefaultClef is the first of the allowed clefs.
func (i Instrument) DefaultClef() notation.Clef {
	if len(i.AllowedClefs) == 0 {
		return notation.Treble
	}
	return i.AllowedClefs[0]
}

// AllowsClef checks a clef against the allowed clefs.
func (i Instrument) AllowsClef(c notation.Clef) bool {
	for _, a := range i.AllowedClefs {
		if a == c {
			return true
		}
	}
	return false
}

// InRange checks a sounding pitch against the instrument's range.
func (i Instrument) InRange(p notation.NamedPitch) bool {
	return i.Range.Contains(p)
}

// Change returns the indicator that switches a staff to this instrument.
func (i Instrument) Change() notation.InstrumentChange {
	return notation.InstrumentChange{
		Key:       i.Key,
		Name:      i.Name,
		ShortName: i.ShortName,
		Context:   "Staff",
	}
}

func (i Instrument) String() string {
	return fmt.Sprintf("%s %s", i.Name, i.Range)
}

func mustNew(key, name, short, rng string, transposition int, clefs ...notation.Clef) Instrument {
	i, err := New(key, name, short, rng, clefs...)
	if err != nil {
		panic(fmt.Sprintf("instrument library: %v", err))
	}
	i.Transposition = transposition
	return i
}

var library = map[string]Instrument{
	"violin":     mustNew("violin", "", "Vn.", "g c''''", 0, notation.Treble),
	"viola":      mustNew("viola", "", "Va.", "c a'''", 0, notation.Alto, notation.Treble),
	"cello":      mustNew("cello", "", "Vc.", "c, a''", 0, notation.Bass, notation.Tenor, notation.Treble),
	"contrabass": mustNew("contrabass", "", "Cb.", "c,, g'", 12, notation.Bass, notation.Tenor, notation.Treble),
	"flute":      mustNew("flute", "", "Fl.", "c' c''''", 0, notation.Treble),
	"clarinet":   mustNew("clarinet", "Clarinet in B-flat", "Cl.", "d bf'''", 2, notation.Treble),
}

// Lookup finds an instrument by key.
func Lookup(key string) (Instrument, bool) {
	i, ok := library[strings.ToLower(strings.TrimSpace(key))]
	return i, ok
}

// Keys lists the library's instrument keys in order.
func Keys() []string {
	keys := make([]string, 0, len(library))
	for k := range library {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
