/*
Package notation is an in-memory object model for typeset music.

A score is a tree of containers (score, staff groups, staves, voices) with
leaves at the bottom. Leaves come in a closed set of kinds: notes, chords,
rests, multi-measure rests and skips. Indicators (articulations, dynamics,
clefs, markup, …) are attached to leaves and rendered in LilyPond syntax
either before or after the leaf body.

Package notation does not typeset anything. It produces LilyPond source text
and leaves engraving to LilyPond.

▪︎ Durations are exact rationals; there is no floating point anywhere in the
time domain.

▪︎ Pitches are named (step, alteration, octave), so that staff positions are
well defined. Pitch number 0 is middle C, written c'.

▪︎ Logical ties are runs of tied leaves. The head of a logical tie decides
the pitch class of all of its members.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package notation

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'scorekit.notation'
func tracer() tracing.Trace {
	return tracing.Select("scorekit.notation")
}
