/*
Package scorekit builds scores segment by segment and writes them as
LilyPond source.

We stick to the following nomenclature:

▪︎ A "segment" is a contiguous part of a score, built in one run of a
segment maker. Segments are chained: each one continues with the clefs,
instruments, metronome mark, measure numbers and pitch counters at the end
of the segment before it.

▪︎ A "stage" is a group of consecutive measures of a segment. Commands are
scoped to a voice and a range of stages.

▪︎ A "logical tie" is a run of leaves tied together. A "pitched logical
tie" (PLT) is a logical tie of notes or chords; pitch commands treat it as
a single event.

▪︎ A "command" changes the music of a scope: rhythm commands create
leaves, all other commands modify them.

Package segment holds the segment maker; packages notation, command,
rhythm, template, markup and instrument provide its building blocks. This
package offers shortcuts for building segments from definition files.

# Links

LilyPond documentation:
https://lilypond.org/doc/

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package scorekit

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/scorekit/internal/segdef"
	"github.com/npillmayer/scorekit/segment"
)

// tracer writes to trace with key 'scorekit'
func tracer() tracing.Trace {
	return tracing.Select("scorekit")
}

// Build builds a segment from the text of a TOML definition. previous is
// the metadata of the segment to continue from, or nil.
func Build(definition string, previous *segment.Metadata) (*segment.Result, error) {
	def, err := segdef.Parse(definition)
	if err != nil {
		return nil, err
	}
	return build(def, previous)
}

// BuildFile builds a segment from a definition file.
func BuildFile(path string, previous *segment.Metadata) (*segment.Result, error) {
	def, err := segdef.Load(path)
	if err != nil {
		return nil, err
	}
	return build(def, previous)
}

func build(def *segdef.Definition, previous *segment.Metadata) (*segment.Result, error) {
	m, err := def.Maker(previous)
	if err != nil {
		return nil, err
	}
	return m.Run()
}

// Chain builds a sequence of segments from definition files, each one
// continuing from the one before.
func Chain(paths ...string) ([]*segment.Result, error) {
	results := make([]*segment.Result, 0, len(paths))
	var previous *segment.Metadata
	for _, path := range paths {
		res, err := BuildFile(path, previous)
		if err != nil {
			return results, fmt.Errorf("chain: %w", err)
		}
		tracer().Debugf("chain: segment %s ends before measure %d", res.Metadata.Segment, res.Metadata.NextMeasureNumber())
		results = append(results, res)
		previous = &res.Metadata
	}
	return results, nil
}
